package producer

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sort"
)

// ForestModelName is recorded in report metadata.
const ForestModelName = "RandomStumpForest"

// Stump is a depth-one decision tree.
type Stump struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`

	// Left is predicted for values <= Threshold, Right otherwise
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Predict classifies one row
func (s Stump) Predict(row []float64) int {
	if row[s.Feature] <= s.Threshold {
		return s.Left
	}
	return s.Right
}

// Forest is a bagged ensemble of stumps voting by majority.
type Forest struct {
	Model    string   `json:"model"`
	Features []string `json:"features"`
	Trees    []Stump  `json:"trees"`
}

// FitForest trains nTrees stumps, each on a bootstrap sample and a random
// feature.
func FitForest(rng *rand.Rand, data *Dataset, nTrees int) (*Forest, error) {
	if data.Len() == 0 {
		return nil, errors.New("cannot fit on an empty dataset")
	}
	if len(data.Features) == 0 {
		return nil, errors.New("cannot fit without features")
	}

	forest := &Forest{
		Model:    ForestModelName,
		Features: data.Features,
		Trees:    make([]Stump, 0, nTrees),
	}

	n := data.Len()
	sample := make([]int, n)
	for t := 0; t < nTrees; t++ {
		for i := range sample {
			sample[i] = rng.IntN(n)
		}
		feature := rng.IntN(len(data.Features))
		forest.Trees = append(forest.Trees, fitStump(data, sample, feature))
	}

	return forest, nil
}

// fitStump picks the threshold on feature minimizing weighted Gini impurity.
func fitStump(data *Dataset, sample []int, feature int) Stump {
	idx := make([]int, len(sample))
	copy(idx, sample)
	sort.Slice(idx, func(a, b int) bool {
		return data.X[idx[a]][feature] < data.X[idx[b]][feature]
	})

	total := len(idx)
	totalPos := 0
	for _, i := range idx {
		totalPos += data.Y[i]
	}

	majority := 0
	if 2*totalPos > total {
		majority = 1
	}
	best := Stump{Feature: feature, Threshold: data.X[idx[total-1]][feature], Left: majority, Right: majority}
	bestScore := gini(totalPos, total)

	leftPos := 0
	for k := 0; k < total-1; k++ {
		leftPos += data.Y[idx[k]]
		v, next := data.X[idx[k]][feature], data.X[idx[k+1]][feature]
		if v == next {
			continue
		}

		leftN, rightN := k+1, total-k-1
		rightPos := totalPos - leftPos
		score := (float64(leftN)*gini(leftPos, leftN) + float64(rightN)*gini(rightPos, rightN)) / float64(total)
		if score < bestScore {
			bestScore = score
			best.Threshold = (v + next) / 2
			best.Left = majorityClass(leftPos, leftN)
			best.Right = majorityClass(rightPos, rightN)
		}
	}

	return best
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

func majorityClass(pos, n int) int {
	if 2*pos > n {
		return 1
	}
	return 0
}

// Predict classifies one row by majority vote; ties go to class 0.
func (f *Forest) Predict(row []float64) int {
	votes := 0
	for _, tree := range f.Trees {
		votes += tree.Predict(row)
	}
	return majorityClass(votes, len(f.Trees))
}

// PredictAll classifies every row of X
func (f *Forest) PredictAll(X [][]float64) []int {
	out := make([]int, len(X))
	for i, row := range X {
		out[i] = f.Predict(row)
	}
	return out
}

// MarshalArtifact encodes the forest for the model artifact file.
func (f *Forest) MarshalArtifact() ([]byte, error) {
	return json.Marshal(f)
}

// UnmarshalForest decodes a model artifact written by MarshalArtifact.
func UnmarshalForest(data []byte) (*Forest, error) {
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Trees) == 0 {
		return nil, errors.New("model artifact has no trees")
	}
	return &f, nil
}
