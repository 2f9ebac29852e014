package producer

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Dataset is a dense feature matrix with binary labels.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []int
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Column returns a copy of one feature column
func (d *Dataset) Column(j int) []float64 {
	col := make([]float64, len(d.X))
	for i, row := range d.X {
		col[i] = row[j]
	}
	return col
}

// Synthesize draws samples rows of standard normal features and uniform
// binary labels. Features carry no signal, so a fitted model stays near
// chance accuracy.
func Synthesize(rng *rand.Rand, samples, features int) *Dataset {
	names := make([]string, features)
	for j := range names {
		names[j] = fmt.Sprintf("feature_%d", j)
	}

	X := make([][]float64, samples)
	Y := make([]int, samples)
	for i := range X {
		row := make([]float64, features)
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		X[i] = row
		Y[i] = rng.IntN(2)
	}

	return &Dataset{Features: names, X: X, Y: Y}
}

// Split shuffles rows and returns train and test partitions. The test
// partition holds ceil(n * testFraction) rows, at least one and at most n-1.
func (d *Dataset) Split(rng *rand.Rand, testFraction float64) (*Dataset, *Dataset) {
	n := d.Len()
	nTest := int(math.Ceil(float64(n) * testFraction))
	nTest = max(1, min(nTest, n-1))

	perm := rng.Perm(n)
	train := &Dataset{Features: d.Features}
	test := &Dataset{Features: d.Features}
	for k, i := range perm {
		target := train
		if k < nTest {
			target = test
		}
		target.X = append(target.X, d.X[i])
		target.Y = append(target.Y, d.Y[i])
	}

	return train, test
}

// Shift returns a copy with delta added to every feature value.
func (d *Dataset) Shift(delta float64) *Dataset {
	out := &Dataset{Features: d.Features, Y: d.Y, X: make([][]float64, len(d.X))}
	for i, row := range d.X {
		shifted := make([]float64, len(row))
		for j, v := range row {
			shifted[j] = v + delta
		}
		out.X[i] = shifted
	}
	return out
}
