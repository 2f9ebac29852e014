package producer

import (
	"fmt"
	"math"
	"sort"

	"github.com/driftdeck/driftdeck/internal/models"
)

const (
	// DriftMethod names the per-feature test
	DriftMethod = "ks"

	// DriftPValueThreshold flags a feature as drifted below this p-value
	DriftPValueThreshold = 0.05

	// DatasetDriftShare flags the dataset once this share of features drifted
	DatasetDriftShare = 0.5
)

// KolmogorovSmirnov returns the two-sample KS statistic and its asymptotic
// p-value.
func KolmogorovSmirnov(a, b []float64) (float64, float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, fmt.Errorf("ks test needs two non-empty samples, got %d and %d", len(a), len(b))
	}

	x := append([]float64(nil), a...)
	y := append([]float64(nil), b...)
	sort.Float64s(x)
	sort.Float64s(y)

	n, m := float64(len(x)), float64(len(y))
	var i, j int
	d := 0.0
	for i < len(x) && j < len(y) {
		v := math.Min(x[i], y[j])
		for i < len(x) && x[i] == v {
			i++
		}
		for j < len(y) && y[j] == v {
			j++
		}
		d = math.Max(d, math.Abs(float64(i)/n-float64(j)/m))
	}

	en := math.Sqrt(n * m / (n + m))
	return d, ksProbability((en + 0.12 + 0.11/en) * d), nil
}

// ksProbability evaluates the Kolmogorov distribution tail Q(lambda).
func ksProbability(lambda float64) float64 {
	if lambda < 1e-3 {
		return 1
	}

	a2 := -2 * lambda * lambda
	fac := 2.0
	sum, prev := 0.0, 0.0
	for k := 1; k <= 100; k++ {
		term := fac * math.Exp(a2*float64(k*k))
		sum += term
		if math.Abs(term) <= 1e-3*prev || math.Abs(term) <= 1e-8*sum {
			return math.Max(0, math.Min(1, sum))
		}
		fac = -fac
		prev = math.Abs(term)
	}
	return 1
}

// DetectDrift compares every feature of current against reference.
func DetectDrift(reference, current *Dataset) (*models.DriftSummary, error) {
	if len(reference.Features) != len(current.Features) {
		return nil, fmt.Errorf("feature mismatch: %d reference, %d current", len(reference.Features), len(current.Features))
	}

	summary := &models.DriftSummary{
		Method:        DriftMethod,
		Threshold:     DriftPValueThreshold,
		TotalFeatures: len(reference.Features),
		Features:      make([]models.FeatureDrift, 0, len(reference.Features)),
	}

	for j, name := range reference.Features {
		stat, p, err := KolmogorovSmirnov(reference.Column(j), current.Column(j))
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", name, err)
		}

		drifted := p < DriftPValueThreshold
		if drifted {
			summary.DriftedFeatures++
		}
		summary.Features = append(summary.Features, models.FeatureDrift{
			Feature:   name,
			Statistic: stat,
			PValue:    p,
			Drifted:   drifted,
		})
	}

	if summary.TotalFeatures > 0 {
		summary.Share = float64(summary.DriftedFeatures) / float64(summary.TotalFeatures)
	}
	summary.DatasetDrift = summary.TotalFeatures > 0 && summary.Share >= DatasetDriftShare

	return summary, nil
}
