package producer

import (
	"fmt"

	"github.com/driftdeck/driftdeck/internal/models"
)

// Evaluate computes binary classification metrics with class 1 as positive.
// Precision, recall and F1 are 0 when undefined.
func Evaluate(actual, predicted []int) (*models.ClassificationMetrics, error) {
	if len(actual) != len(predicted) {
		return nil, fmt.Errorf("length mismatch: %d labels, %d predictions", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return nil, fmt.Errorf("no samples to evaluate")
	}

	m := &models.ClassificationMetrics{}
	for i := range actual {
		a, p := actual[i], predicted[i]
		if a < 0 || a > 1 || p < 0 || p > 1 {
			return nil, fmt.Errorf("non-binary label at row %d", i)
		}
		m.Confusion[a][p]++
	}

	tn, fp := m.Confusion[0][0], m.Confusion[0][1]
	fn, tp := m.Confusion[1][0], m.Confusion[1][1]

	m.Accuracy = float64(tp+tn) / float64(len(actual))
	m.Precision = ratio(tp, tp+fp)
	m.Recall = ratio(tp, tp+fn)
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
