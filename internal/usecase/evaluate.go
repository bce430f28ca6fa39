package usecase

import (
	"FXCast/internal/domain/models"
)

// argmax returns the index of the largest probability. Ties resolve to
// the lowest index, matching the model service's own tie behavior.
func argmax(probs []float64) int {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best
}

// Evaluate scores predicted probability rows against actual labels and
// produces accuracy, a confusion matrix, and per-class precision/recall/F1.
func Evaluate(y []int, probs [][]float64) models.EvaluationReport {
	report := models.EvaluationReport{
		PerClass: make(map[string]models.ClassMetrics, len(models.ClassNames())),
	}
	if len(y) == 0 || len(y) != len(probs) {
		return report
	}

	correct := 0
	for i, actual := range y {
		predicted := argmax(probs[i])
		if actual < 0 || actual >= 3 || predicted >= 3 {
			continue
		}
		report.Confusion[actual][predicted]++
		if predicted == actual {
			correct++
		}
	}
	report.Accuracy = float64(correct) / float64(len(y))

	for ci, name := range models.ClassNames() {
		var tp, fp, fn, support int
		for actual := 0; actual < 3; actual++ {
			for predicted := 0; predicted < 3; predicted++ {
				n := report.Confusion[actual][predicted]
				switch {
				case actual == ci && predicted == ci:
					tp += n
				case actual != ci && predicted == ci:
					fp += n
				case actual == ci && predicted != ci:
					fn += n
				}
			}
			if actual == ci {
				for predicted := 0; predicted < 3; predicted++ {
					support += report.Confusion[actual][predicted]
				}
			}
		}

		m := models.ClassMetrics{Support: support}
		if tp+fp > 0 {
			m.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			m.Recall = float64(tp) / float64(tp+fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report.PerClass[name] = m
	}

	return report
}
