// Package report aggregates per-item benchmark results and renders the
// research summary for one dataset.
package report

import "time"

// Item is the outcome of one benchmark question under both strategies.
type Item struct {
	RunID               string  `json:"run_id,omitempty"`
	ID                  int     `json:"id"`
	Question            string  `json:"question"`
	GroundTruth         string  `json:"ground_truth"`
	BaselineAnswer      string  `json:"baseline_answer"`
	BaselineCorrect     bool    `json:"baseline_correct"`
	BaselineSimilarity  float64 `json:"baseline_similarity"`
	CritiqueAnswerFull  string  `json:"critique_answer_full"`
	CritiqueAnswerFinal string  `json:"critique_answer_final"`
	CritiqueCorrect     bool    `json:"critique_correct"`
	CritiqueSimilarity  float64 `json:"critique_similarity"`
}

// Summary holds the aggregate metrics over a set of items. Accuracies and
// improvements are percentages.
type Summary struct {
	Total                  int     `json:"total"`
	BaselineCorrect        int     `json:"baseline_correct"`
	CritiqueCorrect        int     `json:"critique_correct"`
	BaselineAccuracy       float64 `json:"baseline_accuracy"`
	CritiqueAccuracy       float64 `json:"critique_accuracy"`
	BaselineMeanSimilarity float64 `json:"baseline_mean_similarity"`
	CritiqueMeanSimilarity float64 `json:"critique_mean_similarity"`
	AccuracyImprovement    float64 `json:"accuracy_improvement"`
	RelativeImprovement    float64 `json:"relative_improvement"`
	CritiqueBetter         int     `json:"critique_better"`
	BaselineBetter         int     `json:"baseline_better"`
	Equal                  int     `json:"equal"`
}

// Meta describes the run a summary belongs to.
type Meta struct {
	Dataset   string
	Model     string
	Provider  string
	RunID     string
	Threshold float64
	Started   time.Time
	Duration  time.Duration
}

// Summarize computes the aggregate metrics. An empty slice yields a zero Summary.
func Summarize(items []Item) Summary {
	var s Summary
	s.Total = len(items)
	if s.Total == 0 {
		return s
	}

	var blSim, scSim float64
	for _, it := range items {
		if it.BaselineCorrect {
			s.BaselineCorrect++
		}
		if it.CritiqueCorrect {
			s.CritiqueCorrect++
		}
		blSim += it.BaselineSimilarity
		scSim += it.CritiqueSimilarity
		switch {
		case it.CritiqueSimilarity > it.BaselineSimilarity:
			s.CritiqueBetter++
		case it.BaselineSimilarity > it.CritiqueSimilarity:
			s.BaselineBetter++
		default:
			s.Equal++
		}
	}

	n := float64(s.Total)
	s.BaselineAccuracy = float64(s.BaselineCorrect) / n * 100
	s.CritiqueAccuracy = float64(s.CritiqueCorrect) / n * 100
	s.BaselineMeanSimilarity = blSim / n
	s.CritiqueMeanSimilarity = scSim / n
	s.AccuracyImprovement = s.CritiqueAccuracy - s.BaselineAccuracy
	switch {
	case s.BaselineAccuracy > 0:
		s.RelativeImprovement = s.AccuracyImprovement / s.BaselineAccuracy * 100
	case s.AccuracyImprovement > 0:
		s.RelativeImprovement = 100
	}
	return s
}

// Share returns count as a percentage of the summary total.
func (s Summary) Share(count int) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(count) / float64(s.Total) * 100
}

// SimilarityDelta is the critique mean similarity minus the baseline mean.
func (s Summary) SimilarityDelta() float64 {
	return s.CritiqueMeanSimilarity - s.BaselineMeanSimilarity
}
