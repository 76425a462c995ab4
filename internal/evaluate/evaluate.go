// Package evaluate scores a predicted answer against a reference answer.
package evaluate

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultThreshold is the similarity at or above which an answer counts as correct.
const DefaultThreshold = 0.6

// Result is the outcome of comparing one prediction with its reference.
type Result struct {
	Correct    bool    `json:"is_correct"`
	Similarity float64 `json:"similarity"`
}

// Evaluate lower-cases and trims both strings, then compares them. Empty
// input on either side is never correct; exact matches score 1; everything
// else is scored with Ratio against threshold.
func Evaluate(predicted, groundTruth string, threshold float64) Result {
	p := normalize(predicted)
	g := normalize(groundTruth)

	if p == "" || g == "" {
		return Result{}
	}
	if p == g {
		return Result{Correct: true, Similarity: 1}
	}

	sim := Ratio(p, g)
	return Result{Correct: sim >= threshold, Similarity: sim}
}

func normalize(s string) string {
	return strings.TrimSpace(cases.Lower(language.Und).String(s))
}
