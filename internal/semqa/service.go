// Package semqa maps a free-form question onto the closest benchmark question
// through the embedding index and optionally has a critic model verify the
// retrieved answer.
package semqa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/vqabench/internal/embedding"
	"github.com/mwiater/vqabench/internal/extract"
	"github.com/mwiater/vqabench/internal/index"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providers"
)

const (
	DefaultTopK      = 5
	MaxTopK          = 10
	DefaultThreshold = 0.70

	DefaultDatasetName = "ViQuAD"
	DefaultSource      = "Dataset ViQuAD (Vietnamese Question Answering Dataset)"
)

// Confidence labels derived from the best cosine score.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question is empty")

// Options tune a single Ask call.
type Options struct {
	TopK      int
	Threshold float64
	Critique  bool
	// Rephrase asks the critic to restate the answer when Critique is off.
	Rephrase bool
}

// DefaultOptions returns topK 5 and threshold 0.70 with critique enabled.
func DefaultOptions() Options {
	return Options{TopK: DefaultTopK, Threshold: DefaultThreshold, Critique: true}
}

func (o Options) normalized() Options {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.TopK > MaxTopK {
		o.TopK = MaxTopK
	}
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Candidate is one retrieved benchmark question.
type Candidate struct {
	Rank     int     `json:"rank"`
	Index    int     `json:"index"`
	Score    float64 `json:"score"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
}

// Answer is the result of Ask.
type Answer struct {
	Question   string      `json:"question"`
	Candidates []Candidate `json:"candidates"`
	// Accepted is false when no candidate reaches the threshold.
	Accepted bool   `json:"accepted"`
	Baseline string `json:"baseline,omitempty"`
	// Critique is the critic output, or the baseline text when no critic ran.
	Critique      string `json:"critique,omitempty"`
	Final         string `json:"final,omitempty"`
	CritiqueUsed  bool   `json:"critique_used"`
	CritiqueError string `json:"critique_error,omitempty"`
	Confidence    string `json:"confidence,omitempty"`
}

// Best returns the top candidate, if any.
func (a Answer) Best() (Candidate, bool) {
	if len(a.Candidates) == 0 {
		return Candidate{}, false
	}
	return a.Candidates[0], true
}

// Service answers questions from a loaded index.
type Service struct {
	Index    *index.Index
	Embedder providers.Embedder
	// Critic is optional; without it answers fall back to the baseline.
	Critic      providers.ChatProvider
	CriticModel string
	Temperature float64
	DatasetName string
	Source      string
}

// ConfidenceLabel maps a cosine score to high (>= 0.85), medium (>= 0.75) or low.
func ConfidenceLabel(score float64) string {
	switch {
	case score >= 0.85:
		return ConfidenceHigh
	case score >= 0.75:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Ask embeds question, retrieves the closest benchmark questions and builds
// the answer. Critic failures are recorded on the Answer, not returned.
func (s *Service) Ask(ctx context.Context, question string, opts Options) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if s.Index == nil || s.Embedder == nil {
		return Answer{}, fmt.Errorf("semantic qa service is not initialised")
	}
	opts = opts.normalized()

	vec, err := s.Embedder.Embed(ctx, question)
	if err != nil {
		return Answer{}, fmt.Errorf("embed question: %w", err)
	}
	hits, err := s.Index.Query(embedding.Normalize(vec), opts.TopK)
	if err != nil {
		return Answer{}, err
	}

	ans := Answer{Question: question, Candidates: make([]Candidate, len(hits))}
	for i, h := range hits {
		ans.Candidates[i] = Candidate{
			Rank:     i + 1,
			Index:    h.Index,
			Score:    h.Score,
			Question: s.Index.Question(h.Index),
			Answer:   s.Index.Answer(h.Index),
		}
	}

	best, ok := ans.Best()
	if !ok {
		return ans, nil
	}
	ans.Confidence = ConfidenceLabel(best.Score)
	if best.Score < opts.Threshold {
		logging.LogEvent("semqa: best score %.3f below threshold %.2f", best.Score, opts.Threshold)
		return ans, nil
	}
	ans.Accepted = true
	ans.Baseline = best.Answer
	ans.Critique = BaselineText(best.Answer)

	if s.Critic != nil && (opts.Critique || opts.Rephrase) {
		prompt := AnswerPrompt(question, best.Answer)
		if opts.Critique {
			prompt = ContextBlock(s.source(), best.Question, best.Score) +
				CritiquePrompt(s.datasetName(), question, best.Answer)
		}
		resp, err := s.Critic.Complete(ctx, providers.UserPrompt(s.CriticModel, prompt, s.Temperature))
		if err != nil {
			logging.LogWarn("semqa: critic failed, using baseline: %v", err)
			ans.CritiqueError = err.Error()
		} else {
			ans.Critique = resp.Content
			ans.CritiqueUsed = true
		}
	}
	ans.Final = extract.Final(ans.Critique)
	return ans, nil
}

func (s *Service) datasetName() string {
	if s.DatasetName == "" {
		return DefaultDatasetName
	}
	return s.DatasetName
}

func (s *Service) source() string {
	if s.Source == "" {
		return DefaultSource
	}
	return s.Source
}
