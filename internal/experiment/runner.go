// Package experiment runs the baseline versus self-critique comparison over
// benchmark files and writes the per-dataset reports.
package experiment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/vqabench/internal/dataset"
	"github.com/mwiater/vqabench/internal/evaluate"
	"github.com/mwiater/vqabench/internal/extract"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/metrics"
	"github.com/mwiater/vqabench/internal/providers"
	"github.com/mwiater/vqabench/internal/report"
	"github.com/mwiater/vqabench/internal/util"
)

// Strategy labels used in metrics.
const (
	StrategyBaseline = "baseline"
	StrategyCritique = "critique"
)

// Runner sends every benchmark question to one model under both strategies.
type Runner struct {
	Provider    providers.ChatProvider
	Model       string
	Temperature float64
	// Threshold is the evaluator cut-off; 0 selects evaluate.DefaultThreshold.
	Threshold float64
	// Progress receives one line per item. Nil disables progress output.
	Progress io.Writer
}

// Result is the outcome of one dataset run.
type Result struct {
	ID       string
	Dataset  string
	Items    []report.Item
	Summary  report.Summary
	Started  time.Time
	Duration time.Duration
}

// Meta returns the report metadata for r.
func (r Result) Meta(provider, model string, threshold float64) report.Meta {
	return report.Meta{
		Dataset:   r.Dataset,
		Model:     model,
		Provider:  provider,
		RunID:     r.ID,
		Threshold: threshold,
		Started:   r.Started,
		Duration:  r.Duration,
	}
}

// Run evaluates records strictly in order. A failed model call becomes an
// error marker answer and the item is still scored. When ctx is cancelled the
// items completed so far are returned together with the context error.
func (r *Runner) Run(ctx context.Context, name string, records []dataset.Record) (Result, error) {
	if r.Provider == nil {
		return Result{}, fmt.Errorf("runner has no provider")
	}
	threshold := r.Threshold
	if threshold == 0 {
		threshold = evaluate.DefaultThreshold
	}

	res := Result{
		ID:      uuid.NewString(),
		Dataset: name,
		Items:   make([]report.Item, 0, len(records)),
		Started: time.Now(),
	}
	logging.LogEvent("run %s: dataset=%s items=%d model=%s", res.ID, name, len(records), r.Model)

	var runErr error
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		item := r.runItem(ctx, rec, threshold)
		item.ID = i
		item.RunID = res.ID
		res.Items = append(res.Items, item)

		metrics.RecordItem(name, StrategyBaseline, item.BaselineCorrect, IsErrorMarker(item.BaselineAnswer))
		metrics.RecordItem(name, StrategyCritique, item.CritiqueCorrect, IsErrorMarker(item.CritiqueAnswerFull))

		if r.Progress != nil {
			fmt.Fprintf(r.Progress, "[%d/%d] %s - baseline=%t (%.2f) critique=%t (%.2f) %q\n",
				i+1, len(records), name,
				item.BaselineCorrect, item.BaselineSimilarity,
				item.CritiqueCorrect, item.CritiqueSimilarity,
				util.Preview(rec.Question, 60))
		}
	}

	res.Duration = time.Since(res.Started)
	res.Summary = report.Summarize(res.Items)
	if runErr != nil {
		logging.LogWarn("run %s interrupted after %d/%d items: %v", res.ID, len(res.Items), len(records), runErr)
	}
	return res, runErr
}

func (r *Runner) runItem(ctx context.Context, rec dataset.Record, threshold float64) report.Item {
	item := report.Item{Question: rec.Question, GroundTruth: rec.Answer}

	baseline, err := r.complete(ctx, BaselinePrompt(rec.Question))
	if err != nil {
		logging.LogWarn("baseline call failed: %v", err)
		baseline = ErrorMarker(err)
	}
	item.BaselineAnswer = baseline

	full, err := r.complete(ctx, CritiquePrompt(rec.Question))
	if err != nil {
		logging.LogWarn("critique call failed: %v", err)
		item.CritiqueAnswerFull = ErrorMarker(err)
		item.CritiqueAnswerFinal = item.CritiqueAnswerFull
	} else {
		item.CritiqueAnswerFull = full
		item.CritiqueAnswerFinal = extract.Final(full)
	}

	bl := evaluate.Evaluate(item.BaselineAnswer, rec.Answer, threshold)
	sc := evaluate.Evaluate(item.CritiqueAnswerFinal, rec.Answer, threshold)
	item.BaselineCorrect, item.BaselineSimilarity = bl.Correct, bl.Similarity
	item.CritiqueCorrect, item.CritiqueSimilarity = sc.Correct, sc.Similarity
	return item
}

func (r *Runner) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := r.Provider.Complete(ctx, providers.UserPrompt(r.Model, prompt, r.Temperature))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
