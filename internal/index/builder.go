package index

import (
	"context"
	"fmt"
	"time"

	"github.com/mwiater/vqabench/internal/dataset"
	"github.com/mwiater/vqabench/internal/embedding"
	"github.com/mwiater/vqabench/internal/logging"
	"github.com/mwiater/vqabench/internal/providers"
)

const progressEvery = 100

// BuildFromRecords embeds every question through emb, normalises the vectors
// and builds an index aligned with records.
func BuildFromRecords(ctx context.Context, emb providers.Embedder, records []dataset.Record) (*Index, error) {
	if emb == nil {
		return nil, fmt.Errorf("embedder is nil")
	}

	start := time.Now()
	status := func(format string, args ...any) {
		elapsed := time.Since(start).Truncate(time.Millisecond)
		logging.LogEvent("[%s] %s", elapsed, fmt.Sprintf(format, args...))
	}
	status("[INDEX] Embedding %d questions", len(records))

	questions := make([]string, len(records))
	answers := make([]string, len(records))
	vectors := make([][]float32, len(records))
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := emb.Embed(ctx, r.Question)
		if err != nil {
			return nil, fmt.Errorf("embed question %d: %w", i, err)
		}
		questions[i] = r.Question
		answers[i] = r.Answer
		vectors[i] = embedding.Normalize(vec)
		if (i+1)%progressEvery == 0 {
			status("[INDEX] Embedded %d/%d questions", i+1, len(records))
		}
	}

	idx, err := Build(questions, answers, vectors)
	if err != nil {
		return nil, err
	}
	status("[INDEX] Built index: %d entries, %d dimensions", idx.Len(), idx.Dim())
	return idx, nil
}
