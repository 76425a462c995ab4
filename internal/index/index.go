// Package index is an in-memory embedding index over benchmark questions
// with exhaustive inner-product search and a three-file on-disk format.
package index

import (
	"fmt"
	"sort"
)

// Entry is one indexed question with its gold answer and unit vector.
type Entry struct {
	Question string
	Answer   string
	Vector   []float32
}

// Candidate is a search hit: the entry position and its inner-product score.
type Candidate struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Index holds aligned questions, answers and vectors. It is immutable after
// Build and safe for concurrent queries.
type Index struct {
	questions []string
	answers   []string
	vectors   [][]float32
	dim       int
}

// Build validates and copies the three aligned sequences into a new index.
// Vectors are stored as given; callers normalise them.
func Build(questions, answers []string, vectors [][]float32) (*Index, error) {
	if len(questions) != len(answers) || len(questions) != len(vectors) {
		return nil, fmt.Errorf("%w: %d questions, %d answers, %d vectors",
			ErrShapeMismatch, len(questions), len(answers), len(vectors))
	}

	idx := &Index{
		questions: append([]string(nil), questions...),
		answers:   append([]string(nil), answers...),
		vectors:   make([][]float32, len(vectors)),
	}
	for i, v := range vectors {
		if i == 0 {
			idx.dim = len(v)
		}
		if len(v) != idx.dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				ErrShapeMismatch, i, len(v), idx.dim)
		}
		idx.vectors[i] = append([]float32(nil), v...)
	}
	return idx, nil
}

// Len returns the number of entries.
func (idx *Index) Len() int { return len(idx.questions) }

// Dim returns the vector dimension, 0 for an empty index.
func (idx *Index) Dim() int { return idx.dim }

// Question returns the question stored at position i.
func (idx *Index) Question(i int) string { return idx.questions[i] }

// Answer returns the gold answer stored at position i.
func (idx *Index) Answer(i int) string { return idx.answers[i] }

// Entry returns a copy of the entry at position i.
func (idx *Index) Entry(i int) Entry {
	return Entry{
		Question: idx.questions[i],
		Answer:   idx.answers[i],
		Vector:   append([]float32(nil), idx.vectors[i]...),
	}
}

// Query scores every entry against vector and returns the best min(k, Len)
// candidates by descending score, ties broken by ascending position.
func (idx *Index) Query(vector []float32, k int) ([]Candidate, error) {
	if idx.Len() == 0 || k <= 0 {
		return []Candidate{}, nil
	}
	if len(vector) != idx.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			ErrInvalidDimension, len(vector), idx.dim)
	}

	scored := make([]Candidate, len(idx.vectors))
	for i, v := range idx.vectors {
		scored[i] = Candidate{Index: i, Score: dot(vector, v)}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
