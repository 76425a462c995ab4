package index

import (
	"errors"
	"sync"
	"testing"
)

func TestBuildShapeMismatch(t *testing.T) {
	tests := []struct {
		name      string
		questions []string
		answers   []string
		vectors   [][]float32
	}{
		{"answers short", []string{"a", "b"}, []string{"1"}, [][]float32{{1}, {0}}},
		{"vectors short", []string{"a"}, []string{"1"}, nil},
		{"ragged vectors", []string{"a", "b"}, []string{"1", "2"}, [][]float32{{1, 0}, {1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(tt.questions, tt.answers, tt.vectors); !errors.Is(err, ErrShapeMismatch) {
				t.Fatalf("expected ErrShapeMismatch, got %v", err)
			}
		})
	}
}

func TestBuildCopiesInput(t *testing.T) {
	vec := []float32{1, 0}
	questions := []string{"q"}
	idx, err := Build(questions, []string{"a"}, [][]float32{vec})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	vec[0] = 0
	questions[0] = "changed"
	if idx.Question(0) != "q" || idx.Entry(0).Vector[0] != 1 {
		t.Fatalf("index shares caller memory: %+v", idx.Entry(0))
	}
	if idx.Len() != 1 || idx.Dim() != 2 || idx.Answer(0) != "a" {
		t.Fatalf("unexpected accessors: len=%d dim=%d", idx.Len(), idx.Dim())
	}
}

func sampleIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Build(
		[]string{"Thủ đô Việt Nam?", "Sông dài nhất?", "Núi cao nhất?", "Thủ đô nước Việt?"},
		[]string{"Hà Nội", "Mê Kông", "Fansipan", "Hà Nội"},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
			{1, 0, 0},
		},
	)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return idx
}

func TestQueryOrdering(t *testing.T) {
	idx := sampleIndex(t)

	got, err := idx.Query([]float32{0.8, 0.6, 0}, 3)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	wantIdx := []int{0, 3, 1}
	if len(got) != len(wantIdx) {
		t.Fatalf("expected %d candidates, got %+v", len(wantIdx), got)
	}
	for i, want := range wantIdx {
		if got[i].Index != want {
			t.Fatalf("candidate %d = %d, want %d (%+v)", i, got[i].Index, want, got)
		}
	}
	if d := got[0].Score - 0.8; d > 1e-6 || d < -1e-6 {
		t.Fatalf("unexpected score %v", got[0].Score)
	}
	if got[0].Score != got[1].Score {
		t.Fatalf("duplicate vectors should tie: %+v", got)
	}
}

func TestQueryBounds(t *testing.T) {
	idx := sampleIndex(t)

	all, err := idx.Query([]float32{0, 0, 1}, 50)
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(all) != idx.Len() || all[0].Index != 2 {
		t.Fatalf("expected all entries with best first, got %+v", all)
	}

	none, err := idx.Query([]float32{0, 0, 1}, 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("k=0 should return empty, got %+v, %v", none, err)
	}

	if _, err := idx.Query([]float32{1, 0}, 1); !errors.Is(err, ErrInvalidDimension) {
		t.Fatalf("expected ErrInvalidDimension, got %v", err)
	}

	empty, err := Build(nil, nil, nil)
	if err != nil {
		t.Fatalf("Build empty returned error: %v", err)
	}
	res, err := empty.Query([]float32{1, 2, 3}, 5)
	if err != nil || len(res) != 0 {
		t.Fatalf("empty index should return empty result, got %+v, %v", res, err)
	}
}

func TestQueryConcurrent(t *testing.T) {
	idx := sampleIndex(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := idx.Query([]float32{0, 1, 0}, 1)
			if err != nil || len(res) != 1 || res[0].Index != 1 {
				t.Errorf("unexpected concurrent result %+v, %v", res, err)
			}
		}()
	}
	wg.Wait()
}
