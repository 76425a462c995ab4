package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleRegistry = `
datasets:
  viquad:
    source: data/raw/viquad.jsonl
    question_field: question
    answer_field: answers.text.0
    hub:
      dataset: taidng/UIT-ViQuAD2.0
  vimmrc:
    source: data/raw/vimmrc/*.parquet
    format: Parquet
    answer_field: answer
    hub:
      dataset: example/vimmrc
      split: test
`

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(sampleRegistry))
	if err != nil {
		t.Fatalf("ParseRegistry returned error: %v", err)
	}

	if got := reg.Names(); len(got) != 2 || got[0] != "vimmrc" || got[1] != "viquad" {
		t.Fatalf("unexpected names: %v", got)
	}

	viquad, err := reg.Lookup("viquad")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if viquad.Name != "viquad" || viquad.Format != FormatJSONL {
		t.Fatalf("unexpected viquad spec: %+v", viquad)
	}
	if viquad.Hub.Config != "default" || viquad.Hub.Split != "train" {
		t.Fatalf("expected hub defaults, got %+v", viquad.Hub)
	}

	vimmrc, _ := reg.Lookup("vimmrc")
	if vimmrc.Format != FormatParquet || vimmrc.QuestionField != "question" || vimmrc.Hub.Split != "test" {
		t.Fatalf("unexpected vimmrc spec: %+v", vimmrc)
	}
}

func TestLookupUnknown(t *testing.T) {
	reg, err := ParseRegistry([]byte(sampleRegistry))
	if err != nil {
		t.Fatalf("ParseRegistry returned error: %v", err)
	}
	if _, err := reg.Lookup("missing"); !errors.Is(err, ErrUnknownDataset) {
		t.Fatalf("expected ErrUnknownDataset, got %v", err)
	}
}

func TestParseRegistryRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad format":     "datasets:\n  x:\n    source: a.xml\n    format: xml\n",
		"missing source": "datasets:\n  x:\n    format: csv\n",
		"bad yaml":       "datasets: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRegistry([]byte(body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	if err := os.WriteFile(path, []byte(sampleRegistry), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if len(reg.Datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(reg.Datasets))
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Fatal("expected error for missing registry")
	}
}
