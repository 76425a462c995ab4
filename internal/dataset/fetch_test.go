package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func rowsServer(t *testing.T, total int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer hf-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		q := r.URL.Query()
		if q.Get("dataset") != "taidng/UIT-ViQuAD2.0" || q.Get("split") != "train" {
			t.Errorf("unexpected query %v", q)
		}
		offset, _ := strconv.Atoi(q.Get("offset"))
		length, _ := strconv.Atoi(q.Get("length"))
		var rows []map[string]any
		for i := offset; i < offset+length && i < total; i++ {
			rows = append(rows, map[string]any{
				"row_idx": i,
				"row": map[string]any{
					"question": fmt.Sprintf("câu %d", i),
					"answers":  map[string]any{"text": []string{fmt.Sprintf("đáp %d", i)}},
				},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"rows": rows, "num_rows_total": total})
	}))
}

func TestFetchWritesJSONL(t *testing.T) {
	server := rowsServer(t, 250)
	defer server.Close()

	f := NewFetcher("hf-token", 5*time.Second)
	f.RowsURL = server.URL
	out := filepath.Join(t.TempDir(), "raw", "viquad.jsonl")
	hub := HubSpec{Dataset: "taidng/UIT-ViQuAD2.0", Config: "default", Split: "train"}

	n, err := f.Fetch(context.Background(), hub, 0, out)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if n != 250 {
		t.Fatalf("expected 250 rows, got %d", n)
	}

	records, err := Load(context.Background(), Spec{Source: out, Format: FormatJSONL, QuestionField: "question", AnswerField: "answers.text.0"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(records) != 250 || records[249].Answer != "đáp 249" {
		t.Fatalf("unexpected records: %d", len(records))
	}
}

func TestFetchHonoursMaxRows(t *testing.T) {
	server := rowsServer(t, 1000)
	defer server.Close()

	f := NewFetcher("hf-token", 5*time.Second)
	f.RowsURL = server.URL
	out := filepath.Join(t.TempDir(), "viquad.jsonl")

	n, err := f.Fetch(context.Background(), HubSpec{Dataset: "taidng/UIT-ViQuAD2.0", Config: "default", Split: "train"}, 130, out)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if n != 130 {
		t.Fatalf("expected 130 rows, got %d", n)
	}
}

func TestFetchFailureLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "dataset not found", http.StatusNotFound)
	}))
	defer server.Close()

	dir := t.TempDir()
	f := NewFetcher("", time.Second)
	f.RowsURL = server.URL
	out := filepath.Join(dir, "missing.jsonl")

	_, err := f.Fetch(context.Background(), HubSpec{Dataset: "x/y", Config: "default", Split: "train"}, 10, out)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files left behind, got %v", entries)
	}
}

func TestFetchParquet(t *testing.T) {
	mux := http.NewServeMux()
	var base string
	mux.HandleFunc("/api/datasets/org/ds/parquet/default/train", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]string{base + "/files/0.parquet", base + "/files/1.parquet"})
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("PAR1" + r.URL.Path))
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	base = server.URL

	f := NewFetcher("", time.Second)
	f.HubURL = server.URL + "/api/datasets"
	dir := t.TempDir()

	paths, err := f.FetchParquet(context.Background(), HubSpec{Dataset: "org/ds", Config: "default", Split: "train"}, dir)
	if err != nil {
		t.Fatalf("FetchParquet returned error: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[1]) != "default-train-00001.parquet" {
		t.Fatalf("unexpected paths: %v", paths)
	}
	data, err := os.ReadFile(paths[1])
	if err != nil || string(data) != "PAR1/files/1.parquet" {
		t.Fatalf("unexpected file content %q: %v", data, err)
	}
}

func TestParseParquetListingObjects(t *testing.T) {
	raw := []byte(`[{"url":"https://x/a.parquet","filename":"a.parquet"},{"url":"https://x/readme","filename":"README.md"}]`)
	urls, err := parseParquetListing(raw)
	if err != nil {
		t.Fatalf("parseParquetListing returned error: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://x/a.parquet" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}
