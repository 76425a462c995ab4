// Package dataset loads question/answer pairs from local exports of public
// QA datasets and writes the benchmark files consumed by the experiment runner.
package dataset

import (
	"errors"
	"strings"
)

// Supported source formats.
const (
	FormatCSV     = "csv"
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
)

var (
	// ErrUnknownDataset is returned when a dataset name is not in the registry.
	ErrUnknownDataset = errors.New("unknown dataset")
	// ErrFieldNotFound is returned when a configured field path does not resolve.
	ErrFieldNotFound = errors.New("field not found")
	// ErrNoRows is returned when a source yields no usable question/answer pair.
	ErrNoRows = errors.New("no usable rows")
)

// Record is one question with its gold answer.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"ground_truth"`
}

func (r Record) valid() bool {
	return r.Question != "" && r.Answer != ""
}

func newRecord(question, answer string) Record {
	return Record{Question: strings.TrimSpace(question), Answer: strings.TrimSpace(answer)}
}
