package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwiater/vqabench/internal/logging"
)

const maxLineBytes = 16 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads every file matched by spec.Source and maps each row onto a
// Record. Rows with an empty question or answer are skipped.
func Load(ctx context.Context, spec Spec) ([]Record, error) {
	files, err := sourceFiles(spec.Source)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var batch []Record
		switch spec.Format {
		case FormatCSV:
			batch, err = loadCSV(path, spec)
		case FormatJSONL:
			batch, err = loadJSONL(ctx, path, spec)
		case FormatParquet:
			batch, err = loadParquet(ctx, path, spec)
		default:
			err = fmt.Errorf("unsupported format %q", spec.Format)
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		logging.LogEvent("dataset %s: %d rows from %s", spec.Name, len(batch), filepath.Base(path))
		records = append(records, batch...)
	}
	return records, nil
}

func sourceFiles(source string) ([]string, error) {
	if !strings.ContainsAny(source, "*?[") {
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("dataset source: %w", err)
		}
		return []string{source}, nil
	}
	files, err := filepath.Glob(source)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", source, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("dataset source %s: %w", source, fs.ErrNotExist)
	}
	sort.Strings(files)
	return files, nil
}

// newCSVReader returns a csv.Reader that skips a leading UTF-8 byte order mark.
func newCSVReader(r io.Reader) *csv.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	return cr
}

func loadCSV(path string, spec Spec) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := newCSVReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	qi := columnIndex(header, spec.QuestionField)
	ai := columnIndex(header, spec.AnswerField)
	if qi < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, spec.QuestionField)
	}
	if ai < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, spec.AnswerField)
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if qi >= len(row) || ai >= len(row) {
			continue
		}
		if rec := newRecord(row[qi], row[ai]); rec.valid() {
			records = append(records, rec)
		}
	}
	return records, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

func loadJSONL(ctx context.Context, path string, spec Spec) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []Record
	line := 0
	for scanner.Scan() {
		line++
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw := bytes.TrimSpace(scanner.Bytes())
		if line == 1 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}
		if len(raw) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		q, _ := lookupField(obj, spec.QuestionField)
		a, _ := lookupField(obj, spec.AnswerField)
		if rec := newRecord(q, a); rec.valid() {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
