package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// fieldColumn is a resolved leaf column and the position of the wanted value
// within the row when the column is repeated.
type fieldColumn struct {
	index int
	nth   int
}

// wrapper names inserted by list encodings between a field and its element.
var listWrappers = map[string]bool{"list": true, "element": true, "item": true, "array": true, "bag": true}

func resolveColumn(pf *parquet.File, path string) (fieldColumn, error) {
	columns := pf.Schema().Columns()
	names, nth := splitIndex(path)
	for i, col := range columns {
		if columnMatches(col, names) {
			return fieldColumn{index: i, nth: nth}, nil
		}
	}
	// A numeric last segment may be a real field name.
	exact := strings.Split(path, ".")
	for i, col := range columns {
		if columnMatches(col, exact) {
			return fieldColumn{index: i}, nil
		}
	}
	return fieldColumn{}, fmt.Errorf("%w: %s", ErrFieldNotFound, path)
}

func columnMatches(col []string, names []string) bool {
	var trimmed []string
	for _, part := range col {
		if listWrappers[part] {
			continue
		}
		trimmed = append(trimmed, part)
	}
	if len(trimmed) != len(names) {
		return false
	}
	for i := range names {
		if trimmed[i] != names[i] {
			return false
		}
	}
	return true
}

func openParquet(path string) (*parquet.File, *os.File, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("open parquet: %w", err)
	}
	return pf, f, nil
}

func loadParquet(ctx context.Context, path string, spec Spec) ([]Record, error) {
	pf, f, err := openParquet(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	qcol, err := resolveColumn(pf, spec.QuestionField)
	if err != nil {
		return nil, err
	}
	acol, err := resolveColumn(pf, spec.AnswerField)
	if err != nil {
		return nil, err
	}

	var records []Record
	buf := make([]parquet.Row, 256)
	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows := parquet.NewRowGroupReader(rg)
		for {
			n, readErr := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				q := rowValue(buf[i], qcol)
				a := rowValue(buf[i], acol)
				if rec := newRecord(q, a); rec.valid() {
					records = append(records, rec)
				}
			}
			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}
	return records, nil
}

// rowValue returns the nth non-null value of the column in row.
func rowValue(row parquet.Row, col fieldColumn) string {
	seen := 0
	for _, v := range row {
		if v.Column() != col.index || v.IsNull() {
			continue
		}
		if seen == col.nth {
			return v.String()
		}
		seen++
	}
	return ""
}
