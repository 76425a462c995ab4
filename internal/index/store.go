package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Artifact file names inside an index directory.
const (
	QuestionsFile  = "questions.json"
	AnswersFile    = "answers.json"
	EmbeddingsFile = "embeddings.npy"
)

const stringArraySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {"type": "string"}
}`

var artifactSchema = mustSchema(stringArraySchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile artifact schema: %v", err))
	}
	return schema
}

// Paths locates the three artifacts of a persisted index.
type Paths struct {
	Questions  string
	Answers    string
	Embeddings string
}

// DefaultPaths returns the artifact locations inside dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Questions:  filepath.Join(dir, QuestionsFile),
		Answers:    filepath.Join(dir, AnswersFile),
		Embeddings: filepath.Join(dir, EmbeddingsFile),
	}
}

// Exists reports whether all three artifacts are present.
func (p Paths) Exists() bool {
	for _, path := range []string{p.Questions, p.Answers, p.Embeddings} {
		if _, err := os.Stat(path); err != nil {
			return false
		}
	}
	return true
}

// Save writes idx to dir as questions.json, answers.json and embeddings.npy.
func Save(dir string, idx *Index) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}
	paths := DefaultPaths(dir)

	if err := writeStrings(paths.Questions, idx.questions); err != nil {
		return err
	}
	if err := writeStrings(paths.Answers, idx.answers); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := writeNPY(&buf, idx.vectors, idx.dim); err != nil {
		return fmt.Errorf("encode %s: %w", EmbeddingsFile, err)
	}
	return writeFileAtomic(paths.Embeddings, buf.Bytes())
}

// Load reads and cross-checks the three artifacts. It never returns a
// partially loaded index: any malformed or misaligned artifact fails with
// ErrCorruptIndex.
func Load(paths Paths) (*Index, error) {
	questions, err := readStrings(paths.Questions)
	if err != nil {
		return nil, err
	}
	answers, err := readStrings(paths.Answers)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(paths.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("open embeddings: %w", err)
	}
	defer f.Close()
	vectors, dim, err := readNPY(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", paths.Embeddings, err)
	}

	if len(questions) != len(answers) || len(questions) != len(vectors) {
		return nil, fmt.Errorf("%w: %d questions, %d answers, %d vectors",
			ErrCorruptIndex, len(questions), len(answers), len(vectors))
	}
	idx, err := Build(questions, answers, vectors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	idx.dim = dim
	return idx, nil
}

func writeStrings(path string, values []string) error {
	if values == nil {
		values = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(values); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return writeFileAtomic(path, bytes.TrimRight(buf.Bytes(), "\n"))
}

func readStrings(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	result, err := artifactSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid JSON: %v", ErrCorruptIndex, filepath.Base(path), err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrCorruptIndex, filepath.Base(path), strings.Join(msgs, "; "))
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptIndex, filepath.Base(path), err)
	}
	return values, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", filepath.Base(path), err)
	}
	_, werr := tmp.Write(data)
	merr := tmp.Chmod(0o644)
	cerr := tmp.Close()
	if err := errors.Join(werr, merr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
