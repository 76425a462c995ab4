package dataset

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// HubSpec identifies a dataset on the hub for fetching.
type HubSpec struct {
	Dataset string `yaml:"dataset"`
	Config  string `yaml:"config"`
	Split   string `yaml:"split"`
}

// Spec describes where a dataset lives locally and how its columns map onto
// a Record.
type Spec struct {
	Name          string  `yaml:"-"`
	Source        string  `yaml:"source"`
	Format        string  `yaml:"format"`
	QuestionField string  `yaml:"question_field"`
	AnswerField   string  `yaml:"answer_field"`
	Hub           HubSpec `yaml:"hub"`
}

// Registry is the parsed datasets file.
type Registry struct {
	Datasets map[string]Spec `yaml:"datasets"`
}

// LoadRegistry reads and validates a YAML dataset registry.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset registry: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry parses registry YAML and fills per-dataset defaults.
func ParseRegistry(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse dataset registry: %w", err)
	}
	if reg.Datasets == nil {
		reg.Datasets = map[string]Spec{}
	}
	for name, spec := range reg.Datasets {
		spec.Name = name
		spec.applyDefaults()
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("dataset %q: %w", name, err)
		}
		reg.Datasets[name] = spec
	}
	return &reg, nil
}

func (s *Spec) applyDefaults() {
	s.Format = strings.ToLower(strings.TrimSpace(s.Format))
	if s.Format == "" {
		s.Format = FormatJSONL
	}
	if s.QuestionField == "" {
		s.QuestionField = "question"
	}
	if s.AnswerField == "" {
		s.AnswerField = "answer"
	}
	if s.Hub.Config == "" {
		s.Hub.Config = "default"
	}
	if s.Hub.Split == "" {
		s.Hub.Split = "train"
	}
}

func (s Spec) validate() error {
	switch s.Format {
	case FormatCSV, FormatJSONL, FormatParquet:
	default:
		return fmt.Errorf("unsupported format %q", s.Format)
	}
	if strings.TrimSpace(s.Source) == "" {
		return fmt.Errorf("source is required")
	}
	return nil
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, error) {
	spec, ok := r.Datasets[name]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}
	return spec, nil
}

// Names returns the registered dataset names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Datasets))
	for name := range r.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
