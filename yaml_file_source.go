package envvar

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLFileSource implements the Source interface for flat YAML files.
// Only top-level scalar values are used; nested mappings and sequences
// are skipped (the accessor works with one scalar variable at a time).
type YAMLFileSource struct {
	filePath string
	values   map[string]string
}

// NewYAMLFileSource creates a new YAMLFileSource from the specified file.
// It immediately reads and parses the file during initialization.
func NewYAMLFileSource(filePath string) (*YAMLFileSource, error) {
	source := &YAMLFileSource{
		filePath: filePath,
		values:   make(map[string]string),
	}

	if err := source.load(); err != nil {
		return nil, fmt.Errorf("failed to load yaml file: %w", err)
	}

	return source, nil
}

// Lookup retrieves a value by name from the loaded file.
func (s *YAMLFileSource) Lookup(name string) (string, bool, error) {
	value, found := s.values[name]
	return value, found, nil
}

// Name returns the name of this source including the file path.
func (s *YAMLFileSource) Name() string {
	return fmt.Sprintf("yaml-file[%s]", s.filePath)
}

// Environ returns a copy of all values loaded from the file.
func (s *YAMLFileSource) Environ() map[string]string {
	m := make(map[string]string, len(s.values))
	for k, v := range s.values {
		m[k] = v
	}
	return m
}

// Reload reloads the values from the yaml file.
func (s *YAMLFileSource) Reload() error {
	return s.load()
}

func (s *YAMLFileSource) load() error {
	b, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	raw := make(map[string]any)
	if err = yaml.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = val
		case bool, int, int64, uint64, float64:
			values[k] = fmt.Sprintf("%v", val)
		default:
			// nested mapping or sequence
			continue
		}
	}
	s.values = values

	return nil
}
