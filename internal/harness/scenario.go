package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a set of filter cases run against fixture data.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is inline CUE declaring the tables.
	Schema string `yaml:"schema,omitempty"`

	// SchemaDir is a directory of CUE files declaring the tables.
	// Relative paths are resolved against the scenario file location.
	SchemaDir string `yaml:"schema_dir,omitempty"`

	// Backends lists the backends to run on. Empty means all of them.
	Backends []string `yaml:"backends,omitempty"`

	// Data holds fixture rows keyed by table name.
	Data map[string][]map[string]any `yaml:"data,omitempty"`

	// Cases are run in order.
	Cases []Case `yaml:"cases"`
}

// Case is a single filter execution.
type Case struct {
	Name   string `yaml:"name"`
	Table  string `yaml:"table"`
	Filter string `yaml:"filter"`

	// Args are positional arguments, bound in order.
	Args []any `yaml:"args,omitempty"`

	// Named holds values for named parameters. When set, Args fill only
	// the positional parameters.
	Named map[string]any `yaml:"named,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect specifies the expected outcome of a case. Unset fields are not
// checked.
type Expect struct {
	// Error is the expected error code. When set, no rows are expected.
	Error string `yaml:"error,omitempty"`

	// Params is the expected parameter count.
	Params *int `yaml:"params,omitempty"`

	// IDs are the expected primary keys in result order. An empty list
	// expects no rows.
	IDs []any `yaml:"ids,omitempty"`

	// Count is the expected number of rows.
	Count *int `yaml:"count,omitempty"`

	// Contains lists rows that must appear in the result.
	// This is a subset match - only specified fields are validated.
	Contains []map[string]any `yaml:"contains,omitempty"`
}

// Backend names accepted in Scenario.Backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// AllBackends is the default backend list.
var AllBackends = []string{BackendSQLite, BackendMemory}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving schema_dir relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.SchemaDir != "" && !filepath.IsAbs(scenario.SchemaDir) && basePath != "" {
		scenario.SchemaDir = filepath.Join(basePath, scenario.SchemaDir)
	}
	if scenario.SchemaDir != "" {
		if _, err := os.Stat(scenario.SchemaDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: schema_dir not found: %s", scenario.SchemaDir)
		}
	}

	return scenario, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "case:" vs "cases:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Schema == "") == (s.SchemaDir == "") {
		return fmt.Errorf("exactly one of schema or schema_dir is required")
	}

	for i, b := range s.Backends {
		if b != BackendSQLite && b != BackendMemory {
			return fmt.Errorf("backends[%d]: unknown backend %q", i, b)
		}
	}

	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate case name %q", i, c.Name)
		}
		seen[c.Name] = true
		if c.Table == "" {
			return fmt.Errorf("cases[%d]: table is required", i)
		}
		if c.Filter == "" {
			return fmt.Errorf("cases[%d]: filter is required", i)
		}
		if c.Expect.Error != "" && (c.Expect.IDs != nil || c.Expect.Count != nil || c.Expect.Contains != nil) {
			return fmt.Errorf("cases[%d].expect: error cannot be combined with row expectations", i)
		}
		if c.Expect.Count != nil && *c.Expect.Count < 0 {
			return fmt.Errorf("cases[%d].expect: count must be non-negative", i)
		}
	}

	return nil
}

func (s *Scenario) backends() []string {
	if len(s.Backends) == 0 {
		return AllBackends
	}
	return s.Backends
}
