package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ndbq/internal/exec"
	"github.com/roach88/ndbq/internal/ir"
	"github.com/roach88/ndbq/internal/schema"
)

// Error codes for command input and output problems. Schema load codes
// come from the schema package.
const (
	ErrCodeFixtures    = "E007" // Fixtures file unreadable or malformed
	ErrCodeWriteFailed = "E008" // Output file could not be written
	ErrCodeDatabase    = "E009" // Database could not be opened or loaded
	ErrCodeScenarios   = "E010" // Scenario directory missing or unreadable
)

// loadSchema loads every table mapping in dir, failing on the first error.
// The returned code is the schema load error code, for output.
func loadSchema(dir string) (*schema.Schema, string, error) {
	sch, errs := schema.LoadDir(dir, schema.LoadModeFailFast)
	if len(errs) > 0 {
		var loadErr *schema.LoadError
		if errors.As(errs[0], &loadErr) {
			return nil, loadErr.Code, loadErr
		}
		return nil, schema.ErrCodeGeneric, errs[0]
	}
	return sch, "", nil
}

// lookupTable loads the schema in dir and returns it with the named table.
func lookupTable(f *OutputFormatter, dir, name string) (*schema.Schema, *schema.Table, error) {
	sch, code, err := loadSchema(dir)
	if err != nil {
		return nil, nil, f.Fail(ExitCommandError, code, err)
	}
	table, ok := sch.Table(name)
	if !ok {
		return nil, nil, f.Fail(ExitCommandError, string(exec.ErrCodeUnknownTable),
			fmt.Errorf("table %q is not defined in %s", name, dir))
	}
	f.VerboseLog("Loaded %d table(s) from %s", len(sch.Tables), dir)
	return sch, table, nil
}

// Fixtures maps table names to rows, in file order.
type Fixtures map[string][]ir.IRObject

// Tables returns the fixture table names in sorted order.
func (fx Fixtures) Tables() []string {
	names := make([]string, 0, len(fx))
	for name := range fx {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// loadFixtures reads a YAML file of rows keyed by table name:
//
//	Employee:
//	  - { id: 1, name: Alice }
func loadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	fx := make(Fixtures, len(raw))
	for table, rows := range raw {
		objs := make([]ir.IRObject, len(rows))
		for i, row := range rows {
			obj, err := ir.ObjectFromGo(row)
			if err != nil {
				return nil, fmt.Errorf("fixtures %s[%d]: %w", table, i, err)
			}
			objs[i] = obj
		}
		fx[table] = objs
	}
	return fx, nil
}
