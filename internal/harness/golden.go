package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ndbq/internal/ir"
)

// Snapshot builds the canonical JSON snapshot of a result.
//
// Backends agree on every passing case, so only the first backend's
// outcome is recorded per case. Messages are left out; error codes are
// stable across wording changes.
func Snapshot(result *Result) ([]byte, error) {
	cases := make([]any, len(result.Cases))
	for i, cr := range result.Cases {
		entry := map[string]any{"name": cr.Name}
		if len(cr.Outcomes) > 0 {
			out := cr.Outcomes[0]
			if out.ErrorCode != "" {
				entry["error"] = out.ErrorCode
			} else {
				entry["canonical"] = out.Canonical
				entry["params"] = out.Params
				entry["sql"] = out.SQL
				entry["ids"] = ir.IRArray(out.IDs)
			}
		}
		cases[i] = entry
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario": result.Scenario,
		"pass":     result.Pass,
		"cases":    cases,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	return result, AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
