package domain

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ndbq/internal/compiler"
	"github.com/roach88/ndbq/internal/parser"
	"github.com/roach88/ndbq/internal/syntax"
)

// Clones of one tree compile on separate goroutines, each with its own
// domain. Run with -race to catch shared state.
func TestCompileClonesConcurrently(t *testing.T) {
	const workers = 16

	root, err := parser.Parse("(department = :dept OR manager IN (?, 2)) AND NOT (salary BETWEEN ? AND ? OR name LIKE ?)")
	require.NoError(t, err)

	table := employeeTable()
	want, err := compiler.Compile[Predicate](root, New(table))
	require.NoError(t, err)

	clones := make([]syntax.PredicateNode, workers)
	for i := range clones {
		clones[i] = syntax.ClonePredicate(root)
	}

	type outcome struct {
		count  int
		filter string
		params []ParamSpec
		err    error
	}
	results := make([]outcome, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := New(table)
			res, err := compiler.Compile[Predicate](clones[i], d)
			if err != nil {
				results[i] = outcome{err: err}
				return
			}
			results[i] = outcome{count: res.ParamCount, filter: res.Predicate.String(), params: d.Params()}
		}()
	}
	wg.Wait()

	for i, r := range results {
		require.NoError(t, r.err, "worker %d", i)
		assert.Equal(t, 5, r.count, "worker %d", i)
		assert.Equal(t, want.ParamCount, r.count, "worker %d", i)
		assert.Equal(t, want.Predicate.String(), r.filter, "worker %d", i)
		assert.Equal(t, results[0].params, r.params, "worker %d", i)
	}
	assert.True(t, syntax.EqualNodes(root, clones[0]), "compiling leaves the tree unchanged")
}
