package exec

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
