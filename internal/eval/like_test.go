package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLike(t *testing.T) {
	tests := []struct {
		s, pattern string
		want       bool
	}{
		{"", "", true},
		{"", "%", true},
		{"a", "", false},
		{"abc", "abc", true},
		{"abc", "ABC", false},
		{"abc", "a%", true},
		{"abc", "%c", true},
		{"abc", "%b%", true},
		{"abc", "a_c", true},
		{"abc", "a_", false},
		{"abc", "___", true},
		{"abc", "%%%", true},
		{"abcbc", "a%bc", true},
		{"abcbd", "a%bc", false},
		{"mississippi", "m%iss%pi", true},
		{"caf\u00e9", "caf_", true},
		{"100%", "100%", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Like(tt.s, tt.pattern), "%q LIKE %q", tt.s, tt.pattern)
	}
}
