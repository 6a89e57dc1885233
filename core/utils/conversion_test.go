package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBool(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"no", false},
		{"  no  ", false},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"anything", true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ToBool(tc.in), "input %q", tc.in)
	}
}
