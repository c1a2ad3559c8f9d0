package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"POLICY", Policy, true},
		{" certificate ", Certificate, true},
		{"Declarations", Policy, true},
		{"COI", Certificate, true},
		{"term sheet", Agreement, true},
		{"id", Identity, true},
		{"unknown", Unknown, true},
		{"brochure", Unknown, false},
		{"", Unknown, false},
	}
	for _, tc := range cases {
		got, ok := Canonicalize(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}
