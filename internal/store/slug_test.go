package store_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/kassets/kassets/internal/store"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple name",
			input:    "Acme Corp",
			expected: "acme-corp",
		},
		{
			name:     "punctuation collapses",
			input:    "Smith & Sons, Ltd.",
			expected: "smith-sons-ltd",
		},
		{
			name:     "digits survive",
			input:    "Area 51 Storage",
			expected: "area-51-storage",
		},
		{
			name:     "leading and trailing symbols trimmed",
			input:    "  --Acme--  ",
			expected: "acme",
		},
		{
			name:     "consecutive separators collapse",
			input:    "a   b___c",
			expected: "a-b-c",
		},
		{
			name:     "already a slug",
			input:    "acme-corp",
			expected: "acme-corp",
		},
		{
			name:     "only symbols",
			input:    "!!!",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(store.Slugify(tt.input), qt.Equals, tt.expected)
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	c := qt.New(t)

	for _, input := range []string{"Acme Corp", "Smith & Sons", "a   b___c"} {
		once := store.Slugify(input)
		c.Assert(store.Slugify(once), qt.Equals, once)
	}
}
