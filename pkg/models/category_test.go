package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Electronics":        "electronics",
		"Home & Garden":      "home-garden",
		"  Board Games  ":    "board-games",
		"under_scored name":  "under-scored-name",
		"multi   space":      "multi-space",
		"Dash--happy--name":  "dash-happy-name",
		"Punct!uation, Inc.": "punctuation-inc",
	}

	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}
