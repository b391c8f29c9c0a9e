package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Delhi University", "delhi-university"},
		{"IIT Delhi", "iit-delhi"},
		{"St. Xavier's College (Autonomous)", "st-xavier-s-college-autonomous"},
		{"  Spaced  Out  ", "spaced-out"},
		{"---Already-Hyphenated---", "already-hyphenated"},
		{"UPPER lower 123", "upper-lower-123"},
		{"Jawaharlal Nehru University", "jawaharlal-nehru-university"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "Slugify(%q)", tc.in)
	}
}

func TestSeedListHasUniqueSlugs(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range colleges {
		slug := Slugify(c.Name)
		assert.NotEmpty(t, slug)
		assert.False(t, seen[slug], "duplicate slug %q", slug)
		seen[slug] = true
	}
}
