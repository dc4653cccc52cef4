package license

import (
	"strings"

	"github.com/sambabib/dependency-dashboard/pkg/model"
)

const maxFallbackLen = 20

// family is one entry of the ordered simplification table. A family
// matches when the lower-cased license contains any of the needles and
// none of the exclusions.
type family struct {
	name     string
	needles  []string
	excludes []string
}

// Order matters: "lgpl" and "agpl" both contain "gpl". A string naming
// both LGPL and AGPL resolves to AGPL.
var families = []family{
	{name: "MIT", needles: []string{"mit"}},
	{name: "Apache", needles: []string{"apache"}},
	{name: "BSD", needles: []string{"bsd"}},
	{name: "ISC", needles: []string{"isc"}},
	{name: "Mozilla", needles: []string{"mpl", "mozilla"}},
	{name: "LGPL", needles: []string{"lgpl"}, excludes: []string{"agpl"}},
	{name: "GPL", needles: []string{"gpl"}, excludes: []string{"lgpl", "agpl"}},
	{name: "AGPL", needles: []string{"agpl"}},
}

// Simplify reduces a raw license string to a short family name such as
// "Apache" for "Apache-2.0". Empty input yields Unknown. Strings that match
// no known family fall back to their first space-separated token, cut to
// 20 characters.
func Simplify(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return model.Unknown
	}

	lower := strings.ToLower(raw)
	for _, f := range families {
		if f.matches(lower) {
			return f.name
		}
	}

	first, _, _ := strings.Cut(raw, " ")
	if r := []rune(first); len(r) > maxFallbackLen {
		return string(r[:maxFallbackLen]) + "..."
	}
	return first
}

func (f family) matches(lower string) bool {
	for _, ex := range f.excludes {
		if strings.Contains(lower, ex) {
			return false
		}
	}
	for _, n := range f.needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
