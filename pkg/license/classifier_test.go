package license

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sambabib/dependency-dashboard/pkg/model"
)

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "Unknown"},
		{"whitespace", "   ", "Unknown"},
		{"mit", "MIT", "MIT"},
		{"mit lower", "the mit license", "MIT"},
		{"apache spdx", "Apache-2.0", "Apache"},
		{"bsd", "BSD-3-Clause", "BSD"},
		{"isc", "ISC", "ISC"},
		{"mpl", "MPL-2.0", "Mozilla"},
		{"mozilla", "Mozilla Public License 2.0", "Mozilla"},
		{"lgpl", "LGPL-2.1-or-later", "LGPL"},
		{"gpl", "GPL-3.0", "GPL"},
		{"gnu gpl", "GNU General Public License v3 (GPLv3)", "GPL"},
		{"agpl", "AGPL-3.0", "AGPL"},
		{"agpl and gpl", "AGPL-3.0 / GPL-3.0", "AGPL"},
		{"agpl and lgpl", "LGPL-3.0 or AGPL-3.0", "AGPL"},
		{"fallback first token", "Proprietary license terms", "Proprietary"},
		{"fallback truncated", "CustomLicenseWithAVeryLongName and more", "CustomLicenseWithAVe..."},
		{"fallback exactly twenty", "ABCDEFGHIJKLMNOPQRST", "ABCDEFGHIJKLMNOPQRST"},
		{"fallback non-ascii truncated", "Nutzungsbedingungenüber Text", "Nutzungsbedingungenü..."},
		{"fallback non-ascii twenty runes", "Lizenzvereinbarungäö", "Lizenzvereinbarungäö"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Simplify(tt.raw))
		})
	}
}

func TestSimplify_TruncatesOnRuneBoundary(t *testing.T) {
	got := Simplify(strings.Repeat("許諾", 15) + " terms")
	assert.True(t, utf8.ValidString(got), got)
	assert.Equal(t, strings.Repeat("許諾", 10)+"...", got)
}

func TestSimplify_LongLicenseText(t *testing.T) {
	long := "Copyright (c) Example. Released under the MIT License. " + strings.Repeat("of this software ", 40)
	assert.Greater(t, len(long), 500)
	assert.Equal(t, "MIT", Simplify(long))

	long = "Zlib-style " + strings.Repeat("terms ", 100)
	assert.Equal(t, "Zlib-style", Simplify(long))
}

func TestSimplify_GPLFamilies(t *testing.T) {
	lgpl := []string{"LGPL", "lgpl-3.0", "GNU LGPLv2+", "LGPL-2.1 with GPL exception"}
	for _, raw := range lgpl {
		assert.Equal(t, "LGPL", Simplify(raw), raw)
	}

	gpl := []string{"GPL", "gpl-2.0-only", "GPLv3+", "GNU GPL"}
	for _, raw := range gpl {
		assert.Equal(t, "GPL", Simplify(raw), raw)
	}

	agpl := []string{"AGPL", "agpl-3.0", "GNU AGPL with GPL linking", "AGPL or LGPL"}
	for _, raw := range agpl {
		assert.Equal(t, "AGPL", Simplify(raw), raw)
	}
}

func TestPolicy_Classify(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		family string
		want   Tier
	}{
		{"MIT", TierAllowed},
		{"Apache", TierAllowed},
		{"BSD", TierAllowed},
		{"ISC", TierAllowed},
		{"Mozilla", TierReviewRequired},
		// "lgpl" contains the restricted pattern "gpl".
		{"LGPL", TierRestricted},
		{"GPL", TierRestricted},
		{"AGPL", TierRestricted},
		{"Proprietary", TierRestricted},
		{"mit", TierAllowed},
		{"Unknown", TierUnclassified},
		{"Zlib", TierUnclassified},
		{"", TierUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Classify(tt.family))
		})
	}
}

func TestPolicy_ClassifyPriority(t *testing.T) {
	p := Policy{
		Allowed:        []string{"shared"},
		ReviewRequired: []string{"shared"},
		Restricted:     []string{"shared"},
	}
	assert.Equal(t, TierRestricted, p.Classify("Shared"))

	p.Restricted = nil
	assert.Equal(t, TierReviewRequired, p.Classify("Shared"))

	p.ReviewRequired = nil
	assert.Equal(t, TierAllowed, p.Classify("Shared"))

	p.Allowed = []string{"", "  "}
	assert.Equal(t, TierUnclassified, p.Classify("Shared"))
}

func TestPolicy_ClassifyIsTotal(t *testing.T) {
	p := DefaultPolicy()
	valid := map[Tier]bool{TierAllowed: true, TierReviewRequired: true, TierRestricted: true, TierUnclassified: true}
	inputs := []string{"", "MIT", "x", "GPL-ish", "ünïcödé", strings.Repeat("a", 600)}
	for _, in := range inputs {
		assert.True(t, valid[p.Classify(in)], in)
	}
}

func TestPolicy_FindIssues(t *testing.T) {
	records := []model.DependencyRecord{
		{Project: "A", PackageName: "ok", License: "MIT"},
		{Project: "A", PackageName: "copyleft", License: "GPL-3.0"},
		{Project: "B", PackageName: "weak", License: "MPL-2.0"},
		{Project: "B", PackageName: "none"},
		{Project: "B", PackageName: "network", License: "AGPL-3.0"},
	}

	issues := DefaultPolicy().FindIssues(records)

	assert.False(t, issues.Empty())
	assert.Equal(t, []Issue{
		{PackageName: "copyleft", Project: "A", Family: "GPL", Tier: TierRestricted},
		{PackageName: "network", Project: "B", Family: "AGPL", Tier: TierRestricted},
	}, issues.Restricted)
	assert.Equal(t, []Issue{
		{PackageName: "weak", Project: "B", Family: "Mozilla", Tier: TierReviewRequired},
	}, issues.ReviewRequired)

	assert.True(t, DefaultPolicy().FindIssues(nil).Empty())
}
