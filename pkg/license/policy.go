package license

import (
	"strings"

	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// Tier is the compliance classification of a license family.
type Tier string

const (
	TierAllowed        Tier = "Allowed"
	TierReviewRequired Tier = "ReviewRequired"
	TierRestricted     Tier = "Restricted"
	TierUnclassified   Tier = "Unclassified"
)

// Policy holds the organisation's license patterns. Patterns are matched as
// case-insensitive substrings of the license family.
type Policy struct {
	Allowed        []string `json:"allowed" yaml:"allowed" toml:"allowed"`
	ReviewRequired []string `json:"reviewRequired" yaml:"reviewRequired" toml:"reviewRequired"`
	Restricted     []string `json:"restricted" yaml:"restricted" toml:"restricted"`
}

// DefaultPolicy returns the built-in license policy.
func DefaultPolicy() Policy {
	return Policy{
		Allowed:        []string{"MIT", "BSD", "BSD-2-Clause", "BSD-3-Clause", "Apache", "Apache-2.0", "Apache 2.0", "ISC", "CC0-1.0"},
		ReviewRequired: []string{"LGPL", "LGPL-2.1", "LGPL-3.0", "MPL", "MPL-2.0", "Mozilla"},
		Restricted:     []string{"AGPL", "AGPL-3.0", "GPL", "GPL-2.0", "GPL-3.0", "Proprietary"},
	}
}

// Classify maps a license family to its tier. Restricted wins over
// ReviewRequired, which wins over Allowed. Every input yields a tier.
func (p Policy) Classify(family string) Tier {
	lower := strings.ToLower(family)
	switch {
	case matchesAny(lower, p.Restricted):
		return TierRestricted
	case matchesAny(lower, p.ReviewRequired):
		return TierReviewRequired
	case matchesAny(lower, p.Allowed):
		return TierAllowed
	default:
		return TierUnclassified
	}
}

// ClassifyRaw simplifies a raw license string and classifies the result.
func (p Policy) ClassifyRaw(raw string) (string, Tier) {
	fam := Simplify(raw)
	return fam, p.Classify(fam)
}

func matchesAny(lowerFamily string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}
		if strings.Contains(lowerFamily, pattern) {
			return true
		}
	}
	return false
}

// Issue is a dependency whose license needs attention.
type Issue struct {
	PackageName string `json:"package_name"`
	Project     string `json:"project"`
	Family      string `json:"family"`
	Tier        Tier   `json:"tier"`
}

// Issues lists the packages with restricted and with review-required
// licenses, in input order. A package appears in at most one list.
type Issues struct {
	Restricted     []Issue `json:"restricted"`
	ReviewRequired []Issue `json:"review_required"`
}

// Empty reports whether neither list has entries.
func (i Issues) Empty() bool {
	return len(i.Restricted) == 0 && len(i.ReviewRequired) == 0
}

// FindIssues classifies every record's license under the policy.
func (p Policy) FindIssues(records []model.DependencyRecord) Issues {
	issues := Issues{Restricted: []Issue{}, ReviewRequired: []Issue{}}
	for _, rec := range records {
		fam, tier := p.ClassifyRaw(rec.License)
		issue := Issue{PackageName: rec.PackageName, Project: rec.Project, Family: fam, Tier: tier}
		switch tier {
		case TierRestricted:
			issues.Restricted = append(issues.Restricted, issue)
		case TierReviewRequired:
			issues.ReviewRequired = append(issues.ReviewRequired, issue)
		}
	}
	return issues
}
