package filter

import (
	"strings"

	"github.com/samber/lo"

	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// Predicate decides whether a record stays in the filtered view.
type Predicate func(model.DependencyRecord) bool

// Predicates returns the active predicates for project and state, in the
// order they are applied. Inactive filters contribute no predicate. Unknown
// status and security values are inactive; a risk value is always matched
// exactly.
func Predicates(project string, state State) []Predicate {
	state = state.normalized()
	var preds []Predicate

	if project != "" && project != AllProjects {
		preds = append(preds, func(r model.DependencyRecord) bool {
			return r.Project == project
		})
	}

	switch state.Status {
	case StatusUpToDate:
		preds = append(preds, func(r model.DependencyRecord) bool { return !r.NeedsUpdate })
	case StatusNeedsUpdate:
		preds = append(preds, func(r model.DependencyRecord) bool { return r.NeedsUpdate })
	}

	if state.Risk != RiskAll {
		risk := state.Risk
		preds = append(preds, func(r model.DependencyRecord) bool { return r.AbandonmentRisk == risk })
	}

	switch state.Security {
	case SecurityVulnerable:
		preds = append(preds, func(r model.DependencyRecord) bool { return r.HasVulnerabilities })
	case SecuritySecure:
		preds = append(preds, func(r model.DependencyRecord) bool { return !r.HasVulnerabilities })
	}

	if state.Search != "" {
		term := state.Search
		preds = append(preds, func(r model.DependencyRecord) bool {
			return containsFold(r.PackageName, term) ||
				containsFold(r.License, term) ||
				containsFold(r.RepositoryURL, term)
		})
	}

	return preds
}

// Apply narrows all to the records in project that pass every filter in
// state. Input order is preserved and all is never modified. The result is
// never nil.
func Apply(all []model.DependencyRecord, project string, state State) []model.DependencyRecord {
	preds := Predicates(project, state)
	out := lo.Filter(all, func(r model.DependencyRecord, _ int) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	})
	if out == nil {
		return []model.DependencyRecord{}
	}
	return out
}

// Projects returns "all" followed by each distinct project name in order of
// first appearance.
func Projects(all []model.DependencyRecord) []string {
	names := lo.Uniq(lo.Map(all, func(r model.DependencyRecord, _ int) string {
		return r.Project
	}))
	return append([]string{AllProjects}, names...)
}

// containsFold matches a lower-cased term against field. Absent fields
// never match.
func containsFold(field, lowerTerm string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), lowerTerm)
}
