package dashboard

import (
	"net/url"

	"github.com/sambabib/dependency-dashboard/pkg/aggregate"
	"github.com/sambabib/dependency-dashboard/pkg/badge"
	"github.com/sambabib/dependency-dashboard/pkg/filter"
	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// DetailsPath is the page that shows a single dependency.
const DetailsPath = "/details.html"

// State is one complete dashboard view: the full record set, the selected
// scope and filters, and everything derived from them. A State is a value;
// the With* methods return a new State with the derived fields recomputed
// in full and never modify the receiver's slices.
type State struct {
	All      []model.DependencyRecord `json:"-"`
	Projects []string                 `json:"projects"`
	Project  string                   `json:"project"`
	Filters  filter.State             `json:"filters"`
	Policy   license.Policy           `json:"-"`

	Filtered []model.DependencyRecord `json:"-"`
	Result   aggregate.Result         `json:"result"`
	Licenses license.Issues           `json:"licenses"`
}

// New builds the initial view over all with default filters and every
// project in scope.
func New(all []model.DependencyRecord, policy license.Policy) State {
	s := State{
		All:      all,
		Projects: filter.Projects(all),
		Project:  filter.AllProjects,
		Filters:  filter.Default(),
		Policy:   policy,
	}
	return s.recompute()
}

// WithProject changes the project scope. Unknown project names are kept and
// yield an empty view.
func (s State) WithProject(project string) State {
	if project == "" {
		project = filter.AllProjects
	}
	s.Project = project
	return s.recompute()
}

// WithFilters replaces the filter state.
func (s State) WithFilters(f filter.State) State {
	s.Filters = f
	return s.recompute()
}

// Reset restores the default filters. The project scope is kept, as on the
// dashboard where reset only clears the filter form.
func (s State) Reset() State {
	s.Filters = filter.Default()
	return s.recompute()
}

// Empty reports whether the current view has no records, in which case the
// table shows a "no dependencies found" row.
func (s State) Empty() bool {
	return len(s.Filtered) == 0
}

func (s State) recompute() State {
	s.Filtered = filter.Apply(s.All, s.Project, s.Filters)
	s.Result = aggregate.Aggregate(s.Filtered)
	s.Licenses = s.Policy.FindIssues(s.Filtered)
	return s
}

// Row is one line of the dependency table.
type Row struct {
	Project            string                       `json:"project"`
	PackageName        string                       `json:"package_name"`
	Version            string                       `json:"version"`
	LatestVersion      string                       `json:"latest_version"`
	VersionDiffers     bool                         `json:"version_differs"`
	NeedsUpdate        bool                         `json:"needs_update"`
	HealthScore        int                          `json:"health_score"`
	AbandonmentRisk    model.Risk                   `json:"abandonment_risk"`
	HasVulnerabilities bool                         `json:"has_vulnerabilities"`
	License            string                       `json:"license"`
	LicenseFamily      string                       `json:"license_family"`
	LastUpdated        string                       `json:"last_updated"`
	DetailsURL         string                       `json:"details_url"`
	Badges             map[badge.Metric]badge.Badge `json:"badges"`
}

// Rows renders the filtered records as table rows, in filtered order.
func (s State) Rows() []Row {
	rows := make([]Row, 0, len(s.Filtered))
	for _, rec := range s.Filtered {
		rows = append(rows, NewRow(rec, s.Policy))
	}
	return rows
}

// HighRiskRows renders the filtered records with High or Critical
// abandonment risk.
func (s State) HighRiskRows() []Row {
	high := aggregate.HighRisk(s.Filtered)
	rows := make([]Row, 0, len(high))
	for _, rec := range high {
		rows = append(rows, NewRow(rec, s.Policy))
	}
	return rows
}

// NewRow renders a single record.
func NewRow(rec model.DependencyRecord, policy license.Policy) Row {
	return Row{
		Project:            rec.Project,
		PackageName:        rec.PackageName,
		Version:            rec.DisplayVersion(),
		LatestVersion:      rec.DisplayLatestVersion(),
		VersionDiffers:     rec.VersionDiffers(),
		NeedsUpdate:        rec.NeedsUpdate,
		HealthScore:        rec.HealthScore,
		AbandonmentRisk:    rec.AbandonmentRisk,
		HasVulnerabilities: rec.HasVulnerabilities,
		License:            rec.DisplayLicense(),
		LicenseFamily:      license.Simplify(rec.License),
		LastUpdated:        rec.DisplayLastUpdated(),
		DetailsURL:         DetailsURL(rec),
		Badges:             badge.All(rec, policy),
	}
}

// DetailsURL links to the details page of rec by package name and project.
func DetailsURL(rec model.DependencyRecord) string {
	q := url.Values{}
	q.Set("package", rec.PackageName)
	q.Set("project", rec.Project)
	return DetailsPath + "?" + q.Encode()
}
