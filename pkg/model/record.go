package model

import "strings"

// Unknown is displayed in place of any absent optional field.
const Unknown = "Unknown"

// Risk is the upstream abandonment-risk estimate for a dependency.
type Risk string

const (
	RiskLow      Risk = "Low"
	RiskMedium   Risk = "Medium"
	RiskHigh     Risk = "High"
	RiskCritical Risk = "Critical"
)

// Risks lists the risk levels in histogram order.
var Risks = []Risk{RiskLow, RiskMedium, RiskHigh, RiskCritical}

// Index returns the histogram slot of the risk level, or -1 when the value
// is not one of the four known levels.
func (r Risk) Index() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// IsHigh reports whether the risk counts towards the high-risk total.
func (r Risk) IsHigh() bool {
	return r == RiskHigh || r == RiskCritical
}

// Severity is the severity of a single reported vulnerability.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Rank returns an integer rank for comparison (Low=1, Critical=4).
func (s Severity) Rank() int {
	switch strings.ToLower(string(s)) {
	case "low":
		return 1
	case "medium", "moderate":
		return 2
	case "high":
		return 3
	case "critical":
		return 4
	default:
		return 0
	}
}

// Vulnerability is one entry of a record's vulnerability details.
type Vulnerability struct {
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
}

// DependencyRecord is one package of one project as produced by the upstream
// monitor. Records are treated as immutable snapshots.
type DependencyRecord struct {
	Project              string          `json:"project"`
	PackageName          string          `json:"package_name"`
	Version              string          `json:"version,omitempty"`
	LatestVersion        string          `json:"latest_version,omitempty"`
	HealthScore          int             `json:"health_score"`
	AbandonmentRisk      Risk            `json:"abandonment_risk"`
	HasVulnerabilities   bool            `json:"has_vulnerabilities"`
	VulnerabilityCount   int             `json:"vulnerability_count,omitempty"`
	VulnerabilityDetails []Vulnerability `json:"vulnerability_details,omitempty"`
	SafeUpgradeVersion   string          `json:"safe_upgrade_version,omitempty"`
	NeedsUpdate          bool            `json:"needs_update"`
	License              string          `json:"license,omitempty"`
	LastUpdated          string          `json:"last_updated,omitempty"`
	RepositoryURL        string          `json:"repository_url,omitempty"`
}

// DisplayVersion returns the installed version or Unknown.
func (r DependencyRecord) DisplayVersion() string {
	return orUnknown(r.Version)
}

// DisplayLatestVersion returns the latest known version or Unknown.
func (r DependencyRecord) DisplayLatestVersion() string {
	return orUnknown(r.LatestVersion)
}

// DisplayLicense returns the raw license string or Unknown.
func (r DependencyRecord) DisplayLicense() string {
	return orUnknown(r.License)
}

// VersionDiffers is the table view's update signal: a plain string
// comparison of version and latest_version. It can disagree with
// NeedsUpdate, for example on "1.0" vs "1.0.0"; both are kept.
func (r DependencyRecord) VersionDiffers() bool {
	return r.Version != r.LatestVersion
}

// WorstSeverity returns the highest severity among the vulnerability
// details, or the empty severity when there are none.
func (r DependencyRecord) WorstSeverity() Severity {
	var worst Severity
	for _, v := range r.VulnerabilityDetails {
		if v.Severity.Rank() > worst.Rank() {
			worst = v.Severity
		}
	}
	return worst
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
