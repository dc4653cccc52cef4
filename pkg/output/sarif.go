package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// SarifReport represents the top-level SARIF report structure
type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

// SarifRun represents a single run of the analysis tool
type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Results     []SarifResult     `json:"results"`
	Invocations []SarifInvocation `json:"invocations"`
}

// SarifTool represents the tool that performed the analysis
type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

// SarifDriver represents the driver of the tool
type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SarifRule `json:"rules"`
}

// SarifRule represents a rule that was evaluated during the analysis
type SarifRule struct {
	ID               string            `json:"id"`
	ShortDescription SarifMessage      `json:"shortDescription"`
	FullDescription  SarifMessage      `json:"fullDescription"`
	Help             SarifMessage      `json:"help"`
	Properties       map[string]string `json:"properties,omitempty"`
}

// SarifResult represents a result of the analysis
type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

// SarifMessage represents a message in the SARIF report
type SarifMessage struct {
	Text string `json:"text"`
}

// SarifLocation represents a location in the code
type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

// SarifPhysicalLocation represents a physical location in the code
type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
}

// SarifArtifactLocation represents the location of an artifact
type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifInvocation represents an invocation of the tool
type SarifInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	StartTimeUtc        string `json:"startTimeUtc"`
	EndTimeUtc          string `json:"endTimeUtc"`
}

const (
	RuleVulnerable    = "vulnerable-dependency"
	RuleRestricted    = "restricted-license"
	RuleReview        = "license-review"
	RuleAbandonment   = "abandonment-risk"
	RuleOutdatedMajor = "outdated-major"
	RuleOutdatedMinor = "outdated-minor"
	RuleOutdatedPatch = "outdated-patch"
)

var sarifRules = []SarifRule{
	{
		ID:               RuleVulnerable,
		ShortDescription: SarifMessage{Text: "Dependency has known vulnerabilities"},
		FullDescription:  SarifMessage{Text: "The monitor reported at least one vulnerability for this dependency."},
		Help:             SarifMessage{Text: "Upgrade to the safe upgrade version when one is reported."},
	},
	{
		ID:               RuleRestricted,
		ShortDescription: SarifMessage{Text: "Restricted license"},
		FullDescription:  SarifMessage{Text: "The dependency's license family is on the restricted list of the license policy."},
		Help:             SarifMessage{Text: "Replace the dependency or obtain legal approval."},
	},
	{
		ID:               RuleReview,
		ShortDescription: SarifMessage{Text: "License requires review"},
		FullDescription:  SarifMessage{Text: "The dependency's license family is on the review-required list of the license policy."},
		Help:             SarifMessage{Text: "Have the license reviewed before shipping."},
	},
	{
		ID:               RuleAbandonment,
		ShortDescription: SarifMessage{Text: "High abandonment risk"},
		FullDescription:  SarifMessage{Text: "The dependency is at High or Critical risk of being abandoned by its maintainers."},
		Help:             SarifMessage{Text: "Consider finding an alternative or replacement package."},
	},
	{
		ID:               RuleOutdatedMajor,
		ShortDescription: SarifMessage{Text: "Major version update available"},
		FullDescription:  SarifMessage{Text: "A major version update is available for this dependency, which may include breaking changes."},
		Help:             SarifMessage{Text: "Consider updating with caution and review the changelog for breaking changes."},
	},
	{
		ID:               RuleOutdatedMinor,
		ShortDescription: SarifMessage{Text: "Minor version update available"},
		FullDescription:  SarifMessage{Text: "A minor version update is available for this dependency, which may include new features."},
		Help:             SarifMessage{Text: "Consider updating to get new features."},
	},
	{
		ID:               RuleOutdatedPatch,
		ShortDescription: SarifMessage{Text: "Patch update available"},
		FullDescription:  SarifMessage{Text: "A patch update is available for this dependency, which may include bug fixes."},
		Help:             SarifMessage{Text: "Consider updating to get bug fixes."},
	},
}

// vulnerabilityLevel maps the worst reported severity to a SARIF level.
func vulnerabilityLevel(rec model.DependencyRecord) string {
	if rec.WorstSeverity().Rank() >= model.SeverityHigh.Rank() {
		return "error"
	}
	return "warning"
}

// sarifFindings returns the rule and level pairs that apply to rec.
func sarifFindings(rec model.DependencyRecord, policy license.Policy) []SarifResult {
	var results []SarifResult
	add := func(ruleID, level, text string) {
		results = append(results, SarifResult{RuleID: ruleID, Level: level, Message: SarifMessage{Text: text}})
	}

	name := rec.PackageName
	if rec.HasVulnerabilities {
		text := fmt.Sprintf("%s %s has known vulnerabilities", name, rec.DisplayVersion())
		if rec.SafeUpgradeVersion != "" {
			text += fmt.Sprintf(" (fix in %s)", rec.SafeUpgradeVersion)
		}
		add(RuleVulnerable, vulnerabilityLevel(rec), text)
	}

	family, tier := policy.ClassifyRaw(rec.License)
	switch tier {
	case license.TierRestricted:
		add(RuleRestricted, "error", fmt.Sprintf("%s uses restricted license %s", name, family))
	case license.TierReviewRequired:
		add(RuleReview, "warning", fmt.Sprintf("%s uses license %s which requires review", name, family))
	}

	if rec.AbandonmentRisk.IsHigh() {
		add(RuleAbandonment, "warning", fmt.Sprintf("%s has %s abandonment risk (health score %d)", name, rec.AbandonmentRisk, rec.HealthScore))
	}

	outdated := fmt.Sprintf("%s: current version %s, latest version %s", name, rec.DisplayVersion(), rec.DisplayLatestVersion())
	switch rec.UpdateKind() {
	case model.UpdateMajor:
		add(RuleOutdatedMajor, "warning", outdated)
	case model.UpdateMinor:
		add(RuleOutdatedMinor, "note", outdated)
	case model.UpdatePatch:
		add(RuleOutdatedPatch, "note", outdated)
	}
	return results
}

// GenerateSarifReport converts dependency records to SARIF format. uri names
// the artifact the findings are attached to, typically the data file.
func GenerateSarifReport(records []model.DependencyRecord, policy license.Policy, uri, version string) ([]byte, error) {
	results := make([]SarifResult, 0, len(records))
	for _, rec := range records {
		for _, result := range sarifFindings(rec, policy) {
			result.Locations = []SarifLocation{
				{
					PhysicalLocation: SarifPhysicalLocation{
						ArtifactLocation: SarifArtifactLocation{URI: uri},
					},
				},
			}
			results = append(results, result)
		}
	}

	now := time.Now().UTC()
	sarifReport := SarifReport{
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Version: "2.1.0",
		Runs: []SarifRun{
			{
				Tool: SarifTool{
					Driver: SarifDriver{
						Name:           "Dependency Dashboard",
						Version:        version,
						InformationURI: "https://github.com/sambabib/dependency-dashboard",
						Rules:          sarifRules,
					},
				},
				Results: results,
				Invocations: []SarifInvocation{
					{
						ExecutionSuccessful: true,
						StartTimeUtc:        now.Add(-time.Second).Format(time.RFC3339),
						EndTimeUtc:          now.Format(time.RFC3339),
					},
				},
			},
		},
	}

	return json.MarshalIndent(sarifReport, "", "  ")
}
