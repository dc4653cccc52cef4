// Package badge maps record metrics to display labels and visual tiers.
// Every badge on the dashboard table goes through the single rule table
// below.
package badge

import (
	"fmt"
	"strconv"

	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// Metric names a badge column.
type Metric string

const (
	MetricHealth   Metric = "health"
	MetricRisk     Metric = "risk"
	MetricSecurity Metric = "security"
	MetricLicense  Metric = "license"
	MetricUpdate   Metric = "update"
)

// Metrics lists every metric in table column order.
var Metrics = []Metric{MetricHealth, MetricRisk, MetricSecurity, MetricLicense, MetricUpdate}

// Tier is the visual style of a badge.
type Tier string

const (
	TierSuccess  Tier = "success"
	TierWarning  Tier = "warning"
	TierCaution  Tier = "caution"
	TierDanger   Tier = "danger"
	TierCritical Tier = "critical"
	TierNeutral  Tier = "neutral"
)

// Badge is a rendered label and its tier.
type Badge struct {
	Label string `json:"label"`
	Tier  Tier   `json:"tier"`
	// Hint is optional secondary text, such as a safe upgrade version.
	Hint string `json:"hint,omitempty"`
}

// rule maps a metric value to a tier when when() holds. Rules of a metric
// are tried in order; the last rule of each metric always matches.
type rule struct {
	when func(model.DependencyRecord, license.Policy) bool
	tier Tier
}

func always(model.DependencyRecord, license.Policy) bool { return true }

func healthAbove(n int) func(model.DependencyRecord, license.Policy) bool {
	return func(r model.DependencyRecord, _ license.Policy) bool { return r.HealthScore > n }
}

func riskIs(risk model.Risk) func(model.DependencyRecord, license.Policy) bool {
	return func(r model.DependencyRecord, _ license.Policy) bool { return r.AbandonmentRisk == risk }
}

func worstIs(sev model.Severity) func(model.DependencyRecord, license.Policy) bool {
	return func(r model.DependencyRecord, _ license.Policy) bool { return r.WorstSeverity().Rank() == sev.Rank() }
}

func licenseTier(tier license.Tier) func(model.DependencyRecord, license.Policy) bool {
	return func(r model.DependencyRecord, p license.Policy) bool {
		_, t := p.ClassifyRaw(r.License)
		return t == tier
	}
}

func updateIs(kind model.UpdateKind) func(model.DependencyRecord, license.Policy) bool {
	return func(r model.DependencyRecord, _ license.Policy) bool { return r.UpdateKind() == kind }
}

var rules = map[Metric][]rule{
	MetricHealth: {
		{healthAbove(60), TierSuccess},
		{healthAbove(40), TierWarning},
		{healthAbove(20), TierCaution},
		{always, TierDanger},
	},
	MetricRisk: {
		{riskIs(model.RiskLow), TierSuccess},
		{riskIs(model.RiskMedium), TierWarning},
		{riskIs(model.RiskHigh), TierCaution},
		{always, TierDanger},
	},
	MetricSecurity: {
		{func(r model.DependencyRecord, _ license.Policy) bool { return !r.HasVulnerabilities }, TierSuccess},
		{worstIs(model.SeverityCritical), TierCritical},
		{worstIs(model.SeverityHigh), TierDanger},
		{worstIs(model.SeverityMedium), TierCaution},
		{always, TierWarning},
	},
	MetricLicense: {
		{licenseTier(license.TierRestricted), TierDanger},
		{licenseTier(license.TierReviewRequired), TierWarning},
		{licenseTier(license.TierAllowed), TierSuccess},
		{always, TierNeutral},
	},
	MetricUpdate: {
		{updateIs(model.UpdateNone), TierSuccess},
		{updateIs(model.UpdatePatch), TierSuccess},
		{updateIs(model.UpdateMinor), TierWarning},
		{updateIs(model.UpdateMajor), TierCaution},
		{always, TierNeutral},
	},
}

// For returns the badge of metric for rec. Unknown metrics yield a neutral
// badge with an empty label.
func For(metric Metric, rec model.DependencyRecord, policy license.Policy) Badge {
	b := Badge{Label: label(metric, rec), Tier: TierNeutral}
	for _, r := range rules[metric] {
		if r.when(rec, policy) {
			b.Tier = r.tier
			break
		}
	}
	if metric == MetricSecurity && rec.HasVulnerabilities && rec.SafeUpgradeVersion != "" {
		b.Hint = "Fix in v" + rec.SafeUpgradeVersion
	}
	return b
}

// All returns every metric's badge for rec.
func All(rec model.DependencyRecord, policy license.Policy) map[Metric]Badge {
	out := make(map[Metric]Badge, len(Metrics))
	for _, m := range Metrics {
		out[m] = For(m, rec, policy)
	}
	return out
}

func label(metric Metric, rec model.DependencyRecord) string {
	switch metric {
	case MetricHealth:
		return strconv.Itoa(rec.HealthScore)
	case MetricRisk:
		if rec.AbandonmentRisk == "" {
			return model.Unknown
		}
		return string(rec.AbandonmentRisk)
	case MetricSecurity:
		if !rec.HasVulnerabilities {
			return "Secure"
		}
		noun := "vulnerabilities"
		if rec.VulnerabilityCount == 1 {
			noun = "vulnerability"
		}
		return fmt.Sprintf("%d %s", rec.VulnerabilityCount, noun)
	case MetricLicense:
		return license.Simplify(rec.License)
	case MetricUpdate:
		return string(rec.UpdateKind())
	default:
		return ""
	}
}
