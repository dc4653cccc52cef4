package aggregate

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// AlertLevel is the notice style of an Alert.
type AlertLevel string

const (
	AlertError   AlertLevel = "error"
	AlertWarning AlertLevel = "warning"
	AlertInfo    AlertLevel = "info"
)

// Alert is the single notice raised after data is loaded.
type Alert struct {
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Level   AlertLevel             `json:"level"`
	Count   int                    `json:"count"`
	Package model.DependencyRecord `json:"package"`
}

type alertRule struct {
	title   string
	level   AlertLevel
	message string
	match   func(model.DependencyRecord) bool
}

// Rules are checked in order and the first one with matches wins.
var alertRules = []alertRule{
	{
		title:   "Security Alert",
		level:   AlertError,
		message: "Found %d dependencies with vulnerabilities.",
		match:   func(r model.DependencyRecord) bool { return r.HasVulnerabilities },
	},
	{
		title:   "Risk Alert",
		level:   AlertWarning,
		message: "Found %d dependencies with high abandonment risk.",
		match:   func(r model.DependencyRecord) bool { return r.AbandonmentRisk.IsHigh() },
	},
	{
		title:   "Update Alert",
		level:   AlertInfo,
		message: "Found %d dependencies that need updates.",
		match:   func(r model.DependencyRecord) bool { return r.NeedsUpdate },
	},
}

// CheckIssues picks the most severe notice for records: vulnerabilities,
// then high abandonment risk, then pending updates. ok is false when none
// apply. The alert carries the first matching record for drill-down.
func CheckIssues(records []model.DependencyRecord) (alert Alert, ok bool) {
	for _, rule := range alertRules {
		matched := lo.Filter(records, func(r model.DependencyRecord, _ int) bool { return rule.match(r) })
		if len(matched) == 0 {
			continue
		}
		return Alert{
			Title:   rule.title,
			Message: fmt.Sprintf(rule.message, len(matched)),
			Level:   rule.level,
			Count:   len(matched),
			Package: matched[0],
		}, true
	}
	return Alert{}, false
}

// HighRisk returns the records with High or Critical abandonment risk.
func HighRisk(records []model.DependencyRecord) []model.DependencyRecord {
	return lo.Filter(records, func(r model.DependencyRecord, _ int) bool {
		return r.AbandonmentRisk.IsHigh()
	})
}
