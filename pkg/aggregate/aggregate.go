package aggregate

import (
	"math"

	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// HealthBucketLabels name the health histogram slots.
var HealthBucketLabels = [5]string{"0-20", "21-40", "41-60", "61-80", "81-100"}

// Summary holds the headline counters of the dashboard cards.
type Summary struct {
	Total            int `json:"total"`
	NeedsUpdateCount int `json:"needs_update"`
	VulnerableCount  int `json:"vulnerable"`
	HighRiskCount    int `json:"high_risk"`
	AvgHealth        int `json:"avg_health"`
}

// Result is everything the charts and cards need for one filtered view.
type Result struct {
	HealthHistogram [5]int         `json:"health_histogram"`
	RiskCounts      [4]int         `json:"risk_counts"`
	LicenseCounts   map[string]int `json:"license_counts"`
	Summary         Summary        `json:"summary"`
}

// RiskCount returns the count for one risk level, or 0 for unknown levels.
func (r Result) RiskCount(risk model.Risk) int {
	idx := risk.Index()
	if idx < 0 {
		return 0
	}
	return r.RiskCounts[idx]
}

// HealthBucket returns the histogram slot for a score: <=20, <=40, <=60,
// <=80 and above 80.
func HealthBucket(score int) int {
	switch {
	case score <= 20:
		return 0
	case score <= 40:
		return 1
	case score <= 60:
		return 2
	case score <= 80:
		return 3
	default:
		return 4
	}
}

// Aggregate computes histograms and counters over filtered in a single
// pass. An empty input yields zeroed counters and AvgHealth 0.
func Aggregate(filtered []model.DependencyRecord) Result {
	res := Result{LicenseCounts: make(map[string]int)}
	healthSum := 0

	for _, rec := range filtered {
		res.HealthHistogram[HealthBucket(rec.HealthScore)]++
		if idx := rec.AbandonmentRisk.Index(); idx >= 0 {
			res.RiskCounts[idx]++
		}
		res.LicenseCounts[license.Simplify(rec.License)]++

		if rec.NeedsUpdate {
			res.Summary.NeedsUpdateCount++
		}
		if rec.HasVulnerabilities {
			res.Summary.VulnerableCount++
		}
		if rec.AbandonmentRisk.IsHigh() {
			res.Summary.HighRiskCount++
		}
		healthSum += rec.HealthScore
	}

	res.Summary.Total = len(filtered)
	if len(filtered) > 0 {
		res.Summary.AvgHealth = int(math.Round(float64(healthSum) / float64(len(filtered))))
	}
	return res
}
