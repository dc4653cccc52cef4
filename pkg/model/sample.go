package model

// SampleRecords returns the fixed demonstration data set used when
// dependencies.json cannot be loaded. A fresh slice is returned on each call.
func SampleRecords() []DependencyRecord {
	return []DependencyRecord{
		{Project: "Frontend", PackageName: "react", Version: "17.0.2", LatestVersion: "18.2.0", HealthScore: 95, AbandonmentRisk: RiskLow, LastUpdated: "2023-01-15", License: "MIT"},
		{Project: "Frontend", PackageName: "redux", Version: "4.1.0", LatestVersion: "4.2.1", HealthScore: 88, AbandonmentRisk: RiskLow, LastUpdated: "2023-03-22", License: "MIT"},
		{
			Project: "Frontend", PackageName: "lodash", Version: "4.17.20", LatestVersion: "4.17.21",
			HealthScore: 92, AbandonmentRisk: RiskLow, LastUpdated: "2022-11-10",
			HasVulnerabilities: true, VulnerabilityCount: 1,
			VulnerabilityDetails: []Vulnerability{
				{Severity: SeverityMedium, Summary: "Prototype pollution in _.merge"},
			},
			SafeUpgradeVersion: "4.17.21", License: "MIT",
		},
		{Project: "Backend", PackageName: "express", Version: "4.17.1", LatestVersion: "4.18.2", HealthScore: 90, AbandonmentRisk: RiskLow, LastUpdated: "2023-02-05", License: "MIT"},
		{Project: "Backend", PackageName: "mongoose", Version: "5.12.3", LatestVersion: "6.10.0", HealthScore: 85, AbandonmentRisk: RiskLow, LastUpdated: "2023-01-20", License: "MIT"},
		{
			Project: "Backend", PackageName: "outdated-pkg", Version: "1.0.0", LatestVersion: "2.3.0",
			HealthScore: 45, AbandonmentRisk: RiskHigh, LastUpdated: "2021-06-15",
			HasVulnerabilities: true, VulnerabilityCount: 2,
			VulnerabilityDetails: []Vulnerability{
				{Severity: SeverityCritical, Summary: "Remote code execution vulnerability"},
				{Severity: SeverityHigh, Summary: "Information disclosure"},
			},
			SafeUpgradeVersion: "2.3.0", License: "GPL-3.0",
		},
	}
}

// SampleReport is the narrative shown alongside the sample data.
const SampleReport = `# Dependency Health Report

## Summary

- Total Dependencies: 6
- Dependencies Needing Updates: 4
- Dependencies at High/Critical Risk: 1
- Healthy Dependencies: 4

## High Risk Dependencies

- **outdated-pkg** (1.0.0): High risk, Health Score: 45
`
