package model

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/araddon/dateparse"
)

// UpdateKind describes how far the installed version is behind the latest.
type UpdateKind string

const (
	UpdateNone    UpdateKind = "none"
	UpdatePatch   UpdateKind = "patch"
	UpdateMinor   UpdateKind = "minor"
	UpdateMajor   UpdateKind = "major"
	UpdateUnknown UpdateKind = "unknown"
)

// ClassifyUpdate compares current against latest with semver. Versions that
// do not parse yield UpdateUnknown. A latest version older than or equal to
// the current one yields UpdateNone.
func ClassifyUpdate(current, latest string) UpdateKind {
	current = strings.TrimSpace(current)
	latest = strings.TrimSpace(latest)
	if current == "" || latest == "" {
		return UpdateUnknown
	}

	currentV, err := semver.NewVersion(current)
	if err != nil {
		return UpdateUnknown
	}
	latestV, err := semver.NewVersion(latest)
	if err != nil {
		return UpdateUnknown
	}

	if !latestV.GreaterThan(currentV) {
		return UpdateNone
	}
	if latestV.Major() > currentV.Major() {
		return UpdateMajor
	}
	if latestV.Minor() > currentV.Minor() {
		return UpdateMinor
	}
	return UpdatePatch
}

// UpdateKind classifies the record's version gap.
func (r DependencyRecord) UpdateKind() UpdateKind {
	return ClassifyUpdate(r.Version, r.LatestVersion)
}

// FormatDate renders a loosely formatted date as YYYY-MM-DD. Empty input
// yields Unknown; input that cannot be parsed is returned as is.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

// DisplayLastUpdated returns the formatted last_updated date.
func (r DependencyRecord) DisplayLastUpdated() string {
	return FormatDate(r.LastUpdated)
}
