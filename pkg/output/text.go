package output

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/sambabib/dependency-dashboard/pkg/aggregate"
	"github.com/sambabib/dependency-dashboard/pkg/dashboard"
	"github.com/sambabib/dependency-dashboard/pkg/license"
	"github.com/sambabib/dependency-dashboard/pkg/manifest"
	"github.com/sambabib/dependency-dashboard/pkg/model"
)

// Max characters for the license column, by terminal width.
const (
	licenseLimit       = 40
	narrowLicenseLimit = 20
	narrowWidth        = 120
)

func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) // minwidth, tabwidth, padding, padchar, flags
}

// columnLimit shrinks the license column when writing to a narrow terminal.
func columnLimit(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return licenseLimit
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width >= narrowWidth {
		return licenseLimit
	}
	return narrowLicenseLimit
}

func truncate(s string, limit int) string {
	s = strings.ReplaceAll(s, "\t", " ") // tabs break alignment
	if r := []rune(s); len(r) > limit {
		return string(r[:limit-3]) + "..."
	}
	return s
}

// PrintTextReport prints the dependency table of the current view
func PrintTextReport(out io.Writer, state dashboard.State) {
	limit := columnLimit(out)
	w := newTabWriter(out)

	fmt.Fprintln(w, "PROJECT\tPACKAGE\tVERSION\tLATEST\tHEALTH\tRISK\tVULN\tLICENSE\tUPDATED")
	fmt.Fprintln(w, "-------\t-------\t-------\t------\t------\t----\t----\t-------\t-------")

	if state.Empty() {
		fmt.Fprintln(w, "No dependencies found")
	}
	for _, r := range state.Rows() {
		latest := r.LatestVersion
		if r.VersionDiffers {
			latest += " *"
		}
		vuln := "no"
		if r.HasVulnerabilities {
			vuln = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			r.Project,
			r.PackageName,
			r.Version,
			latest,
			r.HealthScore,
			r.AbandonmentRisk,
			vuln,
			truncate(r.License, limit),
			r.LastUpdated,
		)
	}

	w.Flush()
}

// PrintSummary prints the headline counters followed by the chart data.
func PrintSummary(out io.Writer, res aggregate.Result) {
	s := res.Summary
	w := newTabWriter(out)
	fmt.Fprintf(w, "Total dependencies:\t%d\n", s.Total)
	fmt.Fprintf(w, "Need updates:\t%d\n", s.NeedsUpdateCount)
	fmt.Fprintf(w, "With vulnerabilities:\t%d\n", s.VulnerableCount)
	fmt.Fprintf(w, "High risk:\t%d\n", s.HighRiskCount)
	fmt.Fprintf(w, "Average health:\t%d\n", s.AvgHealth)

	fmt.Fprintln(w, "\nHEALTH\tCOUNT")
	for i, label := range aggregate.HealthBucketLabels {
		fmt.Fprintf(w, "%s\t%d\n", label, res.HealthHistogram[i])
	}
	fmt.Fprintln(w, "\nRISK\tCOUNT")
	for _, risk := range model.Risks {
		fmt.Fprintf(w, "%s\t%d\n", risk, res.RiskCount(risk))
	}
	if len(res.LicenseCounts) > 0 {
		fmt.Fprintln(w, "\nLICENSE\tCOUNT")
		for _, family := range slices.Sorted(maps.Keys(res.LicenseCounts)) {
			fmt.Fprintf(w, "%s\t%d\n", family, res.LicenseCounts[family])
		}
	}
	w.Flush()
}

// PrintLicenseIssues prints the restricted and review-required packages.
func PrintLicenseIssues(out io.Writer, issues license.Issues) {
	if issues.Empty() {
		fmt.Fprintln(out, "No license issues found.")
		return
	}

	w := newTabWriter(out)
	fmt.Fprintln(w, "TIER\tPROJECT\tPACKAGE\tLICENSE")
	fmt.Fprintln(w, "----\t-------\t-------\t-------")
	for _, group := range [][]license.Issue{issues.Restricted, issues.ReviewRequired} {
		for _, i := range group {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", i.Tier, i.Project, i.PackageName, i.Family)
		}
	}
	w.Flush()
}

// PrintManifest prints parsed requirement entries.
func PrintManifest(out io.Writer, entries []manifest.Entry) {
	w := newTabWriter(out)
	fmt.Fprintln(w, "NAME\tCONSTRAINT\tVERSION")
	fmt.Fprintln(w, "----\t----------\t-------")
	for _, e := range entries {
		constraint, version := string(e.Constraint), e.Version
		if !e.HasVersion() {
			constraint, version = "-", "any"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, constraint, version)
	}
	w.Flush()
}
