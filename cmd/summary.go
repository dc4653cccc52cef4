package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/sambabib/dependency-dashboard/pkg/dashboard"
	"github.com/sambabib/dependency-dashboard/pkg/filter"
	"github.com/sambabib/dependency-dashboard/pkg/logger"
	"github.com/sambabib/dependency-dashboard/pkg/output"
	"github.com/sambabib/dependency-dashboard/pkg/source"
)

var (
	summaryProject  string
	summaryStatus   string
	summaryRisk     string
	summarySecurity string
	summarySearch   string
	summaryFormat   string
)

// summaryCmd represents the summary subcommand
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dependency table and summary for a filtered view",
	Long:  "Apply the project scope and filters to the monitor output and print the matching dependencies with their summary counters and distributions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := outputFormat(summaryFormat, cfg)
		if err != nil {
			return err
		}
		filters, err := filter.ParseState(filter.Values{
			Status:   summaryStatus,
			Risk:     summaryRisk,
			Security: summarySecurity,
			Search:   summarySearch,
		})
		if err != nil {
			return err
		}

		data := loadData(cfg)
		state := dashboard.New(data.Records, cfg.License).WithProject(summaryProject)
		if !filters.IsDefault() {
			logger.Debugf("Filters: status=%s risk=%s security=%s search=%q", filters.Status, filters.Risk, filters.Security, filters.Search)
			state = state.WithFilters(filters)
		}

		out, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		defer closeOut()

		switch format {
		case "json":
			b, err := output.GenerateJSONReport(struct {
				dashboard.State
				Dependencies []dashboard.Row `json:"dependencies"`
			}{state, state.Rows()})
			if err != nil {
				return fmt.Errorf("failed to marshal report to JSON: %w", err)
			}
			fmt.Fprintln(out, string(b))
		case "sarif":
			uri := path.Join(cfg.Server.ReportsDir, source.DataFile)
			if cfg.Server.DataURL != "" {
				uri = data.Source + "/" + source.DataFile
			}
			b, err := output.GenerateSarifReport(state.Filtered, cfg.License, uri, Version)
			if err != nil {
				return fmt.Errorf("failed to generate SARIF report: %w", err)
			}
			fmt.Fprintln(out, string(b))
		default:
			output.PrintTextReport(out, state)
			fmt.Fprintln(out)
			output.PrintSummary(out, state.Result)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryProject, "project", filter.AllProjects, "Project to show, or \"all\"")
	summaryCmd.Flags().StringVar(&summaryStatus, "status", "", "Update status: all, upToDate or needsUpdate")
	summaryCmd.Flags().StringVar(&summaryRisk, "risk", "", "Abandonment risk: all, Low, Medium, High or Critical")
	summaryCmd.Flags().StringVar(&summarySecurity, "security", "", "Security: all, vulnerable or secure")
	summaryCmd.Flags().StringVarP(&summarySearch, "search", "s", "", "Case-insensitive search over package name, license and repository URL")
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "", "Output format: text, json or sarif")
}
