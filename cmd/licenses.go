package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sambabib/dependency-dashboard/pkg/dashboard"
	"github.com/sambabib/dependency-dashboard/pkg/filter"
	"github.com/sambabib/dependency-dashboard/pkg/output"
)

var (
	licensesProject string
	licensesFormat  string
)

// licensesCmd represents the licenses subcommand
var licensesCmd = &cobra.Command{
	Use:   "licenses",
	Short: "Report packages with restricted or review-required licenses",
	Long:  "Classify every dependency's license against the license policy and list the restricted and review-required packages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := outputFormat(licensesFormat, cfg)
		if err != nil {
			return err
		}
		if format == "sarif" {
			return fmt.Errorf("sarif output is not supported by licenses; use summary --format sarif")
		}

		data := loadData(cfg)
		state := dashboard.New(data.Records, cfg.License).WithProject(licensesProject)

		out, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		defer closeOut()

		if format == "json" {
			b, err := output.GenerateJSONReport(state.Licenses)
			if err != nil {
				return fmt.Errorf("failed to marshal report to JSON: %w", err)
			}
			fmt.Fprintln(out, string(b))
		} else {
			output.PrintLicenseIssues(out, state.Licenses)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(licensesCmd)
	licensesCmd.Flags().StringVar(&licensesProject, "project", filter.AllProjects, "Project to check, or \"all\"")
	licensesCmd.Flags().StringVarP(&licensesFormat, "format", "f", "", "Output format: text or json")
}
