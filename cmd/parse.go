package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sambabib/dependency-dashboard/pkg/dashboard"
	"github.com/sambabib/dependency-dashboard/pkg/logger"
	"github.com/sambabib/dependency-dashboard/pkg/output"
)

var (
	parseProject string
	parseFormat  string
)

// parseCmd represents the parse subcommand
var parseCmd = &cobra.Command{
	Use:   "parse [requirements.txt|-]",
	Short: "Parse a requirements manifest",
	Long:  "Parse a requirements.txt style manifest into package names, constraints and versions. Use - to read from stdin. Nothing is stored.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := outputFormat(parseFormat, cfg)
		if err != nil {
			return err
		}
		if format == "sarif" {
			return fmt.Errorf("sarif output is not supported by parse")
		}

		filename, in, err := openManifest(cmd, args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		result, err := dashboard.ImportManifestReader(parseProject, filename, in)
		if err != nil {
			var notice *dashboard.Notice
			if errors.As(err, &notice) {
				return errors.New(notice.Message)
			}
			return err
		}
		logger.Infof("%s", result.Message)

		out, closeOut, err := openOutput(cmd, cfg)
		if err != nil {
			return err
		}
		defer closeOut()

		if format == "json" {
			b, err := output.GenerateJSONReport(result)
			if err != nil {
				return fmt.Errorf("failed to marshal report to JSON: %w", err)
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		output.PrintManifest(out, result.Packages)
		return nil
	},
}

// openManifest opens the manifest file, or stdin for "-". Stdin has no
// filename.
func openManifest(cmd *cobra.Command, arg string) (string, io.ReadCloser, error) {
	if arg == "-" {
		return "", io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return filepath.Base(arg), f, nil
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseProject, "project", "default", "Project the manifest belongs to")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "Output format: text or json")
}
