package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sambabib/dependency-dashboard/pkg/config"
	"github.com/sambabib/dependency-dashboard/pkg/logger"
	"github.com/sambabib/dependency-dashboard/pkg/source"
)

// Version is set during build using ldflags
var Version = "dev"

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "depdash",
	Short:   "Dashboard for dependency health, security and license compliance",
	Long:    `Dependency Dashboard serves and summarizes the output of a dependency monitor: health scores, abandonment risk, vulnerabilities and license compliance across projects.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .depdash.yaml in this or a parent directory)")
}

// loadConfig reads the --config file, or searches upwards from the working
// directory when none is given.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return config.FindAndLoadConfig(wd)
}

// loadData loads the monitor output named by cfg and drops ignored packages.
func loadData(cfg *config.Config) *source.Data {
	data := source.NewLoader(cfg.Server.ReportsDir, cfg.Server.DataURL).Load()
	data.Records = cfg.DropIgnored(data.Records)
	if data.Fallback {
		logger.Warnf("Showing sample data")
	}
	return data
}

// outputFormat resolves the --format flag against the configured default.
func outputFormat(flag string, cfg *config.Config) (string, error) {
	format := flag
	if format == "" {
		format = cfg.Output.Format
	}
	switch format {
	case "", "text":
		return "text", nil
	case "json", "sarif":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json or sarif)", format)
	}
}

// openOutput returns the configured output file, or stdout.
func openOutput(cmd *cobra.Command, cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.Output.File == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(cfg.Output.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
