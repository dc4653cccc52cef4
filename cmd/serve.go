package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sambabib/dependency-dashboard/pkg/server"
)

var (
	servePort         int
	serveReportsDir   string
	serveDashboardDir string
	serveDataURL      string
)

// serveCmd represents the serve subcommand
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dependency dashboard",
	Long:  "Load the monitor output once and serve the dashboard API, the report files and the static front end.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Server.Port = servePort
		}
		if flags.Changed("reports-dir") {
			cfg.Server.ReportsDir = serveReportsDir
		}
		if flags.Changed("dashboard-dir") {
			cfg.Server.DashboardDir = serveDashboardDir
		}
		if flags.Changed("data-url") {
			cfg.Server.DataURL = serveDataURL
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		data := loadData(cfg)
		srv := server.New(data, server.Options{
			Policy:       cfg.License,
			ReportsDir:   cfg.Server.ReportsDir,
			DashboardDir: cfg.Server.DashboardDir,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			return fmt.Errorf("serve failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveReportsDir, "reports-dir", "", "Directory holding dependencies.json and dependency_report.md (default \"reports\")")
	serveCmd.Flags().StringVar(&serveDashboardDir, "dashboard-dir", "", "Directory of static dashboard files (default \"dashboard\")")
	serveCmd.Flags().StringVar(&serveDataURL, "data-url", "", "Base URL to fetch the monitor output from instead of the reports directory")
}
