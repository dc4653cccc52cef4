package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/sambabib/dependency-dashboard/pkg/logger"
	"github.com/sambabib/dependency-dashboard/pkg/mcp"
)

const mcpServerName = "depdash"

// mcpCmd represents the mcp subcommand
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long:  "Expose the dependency data as MCP tools over stdio. Logs go to stderr; stdout carries JSON-RPC.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		data := loadData(cfg)

		server := mcpserver.NewMCPServer(
			mcpServerName,
			Version,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithLogging(),
		)
		mcp.RegisterTools(server, mcp.NewHandlerSet(data.Records, cfg.License))

		logger.Infof("Starting %s MCP server %s with %d dependencies", mcpServerName, Version, len(data.Records))
		for _, name := range mcp.ToolNames {
			logger.Debugf("MCP: registered tool %s", name)
		}

		// Blocks until the client disconnects
		if err := mcpserver.ServeStdio(server); err != nil {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
