package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sokosumi-mcp/internal/config"
	"sokosumi-mcp/internal/mcpserver"
	"sokosumi-mcp/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	serveHost  string
	servePort  int
	serveDebug bool
)

// serveCmd starts the multi-tenant HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the multi-tenant Sokosumi MCP server over HTTP",
	Long: `Starts the stateless multi-tenant MCP server on the streamable HTTP
transport.

Tools are duplicated per environment and prefixed with 'preprod_' or
'mainnet_'. Every tool call must carry its own Sokosumi API key in the
Authorization header:

  "Authorization": "Bearer YOUR_API_KEY"

No credential is ever cached across calls, so one server instance can
safely serve many independent callers.

Configuration:
  Listen host and port come from flags, falling back to
  .sokosumi/config.yaml in the current directory or the user config
  directory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.ServeHTTP(ctx, mcpserver.HTTPOptions{
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
		Version: rootCmd.Version,
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config, localhost)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8000)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
}
