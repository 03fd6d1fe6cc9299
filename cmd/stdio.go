package cmd

import (
	"fmt"
	"os"

	"sokosumi-mcp/internal/auth"
	"sokosumi-mcp/internal/config"
	"sokosumi-mcp/internal/mcpserver"
	"sokosumi-mcp/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	stdioEnvironment string
	stdioDebug       bool
)

// stdioCmd starts the single-tenant stdio server.
var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Start the single-tenant Sokosumi MCP server over stdio",
	Long: `Starts the MCP server on the stdio transport with one fixed target
environment. Tool names carry no environment prefix.

The API key is process-wide and is taken from, in order of precedence:
the SOKOSUMI_API_KEY environment variable, the config file, or a later
call to the 'configure' tool. All calls share the current key;
reconfiguring takes effect for subsequent calls (last write wins).

The target environment ('preprod' or 'mainnet') comes from the
--environment flag, SOKOSUMI_ENVIRONMENT, or the config file. Any other
value refuses to start.`,
	Args: cobra.NoArgs,
	RunE: runStdio,
}

func runStdio(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if stdioDebug {
		level = logging.LevelDebug
	}
	// stdout carries the MCP protocol stream; logs must go to stderr.
	logging.Init(level, os.Stderr)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	environmentID := cfg.SingleTenant.Environment
	if stdioEnvironment != "" {
		environmentID = stdioEnvironment
	}

	store := auth.NewStore(cfg.SingleTenant.APIKey)

	return mcpserver.ServeStdio(environmentID, rootCmd.Version, store)
}

func init() {
	rootCmd.AddCommand(stdioCmd)

	stdioCmd.Flags().StringVar(&stdioEnvironment, "environment", "", "Target environment: preprod or mainnet (default from config, mainnet)")
	stdioCmd.Flags().BoolVar(&stdioDebug, "debug", false, "Enable debug logging")
}
