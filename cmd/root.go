package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sokosumi-mcp",
	Short: "MCP server for the Sokosumi job-management API",
	Long: `sokosumi-mcp exposes the Sokosumi API (agents, jobs, user info) as
MCP tools. It can run as a stateless multi-tenant HTTP server where each
caller supplies its own API key, or as a single-tenant stdio server with
one fixed environment and a process-wide API key.`,
	// SilenceUsage is set to true to prevent printing usage message on
	// errors handled by us (e.g. invalid configuration, failed startup)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "sokosumi-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
