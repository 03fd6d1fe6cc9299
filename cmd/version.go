package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sokosumi-mcp version",
		Long:  `Prints the version of this sokosumi-mcp binary and exits.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sokosumi-mcp version %s\n", rootCmd.Version)
		},
	}
}
