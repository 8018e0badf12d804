package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scriptgo",
	Short: "AI script generation API",
	Long: `ScriptGo generates social media scripts and multi-day content campaigns
through a chain of LLM providers, stores them per user and notifies by email.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         serveCommand,
}

// NewRootCommand wires every subcommand onto the root.
func NewRootCommand() *cobra.Command {
	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewTokenCommand())
	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
