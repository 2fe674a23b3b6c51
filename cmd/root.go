// Package cmd provides the enginectl CLI commands.
//
// The commands are thin glue: flag parsing, configuration resolution,
// and output formatting around the engine client. The interactive chat
// subsystem lives in internal/chat.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	flagProject  string
	flagLocation string
)

var rootCmd = &cobra.Command{
	Use:   "enginectl",
	Short: "Manage and chat with hosted agent deployments",
	Long: `enginectl is a command-line client for the Agent Engine service.

It manages agent deployments (list, get, create, delete), inspects their
sessions, sandboxes, and memories, and starts interactive chat sessions
that stream responses from a deployed agent.`,
	Example: `  # List agents in a project
  $ enginectl list -p my-project -l us-central1

  # Inspect one agent
  $ enginectl get abc123 -p my-project -l us-central1

  # Start an interactive chat
  $ enginectl chat abc123 -p my-project -l us-central1`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. main translates a returned error into
// a non-zero exit status.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "cloud project ID")
	rootCmd.PersistentFlags().StringVarP(&flagLocation, "location", "l", "", "cloud region")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(sandboxesCmd)
	rootCmd.AddCommand(memoriesCmd)
	rootCmd.AddCommand(chatCmd)
}
