package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdelane/enginectl/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all agents in the project",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}

	agents, err := client.ListAgents(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing agents: %w", err)
	}
	if len(agents) == 0 {
		fmt.Println("No agents found.")
		return nil
	}
	fmt.Print(ui.RenderAgentTable(agents))
	return nil
}
