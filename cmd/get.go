package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdelane/enginectl/internal/ui"
)

var getFull bool

var getCmd = &cobra.Command{
	Use:   "get <agent>",
	Short: "Get details for a specific agent",
	Long:  "Get details for an agent, addressed by short ID or full resource name.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().BoolVarP(&getFull, "full", "f", false, "show full JSON output")
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}

	agent, err := client.GetAgent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("getting agent: %w", err)
	}

	if getFull {
		data, err := json.MarshalIndent(agent, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding agent: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(ui.RenderAgentDetail(agent))
	return nil
}
