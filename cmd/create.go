package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdelane/enginectl/internal/engine"
	"github.com/kdelane/enginectl/internal/ui"
)

var (
	createIdentity       string
	createServiceAccount string
)

var createCmd = &cobra.Command{
	Use:   "create <display-name>",
	Short: "Create a new agent (without deploying code)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createIdentity, "identity", "i", engine.IdentityAgent,
		fmt.Sprintf("identity type (%s or %s)", engine.IdentityAgent, engine.IdentityServiceAccount))
	createCmd.Flags().StringVarP(&createServiceAccount, "service-account", "s", "",
		"service account email (only used with --identity service_account)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if createIdentity != engine.IdentityAgent && createIdentity != engine.IdentityServiceAccount {
		return fmt.Errorf("invalid --identity %q: must be %s or %s",
			createIdentity, engine.IdentityAgent, engine.IdentityServiceAccount)
	}

	client, err := newClient(false)
	if err != nil {
		return err
	}

	displayName := args[0]
	ui.PrintInfo("Creating agent %q...", displayName)

	agent, err := client.CreateAgent(cmd.Context(), engine.CreateAgentParams{
		DisplayName:    displayName,
		IdentityType:   createIdentity,
		ServiceAccount: createServiceAccount,
	})
	if err != nil {
		return fmt.Errorf("creating agent: %w", err)
	}

	ui.PrintSuccess("Agent created")
	fmt.Printf("Name: %s\n", agent.ID())
	fmt.Printf("Resource: %s\n", agent.Name)
	return nil
}
