package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kdelane/enginectl/internal/ui"
)

var (
	deleteForce bool
	deleteYes   bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <agent>",
	Short: "Delete an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "force deletion of agents with sessions/memory")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	agentID := args[0]

	if !deleteYes {
		ok, err := confirm(os.Stdin, fmt.Sprintf("Are you sure you want to delete agent %q? [y/N]: ", agentID))
		if err != nil {
			return err
		}
		if !ok {
			ui.PrintWarning("Aborted.")
			return nil
		}
	}

	client, err := newClient(false)
	if err != nil {
		return err
	}

	if err := client.DeleteAgent(cmd.Context(), agentID, deleteForce); err != nil {
		return fmt.Errorf("deleting agent: %w", err)
	}
	ui.PrintSuccess("Agent %q deleted", agentID)
	return nil
}

// confirm prompts for a yes/no answer on in. Only "y" and "yes"
// (case-insensitive) confirm; everything else, including EOF, declines.
func confirm(in io.Reader, prompt string) (bool, error) {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
