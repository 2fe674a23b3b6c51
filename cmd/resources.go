package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdelane/enginectl/internal/ui"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions <agent>",
	Short: "List sessions attached to an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessions,
}

var sandboxesCmd = &cobra.Command{
	Use:   "sandboxes <agent>",
	Short: "List sandboxes attached to an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runSandboxes,
}

var memoriesCmd = &cobra.Command{
	Use:   "memories <agent>",
	Short: "List long-term memories attached to an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemories,
}

func runSessions(cmd *cobra.Command, args []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}
	sessions, err := client.ListSessions(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}
	fmt.Print(ui.RenderSessionTable(sessions))
	return nil
}

func runSandboxes(cmd *cobra.Command, args []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}
	sandboxes, err := client.ListSandboxes(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing sandboxes: %w", err)
	}
	if len(sandboxes) == 0 {
		fmt.Println("No sandboxes found.")
		return nil
	}
	fmt.Print(ui.RenderSandboxTable(sandboxes))
	return nil
}

func runMemories(cmd *cobra.Command, args []string) error {
	client, err := newClient(false)
	if err != nil {
		return err
	}
	memories, err := client.ListMemories(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("listing memories: %w", err)
	}
	if len(memories) == 0 {
		fmt.Println("No memories found.")
		return nil
	}
	fmt.Print(ui.RenderMemoryTable(memories))
	return nil
}
