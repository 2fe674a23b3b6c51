package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kdelane/enginectl/internal/chat"
	"github.com/kdelane/enginectl/internal/log"
	"github.com/kdelane/enginectl/internal/ui"
)

var (
	chatUser  string
	chatDebug bool
)

var chatCmd = &cobra.Command{
	Use:   "chat <agent>",
	Short: "Start an interactive chat session with an agent",
	Long: `Start an interactive chat session with a deployed agent.

The conversation streams token by token. Type 'quit' or 'exit' (or press
Ctrl+D) to end the session; long-term memories are generated from the
conversation on exit. Sessions are resumed per agent and user where the
remote service still knows them.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "user identity for the session (default: configured user_id)")
	chatCmd.Flags().BoolVarP(&chatDebug, "debug", "d", false, "log request/response metadata")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, cfg, err := newClientAndConfig(chatDebug)
	if err != nil {
		return err
	}

	agentName, err := client.ResourceName(args[0])
	if err != nil {
		return err
	}

	userID := chatUser
	if userID == "" {
		userID = cfg.UserID
	}
	if userID == "" {
		userID = "cli-" + uuid.NewString()[:8]
	}

	stateDir, err := chat.DefaultStateDir()
	if err != nil {
		return fmt.Errorf("preparing session state: %w", err)
	}

	level := slog.LevelWarn
	if chatDebug || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})

	ui.PrintChatBanner(args[0])

	loop, err := chat.New(chat.Config{
		Provider:  client,
		Logger:    logger,
		AgentName: agentName,
		UserID:    userID,
		Input:     os.Stdin,
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
		StateDir:  stateDir,
	})
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}
