package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docfolio/docfolio/internal/app"
	"github.com/docfolio/docfolio/internal/assisterr"
	"github.com/docfolio/docfolio/internal/config"
)

// newChatCommand runs a local REPL against the assistant pipeline without
// the HTTP layer. Type "yes"/"no" to answer a confirmation prompt and
// "exit" to quit.
func newChatCommand(logger *slog.Logger) *cobra.Command {
	var attachedDocumentID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			runtime, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			defer runtime.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			conversation, err := runtime.Store().CreateConversation(ctx, "terminal chat")
			if err != nil {
				return err
			}
			service := runtime.Assistant()
			cmd.Println("Connected. Type a message, or 'exit' to quit.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				cmd.Print("> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				if _, pending := service.PendingPrompt(conversation.ID); pending {
					switch strings.ToLower(line) {
					case "yes", "y":
						result, err := service.Confirm(ctx, conversation.ID)
						if err != nil {
							return err
						}
						printOutcome(cmd, result.OK, result.Message)
						continue
					case "no", "n":
						if err := service.Cancel(ctx, conversation.ID); err != nil {
							return err
						}
						cmd.Println("Cancelled. No changes were made.")
						continue
					}
					// Any other text abandons the pending action first.
					if err := service.Cancel(ctx, conversation.ID); err != nil && !errors.Is(err, assisterr.ErrNoPendingAction) {
						return err
					}
				}

				outcome, err := service.HandleMessage(ctx, conversation.ID, line, attachedDocumentID)
				if err != nil {
					cmd.Println("error:", err)
					continue
				}
				if outcome.Reply != "" {
					cmd.Println(outcome.Reply)
				}
				if outcome.Pending {
					cmd.Println(outcome.Prompt, "(yes/no)")
				}
				if outcome.Executed {
					printOutcome(cmd, outcome.Result.OK, outcome.Result.Message)
				}
				if outcome.Rejected != "" {
					cmd.Println("(action rejected:", outcome.Rejected+")")
				}
			}
		},
	}
	cmd.Flags().StringVar(&attachedDocumentID, "document", "", "attach a document id to every message")
	return cmd
}

func printOutcome(cmd *cobra.Command, ok bool, message string) {
	marker := "✓"
	if !ok {
		marker = "✗"
	}
	cmd.Println(fmt.Sprintf("%s %s", marker, message))
}
