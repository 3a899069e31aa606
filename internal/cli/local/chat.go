package local

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ChatCmd creates the chat command: an interactive thread against one idea.
func ChatCmd() *cobra.Command {
	var threadID string

	cmd := &cobra.Command{
		Use:   "chat <idea-id>",
		Short: "Chat about an idea in a persistent thread",
		Long:  "Opens an interactive chat thread anchored to an idea. Requires a configured model endpoint (LLM_URL). Use --thread to resume an existing thread.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ideaID := args[0]

			env, cleanup, err := OpenEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			svc := env.PromptService()
			if svc == nil {
				return fmt.Errorf("chat requires a model endpoint: set LLM_URL")
			}

			if err := env.Rebuild(ctx); err != nil {
				return fmt.Errorf("failed to build feed: %w", err)
			}

			idea, ok := env.Library.Get(ideaID)
			if !ok {
				return fmt.Errorf("idea %q not found", ideaID)
			}

			if threadID == "" {
				threadID = uuid.NewString()
				fmt.Printf("New thread %s\n", threadID)
			}

			fmt.Printf("Chatting about: %s\n", idea.Title)
			fmt.Println("Type a message and press enter. Empty line exits.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				input := strings.TrimSpace(scanner.Text())
				if input == "" {
					break
				}

				reply := svc.ContinueThread(ctx, threadID, input, idea)
				fmt.Printf("\n%s\n\n", reply)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&threadID, "thread", "", "Resume an existing thread id")

	return cmd
}
