package local

import (
	"fmt"

	"github.com/kindling-labs/kindling/internal/service"
	"github.com/spf13/cobra"
)

// PromptsCmd creates the prompts command: generate conversation starters for
// one idea. Uses the model endpoint when configured, offline question
// templates otherwise.
func PromptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts <idea-id>",
		Short: "Generate conversation-starter prompts for an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ideaID := args[0]

			env, cleanup, err := OpenEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := env.Rebuild(ctx); err != nil {
				return fmt.Errorf("failed to build feed: %w", err)
			}

			idea, ok := env.Library.Get(ideaID)
			if !ok {
				return fmt.Errorf("idea %q not found", ideaID)
			}

			var prompts []string
			if svc := env.PromptService(); svc != nil {
				prompts = svc.GeneratePromptsForIdea(ctx, idea.ID, idea.Title, idea.Blurb)
			} else {
				prompts = service.GenerateQuestionsForIdea(idea)
			}

			if len(prompts) == 0 {
				fmt.Println("No prompts available for this idea right now.")
				return nil
			}
			for _, p := range prompts {
				fmt.Printf("- %s\n", p)
			}
			return nil
		},
	}

	return cmd
}
