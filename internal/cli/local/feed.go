package local

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// FeedCmd creates the feed command: assemble and print the ranked idea feed.
func FeedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the ranked idea feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, cleanup, err := OpenEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := env.Rebuild(ctx); err != nil {
				return fmt.Errorf("failed to build feed: %w", err)
			}

			ideas := env.Library.Feed()
			if limit > 0 && limit < len(ideas) {
				ideas = ideas[:limit]
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(ideas)
			}

			for _, idea := range ideas {
				fmt.Printf("%-12s %s\n", idea.ID, idea.Title)
				if idea.Blurb != "" {
					fmt.Printf("             %s\n", idea.Blurb)
				}
				if len(idea.Tags) > 0 {
					fmt.Printf("             [%s]\n", strings.Join(idea.Tags, ", "))
				}
			}
			fmt.Printf("\n%d ideas\n", len(ideas))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of ideas to print")

	return cmd
}
