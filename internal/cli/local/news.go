package local

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewsCmd creates the news command: print the cached daily top posts.
func NewsCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "news",
		Short: "Show top daily posts from the configured subreddits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, cleanup, err := OpenEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			posts, err := env.News.TopPosts(ctx, refresh)
			if err != nil {
				return fmt.Errorf("failed to fetch news: %w", err)
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(posts)
			}

			for _, p := range posts {
				fmt.Printf("%6d  r/%-16s %s\n", p.Score, p.Subreddit, p.Title)
				fmt.Printf("        %s\n", p.URL)
			}
			fmt.Printf("\n%d posts\n", len(posts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Force re-fetch even when the cache is fresh")

	return cmd
}
