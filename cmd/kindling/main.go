package main

import (
	"fmt"
	"os"

	"github.com/kindling-labs/kindling/internal/cli"
	"github.com/kindling-labs/kindling/internal/cli/local"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "kindling",
		Short: "Kindling CLI - local idea synthesis from your own notes and chats",
		Long: `Kindling CLI operates directly on the local store.

Environment variables:
  KINDLING_DB          Path to the SQLite database (default: kindling.db)
  KINDLING_PROJECTS    Projects JSON file (default: projects.json)
  KINDLING_CHAT_HTML   Chat transcript HTML (default: chat.html)
  LLM_URL              Model endpoint for prompts and chat (optional)
  OPENAI_API_KEY       Remote embeddings for the reembed command (optional)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(local.IngestCmd())
	rootCmd.AddCommand(local.FeedCmd())
	rootCmd.AddCommand(local.PromptsCmd())
	rootCmd.AddCommand(local.ChatCmd())
	rootCmd.AddCommand(local.NewsCmd())
	rootCmd.AddCommand(local.ReembedCmd())
	rootCmd.AddCommand(cli.SchemaCmd(rootCmd))

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
