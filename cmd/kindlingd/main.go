package main

import (
	"fmt"
	"os"

	"github.com/kindling-labs/kindling/internal/cli"
	"github.com/kindling-labs/kindling/internal/cli/daemon"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kindlingd",
		Short: "Kindling daemon",
		Long:  "Kindling daemon serving the local idea feed, prompts, chat, and news API",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(daemon.ServeCmd())
	rootCmd.AddCommand(cli.SchemaCmd(rootCmd))

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
