package local

import (
	"fmt"

	"github.com/spf13/cobra"
)

// IngestCmd creates the ingest command: load projects and chat history, build
// the corpus, and report what was stored.
func IngestCmd() *cobra.Command {
	var (
		projectsPath string
		chatPath     string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest projects and chat history into the local store",
		Long:  "Loads the projects JSON file and chat transcript, chunks and embeds them, and stores documents and vectors in the local database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, cleanup, err := OpenEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if projectsPath != "" {
				env.Cfg.ProjectsPath = projectsPath
			}
			if chatPath != "" {
				env.Cfg.ChatPath = chatPath
			}

			data := env.LoadIngest()
			docs, vectors, err := env.Ideas.BuildCorpus(ctx, data)
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}

			fmt.Printf("Ingested %d projects and %d messages: %d documents, %d vectors\n",
				len(data.Projects), len(data.Messages), len(docs), len(vectors))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectsPath, "projects", "", "Path to projects JSON file (overrides KINDLING_PROJECTS)")
	cmd.Flags().StringVar(&chatPath, "chat", "", "Path to chat transcript HTML (overrides KINDLING_CHAT_HTML)")

	return cmd
}
