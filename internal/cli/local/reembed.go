package local

import (
	"fmt"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/kindling-labs/kindling/internal/openai"
	"github.com/spf13/cobra"
)

// embedBatchSize keeps individual embedding requests small.
const embedBatchSize = 64

// ReembedCmd creates the reembed command: replace every stored vector with a
// remote OpenAI embedding. Vectors keep the local 384 dimensionality so the
// retriever works unchanged; anything needing determinism still uses the hash
// embedder.
func ReembedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reembed",
		Short: "Re-embed the corpus with OpenAI embeddings",
		Long:  "Replaces all stored vectors with OpenAI embeddings. Requires OPENAI_API_KEY.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			env, cleanup, err := OpenEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if !env.Cfg.HasOpenAI() {
				return fmt.Errorf("reembed requires OPENAI_API_KEY")
			}
			client := openai.NewClientWithConfig(openai.Config{
				APIKey:              env.Cfg.OpenAIAPIKey,
				EmbeddingDimensions: env.Embedder.Dim(),
			})

			docs, err := env.Docs.GetAllDocuments(ctx)
			if err != nil {
				return fmt.Errorf("failed to load documents: %w", err)
			}
			if len(docs) == 0 {
				fmt.Println("Nothing to re-embed.")
				return nil
			}

			total := 0
			for start := 0; start < len(docs); start += embedBatchSize {
				end := min(start+embedBatchSize, len(docs))
				batch := docs[start:end]

				texts := make([]string, len(batch))
				for i, d := range batch {
					texts[i] = d.Text
				}

				embeddings, err := client.EmbedTexts(ctx, texts)
				if err != nil {
					return fmt.Errorf("embedding batch at %d failed: %w", start, err)
				}

				vectors := make([]domain.Vector, len(batch))
				for i, d := range batch {
					vectors[i] = domain.Vector{ID: d.ID, Dim: client.Dim(), Data: embeddings[i]}
				}
				if err := env.Vectors.UpsertVectors(ctx, vectors); err != nil {
					return fmt.Errorf("failed to store vectors: %w", err)
				}
				total += len(batch)
			}

			fmt.Printf("Re-embedded %d documents\n", total)
			return nil
		},
	}

	return cmd
}
