package service

import (
	"context"

	"github.com/kindling-labs/kindling/internal/domain"
)

// kmeansIterations is the pass count used when synthesizing cluster ideas.
const kmeansIterations = 8

// chatIdeaCap bounds how many mined chat ideas enter the feed merge.
const chatIdeaCap = 40

// IngestData is the combined output of the ingestion loaders.
type IngestData struct {
	Projects []domain.Project
	Messages []domain.Message
}

// PipelineDocumentRepository defines the repository interface for corpus writes.
type PipelineDocumentRepository interface {
	UpsertDocuments(ctx context.Context, docs []domain.Document) error
}

// PipelineVectorRepository defines the repository interface for embedding writes.
type PipelineVectorRepository interface {
	UpsertVectors(ctx context.Context, vectors []domain.Vector) error
}

// IdeaService runs the ingestion pipeline: chunk, embed, store, cluster, and
// synthesize the ranked idea feed.
type IdeaService struct {
	docs     PipelineDocumentRepository
	vectors  PipelineVectorRepository
	embedder *HashEmbedder
	feedSize int
}

// NewIdeaService creates a new IdeaService instance.
func NewIdeaService(docs PipelineDocumentRepository, vectors PipelineVectorRepository, embedder *HashEmbedder) *IdeaService {
	return &IdeaService{
		docs:     docs,
		vectors:  vectors,
		embedder: embedder,
		feedSize: DefaultFeedSize,
	}
}

// BuildCorpus chunks the ingested text, embeds every chunk, and upserts both
// documents and vectors. Re-running replaces rows with the same ids. It returns
// the chunked documents and their embeddings in matching order.
func (s *IdeaService) BuildCorpus(ctx context.Context, data IngestData) ([]domain.Document, [][]float32, error) {
	docs := append(ChunkProjects(data.Projects), ChunkMessages(data.Messages, DefaultChunkMaxLen)...)

	if err := s.docs.UpsertDocuments(ctx, docs); err != nil {
		return nil, nil, err
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	vectors := s.embedder.EmbedTexts(texts)

	rows := make([]domain.Vector, len(docs))
	for i, v := range vectors {
		rows[i] = domain.Vector{ID: docs[i].ID, Dim: len(v), Data: v}
	}
	if err := s.vectors.UpsertVectors(ctx, rows); err != nil {
		return nil, nil, err
	}

	return docs, vectors, nil
}

// BuildClusterIdeas builds the corpus, clusters it, and returns one idea per
// non-empty cluster. Empty input produces an empty feed, not an error.
func (s *IdeaService) BuildClusterIdeas(ctx context.Context, data IngestData) ([]domain.Idea, error) {
	docs, vectors, err := s.BuildCorpus(ctx, data)
	if err != nil {
		return nil, err
	}

	k := ClusterCount(len(vectors))
	result := KMeans(vectors, k, kmeansIterations)
	return ClusterRepresentativeIdeas(docs, result), nil
}

// LoadFromIngest assembles the ranked feed from ingested data: project ideas,
// their four derivative sub-ideas each, and mined chat ideas, merged in that
// order, deduplicated by normalized key, scored, and capped at the feed size.
func (s *IdeaService) LoadFromIngest(data IngestData, scoreCtx ScoreContext) []domain.Idea {
	projectIdeas := make([]domain.Idea, 0, len(data.Projects))
	projectSubs := make([]domain.Idea, 0, len(data.Projects)*4)
	for _, p := range data.Projects {
		projectIdeas = append(projectIdeas, domain.Idea{
			ID:    p.ID,
			Title: p.Title,
			Blurb: p.Blurb,
			Tags:  p.Tags,
		})
		projectSubs = append(projectSubs, ExpandProject(p)...)
	}

	chatIdeas := MineIdeasFromMessages(data.Messages, chatIdeaCap)

	merged := MergeIdeas(projectIdeas, projectSubs, chatIdeas)
	return RankIdeas(merged, scoreCtx, s.feedSize)
}
