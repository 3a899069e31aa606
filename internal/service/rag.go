package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/kindling-labs/kindling/internal/llm"
	"github.com/kindling-labs/kindling/internal/logbuf"
	"github.com/kindling-labs/kindling/internal/telemetry"
)

const (
	promptSystem = "You are a concise, warm product coach. Produce EXACTLY THREE bullet points that are highly actionable and specific. " +
		"RULES: (1) Output only three lines, no intro/outro, (2) each line must start with '- ', (3) <= 20 words if possible, (4) no numbering, no generic fluff."
	chatSystem = "You are a concise, warm product coach. Use the idea context, prior messages, and retrieved notes to propose next concrete steps. " +
		"Always stay consistent with the thread's history."

	requiredBullets = 3
	maxBulletWords  = 28

	promptContextTopK = 6
	chatPoolTopK      = 12
	chatContextTopK   = 6
	recentMessageMax  = 30
	contextMessageMax = 10
	reembedTail       = 8

	initialTimeout = 20 * time.Second
	retryTimeout   = 10 * time.Second

	initialTemperature = 0.6
	retryTemperature   = 0.5

	promptMaxTokens = 200
	chatMaxTokens   = 400

	minChatReplyLen = 10

	// Both strings are persisted as real assistant messages: the user always
	// sees some response.
	emptyReplyMessage = "I have a suggestion, but the model returned no content."
	apologyMessage    = "I hit a temporary issue generating a reply. Try again in a moment."
)

// PromptStageKind tags the terminal state of one prompt-generation pass.
type PromptStageKind int

const (
	StageCacheHit PromptStageKind = iota
	StageContextBuilt
	StageModelReplied
	StageParsed
	StageFallback
	StageEmpty
)

// PromptOutcome is the tagged result of the generation state machine; each
// transition is independently observable in tests.
type PromptOutcome struct {
	Stage   PromptStageKind
	Bullets []string
}

// ChatClient defines the interface to the language model endpoint.
type ChatClient interface {
	Complete(ctx context.Context, messages []llm.ChatMessage, temperature float64, maxTokens int) (string, error)
	Model() string
}

// PromptCacheRepository defines the repository interface for the prompt cache.
type PromptCacheRepository interface {
	GetCachedPrompts(ctx context.Context, ideaID string) ([]string, error)
	SetCachedPrompts(ctx context.Context, ideaID string, prompts []string) error
}

// RAGDocumentRepository defines the repository interface for context assembly.
type RAGDocumentRepository interface {
	GetDocumentsByIDs(ctx context.Context, ids []string) ([]domain.Document, error)
	GetDocumentIDsBySource(ctx context.Context, source domain.DocumentSource) ([]string, error)
	GetDocumentIDsByPrefix(ctx context.Context, prefix string) ([]string, error)
	UpsertDocuments(ctx context.Context, docs []domain.Document) error
}

// RAGThreadRepository defines the repository interface for chat threads.
type RAGThreadRepository interface {
	UpsertThread(ctx context.Context, id, title string) (*domain.Thread, error)
	AppendMessage(ctx context.Context, threadID string, role domain.MessageRole, content string) (*domain.ChatMessage, error)
	GetMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error)
}

// DocumentRetriever answers similarity queries over the stored corpus.
type DocumentRetriever interface {
	RetrieveTopK(ctx context.Context, query []float32, k int) ([]RetrievalResult, error)
}

// PromptService is the retrieval-augmented prompt generator and chat
// continuation engine. Every public method is total with respect to failure:
// transport and parse errors degrade the result, they never propagate.
type PromptService struct {
	client   ChatClient
	cache    PromptCacheRepository
	docs     RAGDocumentRepository
	threads  RAGThreadRepository
	vectors  PipelineVectorRepository
	retrieve DocumentRetriever
	embedder *HashEmbedder
	log      *logbuf.Buffer
}

// NewPromptService creates a new PromptService instance.
func NewPromptService(
	client ChatClient,
	cache PromptCacheRepository,
	docs RAGDocumentRepository,
	threads RAGThreadRepository,
	vectors PipelineVectorRepository,
	retrieve DocumentRetriever,
	embedder *HashEmbedder,
	logBuffer *logbuf.Buffer,
) *PromptService {
	return &PromptService{
		client:   client,
		cache:    cache,
		docs:     docs,
		threads:  threads,
		vectors:  vectors,
		retrieve: retrieve,
		embedder: embedder,
		log:      logBuffer,
	}
}

// GeneratePromptsForIdea produces up to three actionable prompt bullets for an
// idea: cache check, retrieval-augmented model call, bullet parsing, one
// stricter retry, sentence fallback, empty. Results with three bullets are
// written through to the cache before returning. The worst case is an empty
// slice, never an error.
func (s *PromptService) GeneratePromptsForIdea(ctx context.Context, ideaID, title, blurb string) []string {
	ctx, span := telemetry.StartSpan(ctx, "PromptService.GeneratePromptsForIdea", telemetry.SpanAttributes{
		IdeaID:    ideaID,
		Operation: "generate_prompts",
	})
	defer span.End()

	outcome := s.generate(ctx, ideaID, title, blurb)
	return outcome.Bullets
}

func (s *PromptService) generate(ctx context.Context, ideaID, title, blurb string) PromptOutcome {
	s.log.Debug("[llm] generate idea=%s model=%s", ideaID, s.client.Model())

	// CheckCache: only >= 3 entries count as a hit.
	if cached, err := s.cache.GetCachedPrompts(ctx, ideaID); err == nil && len(cached) >= requiredBullets {
		s.log.Debug("[llm] cache hit idea=%s", ideaID)
		return PromptOutcome{Stage: StageCacheHit, Bullets: cached}
	}

	// BuildContext: a storage failure here means generating without context,
	// not aborting.
	contextDocs := s.buildIdeaContext(ctx, title, blurb)

	user := fmt.Sprintf("Idea: %s\n\nBlurb: %s\n\nNotes (from user's history):\n%s\n\nRespond with ONLY three lines as specified.",
		title, blurb, contextDocs)

	// RequestModel -> ParseBullets. A transport failure or timeout is "no
	// bullets for this attempt", which drives the retry, never a crash.
	text, err := s.complete(ctx, promptSystem, user, initialTemperature, initialTimeout, promptMaxTokens)
	if err != nil {
		s.log.Debug("[llm] request failed: %v", err)
		text = ""
	}
	bullets := ParseBullets(text)
	s.log.Debug("[llm] bullets first pass count=%d", len(bullets))

	// RetryRequest: one stricter attempt at lower temperature.
	if len(bullets) < requiredBullets {
		retryUser := user + "\n\nYour previous response did not match the format. Respond again with exactly three lines starting with '- ' and nothing else."
		retryText, err := s.complete(ctx, promptSystem, retryUser, retryTemperature, retryTimeout, promptMaxTokens)
		if err != nil {
			s.log.Debug("[llm] retry failed: %v", err)
		} else {
			text = retryText
			bullets = ParseBullets(text)
			s.log.Debug("[llm] bullets retry pass count=%d", len(bullets))
		}
	}

	// SentenceFallback: salvage sentences from whatever the model said.
	stage := StageParsed
	if len(bullets) < requiredBullets && text != "" {
		bullets = SentenceFallback(text)
		stage = StageFallback
	}

	if len(bullets) >= requiredBullets {
		if err := s.cache.SetCachedPrompts(ctx, ideaID, bullets); err != nil {
			s.log.Debug("[llm] cache write failed: %v", err)
		}
		return PromptOutcome{Stage: stage, Bullets: bullets}
	}

	return PromptOutcome{Stage: StageEmpty}
}

// ContinueThread appends the user's message, asks the model for a free-text
// reply grounded in a context pool restricted to this idea's project, the
// general chat corpus, and the thread's own history, persists the assistant
// reply, and best-effort re-embeds the recent exchange for future retrieval.
// Total failure yields a fixed apology, itself persisted as the reply.
func (s *PromptService) ContinueThread(ctx context.Context, threadID, userInput string, idea domain.Idea) string {
	ctx, span := telemetry.StartSpan(ctx, "PromptService.ContinueThread", telemetry.SpanAttributes{
		IdeaID:    idea.ID,
		ThreadID:  threadID,
		Operation: "continue_thread",
	})
	defer span.End()

	s.log.Debug("[chat] continue thread=%s", threadID)

	if _, err := s.threads.UpsertThread(ctx, threadID, idea.Title); err != nil {
		s.log.Debug("[chat] thread upsert failed: %v", err)
	}
	if _, err := s.threads.AppendMessage(ctx, threadID, domain.MessageRoleUser, userInput); err != nil {
		s.log.Debug("[chat] user message append failed: %v", err)
	}

	recent, err := s.threads.GetMessages(ctx, threadID, recentMessageMax)
	if err != nil {
		s.log.Debug("[chat] message fetch failed: %v", err)
		recent = nil
	}

	contextDocs := s.buildThreadContext(ctx, threadID, userInput, idea, recent)

	user := fmt.Sprintf("Idea: %s\n\nBlurb: %s\n\nNotes + recent chat:\n%s\n\nUser now says: %s\n\nRespond with a brief, practical next step or two (3-6 sentences max).",
		idea.Title, idea.Blurb, contextDocs, userInput)

	var text string
	for attempt := 1; attempt <= 2; attempt++ {
		text, err = s.complete(ctx, chatSystem, user, initialTemperature, initialTimeout, chatMaxTokens)
		if err != nil {
			s.log.Debug("[chat] request failed: %v", err)
			span.SetError(err)
			s.persistReply(ctx, threadID, apologyMessage)
			return apologyMessage
		}
		s.log.Debug("[chat] attempt=%d resp length=%d", attempt, len(text))
		if len(strings.TrimSpace(text)) > minChatReplyLen {
			break
		}
	}

	reply := strings.TrimSpace(text)
	if reply == "" {
		reply = emptyReplyMessage
	}

	saved := s.persistReply(ctx, threadID, reply)
	s.reembedExchange(ctx, threadID, recent, saved)
	return reply
}

func (s *PromptService) buildIdeaContext(ctx context.Context, title, blurb string) string {
	query := s.embedder.Embed(title + ". " + blurb)
	top, err := s.retrieve.RetrieveTopK(ctx, query, promptContextTopK)
	if err != nil {
		s.log.Debug("[llm] context build failed: %v", err)
		return ""
	}

	ids := make([]string, len(top))
	for i, t := range top {
		ids[i] = t.ID
	}
	docs, err := s.docs.GetDocumentsByIDs(ctx, ids)
	if err != nil {
		s.log.Debug("[llm] context fetch failed: %v", err)
		return ""
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	joined := strings.Join(texts, "\n\n")
	s.log.Debug("[llm] context docs=%d totalLen=%d", len(docs), len(joined))
	return joined
}

// buildThreadContext assembles the restricted retrieval pool for a thread:
// the idea's root project documents, the chat corpus, and this thread's own
// embedded messages. The full corpus is deliberately excluded to avoid
// cross-idea leakage.
func (s *PromptService) buildThreadContext(ctx context.Context, threadID, userInput string, idea domain.Idea, recent []domain.ChatMessage) string {
	query := s.embedder.Embed(idea.Title + ". " + idea.Blurb + ". " + userInput)

	candidates := make(map[string]struct{})
	rootID, _, _ := strings.Cut(threadID, "_")
	if strings.HasPrefix(rootID, "p") {
		if ids, err := s.docs.GetDocumentIDsByPrefix(ctx, "proj_"+rootID); err == nil {
			for _, id := range ids {
				candidates[id] = struct{}{}
			}
		}
	}
	if ids, err := s.docs.GetDocumentIDsBySource(ctx, domain.DocumentSourceChat); err == nil {
		for _, id := range ids {
			candidates[id] = struct{}{}
		}
	}
	if ids, err := s.docs.GetDocumentIDsByPrefix(ctx, "thread_"+threadID+"_"); err == nil {
		for _, id := range ids {
			candidates[id] = struct{}{}
		}
	}

	var globals []string
	if top, err := s.retrieve.RetrieveTopK(ctx, query, chatPoolTopK); err == nil {
		ids := make([]string, 0, chatContextTopK)
		for _, t := range top {
			if _, ok := candidates[t.ID]; !ok {
				continue
			}
			ids = append(ids, t.ID)
			if len(ids) >= chatContextTopK {
				break
			}
		}
		if docs, err := s.docs.GetDocumentsByIDs(ctx, ids); err == nil {
			for _, d := range docs {
				globals = append(globals, d.Text)
			}
		}
	} else {
		s.log.Debug("[chat] context build failed: %v", err)
	}

	tail := recent
	if len(tail) > contextMessageMax {
		tail = tail[len(tail)-contextMessageMax:]
	}
	parts := append([]string(nil), globals...)
	for _, m := range tail {
		parts = append(parts, fmt.Sprintf("[%s] %s", m.Role, m.Content))
	}

	joined := strings.Join(parts, "\n\n")
	s.log.Debug("[chat] context globals=%d recent=%d totalLen=%d", len(globals), len(tail), len(joined))
	return joined
}

func (s *PromptService) persistReply(ctx context.Context, threadID, reply string) *domain.ChatMessage {
	saved, err := s.threads.AppendMessage(ctx, threadID, domain.MessageRoleAssistant, reply)
	if err != nil {
		s.log.Debug("[chat] assistant message append failed: %v", err)
		return nil
	}
	return saved
}

// reembedExchange writes the tail of the conversation back into the vector
// store so future retrieval can see it. Best effort: failures are logged only.
func (s *PromptService) reembedExchange(ctx context.Context, threadID string, recent []domain.ChatMessage, saved *domain.ChatMessage) {
	tail := recent
	if len(tail) > reembedTail {
		tail = tail[len(tail)-reembedTail:]
	}

	docs := make([]domain.Document, 0, len(tail)+1)
	for _, m := range tail {
		docs = append(docs, domain.Document{
			ID:     domain.ThreadDocumentID(threadID, m.ID),
			Text:   m.Content,
			Source: domain.DocumentSourceThread,
		})
	}
	if saved != nil {
		docs = append(docs, domain.Document{
			ID:     domain.ThreadDocumentID(threadID, saved.ID),
			Text:   saved.Content,
			Source: domain.DocumentSourceThread,
		})
	}
	if len(docs) == 0 {
		return
	}

	if err := s.docs.UpsertDocuments(ctx, docs); err != nil {
		s.log.Debug("[chat] thread doc upsert failed: %v", err)
		return
	}

	vectors := make([]domain.Vector, len(docs))
	for i, d := range docs {
		v := s.embedder.Embed(d.Text)
		vectors[i] = domain.Vector{ID: d.ID, Dim: len(v), Data: v}
	}
	if err := s.vectors.UpsertVectors(ctx, vectors); err != nil {
		s.log.Debug("[chat] thread vector upsert failed: %v", err)
		return
	}
	s.log.Debug("[chat] updated thread vectors count=%d", len(vectors))
}

func (s *PromptService) complete(ctx context.Context, system, user string, temperature float64, timeout time.Duration, maxTokens int) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.client.Complete(callCtx, []llm.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, temperature, maxTokens)
}

var bulletMarker = regexp.MustCompile(`^\s*[-•\d.)]+\s*`)

// ParseBullets extracts up to three clean bullet lines from a model response:
// list markers stripped, empty lines and "here are"-style preambles dropped,
// internal whitespace collapsed, lines over 28 words discarded.
func ParseBullets(text string) []string {
	bullets := make([]string, 0, requiredBullets)
	for _, line := range strings.Split(text, "\n") {
		l := strings.TrimSpace(bulletMarker.ReplaceAllString(line, ""))
		if l == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(l), "here are") {
			continue
		}
		l = strings.Join(strings.Fields(l), " ")
		if len(strings.Fields(l)) > maxBulletWords {
			continue
		}
		bullets = append(bullets, l)
		if len(bullets) >= requiredBullets {
			break
		}
	}
	return bullets
}

// SentenceFallback splits a raw response into up to three sentences, each
// capped at 140 chars with an ellipsis.
func SentenceFallback(text string) []string {
	flat := strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")

	out := make([]string, 0, requiredBullets)
	for _, s := range SplitSentences(flat) {
		out = append(out, domain.Ellipsize(s, 140))
		if len(out) >= requiredBullets {
			break
		}
	}
	return out
}
