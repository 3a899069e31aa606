package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kindling-labs/kindling/internal/api"
	"github.com/kindling-labs/kindling/internal/domain"
)

type ChatService interface {
	ContinueThread(ctx context.Context, threadID, userInput string, idea domain.Idea) string
}

type ThreadStore interface {
	GetThread(ctx context.Context, id string) (*domain.Thread, error)
	ListThreads(ctx context.Context) ([]domain.Thread, error)
	GetMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error)
}

// ChatHandler exposes thread listing, history, and the chat continuation
// endpoint. Requires a configured model endpoint; the router skips mounting it
// otherwise.
type ChatHandler struct {
	chat    ChatService
	threads ThreadStore
	library IdeaLibrary
}

func NewChatHandler(chat ChatService, threads ThreadStore, library IdeaLibrary) *ChatHandler {
	return &ChatHandler{chat: chat, threads: threads, library: library}
}

type SendMessageRequest struct {
	ThreadID string `json:"thread_id"`
	IdeaID   string `json:"idea_id"`
	Content  string `json:"content"`
}

type SendMessageResponse struct {
	ThreadID string `json:"thread_id"`
	Reply    string `json:"reply"`
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.IdeaID == "" {
		api.Error(w, http.StatusBadRequest, "idea_id is required")
		return
	}

	idea, ok := h.library.Get(req.IdeaID)
	if !ok {
		api.HandleError(w, domain.ErrIdeaNotFound)
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}

	reply := h.chat.ContinueThread(r.Context(), threadID, req.Content, idea)

	api.Success(w, http.StatusOK, SendMessageResponse{ThreadID: threadID, Reply: reply})
}

type ThreadResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func threadToResponse(t domain.Thread) ThreadResponse {
	return ThreadResponse{
		ID:        t.ID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: t.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *ChatHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.threads.ListThreads(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]ThreadResponse, len(threads))
	for i, t := range threads {
		items[i] = threadToResponse(t)
	}
	api.Success(w, http.StatusOK, items)
}

type ChatMessageResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if _, err := h.threads.GetThread(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := h.threads.GetMessages(r.Context(), id, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]ChatMessageResponse, len(messages))
	for i, m := range messages {
		items[i] = ChatMessageResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	api.Success(w, http.StatusOK, items)
}
