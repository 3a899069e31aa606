package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kindling-labs/kindling/internal/api"
	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/kindling-labs/kindling/internal/service"
)

type PromptGenerator interface {
	GeneratePromptsForIdea(ctx context.Context, ideaID, title, blurb string) []string
}

// PromptsHandler serves conversation starters for an idea. With a model
// endpoint configured it runs the retrieval-augmented generator; without one
// it falls back to the offline question templates.
type PromptsHandler struct {
	library IdeaLibrary
	prompts PromptGenerator
}

func NewPromptsHandler(library IdeaLibrary, prompts PromptGenerator) *PromptsHandler {
	return &PromptsHandler{library: library, prompts: prompts}
}

type PromptsResponse struct {
	IdeaID  string   `json:"idea_id"`
	Prompts []string `json:"prompts"`
}

func (h *PromptsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	idea, ok := h.library.Get(id)
	if !ok {
		api.HandleError(w, domain.ErrIdeaNotFound)
		return
	}

	var prompts []string
	if h.prompts != nil {
		prompts = h.prompts.GeneratePromptsForIdea(r.Context(), idea.ID, idea.Title, idea.Blurb)
	} else {
		prompts = service.GenerateQuestionsForIdea(idea)
	}
	if prompts == nil {
		prompts = []string{}
	}

	api.Success(w, http.StatusOK, PromptsResponse{IdeaID: idea.ID, Prompts: prompts})
}
