package handlers

import (
	"net/http"
	"strconv"

	"github.com/kindling-labs/kindling/internal/api"
	"github.com/kindling-labs/kindling/internal/domain"
)

type IdeaLibrary interface {
	Feed() []domain.Idea
	Get(id string) (domain.Idea, bool)
	Top(n int) []domain.Idea
}

type FeedHandler struct {
	library IdeaLibrary
}

func NewFeedHandler(library IdeaLibrary) *FeedHandler {
	return &FeedHandler{library: library}
}

type IdeaResponse struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Blurb string   `json:"blurb"`
	Tags  []string `json:"tags"`
}

func ideaToResponse(idea domain.Idea) IdeaResponse {
	tags := idea.Tags
	if tags == nil {
		tags = []string{}
	}
	return IdeaResponse{
		ID:    idea.ID,
		Title: idea.Title,
		Blurb: idea.Blurb,
		Tags:  tags,
	}
}

type FeedResponse struct {
	Items []IdeaResponse `json:"items"`
	Total int            `json:"total"`
}

func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	ideas := h.library.Feed()

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(ideas) {
			ideas = ideas[:limit]
		}
	}

	items := make([]IdeaResponse, len(ideas))
	for i, idea := range ideas {
		items[i] = ideaToResponse(idea)
	}

	api.Success(w, http.StatusOK, FeedResponse{Items: items, Total: len(items)})
}
