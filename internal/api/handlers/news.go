package handlers

import (
	"context"
	"net/http"

	"github.com/kindling-labs/kindling/internal/api"
	"github.com/kindling-labs/kindling/internal/domain"
)

type NewsService interface {
	TopPosts(ctx context.Context, forceRefresh bool) ([]domain.NewsPost, error)
}

type NewsHandler struct {
	news NewsService
}

func NewNewsHandler(news NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

type NewsPostResponse struct {
	ID          string `json:"id"`
	Subreddit   string `json:"subreddit"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	ExternalURL string `json:"external_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SelfText    string `json:"self_text,omitempty"`
	Score       int64  `json:"score"`
	CreatedAt   int64  `json:"created_at"`
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"

	posts, err := h.news.TopPosts(r.Context(), force)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]NewsPostResponse, len(posts))
	for i, p := range posts {
		items[i] = NewsPostResponse{
			ID:          p.ID,
			Subreddit:   p.Subreddit,
			Title:       p.Title,
			URL:         p.URL,
			ExternalURL: p.ExternalURL,
			ImageURL:    p.ImageURL,
			SelfText:    p.SelfText,
			Score:       p.Score,
			CreatedAt:   p.CreatedAt,
		}
	}
	api.Success(w, http.StatusOK, items)
}
