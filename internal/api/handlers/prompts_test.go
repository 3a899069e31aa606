package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPromptGenerator is a mock implementation of PromptGenerator
type MockPromptGenerator struct {
	mock.Mock
}

func (m *MockPromptGenerator) GeneratePromptsForIdea(ctx context.Context, ideaID, title, blurb string) []string {
	args := m.Called(ctx, ideaID, title, blurb)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func requestWithID(method, target, id string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPromptsHandler_UsesGenerator(t *testing.T) {
	library := new(MockIdeaLibrary)
	generator := new(MockPromptGenerator)

	idea := domain.Idea{ID: "i1", Title: "Solar shed", Blurb: "Off-grid power."}
	library.On("Get", "i1").Return(idea, true)
	generator.On("GeneratePromptsForIdea", mock.Anything, "i1", "Solar shed", "Off-grid power.").
		Return([]string{"a", "b", "c"})

	rec := httptest.NewRecorder()
	NewPromptsHandler(library, generator).Get(rec, requestWithID(http.MethodGet, "/ideas/i1/prompts", "i1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PromptsResponse
	decodeSuccess(t, rec, &resp)
	assert.Equal(t, "i1", resp.IdeaID)
	assert.Equal(t, []string{"a", "b", "c"}, resp.Prompts)
}

func TestPromptsHandler_GeneratorEmptyStaysEmpty(t *testing.T) {
	library := new(MockIdeaLibrary)
	generator := new(MockPromptGenerator)

	idea := domain.Idea{ID: "i1", Title: "Solar shed", Blurb: "Off-grid power."}
	library.On("Get", "i1").Return(idea, true)
	generator.On("GeneratePromptsForIdea", mock.Anything, "i1", mock.Anything, mock.Anything).Return(nil)

	rec := httptest.NewRecorder()
	NewPromptsHandler(library, generator).Get(rec, requestWithID(http.MethodGet, "/ideas/i1/prompts", "i1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PromptsResponse
	decodeSuccess(t, rec, &resp)
	assert.NotNil(t, resp.Prompts)
	assert.Empty(t, resp.Prompts)
}

func TestPromptsHandler_OfflineFallbackWithoutGenerator(t *testing.T) {
	library := new(MockIdeaLibrary)

	idea := domain.Idea{ID: "i1", Title: "Customer outreach tracker", Blurb: "Track customer conversations."}
	library.On("Get", "i1").Return(idea, true)

	rec := httptest.NewRecorder()
	NewPromptsHandler(library, nil).Get(rec, requestWithID(http.MethodGet, "/ideas/i1/prompts", "i1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp PromptsResponse
	decodeSuccess(t, rec, &resp)
	assert.NotEmpty(t, resp.Prompts)
}

func TestPromptsHandler_UnknownIdea(t *testing.T) {
	library := new(MockIdeaLibrary)
	library.On("Get", "missing").Return(domain.Idea{}, false)

	rec := httptest.NewRecorder()
	NewPromptsHandler(library, nil).Get(rec, requestWithID(http.MethodGet, "/ideas/missing/prompts", "missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
