package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIdeaLibrary is a mock implementation of IdeaLibrary
type MockIdeaLibrary struct {
	mock.Mock
}

func (m *MockIdeaLibrary) Feed() []domain.Idea {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Idea)
}

func (m *MockIdeaLibrary) Get(id string) (domain.Idea, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.Idea), args.Bool(1)
}

func (m *MockIdeaLibrary) Top(n int) []domain.Idea {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Idea)
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestFeedHandler_List(t *testing.T) {
	library := new(MockIdeaLibrary)
	library.On("Feed").Return([]domain.Idea{
		{ID: "i1", Title: "First", Blurb: "one", Tags: []string{"go"}},
		{ID: "i2", Title: "Second", Blurb: "two"},
	})

	rec := httptest.NewRecorder()
	NewFeedHandler(library).List(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp FeedResponse
	decodeSuccess(t, rec, &resp)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "i1", resp.Items[0].ID)
	assert.Equal(t, []string{"go"}, resp.Items[0].Tags)
	// nil tags serialize as an empty array, not null
	assert.NotNil(t, resp.Items[1].Tags)
	assert.Empty(t, resp.Items[1].Tags)
}

func TestFeedHandler_ListRespectsLimit(t *testing.T) {
	library := new(MockIdeaLibrary)
	library.On("Feed").Return([]domain.Idea{
		{ID: "i1", Title: "First"},
		{ID: "i2", Title: "Second"},
		{ID: "i3", Title: "Third"},
	})

	rec := httptest.NewRecorder()
	NewFeedHandler(library).List(rec, httptest.NewRequest(http.MethodGet, "/feed?limit=2", nil))

	var resp FeedResponse
	decodeSuccess(t, rec, &resp)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "i2", resp.Items[1].ID)
}

func TestFeedHandler_ListIgnoresBadLimit(t *testing.T) {
	library := new(MockIdeaLibrary)
	library.On("Feed").Return([]domain.Idea{{ID: "i1"}, {ID: "i2"}})

	rec := httptest.NewRecorder()
	NewFeedHandler(library).List(rec, httptest.NewRequest(http.MethodGet, "/feed?limit=bogus", nil))

	var resp FeedResponse
	decodeSuccess(t, rec, &resp)
	assert.Equal(t, 2, resp.Total)
}

func TestFeedHandler_EmptyFeed(t *testing.T) {
	library := new(MockIdeaLibrary)
	library.On("Feed").Return([]domain.Idea{})

	rec := httptest.NewRecorder()
	NewFeedHandler(library).List(rec, httptest.NewRequest(http.MethodGet, "/feed", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp FeedResponse
	decodeSuccess(t, rec, &resp)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Items)
}
