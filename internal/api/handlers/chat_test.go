package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChatService is a mock implementation of ChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) ContinueThread(ctx context.Context, threadID, userInput string, idea domain.Idea) string {
	args := m.Called(ctx, threadID, userInput, idea)
	return args.String(0)
}

// MockThreadStore is a mock implementation of ThreadStore
type MockThreadStore struct {
	mock.Mock
}

func (m *MockThreadStore) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Thread), args.Error(1)
}

func (m *MockThreadStore) ListThreads(ctx context.Context) ([]domain.Thread, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Thread), args.Error(1)
}

func (m *MockThreadStore) GetMessages(ctx context.Context, threadID string, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, threadID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func TestChatHandler_SendWithExistingThread(t *testing.T) {
	chat := new(MockChatService)
	library := new(MockIdeaLibrary)

	idea := domain.Idea{ID: "i1", Title: "Solar shed"}
	library.On("Get", "i1").Return(idea, true)
	chat.On("ContinueThread", mock.Anything, "t1", "where do I start?", idea).Return("Measure the roof first.")

	body := `{"thread_id": "t1", "idea_id": "i1", "content": "where do I start?"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/threads/messages", strings.NewReader(body))

	NewChatHandler(chat, new(MockThreadStore), library).Send(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SendMessageResponse
	decodeSuccess(t, rec, &resp)
	assert.Equal(t, "t1", resp.ThreadID)
	assert.Equal(t, "Measure the roof first.", resp.Reply)
}

func TestChatHandler_SendAssignsThreadID(t *testing.T) {
	chat := new(MockChatService)
	library := new(MockIdeaLibrary)

	idea := domain.Idea{ID: "i1", Title: "Solar shed"}
	library.On("Get", "i1").Return(idea, true)

	var gotThreadID string
	chat.On("ContinueThread", mock.Anything, mock.Anything, "hello", idea).
		Run(func(args mock.Arguments) { gotThreadID = args.String(1) }).
		Return("ok")

	body := `{"idea_id": "i1", "content": "hello"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/threads/messages", strings.NewReader(body))

	NewChatHandler(chat, new(MockThreadStore), library).Send(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, gotThreadID)

	var resp SendMessageResponse
	decodeSuccess(t, rec, &resp)
	assert.Equal(t, gotThreadID, resp.ThreadID)
}

func TestChatHandler_SendValidation(t *testing.T) {
	handler := NewChatHandler(new(MockChatService), new(MockThreadStore), new(MockIdeaLibrary))

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{broken`},
		{"blank content", `{"idea_id": "i1", "content": "   "}`},
		{"missing idea", `{"content": "hello"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/threads/messages", strings.NewReader(tt.body))
			handler.Send(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestChatHandler_SendUnknownIdea(t *testing.T) {
	library := new(MockIdeaLibrary)
	library.On("Get", "missing").Return(domain.Idea{}, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/threads/messages",
		strings.NewReader(`{"idea_id": "missing", "content": "hello"}`))

	NewChatHandler(new(MockChatService), new(MockThreadStore), library).Send(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatHandler_ListThreads(t *testing.T) {
	threads := new(MockThreadStore)
	ts := time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC)
	threads.On("ListThreads", mock.Anything).Return([]domain.Thread{
		{ID: "t1", Title: "Solar shed", CreatedAt: ts, UpdatedAt: ts},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/threads", nil)

	NewChatHandler(new(MockChatService), threads, new(MockIdeaLibrary)).ListThreads(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []ThreadResponse
	decodeSuccess(t, rec, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, "t1", resp[0].ID)
	assert.Equal(t, "2026-08-29T12:30:00Z", resp[0].CreatedAt)
}

func TestChatHandler_GetMessages(t *testing.T) {
	threads := new(MockThreadStore)
	ts := time.Date(2026, 8, 29, 12, 30, 0, 0, time.UTC)
	threads.On("GetThread", mock.Anything, "t1").Return(&domain.Thread{ID: "t1"}, nil)
	threads.On("GetMessages", mock.Anything, "t1", 50).Return([]domain.ChatMessage{
		{ID: "t1_m1", Role: domain.MessageRoleUser, Content: "hi", CreatedAt: ts},
		{ID: "t1_m2", Role: domain.MessageRoleAssistant, Content: "hello", CreatedAt: ts},
	}, nil)

	rec := httptest.NewRecorder()
	req := requestWithID(http.MethodGet, "/threads/t1/messages", "t1")

	NewChatHandler(new(MockChatService), threads, new(MockIdeaLibrary)).GetMessages(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []ChatMessageResponse
	decodeSuccess(t, rec, &resp)
	require.Len(t, resp, 2)
	assert.Equal(t, "user", resp[0].Role)
	assert.Equal(t, "t1_m2", resp[1].ID)
}

func TestChatHandler_GetMessagesUnknownThread(t *testing.T) {
	threads := new(MockThreadStore)
	threads.On("GetThread", mock.Anything, "missing").Return(nil, domain.ErrThreadNotFound)

	rec := httptest.NewRecorder()
	req := requestWithID(http.MethodGet, "/threads/missing/messages", "missing")

	NewChatHandler(new(MockChatService), threads, new(MockIdeaLibrary)).GetMessages(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatHandler_GetMessagesCustomLimit(t *testing.T) {
	threads := new(MockThreadStore)
	threads.On("GetThread", mock.Anything, "t1").Return(&domain.Thread{ID: "t1"}, nil)
	threads.On("GetMessages", mock.Anything, "t1", 5).Return([]domain.ChatMessage{}, nil)

	rec := httptest.NewRecorder()
	req := requestWithID(http.MethodGet, "/threads/t1/messages?limit=5", "t1")

	NewChatHandler(new(MockChatService), threads, new(MockIdeaLibrary)).GetMessages(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	threads.AssertCalled(t, "GetMessages", mock.Anything, "t1", 5)
}
