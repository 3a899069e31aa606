package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/kindling-labs/kindling/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPrefetchLibrary is a mock implementation of PrefetchLibrary
type MockPrefetchLibrary struct {
	mock.Mock
}

func (m *MockPrefetchLibrary) Top(n int) []domain.Idea {
	args := m.Called(n)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Idea)
}

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

// MockPromptCacheReader is a mock implementation of PromptCache
type MockPromptCacheReader struct {
	mock.Mock
}

func (m *MockPromptCacheReader) GetCachedPrompts(ctx context.Context, ideaID string) ([]string, error) {
	args := m.Called(ctx, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestPrefetchWorker_SkipsIdeasWithCachedPrompts(t *testing.T) {
	library := new(MockPrefetchLibrary)
	prompts := new(MockPromptGenerator)
	cache := new(MockPromptCacheReader)

	library.On("Top", 10).Return([]domain.Idea{
		{ID: "warm", Title: "Warm", Blurb: "already cached"},
		{ID: "cold", Title: "Cold", Blurb: "needs prompts"},
	})
	cache.On("GetCachedPrompts", mock.Anything, "warm").Return([]string{"a", "b", "c"}, nil)
	cache.On("GetCachedPrompts", mock.Anything, "cold").Return(nil, nil)
	prompts.On("GeneratePromptsForIdea", mock.Anything, "cold", "Cold", "needs prompts").
		Return([]string{"x", "y", "z"})

	worker := NewPrefetchWorker(library, prompts, cache, 10)

	require.NoError(t, worker.ProcessJobs(context.Background()))

	prompts.AssertNotCalled(t, "GeneratePromptsForIdea", mock.Anything, "warm", mock.Anything, mock.Anything)
	prompts.AssertCalled(t, "GeneratePromptsForIdea", mock.Anything, "cold", "Cold", "needs prompts")
}

func TestPrefetchWorker_TwoCachedEntriesStillWarms(t *testing.T) {
	library := new(MockPrefetchLibrary)
	prompts := new(MockPromptGenerator)
	cache := new(MockPromptCacheReader)

	library.On("Top", 10).Return([]domain.Idea{{ID: "i1", Title: "T", Blurb: "B"}})
	cache.On("GetCachedPrompts", mock.Anything, "i1").Return([]string{"a", "b"}, nil)
	prompts.On("GeneratePromptsForIdea", mock.Anything, "i1", "T", "B").Return([]string{"a", "b", "c"})

	worker := NewPrefetchWorker(library, prompts, cache, 10)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	prompts.AssertExpectations(t)
}

func TestPrefetchWorker_CacheErrorTreatedAsMiss(t *testing.T) {
	library := new(MockPrefetchLibrary)
	prompts := new(MockPromptGenerator)
	cache := new(MockPromptCacheReader)

	library.On("Top", 10).Return([]domain.Idea{{ID: "i1", Title: "T", Blurb: "B"}})
	cache.On("GetCachedPrompts", mock.Anything, "i1").Return(nil, errors.New("db locked"))
	prompts.On("GeneratePromptsForIdea", mock.Anything, "i1", "T", "B").Return(nil)

	worker := NewPrefetchWorker(library, prompts, cache, 10)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	prompts.AssertExpectations(t)
}

func TestPrefetchWorker_StopsOnCancelledContext(t *testing.T) {
	library := new(MockPrefetchLibrary)
	prompts := new(MockPromptGenerator)
	cache := new(MockPromptCacheReader)

	library.On("Top", 10).Return([]domain.Idea{{ID: "i1"}, {ID: "i2"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	worker := NewPrefetchWorker(library, prompts, cache, 10)

	assert.Error(t, worker.ProcessJobs(ctx))
	prompts.AssertNotCalled(t, "GeneratePromptsForIdea", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNewsWorker_WrapsRefreshErrors(t *testing.T) {
	failing := &stubRefresher{err: errors.New("reddit down")}

	err := NewNewsWorker(failing).ProcessJobs(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "news refresh failed")

	assert.NoError(t, NewNewsWorker(&stubRefresher{}).ProcessJobs(context.Background()))
}

type stubRefresher struct {
	err error
}

func (s *stubRefresher) Refresh(ctx context.Context) error { return s.err }
