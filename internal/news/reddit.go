// Package news fetches daily top posts from a set of subreddits and caches
// them in SQLite with a 24h TTL. Entirely peripheral to the idea pipeline.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kindling-labs/kindling/internal/domain"
)

const (
	// CacheTTL is how long a fetched batch stays fresh.
	CacheTTL = 24 * time.Hour
	// pruneAge is how long stale rows are kept before deletion.
	pruneAge = 7 * 24 * time.Hour

	userAgent      = "kindling/1.0 (news fetcher)"
	requestTimeout = 15 * time.Second

	defaultLimitPerSub = 10
	defaultTotalLimit  = 60
)

// Repository is the slice of the news store the service needs.
type Repository interface {
	UpsertPosts(ctx context.Context, posts []domain.NewsPost) error
	GetRecentPosts(ctx context.Context, fetchedAfter int64, limit int) ([]domain.NewsPost, error)
	DeletePostsFetchedBefore(ctx context.Context, cutoff int64) error
}

// Service fetches and caches subreddit listings.
type Service struct {
	repo       Repository
	httpClient *http.Client
	subreddits []string
	perSub     int
	totalLimit int
	now        func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHTTPClient overrides the HTTP client, used by tests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

func NewService(repo Repository, subreddits []string, limitPerSub int, opts ...Option) *Service {
	if limitPerSub <= 0 {
		limitPerSub = defaultLimitPerSub
	}
	s := &Service{
		repo:       repo,
		httpClient: &http.Client{Timeout: requestTimeout},
		subreddits: subreddits,
		perSub:     limitPerSub,
		totalLimit: defaultTotalLimit,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TopPosts returns the cached daily top posts, refreshing from the network
// when the cache is empty or stale. Posts are sorted by score descending.
func (s *Service) TopPosts(ctx context.Context, forceRefresh bool) ([]domain.NewsPost, error) {
	now := s.now()
	cutoff := now.Add(-CacheTTL).UnixMilli()

	if !forceRefresh {
		cached, err := s.repo.GetRecentPosts(ctx, cutoff, s.totalLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to read cached news: %w", err)
		}
		if len(cached) > 0 {
			return cached, nil
		}
	}

	if err := s.Refresh(ctx); err != nil {
		// Stale cache beats an error page when the network is down.
		cached, cacheErr := s.repo.GetRecentPosts(ctx, 0, s.totalLimit)
		if cacheErr == nil && len(cached) > 0 {
			return cached, nil
		}
		return nil, err
	}

	return s.repo.GetRecentPosts(ctx, cutoff, s.totalLimit)
}

// Refresh fetches every configured subreddit, upserts the results, and prunes
// rows older than a week. Per-subreddit failures are skipped; Refresh fails
// only when every fetch fails.
func (s *Service) Refresh(ctx context.Context) error {
	fetchedAt := s.now().UnixMilli()

	var posts []domain.NewsPost
	var lastErr error
	okCount := 0
	for _, sub := range s.subreddits {
		listing, err := s.fetchTopDaily(ctx, sub)
		if err != nil {
			lastErr = err
			continue
		}
		okCount++
		posts = append(posts, toPosts(sub, listing, fetchedAt)...)
	}
	if okCount == 0 && lastErr != nil {
		return fmt.Errorf("failed to refresh news: %w", lastErr)
	}

	posts = uniqByID(posts)
	if err := s.repo.UpsertPosts(ctx, posts); err != nil {
		return fmt.Errorf("failed to cache news posts: %w", err)
	}
	if err := s.repo.DeletePostsFetchedBefore(ctx, s.now().Add(-pruneAge).UnixMilli()); err != nil {
		return fmt.Errorf("failed to prune old news posts: %w", err)
	}
	return nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Permalink  string  `json:"permalink"`
	URL        string  `json:"url"`
	DestURL    string  `json:"url_overridden_by_dest"`
	Ups        int64   `json:"ups"`
	Score      int64   `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Selftext   string  `json:"selftext"`
	Thumbnail  string  `json:"thumbnail"`
	Preview    struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
			Resolutions []struct {
				URL string `json:"url"`
			} `json:"resolutions"`
		} `json:"images"`
	} `json:"preview"`
}

func (s *Service) fetchTopDaily(ctx context.Context, subreddit string) (*redditListing, error) {
	limit := s.perSub
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}
	u := fmt.Sprintf("https://www.reddit.com/r/%s/top.json?t=day&limit=%d", url.PathEscape(subreddit), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit %s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("reddit %s: status %d", subreddit, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("reddit %s: %w", subreddit, err)
	}
	return &listing, nil
}

var nonWordRe = regexp.MustCompile(`\W+`)

func toPosts(subreddit string, listing *redditListing, fetchedAt int64) []domain.NewsPost {
	posts := make([]domain.NewsPost, 0, len(listing.Data.Children))
	for _, c := range listing.Data.Children {
		d := c.Data

		rawID := d.ID
		if rawID == "" {
			rawID = d.Name
		}
		id := subreddit + "_" + nonWordRe.ReplaceAllString(rawID, "")

		postURL := d.URL
		if d.Permalink != "" {
			postURL = "https://www.reddit.com" + d.Permalink
		} else if postURL == "" {
			postURL = d.DestURL
		}

		score := d.Ups
		if score == 0 {
			score = d.Score
		}

		createdAt := fetchedAt
		if d.CreatedUTC > 0 {
			createdAt = int64(d.CreatedUTC * 1000)
		}

		posts = append(posts, domain.NewsPost{
			ID:          id,
			Subreddit:   subreddit,
			Title:       d.Title,
			URL:         postURL,
			ExternalURL: d.DestURL,
			ImageURL:    extractImageURL(d),
			SelfText:    strings.TrimSpace(d.Selftext),
			Score:       score,
			CreatedAt:   createdAt,
			FetchedAt:   fetchedAt,
		})
	}
	return posts
}

var imageExtRe = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp)([?#]|$)`)

// extractImageURL picks the best available image for a post: the preview
// source, then the largest preview resolution, then an http thumbnail, then
// the post URL itself when it points at an image file.
func extractImageURL(d redditPost) string {
	if len(d.Preview.Images) > 0 {
		img := d.Preview.Images[0]
		if img.Source.URL != "" {
			return unescapeAmp(img.Source.URL)
		}
		if n := len(img.Resolutions); n > 0 && img.Resolutions[n-1].URL != "" {
			return unescapeAmp(img.Resolutions[n-1].URL)
		}
	}
	if strings.HasPrefix(d.Thumbnail, "http") {
		return d.Thumbnail
	}
	u := d.DestURL
	if u == "" {
		u = d.URL
	}
	if imageExtRe.MatchString(u) {
		return u
	}
	return ""
}

func unescapeAmp(s string) string {
	return strings.ReplaceAll(s, "&amp;", "&")
}

func uniqByID(posts []domain.NewsPost) []domain.NewsPost {
	seen := make(map[string]struct{}, len(posts))
	out := posts[:0]
	for _, p := range posts {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
