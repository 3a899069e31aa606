package domain

// NewsPost is a cached entry from the news listing endpoint. Peripheral to the
// retrieval pipeline; kept in its own table with a fetch timestamp for TTL.
type NewsPost struct {
	ID          string
	Subreddit   string
	Title       string
	URL         string
	ExternalURL string
	ImageURL    string
	SelfText    string
	Score       int64
	CreatedAt   int64
	FetchedAt   int64
}
