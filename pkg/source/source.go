package source

import (
	"context"
	"time"
)

// SourceType identifies which platform a signal record came from.
type SourceType string

const (
	SourceTwitter SourceType = "twitter"
	SourceNitter  SourceType = "nitter"
)

// Article is a tracked item whose social engagement is monitored.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
}

// Record is one observed engagement event (a share/tweet mentioning an
// article). ID is the record's identity: two records with equal ID are the
// same observation no matter what the remaining fields say.
type Record struct {
	ID          string    `json:"id" db:"signal_id"`
	Weight      int       `json:"weight" db:"weight"`
	Author      string    `json:"author" db:"author"`
	Text        string    `json:"text" db:"text"`
	PostedAt    time.Time `json:"posted_at" db:"posted_at"`
	CollectedAt time.Time `json:"collected_at" db:"observed_at"`
}

// ArticleSource lists the articles to evaluate each cycle and resolves
// each article to its stable cache key (the canonical URL).
type ArticleSource interface {
	Name() string
	List(ctx context.Context) ([]Article, error)
	Resolve(ctx context.Context, a Article) (string, error)
}

// SignalSource fetches engagement records for one article key. The result
// may be empty and may contain duplicate IDs; callers deduplicate.
type SignalSource interface {
	Name() SourceType
	Search(ctx context.Context, key string) ([]Record, error)
}
