package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const twitterBaseURL = "https://api.twitter.com"

// Twitter searches recent tweets linking to an article via the v2
// recent-search API. Each hit becomes one Record; the tweet's retweet
// count is carried as the record weight.
type Twitter struct {
	client  *http.Client
	baseURL string
	bearer  string
}

// NewTwitter creates a Twitter signal source. baseURL is overridable for
// tests; empty means the public API.
func NewTwitter(bearer, baseURL string) *Twitter {
	if baseURL == "" {
		baseURL = twitterBaseURL
	}
	return &Twitter{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		bearer:  bearer,
	}
}

func (t *Twitter) Name() SourceType { return SourceTwitter }

type tweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
	} `json:"public_metrics"`
}

// Search fetches recent tweets mentioning the article key.
func (t *Twitter) Search(ctx context.Context, key string) ([]Record, error) {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("url:%q -is:retweet", key))
	q.Set("tweet.fields", "public_metrics,created_at,author_id")
	q.Set("max_results", "100")

	endpoint := fmt.Sprintf("%s/2/tweets/search/recent?%s", t.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create twitter request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.bearer)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search twitter for %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter search status %d", resp.StatusCode)
	}

	var payload struct {
		Data []tweet `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode twitter search: %w", err)
	}

	now := time.Now().UTC()
	var records []Record
	for _, tw := range payload.Data {
		posted := now
		if ts, err := time.Parse(time.RFC3339, tw.CreatedAt); err == nil {
			posted = ts.UTC()
		}
		records = append(records, Record{
			ID:          tw.ID,
			Weight:      tw.PublicMetrics.RetweetCount,
			Author:      tw.AuthorID,
			Text:        tw.Text,
			PostedAt:    posted,
			CollectedAt: now,
		})
	}
	return records, nil
}
