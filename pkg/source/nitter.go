package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Nitter searches for tweets via a Nitter instance's search RSS feed.
// No API key required. RSS entries carry no retweet counts, so every
// record has weight zero.
type Nitter struct {
	client    *http.Client
	parser    *gofeed.Parser
	nitterURL string
}

// NewNitter creates a Nitter-backed signal source.
func NewNitter(nitterURL string) *Nitter {
	if nitterURL == "" {
		nitterURL = "https://nitter.net"
	}
	return &Nitter{
		client:    &http.Client{Timeout: 30 * time.Second},
		parser:    gofeed.NewParser(),
		nitterURL: strings.TrimRight(nitterURL, "/"),
	}
}

func (n *Nitter) Name() SourceType { return SourceNitter }

// Search fetches the search RSS feed for tweets mentioning the key.
func (n *Nitter) Search(ctx context.Context, key string) ([]Record, error) {
	feedURL := fmt.Sprintf("%s/search/rss?f=tweets&q=%s", n.nitterURL, url.QueryEscape(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create nitter request: %w", err)
	}
	req.Header.Set("User-Agent", "shareradar/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search nitter for %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nitter search status %d", resp.StatusCode)
	}

	feed, err := n.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse nitter feed: %w", err)
	}

	now := time.Now().UTC()
	var records []Record
	for _, entry := range feed.Items {
		id := entry.GUID
		if id == "" {
			id = entry.Link
		}
		if id == "" {
			continue
		}

		posted := now
		if entry.PublishedParsed != nil {
			posted = entry.PublishedParsed.UTC()
		}

		author := ""
		if entry.Author != nil {
			author = entry.Author.Name
		}

		records = append(records, Record{
			ID:          id,
			Author:      author,
			Text:        entry.Title,
			PostedAt:    posted,
			CollectedAt: now,
		})
	}
	return records, nil
}
