package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CMS lists tracked articles from a CMS content API.
type CMS struct {
	client  *http.Client
	baseURL string
	token   string
	limit   int
}

// NewCMS creates an article source backed by a CMS HTTP API.
func NewCMS(baseURL, token string, limit int) *CMS {
	if limit <= 0 {
		limit = 100
	}
	return &CMS{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		limit:   limit,
	}
}

func (c *CMS) Name() string { return "cms" }

type cmsArticle struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	PublishedAt string `json:"published_at"`
}

// List fetches the published articles currently tracked by the CMS.
func (c *CMS) List(ctx context.Context) ([]Article, error) {
	endpoint := fmt.Sprintf("%s/api/articles?status=published&limit=%d", c.baseURL, c.limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create cms request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch cms articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cms status %d", resp.StatusCode)
	}

	var payload struct {
		Articles []cmsArticle `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cms articles: %w", err)
	}

	var articles []Article
	for _, a := range payload.Articles {
		if a.URL == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, Article{
			ID:          a.ID,
			Title:       a.Title,
			URL:         a.URL,
			Author:      a.Author,
			PublishedAt: published,
		})
	}
	return articles, nil
}

// Resolve returns the canonical cache key for an article.
func (c *CMS) Resolve(ctx context.Context, a Article) (string, error) {
	return CanonicalURL(a.URL)
}
