package source

import (
	"context"
	"fmt"
)

// StaticArticle is one config-declared tracked article.
type StaticArticle struct {
	Title string
	URL   string
}

// Static serves a fixed article list from configuration. Useful for small
// deployments that track a handful of URLs without a CMS.
type Static struct {
	articles []Article
}

// NewStatic creates an article source from a config-declared list.
func NewStatic(entries []StaticArticle) *Static {
	var articles []Article
	for i, e := range entries {
		if e.URL == "" {
			continue
		}
		articles = append(articles, Article{
			ID:    fmt.Sprintf("static:%d", i),
			Title: e.Title,
			URL:   e.URL,
		})
	}
	return &Static{articles: articles}
}

func (s *Static) Name() string { return "static" }

func (s *Static) List(ctx context.Context) ([]Article, error) {
	out := make([]Article, len(s.articles))
	copy(out, s.articles)
	return out, nil
}

func (s *Static) Resolve(ctx context.Context, a Article) (string, error) {
	return CanonicalURL(a.URL)
}
