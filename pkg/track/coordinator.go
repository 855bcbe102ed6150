package track

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/elonfeng/shareradar/internal/store"
	"github.com/elonfeng/shareradar/pkg/alert"
	"github.com/elonfeng/shareradar/pkg/source"
)

// Coordinator drives one evaluation cycle over the tracked articles:
// fetch fresh signals, merge them into the stored history, and alert when
// an article's score crosses the policy threshold.
//
// Cycles never interleave: mu serializes RunCycle, so a key's
// read-merge-evaluate-commit sequence is a critical section even when the
// scheduler and the HTTP cycle endpoint share one coordinator.
type Coordinator struct {
	mu       sync.Mutex
	store    store.Store
	articles source.ArticleSource
	signals  source.SignalSource
	alerts   *alert.Manager
}

// NewCoordinator creates a run coordinator.
func NewCoordinator(s store.Store, articles source.ArticleSource, signals source.SignalSource, alerts *alert.Manager) *Coordinator {
	return &Coordinator{
		store:    s,
		articles: articles,
		signals:  signals,
		alerts:   alerts,
	}
}

// Result summarizes one cycle. TotalScore sums the aggregate score of
// every article that had at least one signal record this cycle.
type Result struct {
	ArticlesExamined int  `json:"articles_examined"`
	TotalScore       int  `json:"total_score"`
	AlertsFired      int  `json:"alerts_fired"`
	StoppedEarly     bool `json:"stopped_early"`
}

// Run lists the tracked articles and evaluates them all.
func (c *Coordinator) Run(ctx context.Context) (Result, error) {
	articles, err := c.articles.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list tracked articles: %w", err)
	}
	return c.RunCycle(ctx, articles), nil
}

// RunCycle evaluates the given articles in order. A failure on one article
// is logged and skipped, never fatal to the cycle. Cancellation is checked
// only between articles, so a single article's merge and alert commit are
// never torn.
func (c *Coordinator) RunCycle(ctx context.Context, articles []source.Article) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	var res Result

	for _, article := range articles {
		if ctx.Err() != nil {
			res.StoppedEarly = true
			return res
		}
		res.ArticlesExamined++

		if err := c.evaluate(ctx, article, &res); err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", article.URL, err)
		}
	}

	return res
}

// evaluate runs the merge-then-alert sequence for one article.
func (c *Coordinator) evaluate(ctx context.Context, article source.Article, res *Result) error {
	key, err := c.articles.Resolve(ctx, article)
	if err != nil {
		return fmt.Errorf("resolve key: %w", err)
	}

	batch, err := c.signals.Search(ctx, key)
	if err != nil {
		return fmt.Errorf("fetch signals: %w", err)
	}

	history, err := c.store.History(ctx, key)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	// No stored signals and none fetched: nothing to score, and the alert
	// policy is not consulted at all.
	if len(history) == 0 && len(batch) == 0 {
		return nil
	}

	merged, score, err := Merge(history, batch)
	if err != nil {
		return fmt.Errorf("merge signals: %w", err)
	}

	if err := c.store.SaveHistory(ctx, key, merged); err != nil {
		return fmt.Errorf("save history: %w", err)
	}

	res.TotalScore += score

	lastAlerted, err := c.store.LastAlertedScore(ctx, key)
	if err != nil {
		return fmt.Errorf("load alert state: %w", err)
	}

	if !ShouldAlert(lastAlerted, score) {
		return nil
	}

	notification := &alert.Notification{
		Article:   article,
		Key:       key,
		Score:     score,
		PrevScore: lastAlerted,
		Records:   len(merged),
	}
	if err := c.alerts.Broadcast(ctx, notification); err != nil {
		// Undelivered: keep the old baseline so the next cycle retries.
		return fmt.Errorf("dispatch alert: %w", err)
	}

	if err := c.store.CommitAlertScore(ctx, key, score); err != nil {
		return fmt.Errorf("commit alert score: %w", err)
	}
	res.AlertsFired++

	fmt.Fprintf(os.Stderr, "  alerted: %s (score %d, was %d)\n", key, score, lastAlerted)
	return nil
}
