package store

import (
	"context"
	"fmt"
	"time"

	"github.com/elonfeng/shareradar/pkg/source"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ArticleState is the per-article view exposed to the status command and
// the HTTP API: how many signals we hold and where the alert baseline sits.
type ArticleState struct {
	Key              string     `db:"article_key" json:"article_key"`
	Records          int        `db:"records" json:"records"`
	Score            int        `db:"score" json:"score"`
	LastAlertedScore int        `db:"last_alerted_score" json:"last_alerted_score"`
	LastAlertedAt    *time.Time `db:"last_alerted_at" json:"last_alerted_at,omitempty"`
}

// Store is the persistence interface for signal history and alert state.
// History for a key is ordered by first observation; a key with no rows is
// a fresh entry (empty history, zero baseline), never an error.
type Store interface {
	History(ctx context.Context, key string) ([]source.Record, error)
	SaveHistory(ctx context.Context, key string, records []source.Record) error

	LastAlertedScore(ctx context.Context, key string) (int, error)
	CommitAlertScore(ctx context.Context, key string, score int) error

	ArticleStates(ctx context.Context) ([]ArticleState, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) History(ctx context.Context, key string) ([]source.Record, error) {
	var records []source.Record
	err := s.db.SelectContext(ctx, &records, `
		SELECT signal_id, weight, author, text, posted_at, observed_at
		FROM signals WHERE article_key = ?
		ORDER BY observed_at, signal_id
	`, key)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", key, err)
	}
	return records, nil
}

// SaveHistory persists the merged history for a key. INSERT OR IGNORE keeps
// the first-seen representative when the same signal_id arrives again, which
// matches the merge's dedup rule, so re-saving a merged set is idempotent.
func (s *SQLiteStore) SaveHistory(ctx context.Context, key string, records []source.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save history %s: %w", key, err)
	}
	defer tx.Rollback()

	for _, r := range records {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO signals (article_key, signal_id, weight, author, text, posted_at, observed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, key, r.ID, r.Weight, r.Author, r.Text, r.PostedAt, r.CollectedAt)
		if err != nil {
			return fmt.Errorf("save signal %s/%s: %w", key, r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save history %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) LastAlertedScore(ctx context.Context, key string) (int, error) {
	var score int
	err := s.db.GetContext(ctx, &score, `
		SELECT COALESCE(
			(SELECT last_alerted_score FROM alert_state WHERE article_key = ?), 0)
	`, key)
	if err != nil {
		return 0, fmt.Errorf("load alert state %s: %w", key, err)
	}
	return score, nil
}

func (s *SQLiteStore) CommitAlertScore(ctx context.Context, key string, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alert_state (article_key, last_alerted_score, last_alerted_at)
		VALUES (?, ?, ?)
		ON CONFLICT(article_key) DO UPDATE SET
			last_alerted_score = excluded.last_alerted_score,
			last_alerted_at = excluded.last_alerted_at
	`, key, score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("commit alert score %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) ArticleStates(ctx context.Context) ([]ArticleState, error) {
	var states []ArticleState
	err := s.db.SelectContext(ctx, &states, `
		SELECT
			sig.article_key,
			COUNT(*) AS records,
			COUNT(*) + SUM(sig.weight) AS score,
			COALESCE(st.last_alerted_score, 0) AS last_alerted_score,
			st.last_alerted_at
		FROM signals sig
		LEFT JOIN alert_state st ON st.article_key = sig.article_key
		GROUP BY sig.article_key
		ORDER BY score DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list article states: %w", err)
	}
	return states, nil
}
