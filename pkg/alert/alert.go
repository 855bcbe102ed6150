package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/elonfeng/shareradar/pkg/source"
)

// Notification is the data sent to alert destinations when an article's
// engagement crosses the alert threshold.
type Notification struct {
	Article   source.Article `json:"article"`
	Key       string         `json:"key"`
	Score     int            `json:"score"`
	PrevScore int            `json:"prev_score"`
	Records   int            `json:"records"`
}

// Notifier delivers alerts to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager broadcasts notifications to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new alert manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a notification to all registered notifiers. Any notifier
// failure makes the whole broadcast fail, so callers treat the alert as
// undelivered and keep their baseline for a retry next cycle.
func (m *Manager) Broadcast(ctx context.Context, n *Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}
