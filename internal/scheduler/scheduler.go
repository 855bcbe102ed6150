package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/elonfeng/shareradar/pkg/track"
)

// Scheduler runs evaluation cycles at a fixed interval.
type Scheduler struct {
	coordinator *track.Coordinator
	cycleInt    time.Duration
}

// New creates a new scheduler.
func New(c *track.Coordinator, cycleInt time.Duration) *Scheduler {
	if cycleInt == 0 {
		cycleInt = 30 * time.Minute
	}
	return &Scheduler{
		coordinator: c,
		cycleInt:    cycleInt,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cycleInt)
	defer ticker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial cycle...")
	s.cycle(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (cycle every %s)\n", s.cycleInt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-ticker.C:
			fmt.Fprintln(os.Stderr, "scheduler: cycle...")
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	res, err := s.coordinator.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  cycle error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "  examined %d articles, total score %d, %d alerts\n",
		res.ArticlesExamined, res.TotalScore, res.AlertsFired)
	if res.StoppedEarly {
		fmt.Fprintln(os.Stderr, "  cycle stopped early")
	}
}
