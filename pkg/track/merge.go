package track

import (
	"fmt"

	"github.com/elonfeng/shareradar/pkg/source"
)

// Merge unions a stored signal history with a freshly fetched batch,
// deduplicated by record ID, and returns the new aggregate score.
//
// Identity, not payload, decides uniqueness: when the same ID shows up
// twice the first-seen representative is kept (history over batch, earlier
// batch entry over later). Counts fetched at different times can drift, so
// a duplicate carrying a different weight is noise, not an error.
//
// The score counts each record once plus once per unit of weight:
// len(merged) + sum(weights). A negative weight is a validation failure
// local to this merge.
func Merge(history []source.Record, batch []source.Record) ([]source.Record, int, error) {
	seen := make(map[string]bool, len(history)+len(batch))

	merged := make([]source.Record, 0, len(history)+len(batch))
	for _, r := range history {
		if err := validate(r); err != nil {
			return nil, 0, err
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		merged = append(merged, r)
	}
	for _, r := range batch {
		if err := validate(r); err != nil {
			return nil, 0, err
		}
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		merged = append(merged, r)
	}

	return merged, Score(merged), nil
}

// Score computes the aggregate engagement score for a record set.
func Score(records []source.Record) int {
	score := len(records)
	for _, r := range records {
		score += r.Weight
	}
	return score
}

func validate(r source.Record) error {
	if r.ID == "" {
		return fmt.Errorf("signal record with empty id")
	}
	if r.Weight < 0 {
		return fmt.Errorf("signal record %s has negative weight %d", r.ID, r.Weight)
	}
	return nil
}
