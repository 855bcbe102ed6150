package source

import (
	"context"
	"fmt"
)

// Multi combines several signal sources into one. Search concatenates the
// results of every source; duplicate IDs across sources are fine, the
// merge downstream deduplicates. A failure of any source fails the whole
// search so the caller skips the article this cycle rather than acting on
// a partial view.
type Multi struct {
	sources []SignalSource
}

// NewMulti combines signal sources. Returns the single source unchanged
// when only one is given.
func NewMulti(sources ...SignalSource) SignalSource {
	if len(sources) == 1 {
		return sources[0]
	}
	return &Multi{sources: sources}
}

func (m *Multi) Name() SourceType { return "multi" }

func (m *Multi) Search(ctx context.Context, key string) ([]Record, error) {
	var all []Record
	for _, s := range m.sources {
		records, err := s.Search(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		all = append(all, records...)
	}
	return all, nil
}
