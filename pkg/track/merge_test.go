package track

import (
	"sort"
	"testing"

	"github.com/elonfeng/shareradar/pkg/source"
)

func rec(id string, weight int) source.Record {
	return source.Record{ID: id, Weight: weight}
}

func ids(records []source.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	sort.Strings(out)
	return out
}

func TestMergeEmpty(t *testing.T) {
	merged, score, err := Merge(nil, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != 0 {
		t.Errorf("expected empty merge, got %d records", len(merged))
	}
	if score != 0 {
		t.Errorf("expected score 0, got %d", score)
	}
}

func TestMergeIdempotent(t *testing.T) {
	history := []source.Record{rec("1", 2), rec("2", 0)}

	merged, score, err := Merge(history, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 records, got %d", len(merged))
	}
	if want := Score(history); score != want {
		t.Errorf("expected score %d, got %d", want, score)
	}
}

func TestMergeDedup(t *testing.T) {
	history := []source.Record{rec("1", 0)}
	batch := []source.Record{rec("1", 3), rec("2", 0), rec("2", 0)}

	merged, _, err := Merge(history, batch)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	count := 0
	for _, r := range merged {
		if r.ID == "1" {
			count++
			// First-seen representative wins: history's weight sticks.
			if r.Weight != 0 {
				t.Errorf("expected history representative with weight 0, got %d", r.Weight)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one record with id 1, got %d", count)
	}
	if len(merged) != 2 {
		t.Errorf("expected 2 records after dedup, got %d", len(merged))
	}
}

func TestMergeBatchOrderIndependent(t *testing.T) {
	a, b, c := rec("a", 1), rec("b", 2), rec("c", 3)

	h1, _, _ := Merge(nil, []source.Record{a, b})
	h1, s1, _ := Merge(h1, []source.Record{c})

	h2, _, _ := Merge(nil, []source.Record{c})
	h2, s2, _ := Merge(h2, []source.Record{a, b})

	if s1 != s2 {
		t.Errorf("scores differ: %d vs %d", s1, s2)
	}

	got1, got2 := ids(h1), ids(h2)
	if len(got1) != len(got2) {
		t.Fatalf("sets differ: %v vs %v", got1, got2)
	}
	for i := range got1 {
		if got1[i] != got2[i] {
			t.Errorf("sets differ: %v vs %v", got1, got2)
			break
		}
	}
}

func TestScoreFormula(t *testing.T) {
	records := []source.Record{rec("1", 2), rec("2", 0), rec("3", 5)}
	// 3 records + weights 2+0+5.
	if got := Score(records); got != 10 {
		t.Errorf("expected score 10, got %d", got)
	}
}

func TestMergeRejectsNegativeWeight(t *testing.T) {
	_, _, err := Merge(nil, []source.Record{rec("1", -1)})
	if err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestMergeRejectsEmptyID(t *testing.T) {
	_, _, err := Merge(nil, []source.Record{rec("", 0)})
	if err == nil {
		t.Fatal("expected error for empty id")
	}
}
