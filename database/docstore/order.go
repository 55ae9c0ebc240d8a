package docstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// QueryOrdered runs q and, when the backend reports a missing index for the ordering,
// re-runs it unordered and sorts in memory: by q.OrderBy in the requested direction,
// documents lacking the field last, ties broken by id ascending. The limit is applied
// after sorting.
func QueryOrdered(ctx context.Context, s Store, q Query) ([]Snapshot, error) {
	snaps, err := s.Query(ctx, q)
	if err == nil || q.OrderBy == "" || !errors.Is(err, ErrIndexUnavailable) {
		return snaps, err
	}

	zap.L().Debug("Composite index not available, sorting in memory",
		zap.String("collection", q.Collection), zap.String("orderBy", q.OrderBy))
	return QuerySorted(ctx, s, q)
}

// QuerySorted fetches q's matches unordered and sorts them in memory, so documents
// lacking q.OrderBy are kept (last) instead of being dropped by the backend.
func QuerySorted(ctx context.Context, s Store, q Query) ([]Snapshot, error) {
	unordered := q
	unordered.OrderBy = ""
	unordered.Limit = 0
	snaps, err := s.Query(ctx, unordered)
	if err != nil {
		return nil, err
	}
	if q.OrderBy != "" {
		SortSnapshots(snaps, q.OrderBy, q.Descending)
	}
	if q.Limit > 0 && len(snaps) > q.Limit {
		snaps = snaps[:q.Limit]
	}
	return snaps, nil
}

// SortSnapshots orders snapshots by a (possibly dotted) field.
func SortSnapshots(snaps []Snapshot, field string, descending bool) {
	type keyed struct {
		snap  Snapshot
		value any
		ok    bool
	}
	items := make([]keyed, len(snaps))
	for i, s := range snaps {
		v, ok := lookupPath(s.Data(), field)
		items[i] = keyed{snap: s, value: v, ok: ok && v != nil}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.ok {
			if c, comparable := compareValues(a.value, b.value); comparable && c != 0 {
				if descending {
					return c > 0
				}
				return c < 0
			}
		}
		return a.snap.ID() < b.snap.ID()
	})

	for i := range items {
		snaps[i] = items[i].snap
	}
}

func lookupPath(data map[string]any, path string) (any, bool) {
	var cur any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

type timer interface {
	Time() time.Time
}

// compareValues orders two scalar values. The second result is false when the values
// have no common ordering.
func compareValues(a, b any) (int, bool) {
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Compare(tb), true
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1, true
			case fa > fb:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), true
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0, true
			case !ba:
				return -1, true
			default:
				return 1, true
			}
		}
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		return parseTimestamp(t)
	case timer:
		return t.Time(), true
	default:
		return time.Time{}, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// valuesEqual is equality as seen by == filters.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return false
}
