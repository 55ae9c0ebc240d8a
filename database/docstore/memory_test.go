package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testDoc struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	Count     int        `json:"count"`
	Nested    *nested    `json:"nested,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type nested struct {
	Flag   bool   `json:"flag"`
	Reason string `json:"reason,omitempty"`
}

func (d *testDoc) SetID(id string) { d.ID = id }

func ids(snaps []Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.ID()
	}
	return out
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	id, err := s.Create(ctx, "things", "", testDoc{Name: "a", CreatedAt: created})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := GetAs[testDoc](ctx, s, "things", id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "a", doc.Name)
	assert.True(t, doc.CreatedAt.Equal(created))
	assert.Nil(t, doc.UpdatedAt)

	_, err = s.Create(ctx, "things", id, testDoc{Name: "dup"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.Get(ctx, "things", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := Exists(ctx, s, "things", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_UpdateDottedPaths(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Create(ctx, "things", "t1", testDoc{Name: "a", Nested: &nested{Flag: false, Reason: "blurry"}})
	require.NoError(t, err)

	now := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Update(ctx, "things", "t1", map[string]any{
		"nested.flag":   true,
		"nested.reason": nil,
		"updatedAt":     now,
	}))

	doc, err := GetAs[testDoc](ctx, s, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Name, "untouched fields survive")
	require.NotNil(t, doc.Nested)
	assert.True(t, doc.Nested.Flag)
	assert.Empty(t, doc.Nested.Reason)
	require.NotNil(t, doc.UpdatedAt)
	assert.True(t, doc.UpdatedAt.Equal(now))

	err = s.Update(ctx, "things", "missing", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetMerge(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "settings", "pay", map[string]any{
		"googlePay": map[string]any{"enabled": true, "merchantId": "m-1"},
		"applePay":  map[string]any{"enabled": true},
	}, false))
	require.NoError(t, s.Set(ctx, "settings", "pay", map[string]any{
		"googlePay": map[string]any{"enabled": false},
	}, true))

	snap, err := s.Get(ctx, "settings", "pay")
	require.NoError(t, err)
	data := snap.Data()
	assert.Equal(t, map[string]any{"enabled": false, "merchantId": "m-1"}, data["googlePay"])
	assert.Equal(t, map[string]any{"enabled": true}, data["applePay"])

	// Without merge the document is replaced.
	require.NoError(t, s.Set(ctx, "settings", "pay", map[string]any{"applePay": map[string]any{"enabled": false}}, false))
	snap, err = s.Get(ctx, "settings", "pay")
	require.NoError(t, err)
	_, hasGoogle := snap.Data()["googlePay"]
	assert.False(t, hasGoogle)
}

func TestMemoryStore_QueryFilterOrderLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range []string{"pending", "approved", "pending", "pending"} {
		_, err := s.Create(ctx, "transfers", string(rune('a'+i)), testDoc{
			Status:    st,
			Count:     i,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	snaps, err := s.Query(ctx, Query{Collection: "transfers", OrderBy: "createdAt", Descending: true, Limit: 2}.
		Where("status", OpEqual, "pending"))
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c"}, ids(snaps))

	snaps, err = s.Query(ctx, Query{Collection: "transfers"}.
		Where("createdAt", OpGreaterOrEqual, base.Add(time.Hour)).
		Where("createdAt", OpLess, base.Add(3*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(snaps))

	n, err := s.Count(ctx, Query{Collection: "transfers"}.Where("status", OpEqual, "pending"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Count(ctx, Query{Collection: "empty"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryStore_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Create(ctx, "things", "t1", testDoc{Name: "before"})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.Update(ctx, "things", "t1", map[string]any{"name": "after"}); err != nil {
			return err
		}
		if _, err := s.Create(ctx, "things", "t2", testDoc{Name: "new"}); err != nil {
			return err
		}
		// Nested calls join the outer transaction.
		return s.RunInTransaction(ctx, func(ctx context.Context) error { return boom })
	})
	require.ErrorIs(t, err, boom)

	doc, err := GetAs[testDoc](ctx, s, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "before", doc.Name)
	_, err = s.Get(ctx, "things", "t2")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.Update(ctx, "things", "t1", map[string]any{"name": "committed"})
	}))
	doc, err = GetAs[testDoc](ctx, s, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "committed", doc.Name)
}

func TestQueryOrdered_FallsBackToMemorySort(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(WithoutCompositeIndexes())
	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	docs := map[string]map[string]any{
		"b": {"driverId": "d1", "createdAt": ts},
		"a": {"driverId": "d1", "createdAt": ts},
		"c": {"driverId": "d1", "createdAt": ts.Add(time.Hour)},
		"z": {"driverId": "d1"},
		"x": {"driverId": "d2", "createdAt": ts.Add(2 * time.Hour)},
	}
	for id, d := range docs {
		require.NoError(t, s.Set(ctx, "subs", id, d, false))
	}

	q := Query{Collection: "subs", OrderBy: "createdAt", Descending: true}.Where("driverId", OpEqual, "d1")
	_, err := s.Query(ctx, q)
	require.ErrorIs(t, err, ErrIndexUnavailable)

	snaps, err := QueryOrdered(ctx, s, q)
	require.NoError(t, err)
	// Newest first, equal timestamps by id, documents without the field last.
	assert.Equal(t, []string{"c", "a", "b", "z"}, ids(snaps))

	q.Limit = 2
	snaps, err = QueryOrdered(ctx, s, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, ids(snaps))
}

func TestDecodeDocument_MixedTimestamps(t *testing.T) {
	want := time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	cases := map[string]any{
		"rfc3339":      "2025-06-15T08:30:00Z",
		"iso millis":   "2025-06-15T08:30:00.000Z",
		"unix millis":  float64(want.UnixMilli()),
		"native value": want,
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			var doc testDoc
			require.NoError(t, decodeDocument(map[string]any{"createdAt": value, "updatedAt": value}, &doc))
			assert.True(t, doc.CreatedAt.Equal(want), "got %v", doc.CreatedAt)
			require.NotNil(t, doc.UpdatedAt)
			assert.True(t, doc.UpdatedAt.Equal(want))
		})
	}

}

func TestDecodeDocument_JavaScriptDateStrings(t *testing.T) {
	colombo := time.FixedZone("+0530", 5*3600+30*60)
	cases := map[string]struct {
		value string
		want  time.Time
	}{
		"toString":           {"Thu May 01 2025 10:00:00 GMT+0530", time.Date(2025, 5, 1, 10, 0, 0, 0, colombo)},
		"toString with name": {"Thu May 01 2025 10:00:00 GMT+0530 (India Standard Time)", time.Date(2025, 5, 1, 10, 0, 0, 0, colombo)},
		"toUTCString":        {"Thu, 01 May 2025 04:30:00 GMT", time.Date(2025, 5, 1, 4, 30, 0, 0, time.UTC)},
		"no zone":            {"2025-05-01T04:30:00", time.Date(2025, 5, 1, 4, 30, 0, 0, time.UTC)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var doc testDoc
			require.NoError(t, decodeDocument(map[string]any{"createdAt": tc.value}, &doc))
			assert.True(t, doc.CreatedAt.Equal(tc.want), "got %v", doc.CreatedAt)
		})
	}
}

func TestDecodeDocument_UnreadableTimestampIsZero(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	var doc testDoc
	require.NoError(t, decodeDocument(map[string]any{"name": "kept", "createdAt": "yesterday", "updatedAt": "soon"}, &doc))
	assert.Equal(t, "kept", doc.Name)
	assert.True(t, doc.CreatedAt.IsZero())
	require.NotNil(t, doc.UpdatedAt)
	assert.True(t, doc.UpdatedAt.IsZero())

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "yesterday", logs.All()[0].ContextMap()["value"])
}

func TestQuery_OrderingDropsDocumentsWithoutField(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Set(ctx, "users", "dated", map[string]any{"role": "driver", "createdAt": ts}, false))
	require.NoError(t, s.Set(ctx, "users", "legacy", map[string]any{"role": "driver"}, false))

	q := Query{Collection: "users", OrderBy: "createdAt", Descending: true}.Where("role", OpEqual, "driver")
	snaps, err := s.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"dated"}, ids(snaps))

	n, err := s.Count(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "counts ignore ordering")

	snaps, err = QuerySorted(ctx, s, q)
	require.NoError(t, err)
	assert.Equal(t, []string{"dated", "legacy"}, ids(snaps))
}
