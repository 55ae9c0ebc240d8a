// Package docstore addresses schemaless documents by collection name and string id.
//
// Three backends share the Store contract: Firestore (the managed database the console was
// built on), MongoDB and an in-process store used by tests and local development.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrAlreadyExists is returned by Create when the id is taken.
	ErrAlreadyExists = errors.New("docstore: document already exists")
	// ErrIndexUnavailable is returned when the backend cannot serve the requested ordering.
	ErrIndexUnavailable = errors.New("docstore: index unavailable for query")
)

// Op is a filter comparison.
type Op string

const (
	OpEqual          Op = "=="
	OpGreaterOrEqual Op = ">="
	OpLess           Op = "<"
)

// Filter restricts a query to documents whose Field compares to Value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query selects documents of one collection.
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Where returns a copy of q with an extra filter.
func (q Query) Where(field string, op Op, value any) Query {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// Snapshot is a document read from a store.
type Snapshot interface {
	ID() string
	Data() map[string]any
	DataTo(v any) error
}

// Transactor runs a function atomically. Store operations issued with the callback's
// context join the transaction. Callbacks must read before they write and must not
// trigger external side effects, since a backend may retry them.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is the document store contract.
type Store interface {
	Transactor

	Get(ctx context.Context, coll, id string) (Snapshot, error)
	// GetMany returns the existing documents among ids, keyed by id.
	GetMany(ctx context.Context, coll string, ids []string) (map[string]Snapshot, error)
	// Create writes a new document. An empty id allocates one. The id is returned.
	Create(ctx context.Context, coll, id string, data any) (string, error)
	// Set writes a whole document, or deep-merges into it when merge is true.
	Set(ctx context.Context, coll, id string, data map[string]any, merge bool) error
	// Update patches fields of an existing document. Keys may be dotted paths;
	// a nil value stores null.
	Update(ctx context.Context, coll, id string, patch map[string]any) error
	Delete(ctx context.Context, coll, id string) error
	Query(ctx context.Context, q Query) ([]Snapshot, error)
	Count(ctx context.Context, q Query) (int, error)
	Close() error
}

type identifiable interface {
	SetID(id string)
}

func assignID(v any, id string) {
	if d, ok := v.(identifiable); ok {
		d.SetID(id)
	}
}

// decodeDocument decodes a field map into v using its json tags. Timestamps may be
// native, ISO strings, JavaScript Date strings or unix milliseconds, since older
// documents were written by clients that stored them as text.
func decodeDocument(data map[string]any, v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook:       timeHook,
		Result:           v,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

var timeType = reflect.TypeOf(time.Time{})

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
	// Date.prototype.toString, with the zone name suffix removed.
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	// Date.prototype.toUTCString.
	time.RFC1123,
}

// parseTimestamp reads the textual timestamp formats found in stored documents.
func parseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if i := strings.Index(v, " ("); i > 0 && strings.HasSuffix(v, ")") {
		v = v[:i]
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timeHook converts stored timestamp representations into time.Time. A value that
// cannot be read decodes as the zero time so one bad document does not fail a scan.
func timeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		if t, ok := parseTimestamp(v); ok {
			return t, nil
		}
		zap.L().Warn("Unrecognized timestamp, using zero time", zap.String("value", v))
		return time.Time{}, nil
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case int64:
		return time.UnixMilli(v).UTC(), nil
	}
	return data, nil
}

// GetAs reads one document into a new T.
func GetAs[T any](ctx context.Context, s Store, coll, id string) (*T, error) {
	snap, err := s.Get(ctx, coll, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := snap.DataTo(&v); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", coll, id, err)
	}
	return &v, nil
}

// DecodeAll decodes every snapshot into a T, preserving order.
func DecodeAll[T any](snaps []Snapshot) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", snap.ID(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeMap decodes a GetMany result.
func DecodeMap[T any](snaps map[string]Snapshot) (map[string]T, error) {
	out := make(map[string]T, len(snaps))
	for id, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
		}
		out[id] = v
	}
	return out, nil
}

// Exists reports whether the document is present.
func Exists(ctx context.Context, s Store, coll, id string) (bool, error) {
	_, err := s.Get(ctx, coll, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
