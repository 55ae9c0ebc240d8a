package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process. Documents are normalized through their JSON
// form, so timestamps are held as RFC3339 strings and numbers as float64.
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data map[string]map[string]map[string]any

	requireCompositeIndexes bool
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithoutCompositeIndexes makes filtered queries that also order fail with
// ErrIndexUnavailable, the way Firestore does before a composite index is deployed.
func WithoutCompositeIndexes() MemoryOption {
	return func(s *MemoryStore) {
		s.requireCompositeIndexes = true
	}
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{data: make(map[string]map[string]map[string]any)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type memoryTxKey struct{}

type memorySnapshot struct {
	id   string
	data map[string]any
}

func (s *memorySnapshot) ID() string { return s.id }

func (s *memorySnapshot) Data() map[string]any { return s.data }

func (s *memorySnapshot) DataTo(v any) error {
	if err := decodeDocument(s.data, v); err != nil {
		return err
	}
	assignID(v, s.id)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, coll, id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[coll][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}
	return &memorySnapshot{id: id, data: cloneMap(doc)}, nil
}

func (s *MemoryStore) GetMany(ctx context.Context, coll string, ids []string) (map[string]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Snapshot, len(ids))
	for _, id := range ids {
		if doc, ok := s.data[coll][id]; ok {
			out[id] = &memorySnapshot{id: id, data: cloneMap(doc)}
		}
	}
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, coll, id string, data any) (string, error) {
	doc, err := normalizeDocument(data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}
	doc["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[coll][id]; exists {
		return "", fmt.Errorf("%s/%s: %w", coll, id, ErrAlreadyExists)
	}
	s.collection(coll)[id] = doc
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, coll, id string, data map[string]any, merge bool) error {
	doc, err := normalizeDocument(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.collection(coll)[id]
	if merge && ok {
		deepMerge(existing, doc)
		return nil
	}
	doc["id"] = id
	s.collection(coll)[id] = doc
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, coll, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data[coll][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}
	for path, value := range patch {
		normalized, err := normalizeValue(value)
		if err != nil {
			return fmt.Errorf("failed to normalize %s: %w", path, err)
		}
		setPath(doc, path, normalized)
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, coll, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data[coll], id)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	if s.requireCompositeIndexes && q.OrderBy != "" && len(q.Filters) > 0 {
		return nil, fmt.Errorf("%s ordered by %s: %w", q.Collection, q.OrderBy, ErrIndexUnavailable)
	}

	filters := make([]Filter, len(q.Filters))
	for i, f := range q.Filters {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return nil, err
		}
		filters[i] = Filter{Field: f.Field, Op: f.Op, Value: v}
	}

	s.mu.RLock()
	var snaps []Snapshot
	for id, doc := range s.data[q.Collection] {
		// Ordering on a field drops documents that lack it.
		if q.OrderBy != "" {
			if _, ok := lookupPath(doc, q.OrderBy); !ok {
				continue
			}
		}
		if matchesAll(doc, filters) {
			snaps = append(snaps, &memorySnapshot{id: id, data: cloneMap(doc)})
		}
	}
	s.mu.RUnlock()

	// Map iteration is random; give unordered queries a stable order.
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID() < snaps[j].ID() })
	if q.OrderBy != "" {
		SortSnapshots(snaps, q.OrderBy, q.Descending)
	}
	if q.Limit > 0 && len(snaps) > q.Limit {
		snaps = snaps[:q.Limit]
	}
	return snaps, nil
}

func (s *MemoryStore) Count(ctx context.Context, q Query) (int, error) {
	q.OrderBy = ""
	q.Limit = 0
	snaps, err := s.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(snaps), nil
}

// RunInTransaction serializes transactions and restores the previous contents when fn fails.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	backup := make(map[string]map[string]map[string]any, len(s.data))
	for coll, docs := range s.data {
		backup[coll] = make(map[string]map[string]any, len(docs))
		for id, doc := range docs {
			backup[coll][id] = cloneMap(doc)
		}
	}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, memoryTxKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = backup
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) collection(coll string) map[string]map[string]any {
	docs, ok := s.data[coll]
	if !ok {
		docs = make(map[string]map[string]any)
		s.data[coll] = docs
	}
	return docs
}

func matchesAll(doc map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := lookupPath(doc, f.Field)
		switch f.Op {
		case OpEqual:
			if !ok || !valuesEqual(v, f.Value) {
				return false
			}
		case OpGreaterOrEqual:
			c, comparable := compareValues(v, f.Value)
			if !ok || !comparable || c < 0 {
				return false
			}
		case OpLess:
			c, comparable := compareValues(v, f.Value)
			if !ok || !comparable || c >= 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func normalizeDocument(data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("document is not an object: %w", err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

func normalizeValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setPath(doc map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func deepMerge(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				deepMerge(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}
