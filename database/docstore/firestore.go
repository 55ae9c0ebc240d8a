package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore wraps a Firestore client, typically obtained from firebase.App.Firestore.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

type firestoreTxKey struct{}

func txFrom(ctx context.Context) *firestore.Transaction {
	tx, _ := ctx.Value(firestoreTxKey{}).(*firestore.Transaction)
	return tx
}

type firestoreSnapshot struct {
	snap *firestore.DocumentSnapshot
}

func (s *firestoreSnapshot) ID() string { return s.snap.Ref.ID }

func (s *firestoreSnapshot) Data() map[string]any { return s.snap.Data() }

func (s *firestoreSnapshot) DataTo(v any) error {
	if err := decodeDocument(s.snap.Data(), v); err != nil {
		return err
	}
	assignID(v, s.snap.Ref.ID)
	return nil
}

// mapError converts gRPC status codes into the package sentinels.
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case codes.AlreadyExists:
		return fmt.Errorf("%s: %w", what, ErrAlreadyExists)
	case codes.FailedPrecondition:
		if strings.Contains(strings.ToLower(err.Error()), "index") {
			return fmt.Errorf("%s: %w: %v", what, ErrIndexUnavailable, err)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (s *FirestoreStore) Get(ctx context.Context, coll, id string) (Snapshot, error) {
	ref := s.client.Collection(coll).Doc(id)

	var snap *firestore.DocumentSnapshot
	var err error
	if tx := txFrom(ctx); tx != nil {
		snap, err = tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	if err != nil {
		return nil, mapError(err, coll+"/"+id)
	}
	return &firestoreSnapshot{snap: snap}, nil
}

func (s *FirestoreStore) GetMany(ctx context.Context, coll string, ids []string) (map[string]Snapshot, error) {
	out := make(map[string]Snapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = s.client.Collection(coll).Doc(id)
	}

	var snaps []*firestore.DocumentSnapshot
	var err error
	if tx := txFrom(ctx); tx != nil {
		snaps, err = tx.GetAll(refs)
	} else {
		snaps, err = s.client.GetAll(ctx, refs)
	}
	if err != nil {
		return nil, mapError(err, "batch get "+coll)
	}
	for _, snap := range snaps {
		if snap.Exists() {
			out[snap.Ref.ID] = &firestoreSnapshot{snap: snap}
		}
	}
	return out, nil
}

func (s *FirestoreStore) Create(ctx context.Context, coll, id string, data any) (string, error) {
	ref := s.client.Collection(coll).NewDoc()
	if id != "" {
		ref = s.client.Collection(coll).Doc(id)
	}

	var err error
	if tx := txFrom(ctx); tx != nil {
		err = tx.Create(ref, data)
	} else {
		_, err = ref.Create(ctx, data)
	}
	if err != nil {
		return "", mapError(err, "create "+coll)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, coll, id string, data map[string]any, merge bool) error {
	ref := s.client.Collection(coll).Doc(id)
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}

	var err error
	if tx := txFrom(ctx); tx != nil {
		err = tx.Set(ref, data, opts...)
	} else {
		_, err = ref.Set(ctx, data, opts...)
	}
	return mapError(err, "set "+coll+"/"+id)
}

func (s *FirestoreStore) Update(ctx context.Context, coll, id string, patch map[string]any) error {
	ref := s.client.Collection(coll).Doc(id)
	updates := make([]firestore.Update, 0, len(patch))
	for path, value := range patch {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	var err error
	if tx := txFrom(ctx); tx != nil {
		err = tx.Update(ref, updates)
	} else {
		_, err = ref.Update(ctx, updates)
	}
	return mapError(err, "update "+coll+"/"+id)
}

func (s *FirestoreStore) Delete(ctx context.Context, coll, id string) error {
	ref := s.client.Collection(coll).Doc(id)

	var err error
	if tx := txFrom(ctx); tx != nil {
		err = tx.Delete(ref)
	} else {
		_, err = ref.Delete(ctx)
	}
	return mapError(err, "delete "+coll+"/"+id)
}

func (s *FirestoreStore) buildQuery(q Query) firestore.Query {
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, string(f.Op), f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Descending {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}
	return fq
}

func (s *FirestoreStore) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	fq := s.buildQuery(q)

	var docs []*firestore.DocumentSnapshot
	var err error
	if tx := txFrom(ctx); tx != nil {
		docs, err = tx.Documents(fq).GetAll()
	} else {
		docs, err = fq.Documents(ctx).GetAll()
	}
	if err != nil {
		return nil, mapError(err, "query "+q.Collection)
	}

	out := make([]Snapshot, len(docs))
	for i, d := range docs {
		out[i] = &firestoreSnapshot{snap: d}
	}
	return out, nil
}

func (s *FirestoreStore) Count(ctx context.Context, q Query) (int, error) {
	q.OrderBy = ""
	q.Limit = 0
	fq := s.buildQuery(q)
	result, err := fq.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, mapError(err, "count "+q.Collection)
	}
	v, ok := result["count"].(*firestorepb.Value)
	if !ok {
		return 0, errors.New("count " + q.Collection + ": unexpected aggregation result")
	}
	return int(v.GetIntegerValue()), nil
}

// RunInTransaction uses a Firestore transaction. fn may be retried on contention.
func (s *FirestoreStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(context.WithValue(ctx, firestoreTxKey{}, tx))
	})
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
