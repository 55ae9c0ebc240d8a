package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on MongoDB. Every collection keys documents by a string
// "id" field with a unique index, the same convention the repositories used before.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore wraps database dbName of an already connected client.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName)}
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// EnsureIndexes creates the unique id index on each collection plus any extra keys.
func (s *MongoStore) EnsureIndexes(ctx context.Context, collections map[string][]string) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	for coll, fields := range collections {
		models := []mongo.IndexModel{
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		}
		for _, f := range fields {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}})
		}
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

type mongoSnapshot struct {
	id  string
	raw bson.Raw
}

func (s *mongoSnapshot) ID() string { return s.id }

func (s *mongoSnapshot) Data() map[string]any {
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(s.raw))
	if err != nil {
		return map[string]any{}
	}
	dec.DefaultDocumentM()
	var m bson.M
	if err := dec.Decode(&m); err != nil {
		return map[string]any{}
	}
	delete(m, "_id")
	return toPlainMap(m)
}

func (s *mongoSnapshot) DataTo(v any) error {
	if err := bson.Unmarshal(s.raw, v); err != nil {
		return err
	}
	assignID(v, s.id)
	return nil
}

func newMongoSnapshot(raw bson.Raw) (*mongoSnapshot, error) {
	idVal, err := raw.LookupErr("id")
	if err != nil {
		return nil, fmt.Errorf("document without id field: %w", err)
	}
	id, ok := idVal.StringValueOK()
	if !ok {
		return nil, errors.New("document id is not a string")
	}
	// Cursor buffers are reused between iterations.
	return &mongoSnapshot{id: id, raw: append(bson.Raw(nil), raw...)}, nil
}

func (s *MongoStore) Get(ctx context.Context, coll, id string) (Snapshot, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	raw, err := s.db.Collection(coll).FindOne(ctx, bson.M{"id": id}).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", coll, id, err)
	}
	return newMongoSnapshot(raw)
}

func (s *MongoStore) GetMany(ctx context.Context, coll string, ids []string) (map[string]Snapshot, error) {
	out := make(map[string]Snapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	snaps, err := s.find(ctx, coll, bson.M{"id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	for _, snap := range snaps {
		out[snap.ID()] = snap
	}
	return out, nil
}

func (s *MongoStore) Create(ctx context.Context, coll, id string, data any) (string, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	doc, err := toBsonM(data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}
	doc["id"] = id

	if _, err := s.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%s/%s: %w", coll, id, ErrAlreadyExists)
		}
		return "", fmt.Errorf("failed to create %s document: %w", coll, err)
	}
	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, coll, id string, data map[string]any, merge bool) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	if merge {
		set := bson.M{"id": id}
		flatten("", data, set)
		_, err := s.db.Collection(coll).UpdateOne(ctx, filter, bson.M{"$set": set}, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to merge %s/%s: %w", coll, id, err)
		}
		return nil
	}

	doc := bson.M{}
	for k, v := range data {
		doc[k] = v
	}
	doc["id"] = id
	if _, err := s.db.Collection(coll).ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", coll, id, err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, coll, id string, patch map[string]any) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	result, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"id": id}, updateDocument(patch))
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", coll, id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, coll, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", coll, id, err)
	}
	return nil
}

func (s *MongoStore) Query(ctx context.Context, q Query) ([]Snapshot, error) {
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Descending {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "id", Value: 1}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	snaps, err := s.find(ctx, q.Collection, mongoFilter(q.Filters), opts)
	if err != nil {
		return nil, err
	}
	out := make([]Snapshot, len(snaps))
	for i := range snaps {
		out[i] = snaps[i]
	}
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context, q Query) (int, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	n, err := s.db.Collection(q.Collection).CountDocuments(ctx, mongoFilter(q.Filters))
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", q.Collection, err)
	}
	return int(n), nil
}

// RunInTransaction runs fn inside a MongoDB session transaction. Requires a replica set.
func (s *MongoStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) find(ctx context.Context, coll string, filter bson.M, opts *options.FindOptions) ([]*mongoSnapshot, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll, err)
	}
	defer cursor.Close(ctx)

	var snaps []*mongoSnapshot
	for cursor.Next(ctx) {
		snap, err := newMongoSnapshot(cursor.Current)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", coll, err)
	}
	return snaps, nil
}

func mongoFilter(filters []Filter) bson.M {
	if len(filters) == 0 {
		return bson.M{}
	}
	clauses := make(bson.A, 0, len(filters))
	for _, f := range filters {
		switch f.Op {
		case OpGreaterOrEqual:
			clauses = append(clauses, bson.M{f.Field: bson.M{"$gte": f.Value}})
		case OpLess:
			clauses = append(clauses, bson.M{f.Field: bson.M{"$lt": f.Value}})
		default:
			clauses = append(clauses, bson.M{f.Field: f.Value})
		}
	}
	if len(clauses) == 1 {
		return clauses[0].(bson.M)
	}
	return bson.M{"$and": clauses}
}

// updateDocument builds the update for a patch. Plain keys use $set. Dotted keys need a
// pipeline, because $set cannot create a field inside a parent stored as null.
func updateDocument(patch map[string]any) any {
	dotted := false
	for path := range patch {
		if strings.Contains(path, ".") {
			dotted = true
			break
		}
	}
	if !dotted {
		return bson.M{"$set": bson.M(patch)}
	}
	return mongo.Pipeline{{{Key: "$set", Value: overlay("", splitPaths(patch))}}}
}

// patchTree is a patch regrouped by path segment; leaves hold the new values.
type patchTree map[string]any

func splitPaths(patch map[string]any) patchTree {
	tree := patchTree{}
	for path, value := range patch {
		cur := tree
		parts := strings.Split(path, ".")
		for _, part := range parts[:len(parts)-1] {
			next, ok := cur[part].(patchTree)
			if !ok {
				next = patchTree{}
				cur[part] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = value
	}
	return tree
}

// overlay renders tree as pipeline expressions. Each subtree merges into the current
// value at its path, which counts as empty unless it is an object.
func overlay(prefix string, tree patchTree) bson.M {
	out := bson.M{}
	for key, v := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		sub, ok := v.(patchTree)
		if !ok {
			out[key] = bson.M{"$literal": v}
			continue
		}
		current := "$" + path
		out[key] = bson.M{"$mergeObjects": bson.A{
			bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{bson.M{"$type": current}, "object"}}, current, bson.M{}}},
			overlay(path, sub),
		}}
	}
	return out
}

func toBsonM(data any) (bson.M, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return doc, nil
}

// flatten turns nested maps into dotted $set paths so merges keep sibling fields.
func flatten(prefix string, data map[string]any, out bson.M) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if nested, ok := data[k].(map[string]any); ok && len(nested) > 0 {
			flatten(path, nested, out)
			continue
		}
		out[path] = data[k]
	}
}

func toPlainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case bson.M:
			out[k] = toPlainMap(t)
		case bson.A:
			items := make([]any, len(t))
			for i := range t {
				if nested, ok := t[i].(bson.M); ok {
					items[i] = toPlainMap(nested)
				} else {
					items[i] = t[i]
				}
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}
