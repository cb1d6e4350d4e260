package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brightpath/institute-api/internal/model"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
)

// Sort orders shared by the collections.
var (
	SortByOrder    = bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}
	SortNewest     = bson.D{{Key: "createdAt", Value: -1}}
	SortByExamDate = bson.D{{Key: "examDate", Value: 1}}
)

// ListQuery describes a filtered listing. Zero values mean "no constraint".
type ListQuery struct {
	ActiveOnly bool
	Filter     bson.M
	Sort       bson.D
	Skip       int64
	Limit      int64
}

// Collection is the CRUD surface shared by every entity store.
type Collection[T any] interface {
	List(ctx context.Context, q ListQuery) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, doc *T) (primitive.ObjectID, error)
	Replace(ctx context.Context, id primitive.ObjectID, doc *T) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// Store is a filtered repository over one MongoDB collection.
type Store[T any] struct {
	coll        *mongo.Collection
	defaultSort bson.D
}

// NewStore creates a Store for the named collection.
func NewStore[T any](db *mongo.Database, name string, defaultSort bson.D) *Store[T] {
	return &Store[T]{coll: db.Collection(name), defaultSort: defaultSort}
}

// ParseID converts a hex string into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// buildFilter merges the active flag into the caller's filter.
func buildFilter(q ListQuery) bson.M {
	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}
	if q.ActiveOnly {
		filter["active"] = true
	}
	return filter
}

func (s *Store[T]) findOptions(q ListQuery) *options.FindOptions {
	opts := options.Find()
	sort := q.Sort
	if len(sort) == 0 {
		sort = s.defaultSort
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	return opts
}

// List returns every document matching q. Never returns a nil slice.
func (s *Store[T]) List(ctx context.Context, q ListQuery) ([]T, error) {
	cursor, err := s.coll.Find(ctx, buildFilter(q), s.findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return docs, nil
}

// Page returns one page of matches plus the total match count.
func (s *Store[T]) Page(ctx context.Context, q ListQuery) ([]T, int64, error) {
	total, err := s.coll.CountDocuments(ctx, buildFilter(q))
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.coll.Name(), err)
	}
	docs, err := s.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Get loads a document by its hex id.
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.FindOne(ctx, bson.M{"_id": oid})
}

// FindOne returns the first document matching filter.
func (s *Store[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var doc T
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one %s: %w", s.coll.Name(), err)
	}
	return &doc, nil
}

// Insert stores doc, assigning a fresh ObjectID when it has none.
func (s *Store[T]) Insert(ctx context.Context, doc *T) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	if d, ok := any(doc).(model.Document); ok {
		if d.GetID().IsZero() {
			d.SetID(id)
		}
		id = d.GetID()
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", s.coll.Name(), err)
	}
	return id, nil
}

// Replace overwrites the stored document and returns the modified count.
func (s *Store[T]) Replace(ctx context.Context, id primitive.ObjectID, doc *T) (int64, error) {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return 0, fmt.Errorf("replace %s: %w", s.coll.Name(), err)
	}
	return res.ModifiedCount, nil
}

// UpdateFields applies a $set to one document and returns the modified count.
func (s *Store[T]) UpdateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (int64, error) {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", s.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return 0, ErrNotFound
	}
	return res.ModifiedCount, nil
}

// Delete removes a document by hex id and returns the deleted count.
func (s *Store[T]) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := ParseID(id)
	if err != nil {
		return 0, err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", s.coll.Name(), err)
	}
	return res.DeletedCount, nil
}

// Count returns the number of documents matching filter.
func (s *Store[T]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	n, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.coll.Name(), err)
	}
	return n, nil
}

// CountBy groups documents by field and counts each distinct value.
func (s *Store[T]) CountBy(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", s.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s counts: %w", s.coll.Name(), err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Value] = r.Count
	}
	return counts, nil
}
