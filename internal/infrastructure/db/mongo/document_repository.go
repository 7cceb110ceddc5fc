package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tuneup/studio/internal/core/domain"
)

// DocumentRepository implements ports.DocumentRepository with one MongoDB
// collection per document collection. Ids are ObjectID hex strings for
// inserted documents and caller-chosen strings otherwise; both live in _id.
type DocumentRepository struct {
	db *mongo.Database
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Find(ctx context.Context, collection, id string) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw bson.M
	if err := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return toDocument(raw), nil
}

func (r *DocumentRepository) Insert(ctx context.Context, collection string, data domain.Fields) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID().Hex()
	doc := withoutID(data)
	doc["_id"] = id

	if _, err := r.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return &domain.Document{ID: id, Data: withoutID(data)}, nil
}

func (r *DocumentRepository) Replace(ctx context.Context, collection, id string, data domain.Fields) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	var raw bson.M
	err := r.db.Collection(collection).FindOneAndReplace(ctx, bson.M{"_id": id}, withoutID(data), opts).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("replace document: %w", err)
	}
	return toDocument(raw), nil
}

func (r *DocumentRepository) Merge(ctx context.Context, collection, id string, data domain.Fields, upsert bool) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(upsert).SetReturnDocument(options.After)
	update := bson.M{"$set": withoutID(data)}

	var raw bson.M
	err := r.db.Collection(collection).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("merge document: %w", err)
	}
	return toDocument(raw), nil
}

func (r *DocumentRepository) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *DocumentRepository) FindBy(ctx context.Context, collection, field string, value any) ([]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]domain.Document, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, *toDocument(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the equality-filter indexes the studio queries use.
func (r *DocumentRepository) EnsureIndexes(ctx context.Context) error {
	indexed := map[string]string{
		domain.CollectionLessons:     "userId",
		domain.CollectionTechnics:    "userId",
		domain.CollectionAssignments: "studentId",
	}
	for collection, field := range indexed {
		_, err := r.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("index %s.%s: %w", collection, field, err)
		}
	}
	return nil
}

func withoutID(data domain.Fields) bson.M {
	out := make(bson.M, len(data))
	for k, v := range data {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

func toDocument(raw bson.M) *domain.Document {
	id := fmt.Sprint(raw["_id"])
	if oid, ok := raw["_id"].(primitive.ObjectID); ok {
		id = oid.Hex()
	}
	data := fromBSON(raw).(map[string]any)
	delete(data, "_id")
	return &domain.Document{ID: id, Data: data}
}

// fromBSON converts driver types into plain Go values.
func fromBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = fromBSON(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = fromBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i := range t {
			out[i] = fromBSON(t[i])
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	}
	return v
}
