package mongorepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

type contentRecord struct {
	ID        string    `bson:"_id"`
	Payload   bson.Raw  `bson:"payload"`
	UpdatedBy *string   `bson:"updated_by,omitempty"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ContentRepository stores keyed documents with the payload kept as a native sub-document.
type ContentRepository struct {
	coll *mongo.Collection
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{coll: db.Collection(ContentCollection)}
}

// Get returns the document or sql.ErrNoRows when it does not exist.
func (r *ContentRepository) Get(ctx context.Context, id string) (*models.ContentDocument, error) {
	var record contentRecord
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get content %s: %w", id, err)
	}

	payload, err := bson.MarshalExtJSON(record.Payload, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode content %s payload: %w", id, err)
	}
	return &models.ContentDocument{
		ID:        record.ID,
		Payload:   models.JSONDocument(payload),
		UpdatedBy: record.UpdatedBy,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

// Put replaces the whole document.
func (r *ContentRepository) Put(ctx context.Context, doc *models.ContentDocument) error {
	payload, err := decodePayload(doc)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	replacement := bson.M{"_id": doc.ID, "payload": payload, "updated_by": doc.UpdatedBy, "updated_at": doc.UpdatedAt}
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, replacement, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("put content %s: %w", doc.ID, err)
	}
	return nil
}

// Merge overwrites only the top-level keys present in doc.Payload, creating the document when absent.
func (r *ContentRepository) Merge(ctx context.Context, doc *models.ContentDocument) error {
	payload, err := decodePayload(doc)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	set := bson.M{"updated_by": doc.UpdatedBy, "updated_at": doc.UpdatedAt}
	for _, elem := range payload {
		set["payload."+elem.Key] = elem.Value
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": set}, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("merge content %s: %w", doc.ID, err)
	}
	return nil
}

// Seed writes doc only when no document with the same id exists. It reports whether a write happened.
func (r *ContentRepository) Seed(ctx context.Context, doc *models.ContentDocument) (bool, error) {
	payload, err := decodePayload(doc)
	if err != nil {
		return false, err
	}
	doc.UpdatedAt = time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{"payload": payload, "updated_by": doc.UpdatedBy, "updated_at": doc.UpdatedAt}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("seed content %s: %w", doc.ID, err)
	}
	return result.UpsertedCount > 0, nil
}

func decodePayload(doc *models.ContentDocument) (bson.D, error) {
	var payload bson.D
	if err := bson.UnmarshalExtJSON(doc.Payload, false, &payload); err != nil {
		return nil, fmt.Errorf("decode content %s payload: %w", doc.ID, err)
	}
	return payload, nil
}
