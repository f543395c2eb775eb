package mongorepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

// HighscoreRepository persists leaderboard submissions in MongoDB.
type HighscoreRepository struct {
	coll *mongo.Collection
}

// NewHighscoreRepository constructs the repository.
func NewHighscoreRepository(db *mongo.Database) *HighscoreRepository {
	return &HighscoreRepository{coll: db.Collection(HighscoresCollection)}
}

// List returns highscores ordered by score descending, earlier submissions first on ties.
func (r *HighscoreRepository) List(ctx context.Context, filter models.HighscoreFilter) ([]models.Highscore, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Game != "" {
		query["game"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.Game) + "$", Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "score", Value: -1}, {Key: "submitted_at", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list highscores: %w", err)
	}
	scores := make([]models.Highscore, 0)
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, fmt.Errorf("decode highscores: %w", err)
	}
	return scores, nil
}

// FindByID returns a single highscore.
func (r *HighscoreRepository) FindByID(ctx context.Context, id string) (*models.Highscore, error) {
	var score models.Highscore
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&score); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find highscore: %w", err)
	}
	return &score, nil
}

// Create inserts a submission.
func (r *HighscoreRepository) Create(ctx context.Context, score *models.Highscore) error {
	if score.ID == "" {
		score.ID = uuid.NewString()
	}
	if score.SubmittedAt.IsZero() {
		score.SubmittedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, score); err != nil {
		return fmt.Errorf("create highscore: %w", err)
	}
	return nil
}

// Approve marks a highscore approved. It returns sql.ErrNoRows for unknown ids.
func (r *HighscoreRepository) Approve(ctx context.Context, id, approvedBy string, approvedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":      models.HighscoreStatusApproved,
		"approved_at": approvedAt,
		"approved_by": approvedBy,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("approve highscore: %w", err)
	}
	if result.MatchedCount == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a highscore. It returns sql.ErrNoRows when nothing was deleted.
func (r *HighscoreRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete highscore: %w", err)
	}
	if result.DeletedCount == 0 {
		return sql.ErrNoRows
	}
	return nil
}
