package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/arcade-hub-api/internal/models"
)

const highscoreColumns = `id, player, game, score, status, submitted_at, approved_at, approved_by`

// HighscoreRepository persists leaderboard submissions in PostgreSQL.
type HighscoreRepository struct {
	db *sqlx.DB
}

// NewHighscoreRepository constructs the repository.
func NewHighscoreRepository(db *sqlx.DB) *HighscoreRepository {
	return &HighscoreRepository{db: db}
}

// List returns highscores ordered by score descending, earlier submissions first on ties.
func (r *HighscoreRepository) List(ctx context.Context, filter models.HighscoreFilter) ([]models.Highscore, error) {
	var conditions []string
	var args []interface{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Game != "" {
		args = append(args, filter.Game)
		conditions = append(conditions, fmt.Sprintf("LOWER(game) = LOWER($%d)", len(args)))
	}

	query := `SELECT ` + highscoreColumns + ` FROM highscores`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY score DESC, submitted_at ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	scores := make([]models.Highscore, 0)
	if err := r.db.SelectContext(ctx, &scores, query, args...); err != nil {
		return nil, fmt.Errorf("list highscores: %w", err)
	}
	return scores, nil
}

// FindByID returns a single highscore.
func (r *HighscoreRepository) FindByID(ctx context.Context, id string) (*models.Highscore, error) {
	query := `SELECT ` + highscoreColumns + ` FROM highscores WHERE id = $1`
	var score models.Highscore
	if err := r.db.GetContext(ctx, &score, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
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
	const query = `INSERT INTO highscores (id, player, game, score, status, submitted_at, approved_at, approved_by)
VALUES (:id, :player, :game, :score, :status, :submitted_at, :approved_at, :approved_by)`
	if _, err := r.db.NamedExecContext(ctx, query, score); err != nil {
		return fmt.Errorf("create highscore: %w", err)
	}
	return nil
}

// Approve marks a highscore approved. It returns sql.ErrNoRows for unknown ids.
func (r *HighscoreRepository) Approve(ctx context.Context, id, approvedBy string, approvedAt time.Time) error {
	const query = `UPDATE highscores SET status = $2, approved_at = $3, approved_by = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, models.HighscoreStatusApproved, approvedAt, approvedBy)
	if err != nil {
		return fmt.Errorf("approve highscore: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check approved highscore rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a highscore. It returns sql.ErrNoRows when nothing was deleted.
func (r *HighscoreRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM highscores WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete highscore: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted highscore rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
