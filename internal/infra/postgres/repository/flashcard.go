package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/infra/postgres"
)

// FlashcardRepository stores the latest verdict per user and card.
type FlashcardRepository struct {
	db postgres.DBTX
}

// NewFlashcardRepository creates a new FlashcardRepository with the provided database pool.
func NewFlashcardRepository(db postgres.DBTX) *FlashcardRepository {
	return &FlashcardRepository{db: db}
}

// UpsertFlashcardProgress overwrites the stored verdict for a card.
func (r *FlashcardRepository) UpsertFlashcardProgress(ctx context.Context, p *entities.FlashcardProgress) error {
	query := `
		INSERT INTO flashcard_progress (user_id, card_id, learned, review_count, last_reviewed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			learned = EXCLUDED.learned,
			review_count = EXCLUDED.review_count,
			last_reviewed = EXCLUDED.last_reviewed
	`

	_, err := r.db.Exec(ctx, query, p.UserID, p.CardID, p.Learned, p.ReviewCount, p.LastReviewed)
	if err != nil {
		return fmt.Errorf("upsert flashcard progress: %w", err)
	}

	return nil
}

// ListFlashcardProgress returns saved verdicts of a user, or of everybody
// when userID is nil.
func (r *FlashcardRepository) ListFlashcardProgress(ctx context.Context, userID *int64) ([]entities.FlashcardProgress, error) {
	query := `
		SELECT user_id, card_id, learned, review_count, last_reviewed
		FROM flashcard_progress
		WHERE ($1::bigint IS NULL OR user_id = $1)
		ORDER BY user_id, card_id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list flashcard progress: %w", err)
	}
	defer rows.Close()

	var out []entities.FlashcardProgress
	for rows.Next() {
		var p entities.FlashcardProgress
		if err := rows.Scan(&p.UserID, &p.CardID, &p.Learned, &p.ReviewCount, &p.LastReviewed); err != nil {
			return nil, fmt.Errorf("scan flashcard progress: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}
