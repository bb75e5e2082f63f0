package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/infra/postgres"
)

// AttemptRepository stores completed quiz attempts.
type AttemptRepository struct {
	db postgres.DBTX
}

// NewAttemptRepository creates a new AttemptRepository with the provided database pool.
func NewAttemptRepository(db postgres.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// InsertQuizAttempt saves an attempt. Re-inserting the same id is a no-op,
// so retried writes never duplicate an attempt.
func (r *AttemptRepository) InsertQuizAttempt(ctx context.Context, attempt *entities.QuizAttempt) error {
	if err := attempt.Validate(); err != nil {
		return fmt.Errorf("validate attempt: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (id, user_id, score, total_questions, subject, time_taken, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(
		ctx,
		query,
		attempt.ID,
		attempt.UserID,
		attempt.Score,
		attempt.TotalQuestions,
		attempt.Subject,
		attempt.TimeTaken,
		attempt.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiz attempt: %w", err)
	}

	return nil
}

// ListQuizAttempts returns attempts newest first. A nil userID lists every
// attempt, including anonymous ones.
func (r *AttemptRepository) ListQuizAttempts(ctx context.Context, userID *int64) ([]entities.QuizAttempt, error) {
	query := `
		SELECT id, user_id, score, total_questions, subject, time_taken, completed_at
		FROM quiz_attempts
		WHERE ($1::bigint IS NULL OR user_id = $1)
		ORDER BY completed_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []entities.QuizAttempt
	for rows.Next() {
		var a entities.QuizAttempt
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Score, &a.TotalQuestions,
			&a.Subject, &a.TimeTaken, &a.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}
