package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/infra/postgres"
)

// ProgressRepository stores per-subject progress aggregates.
type ProgressRepository struct {
	db postgres.DBTX
	tx postgres.TxRunner
}

// NewProgressRepository creates a new ProgressRepository. Merges run inside
// transactions started by tx.
func NewProgressRepository(db postgres.DBTX, tx postgres.TxRunner) *ProgressRepository {
	return &ProgressRepository{db: db, tx: tx}
}

// UpsertUserProgress merges a delta into the stored row. The row is locked
// while the streak is recomputed so concurrent merges never lose counts.
func (r *ProgressRepository) UpsertUserProgress(ctx context.Context, delta entities.ProgressDelta) error {
	err := r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		ensure := `
			INSERT INTO user_progress (user_id, subject)
			VALUES ($1, $2)
			ON CONFLICT (user_id, subject) DO NOTHING
		`
		if _, err := tx.Exec(ctx, ensure, delta.UserID, delta.Subject); err != nil {
			return fmt.Errorf("ensure progress row: %w", err)
		}

		lock := `
			SELECT questions_answered, correct_answers, total_study_time, streak_days, last_study_date
			FROM user_progress
			WHERE user_id = $1 AND subject = $2
			FOR UPDATE
		`
		p := entities.NewUserProgress(delta.UserID, delta.Subject)
		if err := tx.QueryRow(ctx, lock, delta.UserID, delta.Subject).Scan(
			&p.QuestionsAnswered, &p.CorrectAnswers, &p.TotalStudyTime,
			&p.StreakDays, &p.LastStudyDate,
		); err != nil {
			return fmt.Errorf("lock progress row: %w", err)
		}

		p.Apply(delta)

		update := `
			UPDATE user_progress SET
				questions_answered = $3,
				correct_answers = $4,
				total_study_time = $5,
				streak_days = $6,
				last_study_date = $7
			WHERE user_id = $1 AND subject = $2
		`
		if _, err := tx.Exec(
			ctx,
			update,
			p.UserID,
			p.Subject,
			p.QuestionsAnswered,
			p.CorrectAnswers,
			p.TotalStudyTime,
			p.StreakDays,
			p.LastStudyDate,
		); err != nil {
			return fmt.Errorf("update progress row: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert user progress: %w", err)
	}

	return nil
}

// ListUserProgress returns progress rows filtered by user (nil for all) and
// subject (empty for all).
func (r *ProgressRepository) ListUserProgress(ctx context.Context, userID *int64, subject string) ([]entities.UserProgress, error) {
	query := `
		SELECT user_id, subject, questions_answered, correct_answers,
		       total_study_time, streak_days, last_study_date
		FROM user_progress
		WHERE ($1::bigint IS NULL OR user_id = $1)
		  AND ($2 = '' OR subject = $2)
		ORDER BY user_id, subject
	`

	rows, err := r.db.Query(ctx, query, userID, subject)
	if err != nil {
		return nil, fmt.Errorf("list user progress: %w", err)
	}
	defer rows.Close()

	var out []entities.UserProgress
	for rows.Next() {
		var p entities.UserProgress
		if err := rows.Scan(
			&p.UserID, &p.Subject, &p.QuestionsAnswered, &p.CorrectAnswers,
			&p.TotalStudyTime, &p.StreakDays, &p.LastStudyDate,
		); err != nil {
			return nil, fmt.Errorf("scan user progress: %w", err)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}
