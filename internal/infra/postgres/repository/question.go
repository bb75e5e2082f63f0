package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/infra/postgres"
)

// QuestionRepository provides access to the question bank.
type QuestionRepository struct {
	db postgres.DBTX
}

// NewQuestionRepository creates a new QuestionRepository with the provided database pool.
func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListQuestions returns questions of a subject, or of every subject when
// subject is empty. A limit of 0 means no limit.
func (r *QuestionRepository) ListQuestions(ctx context.Context, subject string, limit int) ([]entities.Question, error) {
	query := `
		SELECT id, question, options, correct_answer, explanation, difficulty, subject
		FROM questions
		WHERE ($1 = '' OR subject = $1)
		ORDER BY id
		LIMIT NULLIF($2, 0)
	`

	rows, err := r.db.Query(ctx, query, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var (
			q          entities.Question
			difficulty string
		)
		if err := rows.Scan(
			&q.ID, &q.Prompt, &q.Options, &q.CorrectIndex,
			&q.Explanation, &difficulty, &q.Subject,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Difficulty = entities.Difficulty(difficulty)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// UpsertQuestions loads a question bank in one batch. Existing questions
// with the same id are replaced.
func (r *QuestionRepository) UpsertQuestions(ctx context.Context, questions []entities.Question) error {
	if len(questions) == 0 {
		return nil
	}

	query := `
		INSERT INTO questions (id, question, options, correct_answer, explanation, difficulty, subject)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			question = EXCLUDED.question,
			options = EXCLUDED.options,
			correct_answer = EXCLUDED.correct_answer,
			explanation = EXCLUDED.explanation,
			difficulty = EXCLUDED.difficulty,
			subject = EXCLUDED.subject
	`

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(query, q.ID, q.Prompt, q.Options, q.CorrectIndex, q.Explanation, string(q.Difficulty), q.Subject)
	}

	results := r.db.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for _, q := range questions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	return nil
}
