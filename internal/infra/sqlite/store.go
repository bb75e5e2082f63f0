// Package sqlite is the embedded storage backend used when no PostgreSQL
// server is configured. Path ":memory:" gives an ephemeral database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id             TEXT PRIMARY KEY,
    question       TEXT NOT NULL,
    options        TEXT NOT NULL,
    correct_answer INTEGER NOT NULL,
    explanation    TEXT NOT NULL DEFAULT '',
    difficulty     TEXT NOT NULL DEFAULT 'Medium',
    subject        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS questions_subject_idx ON questions (subject);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id              TEXT PRIMARY KEY,
    user_id         INTEGER,
    score           INTEGER NOT NULL,
    total_questions INTEGER NOT NULL,
    subject         TEXT NOT NULL,
    time_taken      INTEGER NOT NULL DEFAULT 0,
    completed_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS quiz_attempts_user_idx ON quiz_attempts (user_id, completed_at);

CREATE TABLE IF NOT EXISTS user_progress (
    user_id            INTEGER NOT NULL DEFAULT 0,
    subject            TEXT NOT NULL,
    questions_answered INTEGER NOT NULL DEFAULT 0,
    correct_answers    INTEGER NOT NULL DEFAULT 0,
    total_study_time   INTEGER NOT NULL DEFAULT 0,
    streak_days        INTEGER NOT NULL DEFAULT 0,
    last_study_date    INTEGER,
    PRIMARY KEY (user_id, subject)
);

CREATE TABLE IF NOT EXISTS flashcard_progress (
    user_id       INTEGER NOT NULL DEFAULT 0,
    card_id       TEXT NOT NULL,
    learned       INTEGER NOT NULL DEFAULT 0,
    review_count  INTEGER NOT NULL DEFAULT 0,
    last_reviewed INTEGER NOT NULL,
    PRIMARY KEY (user_id, card_id)
);
`

// Store implements every repository on a single SQLite database.
// Timestamps are stored as Unix nanoseconds.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection serialises writers and keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ListQuestions returns questions of a subject, or all when subject is empty.
func (s *Store) ListQuestions(ctx context.Context, subject string, limit int) ([]entities.Question, error) {
	query := `
		SELECT id, question, options, correct_answer, explanation, difficulty, subject
		FROM questions
		WHERE (? = '' OR subject = ?)
		ORDER BY id
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, query, subject, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var (
			q          entities.Question
			options    string
			difficulty string
		)
		if err := rows.Scan(&q.ID, &q.Prompt, &options, &q.CorrectIndex, &q.Explanation, &difficulty, &q.Subject); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", q.ID, err)
		}
		q.Difficulty = entities.Difficulty(difficulty)
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// UpsertQuestions loads a question bank, replacing questions with the same id.
func (s *Store) UpsertQuestions(ctx context.Context, questions []entities.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO questions (id, question, options, correct_answer, explanation, difficulty, subject)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			question = excluded.question,
			options = excluded.options,
			correct_answer = excluded.correct_answer,
			explanation = excluded.explanation,
			difficulty = excluded.difficulty,
			subject = excluded.subject
	`
	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encode options of %s: %w", q.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query,
			q.ID, q.Prompt, string(options), q.CorrectIndex, q.Explanation, string(q.Difficulty), q.Subject,
		); err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// InsertQuizAttempt saves an attempt; re-inserting the same id is a no-op.
func (s *Store) InsertQuizAttempt(ctx context.Context, a *entities.QuizAttempt) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validate attempt: %w", err)
	}

	query := `
		INSERT INTO quiz_attempts (id, user_id, score, total_questions, subject, time_taken, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, nullInt64(a.UserID), a.Score, a.TotalQuestions, a.Subject, a.TimeTaken, a.CompletedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert quiz attempt: %w", err)
	}
	return nil
}

// ListQuizAttempts returns attempts newest first; nil userID lists everyone.
func (s *Store) ListQuizAttempts(ctx context.Context, userID *int64) ([]entities.QuizAttempt, error) {
	query := `
		SELECT id, user_id, score, total_questions, subject, time_taken, completed_at
		FROM quiz_attempts
		WHERE (? IS NULL OR user_id = ?)
		ORDER BY completed_at DESC
	`
	uid := nullInt64(userID)

	rows, err := s.db.QueryContext(ctx, query, uid, uid)
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []entities.QuizAttempt
	for rows.Next() {
		var (
			a         entities.QuizAttempt
			user      sql.NullInt64
			completed int64
		)
		if err := rows.Scan(&a.ID, &user, &a.Score, &a.TotalQuestions, &a.Subject, &a.TimeTaken, &completed); err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		if user.Valid {
			a.UserID = &user.Int64
		}
		a.CompletedAt = time.Unix(0, completed).UTC()
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

// UpsertUserProgress merges a delta into the stored row within a transaction.
func (s *Store) UpsertUserProgress(ctx context.Context, delta entities.ProgressDelta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	p := entities.NewUserProgress(delta.UserID, delta.Subject)

	var last sql.NullInt64
	err = tx.QueryRowContext(ctx, `
		SELECT questions_answered, correct_answers, total_study_time, streak_days, last_study_date
		FROM user_progress
		WHERE user_id = ? AND subject = ?
	`, delta.UserID, delta.Subject).Scan(
		&p.QuestionsAnswered, &p.CorrectAnswers, &p.TotalStudyTime, &p.StreakDays, &last,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get user progress: %w", err)
	}
	if last.Valid {
		t := time.Unix(0, last.Int64).UTC()
		p.LastStudyDate = &t
	}

	p.Apply(delta)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_progress (
			user_id, subject, questions_answered, correct_answers,
			total_study_time, streak_days, last_study_date
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, subject) DO UPDATE SET
			questions_answered = excluded.questions_answered,
			correct_answers = excluded.correct_answers,
			total_study_time = excluded.total_study_time,
			streak_days = excluded.streak_days,
			last_study_date = excluded.last_study_date
	`,
		p.UserID, p.Subject, p.QuestionsAnswered, p.CorrectAnswers,
		p.TotalStudyTime, p.StreakDays, p.LastStudyDate.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upsert user progress: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListUserProgress returns rows filtered by user (nil for all) and subject
// (empty for all).
func (s *Store) ListUserProgress(ctx context.Context, userID *int64, subject string) ([]entities.UserProgress, error) {
	query := `
		SELECT user_id, subject, questions_answered, correct_answers,
		       total_study_time, streak_days, last_study_date
		FROM user_progress
		WHERE (? IS NULL OR user_id = ?)
		  AND (? = '' OR subject = ?)
		ORDER BY user_id, rowid
	`
	uid := nullInt64(userID)

	rows, err := s.db.QueryContext(ctx, query, uid, uid, subject, subject)
	if err != nil {
		return nil, fmt.Errorf("list user progress: %w", err)
	}
	defer rows.Close()

	var out []entities.UserProgress
	for rows.Next() {
		var (
			p    entities.UserProgress
			last sql.NullInt64
		)
		if err := rows.Scan(
			&p.UserID, &p.Subject, &p.QuestionsAnswered, &p.CorrectAnswers,
			&p.TotalStudyTime, &p.StreakDays, &last,
		); err != nil {
			return nil, fmt.Errorf("scan user progress: %w", err)
		}
		if last.Valid {
			t := time.Unix(0, last.Int64).UTC()
			p.LastStudyDate = &t
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// UpsertFlashcardProgress overwrites the stored verdict for a card.
func (s *Store) UpsertFlashcardProgress(ctx context.Context, p *entities.FlashcardProgress) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flashcard_progress (user_id, card_id, learned, review_count, last_reviewed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			learned = excluded.learned,
			review_count = excluded.review_count,
			last_reviewed = excluded.last_reviewed
	`, p.UserID, p.CardID, p.Learned, p.ReviewCount, p.LastReviewed.UnixNano())
	if err != nil {
		return fmt.Errorf("upsert flashcard progress: %w", err)
	}
	return nil
}

// ListFlashcardProgress returns saved verdicts of a user, or of everybody
// when userID is nil.
func (s *Store) ListFlashcardProgress(ctx context.Context, userID *int64) ([]entities.FlashcardProgress, error) {
	query := `
		SELECT user_id, card_id, learned, review_count, last_reviewed
		FROM flashcard_progress
		WHERE (? IS NULL OR user_id = ?)
		ORDER BY user_id, card_id
	`
	uid := nullInt64(userID)

	rows, err := s.db.QueryContext(ctx, query, uid, uid)
	if err != nil {
		return nil, fmt.Errorf("list flashcard progress: %w", err)
	}
	defer rows.Close()

	var out []entities.FlashcardProgress
	for rows.Next() {
		var (
			p        entities.FlashcardProgress
			reviewed int64
		)
		if err := rows.Scan(&p.UserID, &p.CardID, &p.Learned, &p.ReviewCount, &reviewed); err != nil {
			return nil, fmt.Errorf("scan flashcard progress: %w", err)
		}
		p.LastReviewed = time.Unix(0, reviewed).UTC()
		out = append(out, p)
	}

	return out, rows.Err()
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
