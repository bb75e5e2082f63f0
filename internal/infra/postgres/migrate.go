package postgres

import (
	"context"
	"fmt"
)

// Anonymous progress rows use user_id 0; anonymous attempts keep NULL.
const schema = `
CREATE TABLE IF NOT EXISTS questions (
    id             TEXT PRIMARY KEY,
    question       TEXT NOT NULL,
    options        TEXT[] NOT NULL,
    correct_answer INTEGER NOT NULL CHECK (correct_answer >= 0),
    explanation    TEXT NOT NULL DEFAULT '',
    difficulty     TEXT NOT NULL DEFAULT 'Medium',
    subject        TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS questions_subject_idx ON questions (subject);

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id              UUID PRIMARY KEY,
    user_id         BIGINT,
    score           INTEGER NOT NULL CHECK (score >= 0),
    total_questions INTEGER NOT NULL CHECK (total_questions > 0),
    subject         TEXT NOT NULL,
    time_taken      INTEGER NOT NULL DEFAULT 0,
    completed_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    CHECK (score <= total_questions)
);

CREATE INDEX IF NOT EXISTS quiz_attempts_user_completed_idx
    ON quiz_attempts (user_id, completed_at DESC);

CREATE TABLE IF NOT EXISTS user_progress (
    user_id            BIGINT NOT NULL DEFAULT 0,
    subject            TEXT NOT NULL,
    questions_answered INTEGER NOT NULL DEFAULT 0,
    correct_answers    INTEGER NOT NULL DEFAULT 0,
    total_study_time   INTEGER NOT NULL DEFAULT 0,
    streak_days        INTEGER NOT NULL DEFAULT 0,
    last_study_date    TIMESTAMPTZ,
    PRIMARY KEY (user_id, subject),
    CHECK (correct_answers <= questions_answered)
);

CREATE TABLE IF NOT EXISTS flashcard_progress (
    user_id       BIGINT NOT NULL DEFAULT 0,
    card_id       TEXT NOT NULL,
    learned       BOOLEAN NOT NULL DEFAULT FALSE,
    review_count  INTEGER NOT NULL DEFAULT 0,
    last_reviewed TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, card_id)
);
`

// Migrate creates missing tables. It is idempotent.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
