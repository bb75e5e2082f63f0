package service

import (
	"context"
	"time"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

type QuestionRepository interface {
	ListQuestions(ctx context.Context, subject string, limit int) ([]entities.Question, error)
}

type AttemptRepository interface {
	InsertQuizAttempt(ctx context.Context, attempt *entities.QuizAttempt) error
	ListQuizAttempts(ctx context.Context, userID *int64) ([]entities.QuizAttempt, error)
}

type UserProgressRepository interface {
	UpsertUserProgress(ctx context.Context, delta entities.ProgressDelta) error
	ListUserProgress(ctx context.Context, userID *int64, subject string) ([]entities.UserProgress, error)
}

type FlashcardProgressRepository interface {
	UpsertFlashcardProgress(ctx context.Context, progress *entities.FlashcardProgress) error
	ListFlashcardProgress(ctx context.Context, userID *int64) ([]entities.FlashcardProgress, error)
}

type DeckRepository interface {
	GetAll(ctx context.Context) ([]entities.Flashcard, error)
}

// PersistenceQueue accepts write commands produced by sessions.
// Implementations must not block the caller.
type PersistenceQueue interface {
	EnqueueProgressDelta(delta entities.ProgressDelta)
	EnqueueQuizAttempt(attempt *entities.QuizAttempt)
	EnqueueFlashcardProgress(progress *entities.FlashcardProgress)
}

// Ticker runs fn every interval until cancel is called.
type Ticker interface {
	Every(interval time.Duration, fn func()) (cancel func(), err error)
}
