package storage_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/service"
	"github.com/aliskhannn/learnhub/internal/storage"
)

type staticQuestions []entities.Question

func (q staticQuestions) ListQuestions(context.Context, string, int) ([]entities.Question, error) {
	return q, nil
}

type nopQueue struct{}

func (nopQueue) EnqueueProgressDelta(entities.ProgressDelta)          {}
func (nopQueue) EnqueueQuizAttempt(*entities.QuizAttempt)             {}
func (nopQueue) EnqueueFlashcardProgress(*entities.FlashcardProgress) {}

type countingTicker struct{ active int }

func (t *countingTicker) Every(time.Duration, func()) (func(), error) {
	t.active++
	return func() { t.active-- }, nil
}

func newQuiz(t *testing.T, ticker *countingTicker) *service.QuizSession {
	t.Helper()

	svc := service.NewQuizService(
		staticQuestions{{ID: "q", Prompt: "?", Options: []string{"a", "b"}, Subject: "Go"}},
		nopQueue{},
		ticker,
		service.DefaultQuizConfig(),
		zap.NewNop(),
	)
	qs, err := svc.NewSession(context.Background(), 1, "")
	if err != nil {
		t.Fatal(err)
	}
	return qs
}

func TestSessionStorage_ReplacingQuizClosesPrevious(t *testing.T) {
	ticker := &countingTicker{}
	s := storage.NewSessionStorage()

	s.StoreQuiz(1, &storage.QuizEntry{Session: newQuiz(t, ticker), ChatID: 10})
	s.StoreQuiz(1, &storage.QuizEntry{Session: newQuiz(t, ticker), ChatID: 10})

	if ticker.active != 1 {
		t.Errorf("expected the replaced quiz countdown stopped, %d running", ticker.active)
	}

	s.SetQuizMessage(1, 55)
	e, ok := s.GetQuiz(1)
	if !ok || e.MessageID != 55 {
		t.Errorf("expected message id 55, got %+v", e)
	}

	s.DeleteQuiz(1)
	if _, ok := s.GetQuiz(1); ok || ticker.active != 0 {
		t.Errorf("expected quiz removed and closed")
	}
}

func TestSessionStorage_CloseAll(t *testing.T) {
	ticker := &countingTicker{}
	s := storage.NewSessionStorage()

	s.StoreQuiz(1, &storage.QuizEntry{Session: newQuiz(t, ticker)})
	s.StoreQuiz(2, &storage.QuizEntry{Session: newQuiz(t, ticker)})
	s.StoreDeck(1, &storage.DeckEntry{})

	s.CloseAll()

	if q, d := s.Len(); q != 0 || d != 0 || ticker.active != 0 {
		t.Errorf("expected everything closed, got %d quizzes %d decks %d countdowns", q, d, ticker.active)
	}
}
