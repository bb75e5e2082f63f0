package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

var errStorage = errors.New("storage unavailable")

type fakeQuestions struct {
	questions []entities.Question
	err       error
}

func (f *fakeQuestions) ListQuestions(_ context.Context, subject string, _ int) ([]entities.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.Question, 0, len(f.questions))
	for _, q := range f.questions {
		if subject == "" || q.Subject == subject {
			out = append(out, q)
		}
	}
	return out, nil
}

func makeQuestions(n int, subject string) []entities.Question {
	qs := make([]entities.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, entities.Question{
			ID:           fmt.Sprintf("q%d", i),
			Prompt:       fmt.Sprintf("Question %d", i),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
			Explanation:  "because",
			Difficulty:   entities.DifficultyEasy,
			Subject:      subject,
		})
	}
	return qs
}

type fakeQueue struct {
	mu        sync.Mutex
	deltas    []entities.ProgressDelta
	attempts  []entities.QuizAttempt
	flashcard []entities.FlashcardProgress
}

func (q *fakeQueue) EnqueueProgressDelta(delta entities.ProgressDelta) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deltas = append(q.deltas, delta)
}

func (q *fakeQueue) EnqueueQuizAttempt(attempt *entities.QuizAttempt) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.attempts = append(q.attempts, *attempt)
}

func (q *fakeQueue) EnqueueFlashcardProgress(progress *entities.FlashcardProgress) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.flashcard = append(q.flashcard, *progress)
}

func (q *fakeQueue) counts() (deltas, attempts, cards int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.deltas), len(q.attempts), len(q.flashcard)
}

// fakeTicker lets tests fire countdown ticks by hand.
type fakeTicker struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
	last func()
}

func newFakeTicker() *fakeTicker {
	return &fakeTicker{subs: make(map[int]func())}
}

func (t *fakeTicker) Every(_ time.Duration, fn func()) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.next
	t.next++
	t.subs[id] = fn
	t.last = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}, nil
}

func (t *fakeTicker) fire(n int) {
	for i := 0; i < n; i++ {
		t.mu.Lock()
		fns := make([]func(), 0, len(t.subs))
		for _, fn := range t.subs {
			fns = append(fns, fn)
		}
		t.mu.Unlock()

		for _, fn := range fns {
			fn()
		}
	}
}

func (t *fakeTicker) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

func (t *fakeTicker) lastFn() func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

type fakeDeck struct {
	cards []entities.Flashcard
	err   error
}

func (f *fakeDeck) GetAll(context.Context) ([]entities.Flashcard, error) {
	return f.cards, f.err
}

func makeDeck(n int) []entities.Flashcard {
	cards := make([]entities.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, entities.Flashcard{
			ID:      fmt.Sprintf("%d", i+1),
			Front:   fmt.Sprintf("Front %d", i+1),
			Back:    fmt.Sprintf("Back %d", i+1),
			Subject: "Go",
		})
	}
	return cards
}

type fakeCardProgress struct {
	rows []entities.FlashcardProgress
	err  error
}

func (f *fakeCardProgress) UpsertFlashcardProgress(context.Context, *entities.FlashcardProgress) error {
	return nil
}

func (f *fakeCardProgress) ListFlashcardProgress(_ context.Context, userID *int64) ([]entities.FlashcardProgress, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.FlashcardProgress, 0, len(f.rows))
	for _, r := range f.rows {
		if userID == nil || r.UserID == *userID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeAttempts struct {
	rows []entities.QuizAttempt
	err  error
}

func (f *fakeAttempts) InsertQuizAttempt(context.Context, *entities.QuizAttempt) error { return nil }

func (f *fakeAttempts) ListQuizAttempts(_ context.Context, userID *int64) ([]entities.QuizAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.QuizAttempt, 0, len(f.rows))
	for _, a := range f.rows {
		if userID == nil || (a.UserID != nil && *a.UserID == *userID) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUserProgress struct {
	rows []entities.UserProgress
	err  error
}

func (f *fakeUserProgress) UpsertUserProgress(context.Context, entities.ProgressDelta) error {
	return nil
}

func (f *fakeUserProgress) ListUserProgress(_ context.Context, userID *int64, _ string) ([]entities.UserProgress, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]entities.UserProgress, 0, len(f.rows))
	for _, r := range f.rows {
		if userID == nil || r.UserID == *userID {
			out = append(out, r)
		}
	}
	return out, nil
}
