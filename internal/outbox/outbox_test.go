package outbox_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/outbox"
)

var errWrite = errors.New("write failed")

type recordingWriter struct {
	mu       sync.Mutex
	fail     bool
	deltas   []entities.ProgressDelta
	attempts []entities.QuizAttempt
	cards    []entities.FlashcardProgress
	calls    int
}

func (w *recordingWriter) setFail(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fail = v
}

func (w *recordingWriter) UpsertUserProgress(_ context.Context, d entities.ProgressDelta) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.fail {
		return errWrite
	}
	w.deltas = append(w.deltas, d)
	return nil
}

func (w *recordingWriter) InsertQuizAttempt(_ context.Context, a *entities.QuizAttempt) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validate attempt: %w", err)
	}
	if w.fail {
		return errWrite
	}
	w.attempts = append(w.attempts, *a)
	return nil
}

func (w *recordingWriter) UpsertFlashcardProgress(_ context.Context, p *entities.FlashcardProgress) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.fail {
		return errWrite
	}
	w.cards = append(w.cards, *p)
	return nil
}

func (w *recordingWriter) written() (int, int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.deltas), len(w.attempts), len(w.cards)
}

func TestQueue_DrainsOnClose(t *testing.T) {
	w := &recordingWriter{}
	q := outbox.New(w, outbox.Config{Workers: 2, BufferSize: 16}, zap.NewNop())
	q.Start(context.Background())

	for i := 0; i < 5; i++ {
		q.EnqueueProgressDelta(entities.ProgressDelta{UserID: 1, Subject: "SQL", QuestionsAnswered: 1})
	}
	q.EnqueueQuizAttempt(entities.NewQuizAttempt(1, 3, 5, "SQL", 40))
	q.EnqueueFlashcardProgress(&entities.FlashcardProgress{UserID: 1, CardID: "1", Learned: true})

	q.Close()
	q.Close()

	d, a, c := w.written()
	if d != 5 || a != 1 || c != 1 {
		t.Errorf("expected 5/1/1 writes, got %d/%d/%d", d, a, c)
	}
}

func TestQueue_CopiesRecords(t *testing.T) {
	w := &recordingWriter{}
	q := outbox.New(w, outbox.Config{BufferSize: 4}, zap.NewNop())

	attempt := entities.NewQuizAttempt(1, 3, 5, "SQL", 40)
	q.EnqueueQuizAttempt(attempt)
	attempt.Score = 0

	q.Close()

	if w.attempts[0].Score != 3 {
		t.Errorf("expected enqueued copy to keep score 3, got %d", w.attempts[0].Score)
	}
}

func TestQueue_RetriesDeadLetters(t *testing.T) {
	w := &recordingWriter{fail: true}
	q := outbox.New(w, outbox.Config{Workers: 1, BufferSize: 8, MaxRetries: 3}, zap.NewNop())
	q.Start(context.Background())

	q.EnqueueProgressDelta(entities.ProgressDelta{UserID: 1, Subject: "Go", QuestionsAnswered: 1})
	q.EnqueueQuizAttempt(entities.NewQuizAttempt(1, 1, 1, "Go", 10))
	q.EnqueueFlashcardProgress(&entities.FlashcardProgress{UserID: 1, CardID: "1"})
	q.Close()

	if got := q.DeadLetters(); got != 2 {
		t.Fatalf("expected 2 dead letters, got %d", got)
	}

	if got := q.RetryDeadLetters(context.Background()); got != 0 {
		t.Fatalf("expected nothing written while failing, got %d", got)
	}
	if got := q.DeadLetters(); got != 2 {
		t.Fatalf("expected records kept for retry, got %d", got)
	}

	w.setFail(false)
	if got := q.RetryDeadLetters(context.Background()); got != 2 {
		t.Fatalf("expected 2 records written, got %d", got)
	}
	d, a, c := w.written()
	if d != 1 || a != 1 || c != 0 || q.DeadLetters() != 0 {
		t.Errorf("unexpected writes %d/%d/%d, dead %d", d, a, c, q.DeadLetters())
	}
}

func TestQueue_GivesUpAfterMaxRetries(t *testing.T) {
	w := &recordingWriter{fail: true}
	q := outbox.New(w, outbox.Config{Workers: 1, MaxRetries: 2}, zap.NewNop())
	q.Start(context.Background())

	q.EnqueueProgressDelta(entities.ProgressDelta{UserID: 1, Subject: "Go"})
	q.Close()

	q.RetryDeadLetters(context.Background())
	if got := q.DeadLetters(); got != 0 {
		t.Errorf("expected record dropped after 2 failures, got %d dead letters", got)
	}
}

func TestQueue_DropsInvalidAttempt(t *testing.T) {
	w := &recordingWriter{}
	q := outbox.New(w, outbox.Config{Workers: 1, MaxRetries: 5}, zap.NewNop())
	q.Start(context.Background())

	q.EnqueueQuizAttempt(&entities.QuizAttempt{ID: "bad", Score: 2, TotalQuestions: 0})
	q.Close()

	if got := q.DeadLetters(); got != 0 {
		t.Fatalf("expected invalid attempt dropped, got %d dead letters", got)
	}
	q.RetryDeadLetters(context.Background())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.calls != 1 || len(w.attempts) != 0 {
		t.Errorf("expected a single rejected write, got %d calls and %d attempts", w.calls, len(w.attempts))
	}
}

func TestQueue_FullBufferDefersRecord(t *testing.T) {
	w := &recordingWriter{}
	q := outbox.New(w, outbox.Config{BufferSize: 1}, zap.NewNop())

	q.EnqueueProgressDelta(entities.ProgressDelta{UserID: 1, Subject: "a"})
	q.EnqueueProgressDelta(entities.ProgressDelta{UserID: 1, Subject: "b"})

	if got := q.DeadLetters(); got != 1 {
		t.Fatalf("expected overflow deferred, got %d dead letters", got)
	}

	q.Close()
	q.RetryDeadLetters(context.Background())

	if d, _, _ := w.written(); d != 2 {
		t.Errorf("expected both deltas written, got %d", d)
	}
}

func TestQueue_EnqueueAfterClose(t *testing.T) {
	w := &recordingWriter{}
	q := outbox.New(w, outbox.Config{}, zap.NewNop())
	q.Close()

	q.EnqueueProgressDelta(entities.ProgressDelta{UserID: 1})

	if d, _, _ := w.written(); d != 0 || q.DeadLetters() != 0 {
		t.Errorf("expected record dropped after close")
	}
}
