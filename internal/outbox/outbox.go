// Package outbox persists session results in the background so that quiz and
// flashcard sessions never wait on storage.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

// Writer is the storage side of the outbox.
type Writer interface {
	UpsertUserProgress(ctx context.Context, delta entities.ProgressDelta) error
	InsertQuizAttempt(ctx context.Context, attempt *entities.QuizAttempt) error
	UpsertFlashcardProgress(ctx context.Context, progress *entities.FlashcardProgress) error
}

// Config controls worker concurrency and retry behaviour.
type Config struct {
	Workers      int
	BufferSize   int
	WriteTimeout time.Duration
	MaxRetries   int
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.BufferSize <= 0 {
		c.BufferSize = 256
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	return c
}

type kind int

const (
	kindProgress kind = iota
	kindAttempt
	kindFlashcard
)

func (k kind) String() string {
	switch k {
	case kindProgress:
		return "progress_delta"
	case kindAttempt:
		return "quiz_attempt"
	case kindFlashcard:
		return "flashcard_progress"
	default:
		return "unknown"
	}
}

type record struct {
	kind     kind
	delta    entities.ProgressDelta
	attempt  *entities.QuizAttempt
	card     *entities.FlashcardProgress
	failures int
}

// Queue is a buffered, non-blocking persistence queue. Failed progress deltas
// and quiz attempts are kept as dead letters until RetryDeadLetters succeeds
// or MaxRetries is reached. Flashcard progress is an overwrite and a later
// review supersedes it, so a failed flashcard write is logged and dropped.
type Queue struct {
	writer Writer
	cfg    Config
	logger *zap.Logger

	mu      sync.RWMutex
	closed  bool
	records chan record
	base    context.Context
	wg      sync.WaitGroup

	deadMu sync.Mutex
	dead   []record
}

func New(writer Writer, cfg Config, logger *zap.Logger) *Queue {
	cfg = cfg.withDefaults()

	return &Queue{
		writer:  writer,
		cfg:     cfg,
		logger:  logger,
		records: make(chan record, cfg.BufferSize),
		base:    context.Background(),
	}
}

// Start launches the workers. Writes outlive ctx cancellation so that Close
// can drain pending records during shutdown.
func (q *Queue) Start(ctx context.Context) {
	q.base = context.WithoutCancel(ctx)

	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}

	q.logger.Info("outbox started", zap.Int("workers", q.cfg.Workers))
}

func (q *Queue) EnqueueProgressDelta(delta entities.ProgressDelta) {
	q.enqueue(record{kind: kindProgress, delta: delta})
}

func (q *Queue) EnqueueQuizAttempt(attempt *entities.QuizAttempt) {
	a := *attempt
	q.enqueue(record{kind: kindAttempt, attempt: &a})
}

func (q *Queue) EnqueueFlashcardProgress(progress *entities.FlashcardProgress) {
	p := *progress
	q.enqueue(record{kind: kindFlashcard, card: &p})
}

func (q *Queue) enqueue(r record) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warn("outbox closed, record dropped", zap.Stringer("kind", r.kind))
		return
	}

	select {
	case q.records <- r:
	default:
		// Buffer full: keep the record for the next retry round.
		q.logger.Warn("outbox buffer full, deferring record", zap.Stringer("kind", r.kind))
		q.deadLetter(r)
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()

	for r := range q.records {
		q.process(r)
	}
}

func (q *Queue) process(r record) bool {
	ctx, cancel := context.WithTimeout(q.base, q.cfg.WriteTimeout)
	defer cancel()

	err := q.write(ctx, r)
	if err == nil {
		return true
	}

	r.failures++
	logger := q.logger.With(
		zap.Stringer("kind", r.kind),
		zap.Int("failures", r.failures),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, entities.ErrInvalidAttempt):
		logger.Error("dropping invalid quiz attempt")
	case r.kind == kindFlashcard:
		logger.Error("failed to persist flashcard progress")
	case r.failures >= q.cfg.MaxRetries:
		logger.Error("giving up on record after retries")
	default:
		logger.Warn("failed to persist record, will retry")
		q.deadLetter(r)
	}
	return false
}

func (q *Queue) write(ctx context.Context, r record) error {
	switch r.kind {
	case kindProgress:
		return q.writer.UpsertUserProgress(ctx, r.delta)
	case kindAttempt:
		return q.writer.InsertQuizAttempt(ctx, r.attempt)
	case kindFlashcard:
		return q.writer.UpsertFlashcardProgress(ctx, r.card)
	default:
		return fmt.Errorf("unknown record kind %d", r.kind)
	}
}

func (q *Queue) deadLetter(r record) {
	q.deadMu.Lock()
	defer q.deadMu.Unlock()
	q.dead = append(q.dead, r)
}

// DeadLetters returns the number of records waiting for a retry.
func (q *Queue) DeadLetters() int {
	q.deadMu.Lock()
	defer q.deadMu.Unlock()
	return len(q.dead)
}

// RetryDeadLetters writes deferred records synchronously and returns how many
// were persisted. Records that fail again stay queued.
func (q *Queue) RetryDeadLetters(ctx context.Context) int {
	q.deadMu.Lock()
	pending := q.dead
	q.dead = nil
	q.deadMu.Unlock()

	if len(pending) == 0 {
		return 0
	}

	written := 0
	for i, r := range pending {
		if ctx.Err() != nil {
			for _, rest := range pending[i:] {
				q.deadLetter(rest)
			}
			break
		}
		if q.process(r) {
			written++
		}
	}

	q.logger.Info("outbox retry finished",
		zap.Int("pending", len(pending)),
		zap.Int("written", written),
	)
	return written
}

// Close stops accepting records and waits until everything buffered has been
// written. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.records)
	q.mu.Unlock()

	q.wg.Wait()

	// Drains the buffer when Start was never called.
	for r := range q.records {
		q.process(r)
	}

	q.logger.Info("outbox closed", zap.Int("dead_letters", q.DeadLetters()))
}
