package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

// QuizState is the phase of a quiz session.
type QuizState int

const (
	QuizAwaitingAnswer QuizState = iota
	QuizShowingResult
	QuizComplete
	QuizEmpty
)

func (s QuizState) String() string {
	switch s {
	case QuizAwaitingAnswer:
		return "awaiting_answer"
	case QuizShowingResult:
		return "showing_result"
	case QuizComplete:
		return "complete"
	case QuizEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// NoSelection marks a question without a chosen option.
const NoSelection = -1

const (
	defaultMaxQuestions   = 10
	defaultQuestionBudget = 30
)

// QuizConfig controls session length and the per-question countdown.
type QuizConfig struct {
	MaxQuestions   int           // questions per session
	QuestionBudget int           // countdown units per question
	TickInterval   time.Duration // length of one countdown unit
}

// DefaultQuizConfig returns ten questions with thirty one-second units each.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		MaxQuestions:   defaultMaxQuestions,
		QuestionBudget: defaultQuestionBudget,
		TickInterval:   time.Second,
	}
}

// AnswerResult is the outcome of a submitted question.
type AnswerResult struct {
	QuestionIndex int
	Selected      int // NoSelection when the timer expired
	CorrectIndex  int
	Correct       bool
	Expired       bool
	Explanation   string
}

// QuizView is a read-only copy of the session state for rendering.
type QuizView struct {
	State      QuizState
	Index      int
	Total      int
	Selected   int
	Score      int
	TimeLeft   int
	Question   *entities.Question
	LastResult *AnswerResult
	Attempt    *entities.QuizAttempt
}

// QuizService creates quiz sessions.
type QuizService struct {
	questions QuestionRepository
	queue     PersistenceQueue
	ticker    Ticker
	cfg       QuizConfig
	logger    *zap.Logger
}

func NewQuizService(
	questions QuestionRepository,
	queue PersistenceQueue,
	ticker Ticker,
	cfg QuizConfig,
	logger *zap.Logger,
) *QuizService {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = defaultMaxQuestions
	}
	if cfg.QuestionBudget <= 0 {
		cfg.QuestionBudget = defaultQuestionBudget
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	return &QuizService{
		questions: questions,
		queue:     queue,
		ticker:    ticker,
		cfg:       cfg,
		logger:    logger,
	}
}

// NewSession samples questions for a user, optionally filtered by subject.
// The session is returned even when loading fails; it is then left in
// QuizEmpty and Reset can be used to retry.
func (s *QuizService) NewSession(ctx context.Context, userID int64, subject string) (*QuizSession, error) {
	qs := &QuizSession{
		service: s,
		userID:  userID,
		subject: subject,
		state:   QuizEmpty,
		logger:  s.logger.With(zap.Int64("user_id", userID)),
	}

	return qs, qs.Reset(ctx)
}

func (s *QuizService) loadPool(ctx context.Context, subject string) ([]entities.Question, error) {
	all, err := s.questions.ListQuestions(ctx, subject, 0)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	pool := make([]entities.Question, 0, len(all))
	for _, q := range all {
		if err := q.Validate(); err != nil {
			s.logger.Warn("skipping invalid question",
				zap.String("question_id", q.ID),
				zap.Error(err),
			)
			continue
		}
		pool = append(pool, q)
	}

	return pool, nil
}

// sampleQuestions returns up to n questions in random order without repeats.
func sampleQuestions(pool []entities.Question, n int) []entities.Question {
	shuffled := make([]entities.Question, len(pool))
	copy(shuffled, pool)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > 0 && n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// QuizSession drives one quiz from the first question to completion.
type QuizSession struct {
	service *QuizService
	userID  int64
	subject string
	logger  *zap.Logger

	mu              sync.Mutex
	questions       []entities.Question
	state           QuizState
	index           int
	selected        int
	score           int
	timeLeft        int
	remainingCredit int
	lastResult      *AnswerResult
	attempt         *entities.QuizAttempt

	generation uint64
	cancelTick func()
	onExpire   func(AnswerResult)
}

// OnExpire registers a hook called after the countdown submits a question.
// The hook runs on the timer goroutine without the session lock held.
func (qs *QuizSession) OnExpire(fn func(AnswerResult)) {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.onExpire = fn
}

// Reset samples a fresh sequence and starts over. The current attempt is
// abandoned without being saved.
func (qs *QuizSession) Reset(ctx context.Context) error {
	pool, err := qs.service.loadPool(ctx, qs.subject)

	qs.mu.Lock()
	defer qs.mu.Unlock()

	qs.stopCountdownLocked()
	qs.score = 0
	qs.remainingCredit = 0
	qs.lastResult = nil
	qs.attempt = nil
	qs.index = 0
	qs.selected = NoSelection
	qs.timeLeft = 0

	if err != nil {
		qs.questions = nil
		qs.state = QuizEmpty
		return err
	}

	qs.questions = sampleQuestions(pool, qs.service.cfg.MaxQuestions)
	if len(qs.questions) == 0 {
		qs.state = QuizEmpty
		qs.logger.Info("no questions available", zap.String("subject", qs.subject))
		return nil
	}

	qs.enterQuestionLocked(0)
	return nil
}

// SelectOption records a tentative answer for the current question.
func (qs *QuizSession) SelectOption(idx int) error {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	switch qs.state {
	case QuizEmpty:
		return ErrNoQuestionsAvailable
	case QuizShowingResult:
		return nil
	case QuizComplete:
		return invalid("select option", ErrInvalidTransition)
	}

	q := &qs.questions[qs.index]
	if idx < 0 || idx >= len(q.Options) {
		return invalid("select option", ErrInvalidOption)
	}

	qs.selected = idx
	return nil
}

// Submit grades the current question.
func (qs *QuizSession) Submit() (AnswerResult, error) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	switch qs.state {
	case QuizEmpty:
		return AnswerResult{}, ErrNoQuestionsAvailable
	case QuizAwaitingAnswer:
	default:
		return AnswerResult{}, invalid("submit", ErrInvalidTransition)
	}

	if qs.selected == NoSelection && qs.timeLeft > 0 {
		return AnswerResult{}, invalid("submit", ErrNoSelection)
	}

	return qs.submitLocked(qs.timeLeft <= 0), nil
}

// Advance moves past the shown result. After the last question the session
// completes and the saved attempt is returned.
func (qs *QuizSession) Advance() (*entities.QuizAttempt, error) {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	switch qs.state {
	case QuizEmpty:
		return nil, ErrNoQuestionsAvailable
	case QuizShowingResult:
	default:
		return nil, invalid("advance", ErrInvalidTransition)
	}

	if qs.index < len(qs.questions)-1 {
		qs.enterQuestionLocked(qs.index + 1)
		return nil, nil
	}

	return qs.completeLocked(), nil
}

// Close stops the countdown. The session should not be used afterwards.
func (qs *QuizSession) Close() {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.stopCountdownLocked()
}

// State returns the current phase.
func (qs *QuizSession) State() QuizState {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return qs.state
}

// Snapshot returns a copy of the session state.
func (qs *QuizSession) Snapshot() QuizView {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	v := QuizView{
		State:    qs.state,
		Index:    qs.index,
		Total:    len(qs.questions),
		Selected: qs.selected,
		Score:    qs.score,
		TimeLeft: qs.timeLeft,
	}
	if qs.state == QuizAwaitingAnswer || qs.state == QuizShowingResult {
		q := qs.questions[qs.index]
		q.Options = append([]string(nil), q.Options...)
		v.Question = &q
	}
	if qs.lastResult != nil {
		r := *qs.lastResult
		v.LastResult = &r
	}
	if qs.attempt != nil {
		a := *qs.attempt
		v.Attempt = &a
	}
	return v
}

func (qs *QuizSession) enterQuestionLocked(i int) {
	qs.state = QuizAwaitingAnswer
	qs.index = i
	qs.selected = NoSelection
	qs.timeLeft = qs.service.cfg.QuestionBudget
	qs.startCountdownLocked()
}

func (qs *QuizSession) submitLocked(expired bool) AnswerResult {
	qs.stopCountdownLocked()

	q := &qs.questions[qs.index]
	correct := qs.selected != NoSelection && q.IsCorrect(qs.selected)
	if correct {
		qs.score++
	}

	elapsed := qs.service.cfg.QuestionBudget - qs.timeLeft
	qs.remainingCredit += qs.timeLeft
	qs.state = QuizShowingResult

	res := AnswerResult{
		QuestionIndex: qs.index,
		Selected:      qs.selected,
		CorrectIndex:  q.CorrectIndex,
		Correct:       correct,
		Expired:       expired,
		Explanation:   q.Explanation,
	}
	qs.lastResult = &res

	delta := entities.ProgressDelta{
		UserID:            qs.userID,
		Subject:           q.Subject,
		QuestionsAnswered: 1,
		StudyMinutes:      ceilMinutes(qs.units(elapsed)),
		StudiedAt:         time.Now().UTC(),
	}
	if correct {
		delta.CorrectAnswers = 1
	}
	qs.service.queue.EnqueueProgressDelta(delta)

	return res
}

func (qs *QuizSession) completeLocked() *entities.QuizAttempt {
	qs.state = QuizComplete

	n := len(qs.questions)
	spent := n*qs.service.cfg.QuestionBudget - qs.remainingCredit
	attempt := entities.NewQuizAttempt(
		qs.userID,
		qs.score,
		n,
		qs.questions[0].Subject,
		int(qs.units(spent)/time.Second),
	)
	qs.attempt = attempt

	saved := *attempt
	qs.service.queue.EnqueueQuizAttempt(&saved)

	qs.logger.Info("quiz completed",
		zap.Int("score", attempt.Score),
		zap.Int("total", attempt.TotalQuestions),
		zap.Int("time_taken", attempt.TimeTaken),
	)

	out := *attempt
	return &out
}

func (qs *QuizSession) units(n int) time.Duration {
	return time.Duration(n) * qs.service.cfg.TickInterval
}

func (qs *QuizSession) startCountdownLocked() {
	qs.stopCountdownLocked()

	if qs.service.ticker == nil {
		return
	}

	gen := qs.generation
	cancel, err := qs.service.ticker.Every(qs.service.cfg.TickInterval, func() {
		qs.tick(gen)
	})
	if err != nil {
		qs.logger.Warn("failed to start countdown", zap.Error(err))
		return
	}
	qs.cancelTick = cancel
}

// stopCountdownLocked cancels the countdown and invalidates ticks that are
// already in flight.
func (qs *QuizSession) stopCountdownLocked() {
	qs.generation++
	if qs.cancelTick != nil {
		qs.cancelTick()
		qs.cancelTick = nil
	}
}

func (qs *QuizSession) tick(gen uint64) {
	qs.mu.Lock()
	if gen != qs.generation || qs.state != QuizAwaitingAnswer {
		qs.mu.Unlock()
		return
	}

	qs.timeLeft--
	if qs.timeLeft > 0 {
		qs.mu.Unlock()
		return
	}

	qs.timeLeft = 0
	qs.selected = NoSelection
	res := qs.submitLocked(true)
	hook := qs.onExpire
	qs.mu.Unlock()

	if hook != nil {
		hook(res)
	}
}

func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}
