package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

// CardFace is the visible side of the current card.
type CardFace int

const (
	FaceFront CardFace = iota
	FaceBack
)

// Tally counts verdicts given during one study pass.
type Tally struct {
	Correct   int
	Incorrect int
	Total     int
}

// DeckSummary is emitted when the last card of the deck has been marked.
type DeckSummary struct {
	Learned   int
	Total     int
	Correct   int
	Incorrect int
	Mastery   int
}

// MarkOutcome describes the effect of MarkResult.
type MarkOutcome struct {
	CardID  string
	Correct bool
	Learned int
	Mastery int
	Summary *DeckSummary // set when the pass wrapped around
}

// FlashcardView is a read-only copy of the session state for rendering.
type FlashcardView struct {
	Index   int
	Total   int
	Face    CardFace
	Card    *entities.Flashcard
	Learned int
	Mastery int
	Tally   Tally
}

// DeckService creates flashcard sessions.
type DeckService struct {
	deck     DeckRepository
	progress FlashcardProgressRepository
	queue    PersistenceQueue
	logger   *zap.Logger
	now      func() time.Time
}

func NewDeckService(
	deck DeckRepository,
	progress FlashcardProgressRepository,
	queue PersistenceQueue,
	logger *zap.Logger,
) *DeckService {
	return &DeckService{
		deck:     deck,
		progress: progress,
		queue:    queue,
		logger:   logger,
		now:      time.Now,
	}
}

// NewSession loads the deck and restores the user's saved learned flags.
// Failing to load saved progress is not fatal: the deck starts unlearned.
func (s *DeckService) NewSession(ctx context.Context, userID int64) (*FlashcardSession, error) {
	cards, err := s.deck.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}

	deck := make([]entities.Flashcard, len(cards))
	copy(deck, cards)

	logger := s.logger.With(zap.Int64("user_id", userID))

	saved, err := s.progress.ListFlashcardProgress(ctx, entities.UserRef(userID))
	if err != nil {
		logger.Error("failed to load flashcard progress", zap.Error(err))
	} else {
		byCard := make(map[string]entities.FlashcardProgress, len(saved))
		for _, p := range saved {
			if p.UserID == userID {
				byCard[p.CardID] = p
			}
		}
		for i := range deck {
			if p, ok := byCard[deck[i].ID]; ok {
				deck[i].Learned = p.Learned
				deck[i].ReviewCount = p.ReviewCount
			}
		}
	}

	return &FlashcardSession{
		service: s,
		userID:  userID,
		logger:  logger,
		cards:   deck,
	}, nil
}

// FlashcardSession drives a cyclic study pass over a deck.
type FlashcardSession struct {
	service *DeckService
	userID  int64
	logger  *zap.Logger

	mu      sync.Mutex
	cards   []entities.Flashcard
	index   int
	flipped bool
	tally   Tally
}

// Flip turns the current card over.
func (fs *FlashcardSession) Flip() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if len(fs.cards) == 0 {
		return ErrEmptyDeck
	}

	fs.flipped = !fs.flipped
	return nil
}

// MarkResult records the verdict for the current card and moves to the next
// one. It is only allowed while the back of the card is shown.
func (fs *FlashcardSession) MarkResult(correct bool) (MarkOutcome, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if len(fs.cards) == 0 {
		return MarkOutcome{}, ErrEmptyDeck
	}
	if !fs.flipped {
		return MarkOutcome{}, invalid("mark result", ErrCardNotFlipped)
	}

	card := &fs.cards[fs.index]
	card.Learned = correct
	card.ReviewCount++

	if correct {
		fs.tally.Correct++
	} else {
		fs.tally.Incorrect++
	}
	fs.tally.Total++

	fs.service.queue.EnqueueFlashcardProgress(
		entities.NewFlashcardProgress(fs.userID, card, fs.service.now()),
	)

	learned := fs.learnedLocked()
	out := MarkOutcome{
		CardID:  card.ID,
		Correct: correct,
		Learned: learned,
		Mastery: entities.Percent(learned, len(fs.cards)),
	}

	last := fs.index == len(fs.cards)-1
	fs.index = (fs.index + 1) % len(fs.cards)
	fs.flipped = false

	if last {
		out.Summary = &DeckSummary{
			Learned:   learned,
			Total:     len(fs.cards),
			Correct:   fs.tally.Correct,
			Incorrect: fs.tally.Incorrect,
			Mastery:   out.Mastery,
		}
		fs.logger.Info("study pass completed",
			zap.Int("learned", learned),
			zap.Int("total", len(fs.cards)),
		)
	}

	return out, nil
}

// ResetSession clears the tallies and learned flags and returns to the
// first card. Saved progress is not touched.
func (fs *FlashcardSession) ResetSession() {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.index = 0
	fs.flipped = false
	fs.tally = Tally{}
	for i := range fs.cards {
		fs.cards[i].Learned = false
	}
}

// Mastery returns the rounded percentage of learned cards.
func (fs *FlashcardSession) Mastery() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return entities.Percent(fs.learnedLocked(), len(fs.cards))
}

// MasteryRatio returns learned / deck size, or 0 for an empty deck.
func (fs *FlashcardSession) MasteryRatio() float64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if len(fs.cards) == 0 {
		return 0
	}
	return float64(fs.learnedLocked()) / float64(len(fs.cards))
}

// Empty reports whether the deck has no cards.
func (fs *FlashcardSession) Empty() bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.cards) == 0
}

// Snapshot returns a copy of the session state.
func (fs *FlashcardSession) Snapshot() FlashcardView {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	learned := fs.learnedLocked()
	v := FlashcardView{
		Index:   fs.index,
		Total:   len(fs.cards),
		Face:    FaceFront,
		Learned: learned,
		Mastery: entities.Percent(learned, len(fs.cards)),
		Tally:   fs.tally,
	}
	if fs.flipped {
		v.Face = FaceBack
	}
	if len(fs.cards) > 0 {
		c := fs.cards[fs.index]
		v.Card = &c
	}
	return v
}

func (fs *FlashcardSession) learnedLocked() int {
	n := 0
	for _, c := range fs.cards {
		if c.Learned {
			n++
		}
	}
	return n
}
