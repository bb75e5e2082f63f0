package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

var (
	ErrCardNotFound = errors.New("flashcard not found")
	ErrInvalidCard  = errors.New("invalid flashcard")
)

// DeckRepository provides the flashcard deck loaded from a JSON file.
// The deck is read once at startup and never modified.
type DeckRepository struct {
	cards []entities.Flashcard
}

// NewDeckRepository loads the deck stored at path.
func NewDeckRepository(path string) (*DeckRepository, error) {
	cards, err := loadDeck(path)
	if err != nil {
		return nil, err
	}

	return &DeckRepository{cards: cards}, nil
}

// GetAll returns a copy of the deck in file order.
func (r *DeckRepository) GetAll(_ context.Context) ([]entities.Flashcard, error) {
	out := make([]entities.Flashcard, len(r.cards))
	copy(out, r.cards)
	return out, nil
}

// GetByID retrieves a card by its identifier.
func (r *DeckRepository) GetByID(id string) (*entities.Flashcard, error) {
	for i := range r.cards {
		if r.cards[i].ID == id {
			c := r.cards[i]
			return &c, nil
		}
	}

	return nil, ErrCardNotFound
}

func loadDeck(path string) ([]entities.Flashcard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}

	var wrapper struct {
		Flashcards []entities.Flashcard `json:"flashcards"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deck JSON: %w", err)
	}

	seen := make(map[string]struct{}, len(wrapper.Flashcards))
	for _, c := range wrapper.Flashcards {
		switch {
		case c.ID == "":
			return nil, fmt.Errorf("%w: missing id", ErrInvalidCard)
		case c.Front == "" || c.Back == "":
			return nil, fmt.Errorf("%w: card %s has an empty side", ErrInvalidCard, c.ID)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidCard, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return wrapper.Flashcards, nil
}
