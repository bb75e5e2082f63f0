// Package entities contains domain entities used across the application.
package entities

import "time"

// Flashcard is a single card of a study deck.
type Flashcard struct {
	ID          string     `json:"id"`
	Front       string     `json:"front"`
	Back        string     `json:"back"`
	Difficulty  Difficulty `json:"difficulty"`
	Subject     string     `json:"subject"`
	Learned     bool       `json:"-"`
	ReviewCount int        `json:"-"`
}

// FlashcardProgress is the latest review verdict of a user for a card.
// The pair (UserID, CardID) is unique and rows are overwritten on every review.
type FlashcardProgress struct {
	UserID       int64
	CardID       string
	Learned      bool
	ReviewCount  int
	LastReviewed time.Time
}

// NewFlashcardProgress builds the row written after a review.
func NewFlashcardProgress(userID int64, card *Flashcard, reviewedAt time.Time) *FlashcardProgress {
	return &FlashcardProgress{
		UserID:       userID,
		CardID:       card.ID,
		Learned:      card.Learned,
		ReviewCount:  card.ReviewCount,
		LastReviewed: reviewedAt.UTC(),
	}
}
