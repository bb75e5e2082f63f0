package entities

import (
	"errors"
	"fmt"
)

// Difficulty is the author-assigned difficulty of a question or card.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

var ErrInvalidQuestion = errors.New("invalid question")

// Question is a multiple-choice question. It is read-only to quiz sessions.
type Question struct {
	ID           string     `json:"id"`
	Prompt       string     `json:"question"`
	Options      []string   `json:"options"`        // at least two answer options
	CorrectIndex int        `json:"correct_answer"` // zero-based index into Options
	Explanation  string     `json:"explanation"`
	Difficulty   Difficulty `json:"difficulty"`
	Subject      string     `json:"subject"` // free-form tag, e.g. "SQL"
}

// Validate checks the option count and the correct answer index.
func (q *Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: %q has %d options", ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: %q correct index %d out of range", ErrInvalidQuestion, q.ID, q.CorrectIndex)
	}
	return nil
}

// IsCorrect reports whether the option at idx is the correct answer.
func (q *Question) IsCorrect(idx int) bool {
	return idx == q.CorrectIndex
}

// CorrectOption returns the text of the correct option.
func (q *Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}
