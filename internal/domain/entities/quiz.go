package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidAttempt = errors.New("invalid quiz attempt")

// QuizAttempt is one finished quiz session. It is written once and never updated.
type QuizAttempt struct {
	ID             string    // unique attempt ID
	UserID         *int64    // nil for anonymous users
	Score          int       // number of correct answers
	TotalQuestions int       // number of questions in the session
	Subject        string    // representative subject tag (first question)
	TimeTaken      int       // seconds spent answering
	CompletedAt    time.Time // completion timestamp
}

// NewQuizAttempt creates a completed attempt for the given user.
// AnonymousUserID is stored without a user reference.
func NewQuizAttempt(userID int64, score, total int, subject string, timeTaken int) *QuizAttempt {
	a := &QuizAttempt{
		ID:             uuid.NewString(),
		Score:          score,
		TotalQuestions: total,
		Subject:        subject,
		TimeTaken:      timeTaken,
		CompletedAt:    time.Now().UTC(),
	}
	if userID != AnonymousUserID {
		id := userID
		a.UserID = &id
	}
	return a
}

// Validate checks the score and duration invariants.
func (a *QuizAttempt) Validate() error {
	switch {
	case a.TotalQuestions <= 0:
		return fmt.Errorf("%w: total questions must be positive, got %d", ErrInvalidAttempt, a.TotalQuestions)
	case a.Score < 0 || a.Score > a.TotalQuestions:
		return fmt.Errorf("%w: score %d outside [0, %d]", ErrInvalidAttempt, a.Score, a.TotalQuestions)
	case a.TimeTaken < 0:
		return fmt.Errorf("%w: negative time taken %d", ErrInvalidAttempt, a.TimeTaken)
	}
	return nil
}

// Percentage returns the rounded score percentage.
func (a *QuizAttempt) Percentage() int {
	return Percent(a.Score, a.TotalQuestions)
}

// Rating is the performance label shown on the quiz summary.
type Rating string

const (
	RatingExcellent      Rating = "excellent"
	RatingGood           Rating = "good"
	RatingKeepPracticing Rating = "keep_practicing"
)

// RatingFor maps a percentage to a performance rating.
func RatingFor(percentage int) Rating {
	switch {
	case percentage >= 80:
		return RatingExcellent
	case percentage >= 60:
		return RatingGood
	default:
		return RatingKeepPracticing
	}
}
