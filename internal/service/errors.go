package service

import "errors"

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrEmptyDeck            = errors.New("flashcard deck is empty")
)

// Reasons of validation errors.
var (
	ErrNoSelection       = errors.New("select an answer first")
	ErrInvalidOption     = errors.New("answer option out of range")
	ErrCardNotFlipped    = errors.New("flip the card first to see the answer")
	ErrInvalidTransition = errors.New("action is not allowed right now")
)

// ValidationError is a user-correctable rejection. The session state is
// left unchanged.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(op string, reason error) error {
	return &ValidationError{Op: op, Err: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
