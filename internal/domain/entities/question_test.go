package entities_test

import (
	"errors"
	"testing"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       entities.Question
		wantErr bool
	}{
		{"valid", entities.Question{ID: "q1", Options: []string{"a", "b"}, CorrectIndex: 1}, false},
		{"single option", entities.Question{ID: "q2", Options: []string{"a"}, CorrectIndex: 0}, true},
		{"index too large", entities.Question{ID: "q3", Options: []string{"a", "b"}, CorrectIndex: 2}, true},
		{"negative index", entities.Question{ID: "q4", Options: []string{"a", "b"}, CorrectIndex: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr && !errors.Is(err, entities.ErrInvalidQuestion) {
				t.Errorf("expected ErrInvalidQuestion, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestQuizAttemptValidate(t *testing.T) {
	a := entities.NewQuizAttempt(7, 3, 5, "SQL", 42)
	if err := a.Validate(); err != nil {
		t.Fatalf("expected valid attempt, got %v", err)
	}
	if a.UserID == nil || *a.UserID != 7 {
		t.Errorf("expected user 7, got %v", a.UserID)
	}
	if a.Percentage() != 60 {
		t.Errorf("expected 60%%, got %d", a.Percentage())
	}

	a.Score = 6
	if err := a.Validate(); !errors.Is(err, entities.ErrInvalidAttempt) {
		t.Errorf("expected ErrInvalidAttempt for score above total, got %v", err)
	}
}

func TestNewQuizAttempt_AnonymousHasNoUser(t *testing.T) {
	a := entities.NewQuizAttempt(entities.AnonymousUserID, 1, 1, "Go", 10)
	if a.UserID != nil {
		t.Errorf("expected nil user for anonymous attempt, got %d", *a.UserID)
	}
}

func TestRatingFor(t *testing.T) {
	cases := map[int]entities.Rating{
		100: entities.RatingExcellent,
		80:  entities.RatingExcellent,
		79:  entities.RatingGood,
		60:  entities.RatingGood,
		59:  entities.RatingKeepPracticing,
	}
	for pct, want := range cases {
		if got := entities.RatingFor(pct); got != want {
			t.Errorf("RatingFor(%d): expected %s, got %s", pct, want, got)
		}
	}
}
