package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/domain/stats"
	"github.com/aliskhannn/learnhub/internal/service"
)

func userRef(id int64) *int64 { return &id }

func seededProgress() *service.ProgressService {
	attempts := make([]entities.QuizAttempt, 0, 7)
	for i := 0; i < 7; i++ {
		attempts = append(attempts, entities.QuizAttempt{
			ID:             string(rune('a' + i)),
			UserID:         userRef(1),
			Score:          4,
			TotalQuestions: 5,
			Subject:        "SQL",
			CompletedAt:    time.Date(2026, 1, 7-i, 12, 0, 0, 0, time.UTC),
		})
	}
	attempts = append(attempts, entities.QuizAttempt{ID: "other", UserID: userRef(2), Score: 1, TotalQuestions: 5})

	rows := []entities.UserProgress{
		{UserID: 1, Subject: "SQL", QuestionsAnswered: 10, CorrectAnswers: 7, TotalStudyTime: 90, StreakDays: 3},
		{UserID: 1, Subject: "React", QuestionsAnswered: 10, CorrectAnswers: 9, TotalStudyTime: 30, StreakDays: 2},
		{UserID: 2, Subject: "SQL", QuestionsAnswered: 5, CorrectAnswers: 1, TotalStudyTime: 10, StreakDays: 1},
	}
	cards := []entities.FlashcardProgress{
		{UserID: 1, CardID: "1", Learned: true},
		{UserID: 1, CardID: "2", Learned: false},
		{UserID: 1, CardID: "3", Learned: true},
	}

	return service.NewProgressService(
		&fakeAttempts{rows: attempts},
		&fakeUserProgress{rows: rows},
		&fakeCardProgress{rows: cards},
		stats.DefaultDefaults(),
	)
}

func TestDashboard_ForUser(t *testing.T) {
	d, err := seededProgress().Dashboard(context.Background(), userRef(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Subjects) != 2 || d.Subjects[0] != (stats.SubjectScore{Subject: "SQL", Score: 70}) {
		t.Errorf("unexpected subjects: %+v", d.Subjects)
	}
	want := stats.Overall{OverallScore: 80, StudyStreak: 3, TotalStudyHours: 2, CardsMastered: 2}
	if d.Overall != want {
		t.Errorf("expected overall %+v, got %+v", want, d.Overall)
	}
	if len(d.RecentAttempts) != 5 || d.RecentAttempts[0].ID != "a" {
		t.Errorf("expected 5 newest attempts, got %d", len(d.RecentAttempts))
	}
	if len(d.Weekly) != 7 {
		t.Fatalf("expected 7 days, got %d", len(d.Weekly))
	}

	quizzes, cards := 0, 0
	for _, day := range d.Weekly {
		quizzes += day.Quizzes
		cards += day.Flashcards
	}
	if quizzes != 7 || cards != 2 {
		t.Errorf("expected weekly totals 7/2, got %d/%d", quizzes, cards)
	}
}

func TestDashboard_Empty(t *testing.T) {
	svc := service.NewProgressService(&fakeAttempts{}, &fakeUserProgress{}, &fakeCardProgress{}, stats.DefaultDefaults())

	d, err := svc.Dashboard(context.Background(), userRef(99))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Subjects) != 0 || d.Overall != (stats.Overall{}) || len(d.RecentAttempts) != 0 {
		t.Errorf("expected empty dashboard, got %+v", d)
	}
}

func TestDashboard_PropagatesErrors(t *testing.T) {
	svc := service.NewProgressService(&fakeAttempts{err: errStorage}, &fakeUserProgress{}, &fakeCardProgress{}, stats.DefaultDefaults())

	if _, err := svc.Dashboard(context.Background(), nil); !errors.Is(err, errStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestPlatform(t *testing.T) {
	p, err := seededProgress().Platform(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ActiveUsers != "2+" || p.ActiveUserCount != 2 {
		t.Errorf("expected 2 active users, got %q (%d)", p.ActiveUsers, p.ActiveUserCount)
	}
	// 8 attempts over 2 users; 29 of 40 questions correct.
	if p.CompletionRate != 400 || p.AverageScore != 73 {
		t.Errorf("unexpected rates: completion %d average %d", p.CompletionRate, p.AverageScore)
	}
	if p.AverageImprovement != 15 || p.QuestionsSolved != 25 {
		t.Errorf("unexpected improvement %d or solved %d", p.AverageImprovement, p.QuestionsSolved)
	}
}

func TestPlatform_PropagatesErrors(t *testing.T) {
	svc := service.NewProgressService(&fakeAttempts{}, &fakeUserProgress{err: errStorage}, &fakeCardProgress{}, stats.DefaultDefaults())

	if _, err := svc.Platform(context.Background()); !errors.Is(err, errStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}

func TestAttempts_Limit(t *testing.T) {
	got, err := seededProgress().Attempts(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected 3 attempts, got %d", len(got))
	}
}
