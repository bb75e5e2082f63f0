package stats_test

import (
	"reflect"
	"testing"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/domain/stats"
)

func int64Ptr(v int64) *int64 { return &v }

func TestSubjectPerformance_Empty(t *testing.T) {
	got := stats.SubjectPerformance(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestSubjectPerformance_SingleRow(t *testing.T) {
	got := stats.SubjectPerformance([]entities.UserProgress{
		{Subject: "SQL", QuestionsAnswered: 10, CorrectAnswers: 7},
	})
	want := []stats.SubjectScore{{Subject: "SQL", Score: 70}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSubjectPerformance_ZeroAnswered(t *testing.T) {
	got := stats.SubjectPerformance([]entities.UserProgress{{Subject: "Go"}})
	if len(got) != 1 || got[0].Score != 0 {
		t.Fatalf("expected score 0, got %v", got)
	}
}

func TestSubjectPerformance_FirstSeenOrderAndMerge(t *testing.T) {
	got := stats.SubjectPerformance([]entities.UserProgress{
		{UserID: 1, Subject: "React", QuestionsAnswered: 4, CorrectAnswers: 4},
		{UserID: 1, Subject: "SQL", QuestionsAnswered: 2, CorrectAnswers: 1},
		{UserID: 2, Subject: "React", QuestionsAnswered: 4, CorrectAnswers: 2},
	})
	want := []stats.SubjectScore{
		{Subject: "React", Score: 75},
		{Subject: "SQL", Score: 50},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOverallStats(t *testing.T) {
	rows := []entities.UserProgress{
		{Subject: "SQL", QuestionsAnswered: 10, CorrectAnswers: 7, TotalStudyTime: 90, StreakDays: 3},
		{Subject: "Go", QuestionsAnswered: 10, CorrectAnswers: 10, TotalStudyTime: 60, StreakDays: 5},
	}
	cards := []entities.FlashcardProgress{
		{CardID: "1", Learned: true},
		{CardID: "2", Learned: false},
		{CardID: "3", Learned: true},
	}

	got := stats.OverallStats(rows, cards)
	want := stats.Overall{OverallScore: 85, StudyStreak: 5, TotalStudyHours: 3, CardsMastered: 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestOverallStats_NoRows(t *testing.T) {
	got := stats.OverallStats(nil, nil)
	if got != (stats.Overall{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestPlatformStats_Defaults(t *testing.T) {
	got := stats.PlatformStats(nil, nil, stats.DefaultDefaults())
	if got.ActiveUsers != "10K+" {
		t.Errorf("expected fallback active users, got %q", got.ActiveUsers)
	}
	if got.CompletionRate != 94 || got.AverageScore != 87 {
		t.Errorf("expected default rates 94/87, got %d/%d", got.CompletionRate, got.AverageScore)
	}
	if got.AverageImprovement != 17 {
		t.Errorf("expected improvement 17, got %d", got.AverageImprovement)
	}
}

func TestPlatformStats_FromAttempts(t *testing.T) {
	attempts := []entities.QuizAttempt{
		{UserID: int64Ptr(1), Score: 9, TotalQuestions: 10},
		{UserID: int64Ptr(1), Score: 10, TotalQuestions: 10},
		{UserID: int64Ptr(2), Score: 8, TotalQuestions: 10},
		{UserID: nil, Score: 5, TotalQuestions: 10},
	}
	rows := []entities.UserProgress{{QuestionsAnswered: 30}, {QuestionsAnswered: 10}}

	got := stats.PlatformStats(attempts, rows, stats.DefaultDefaults())
	if got.ActiveUsers != "2+" || got.ActiveUserCount != 2 {
		t.Errorf("expected 2 active users, got %q/%d", got.ActiveUsers, got.ActiveUserCount)
	}
	if got.CompletionRate != 200 {
		t.Errorf("expected completion rate 200, got %d", got.CompletionRate)
	}
	if got.AverageScore != 80 {
		t.Errorf("expected average score 80, got %d", got.AverageScore)
	}
	if got.AverageImprovement != 15 {
		t.Errorf("expected improvement floor 15, got %d", got.AverageImprovement)
	}
	if got.QuestionsSolved != 40 {
		t.Errorf("expected 40 questions solved, got %d", got.QuestionsSolved)
	}
	if got.CompletionRateLabel() != "200%" || got.AverageImprovementLabel() != "+15%" {
		t.Errorf("unexpected labels %q %q", got.CompletionRateLabel(), got.AverageImprovementLabel())
	}
}

func TestPlatformStats_AnonymousOnly(t *testing.T) {
	attempts := []entities.QuizAttempt{{Score: 10, TotalQuestions: 10}}
	got := stats.PlatformStats(attempts, nil, stats.DefaultDefaults())
	if got.ActiveUsers != "10K+" {
		t.Errorf("expected fallback active users, got %q", got.ActiveUsers)
	}
	if got.CompletionRate != 100 {
		t.Errorf("expected completion rate 100, got %d", got.CompletionRate)
	}
	if got.AverageImprovement != 30 {
		t.Errorf("expected improvement 30, got %d", got.AverageImprovement)
	}
}
