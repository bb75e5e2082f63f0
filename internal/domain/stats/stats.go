// Package stats reduces progress and attempt snapshots into dashboard metrics.
// All functions are pure and never touch storage.
package stats

import (
	"fmt"
	"math"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
)

// SubjectScore is the accuracy of one subject.
type SubjectScore struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// Overall summarises a user's progress rows.
type Overall struct {
	OverallScore    int `json:"overall_score"`
	StudyStreak     int `json:"study_streak"`
	TotalStudyHours int `json:"total_study_time"`
	CardsMastered   int `json:"cards_mastered"`
}

// Defaults holds presentation fallbacks used when there is not enough data.
type Defaults struct {
	ActiveUsersFallback string
	CompletionRate      int
	AverageScore        int
	MinImprovement      int
	ImprovementBaseline int
}

// DefaultDefaults returns the landing page fallbacks.
func DefaultDefaults() Defaults {
	return Defaults{
		ActiveUsersFallback: "10K+",
		CompletionRate:      94,
		AverageScore:        87,
		MinImprovement:      15,
		ImprovementBaseline: 70,
	}
}

// Platform holds the platform-wide numbers shown on the landing page.
type Platform struct {
	ActiveUsers        string `json:"active_users"`
	ActiveUserCount    int    `json:"active_user_count"`
	CompletionRate     int    `json:"completion_rate"`
	AverageScore       int    `json:"average_score"`
	AverageImprovement int    `json:"average_improvement"`
	QuestionsSolved    int    `json:"questions_solved"`
}

// CompletionRateLabel formats the completion rate as a percentage.
func (p Platform) CompletionRateLabel() string {
	return fmt.Sprintf("%d%%", p.CompletionRate)
}

// AverageImprovementLabel formats the improvement as a signed percentage.
func (p Platform) AverageImprovementLabel() string {
	return fmt.Sprintf("+%d%%", p.AverageImprovement)
}

// SubjectPerformance returns the accuracy per subject in first-seen order.
// Rows of the same subject (e.g. from different users) are summed.
func SubjectPerformance(rows []entities.UserProgress) []SubjectScore {
	if len(rows) == 0 {
		return []SubjectScore{}
	}

	type totals struct{ answered, correct int }

	order := make([]string, 0, len(rows))
	bySubject := make(map[string]*totals, len(rows))
	for _, r := range rows {
		t, ok := bySubject[r.Subject]
		if !ok {
			t = &totals{}
			bySubject[r.Subject] = t
			order = append(order, r.Subject)
		}
		t.answered += r.QuestionsAnswered
		t.correct += r.CorrectAnswers
	}

	out := make([]SubjectScore, 0, len(order))
	for _, subject := range order {
		t := bySubject[subject]
		out = append(out, SubjectScore{
			Subject: subject,
			Score:   entities.Percent(t.correct, t.answered),
		})
	}
	return out
}

// OverallStats summarises progress rows and flashcard verdicts.
func OverallStats(rows []entities.UserProgress, cards []entities.FlashcardProgress) Overall {
	var answered, correct, minutes, streak int
	for _, r := range rows {
		answered += r.QuestionsAnswered
		correct += r.CorrectAnswers
		minutes += r.TotalStudyTime
		streak = max(streak, r.StreakDays)
	}

	return Overall{
		OverallScore:    entities.Percent(correct, answered),
		StudyStreak:     streak,
		TotalStudyHours: int(math.Round(float64(minutes) / 60)),
		CardsMastered:   CountLearned(cards),
	}
}

// CountLearned counts cards whose latest verdict is learned.
func CountLearned(cards []entities.FlashcardProgress) int {
	n := 0
	for _, c := range cards {
		if c.Learned {
			n++
		}
	}
	return n
}

// PlatformStats computes landing page numbers from all attempts and progress rows.
func PlatformStats(attempts []entities.QuizAttempt, rows []entities.UserProgress, d Defaults) Platform {
	users := make(map[int64]struct{})
	var totalQuestions, totalCorrect int
	for _, a := range attempts {
		if a.UserID != nil {
			users[*a.UserID] = struct{}{}
		}
		totalQuestions += a.TotalQuestions
		totalCorrect += a.Score
	}

	solved := 0
	for _, r := range rows {
		solved += r.QuestionsAnswered
	}

	p := Platform{
		ActiveUserCount: len(users),
		ActiveUsers:     d.ActiveUsersFallback,
		CompletionRate:  d.CompletionRate,
		AverageScore:    d.AverageScore,
		QuestionsSolved: solved,
	}
	if p.ActiveUserCount > 0 {
		p.ActiveUsers = fmt.Sprintf("%d+", p.ActiveUserCount)
	}

	if totalQuestions > 0 {
		// Anonymous-only attempts still count against a single user.
		divisor := max(p.ActiveUserCount, 1)
		p.CompletionRate = entities.Percent(len(attempts), divisor)
		p.AverageScore = entities.Percent(totalCorrect, totalQuestions)
	}

	p.AverageImprovement = max(d.MinImprovement, p.AverageScore-d.ImprovementBaseline)
	return p
}
