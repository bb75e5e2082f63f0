package entities

import "time"

// UserProgress aggregates quiz activity of a user in one subject.
// The pair (UserID, Subject) is unique.
type UserProgress struct {
	UserID            int64      // AnonymousUserID for anonymous activity
	Subject           string     // subject tag
	QuestionsAnswered int        // never decreases
	CorrectAnswers    int        // <= QuestionsAnswered
	TotalStudyTime    int        // accumulated minutes
	StreakDays        int        // consecutive calendar days with activity
	LastStudyDate     *time.Time // nil until the first answer
}

// ProgressDelta is an increment merged into a UserProgress row.
// Quiz sessions send one delta per answered question.
type ProgressDelta struct {
	UserID            int64
	Subject           string
	QuestionsAnswered int
	CorrectAnswers    int
	StudyMinutes      int
	StudiedAt         time.Time
}

// NewUserProgress creates an empty progress row for a user and subject.
func NewUserProgress(userID int64, subject string) *UserProgress {
	return &UserProgress{
		UserID:  userID,
		Subject: subject,
	}
}

// Apply merges delta into the row: counters are added and the streak is
// advanced by calendar day (UTC).
func (p *UserProgress) Apply(delta ProgressDelta) {
	p.QuestionsAnswered += delta.QuestionsAnswered
	p.CorrectAnswers += delta.CorrectAnswers
	p.TotalStudyTime += delta.StudyMinutes

	studied := delta.StudiedAt
	if studied.IsZero() {
		studied = time.Now()
	}
	studied = studied.UTC()

	p.StreakDays = NextStreak(p.StreakDays, p.LastStudyDate, studied)

	// An out-of-order delta must not move the study date backwards.
	if p.LastStudyDate == nil || studied.After(*p.LastStudyDate) {
		p.LastStudyDate = &studied
	}
}

// Accuracy returns the rounded percentage of correct answers.
func (p *UserProgress) Accuracy() int {
	return Percent(p.CorrectAnswers, p.QuestionsAnswered)
}

// NextStreak returns the streak after studying at now, given the previous
// streak and the last study time.
func NextStreak(streak int, last *time.Time, now time.Time) int {
	if last == nil || streak <= 0 {
		return 1
	}

	days := daysBetween(last.UTC(), now.UTC())
	switch {
	case days <= 0:
		return streak
	case days == 1:
		return streak + 1
	default:
		return 1
	}
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
