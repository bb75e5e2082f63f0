package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/service"
)

const progressBarLength = 10

// renderQuiz renders the quiz screen (MarkdownV2 safe).
func renderQuiz(v service.QuizView) string {
	switch v.State {
	case service.QuizEmpty:
		return md("🤷 " + msgNoQuestions)

	case service.QuizComplete:
		return renderQuizSummary(v.Attempt)
	}

	var sb strings.Builder
	q := v.Question

	fmt.Fprintf(&sb, "%s %s\n", bold(fmt.Sprintf("Question %d/%d", v.Index+1, v.Total)), md("· "+q.Subject))
	if v.State == service.QuizAwaitingAnswer {
		fmt.Fprintf(&sb, "%s\n", md(fmt.Sprintf("⏱ %ds left · score %d", v.TimeLeft, v.Score)))
	}
	fmt.Fprintf(&sb, "\n%s\n\n", bold(q.Prompt))

	for i, opt := range q.Options {
		marker := "▫️"
		if v.State == service.QuizShowingResult && v.LastResult != nil {
			switch {
			case i == v.LastResult.CorrectIndex:
				marker = "✅"
			case i == v.LastResult.Selected:
				marker = "❌"
			}
		} else if i == v.Selected {
			marker = "🔘"
		}
		fmt.Fprintf(&sb, "%s %s\n", marker, md(optionLetter(i)+". "+opt))
	}

	if v.State == service.QuizShowingResult && v.LastResult != nil {
		sb.WriteString("\n")
		sb.WriteString(formatAnswerFeedback(*v.LastResult))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// formatAnswerFeedback formats feedback for a graded question (MarkdownV2 safe).
func formatAnswerFeedback(r service.AnswerResult) string {
	var head string
	switch {
	case r.Correct:
		head = bold("✅ Correct!")
	case r.Expired:
		head = bold("⌛ Time's up!")
	default:
		head = bold("❌ Incorrect")
	}

	if r.Explanation == "" {
		return head
	}
	return head + "\n" + italic(r.Explanation)
}

func ratingLabel(r entities.Rating) string {
	switch r {
	case entities.RatingExcellent:
		return "🏆 Excellent work!"
	case entities.RatingGood:
		return "👍 Good job!"
	default:
		return "📚 Keep practicing!"
	}
}

func renderQuizSummary(a *entities.QuizAttempt) string {
	if a == nil {
		return md("Quiz complete.")
	}

	pct := a.Percentage()
	return fmt.Sprintf(
		"%s\n\n%s %s\n%s\n%s\n\n%s",
		bold("Quiz complete!"),
		md("Result:"),
		bold(fmt.Sprintf("%d/%d (%d%%)", a.Score, a.TotalQuestions, pct)),
		md(buildProgressBar(a.Score, a.TotalQuestions, progressBarLength)),
		md(fmt.Sprintf("⏱ %s", formatDuration(a.TimeTaken))),
		md(ratingLabel(entities.RatingFor(pct))),
	)
}

// renderCard renders the current flashcard. A non-nil summary is shown
// above the card after a full pass.
func renderCard(v service.FlashcardView, summary *service.DeckSummary) string {
	if v.Total == 0 || v.Card == nil {
		return md("🗂 " + msgEmptyDeck)
	}

	var sb strings.Builder
	if summary != nil {
		sb.WriteString(renderDeckSummary(*summary))
		sb.WriteString("\n\n")
	}

	c := v.Card
	header := fmt.Sprintf("Card %d/%d", v.Index+1, v.Total)
	if c.Subject != "" {
		header += " · " + c.Subject
	}
	fmt.Fprintf(&sb, "%s\n", bold(header))
	if c.Learned {
		sb.WriteString(md("⭐ learned") + "\n")
	}

	if v.Face == service.FaceFront {
		fmt.Fprintf(&sb, "\n%s\n", bold(c.Front))
	} else {
		fmt.Fprintf(&sb, "\n%s\n\n%s\n", italic(c.Front), bold(c.Back))
	}

	fmt.Fprintf(&sb, "\n%s %s",
		md(buildProgressBar(v.Learned, v.Total, progressBarLength)),
		md(fmt.Sprintf("%d%% mastered", v.Mastery)),
	)
	if v.Tally.Total > 0 {
		fmt.Fprintf(&sb, "\n%s", md(fmt.Sprintf("✅ %d  ❌ %d", v.Tally.Correct, v.Tally.Incorrect)))
	}

	return sb.String()
}

func renderDeckSummary(s service.DeckSummary) string {
	return fmt.Sprintf("%s\n%s",
		bold("🎉 Deck complete!"),
		md(fmt.Sprintf("Learned %d/%d (%d%%) · ✅ %d  ❌ %d", s.Learned, s.Total, s.Mastery, s.Correct, s.Incorrect)),
	)
}

// renderDashboard renders the personal progress screen.
func renderDashboard(d *service.Dashboard) string {
	var sb strings.Builder

	sb.WriteString(bold("📊 Your progress") + "\n\n")

	o := d.Overall
	fmt.Fprintf(&sb, "%s\n", md(fmt.Sprintf("🎯 Overall score: %d%%", o.OverallScore)))
	fmt.Fprintf(&sb, "%s\n", md(fmt.Sprintf("🔥 Study streak: %d days", o.StudyStreak)))
	fmt.Fprintf(&sb, "%s\n", md(fmt.Sprintf("⏱ Study time: %dh", o.TotalStudyHours)))
	fmt.Fprintf(&sb, "%s\n", md(fmt.Sprintf("🗂 Cards mastered: %d", o.CardsMastered)))

	if len(d.Subjects) == 0 {
		sb.WriteString("\n" + md("No quizzes yet. Send /quiz to start.") + "\n")
	} else {
		sb.WriteString("\n" + bold("Subjects") + "\n")
		for _, s := range d.Subjects {
			fmt.Fprintf(&sb, "%s %s\n",
				md(buildProgressBar(s.Score, 100, progressBarLength)),
				md(fmt.Sprintf("%s %d%%", s.Subject, s.Score)),
			)
		}
	}

	if len(d.RecentAttempts) > 0 {
		sb.WriteString("\n" + bold("Recent quizzes") + "\n")
		for _, a := range d.RecentAttempts {
			fmt.Fprintf(&sb, "%s\n", md(fmt.Sprintf("• %s %d/%d (%d%%) %s",
				a.Subject, a.Score, a.TotalQuestions, a.Percentage(), a.CompletedAt.Format("Jan 2"))))
		}
	}

	if len(d.Weekly) > 0 {
		sb.WriteString("\n" + bold("This week") + "\n")
		for _, day := range d.Weekly {
			fmt.Fprintf(&sb, "%s\n", md(fmt.Sprintf("%s  🎯 %d  🗂 %d", day.Day, day.Quizzes, day.Flashcards)))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total == 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
