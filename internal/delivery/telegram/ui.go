package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/learnhub/internal/service"
)

var optionLetters = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

func optionLetter(i int) string {
	if i >= 0 && i < len(optionLetters) {
		return optionLetters[i]
	}
	return fmt.Sprintf("%d", i+1)
}

// buildQuizKeyboard builds the keyboard for the current quiz state.
func buildQuizKeyboard(v service.QuizView) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	switch v.State {
	case service.QuizAwaitingAnswer:
		for i := range v.Question.Options {
			label := optionLetter(i)
			if i == v.Selected {
				label = "🔘 " + label
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, buildQuizSelectCallback(i)),
			))
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Submit", buildQuizCallback(quizSubmit)),
		))

	case service.QuizShowingResult:
		label := "Next ▶️"
		if v.Index == v.Total-1 {
			label = "🏁 Finish"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQuizCallback(quizNext)),
		))

	case service.QuizComplete:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Try again", buildQuizCallback(quizReset)),
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", buildStatsCallback()),
		))

	default:
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Retry", buildQuizCallback(quizReset)),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildCardKeyboard builds the keyboard for the visible card face.
func buildCardKeyboard(v service.FlashcardView) *tgbotapi.InlineKeyboardMarkup {
	if v.Total == 0 {
		return nil
	}

	var kb tgbotapi.InlineKeyboardMarkup
	if v.Face == service.FaceFront {
		kb = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 Flip", buildCardCallback(cardFlip)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("↩️ Start over", buildCardCallback(cardReset)),
			),
		)
		return &kb
	}

	kb = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Didn't know", buildCardMarkCallback(false)),
			tgbotapi.NewInlineKeyboardButtonData("✅ Knew it", buildCardMarkCallback(true)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Flip back", buildCardCallback(cardFlip)),
		),
	)
	return &kb
}

// buildStatsKeyboard builds keyboard for the progress screen.
func buildStatsKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildStatsCallback()),
		),
	)
	return &kb
}
