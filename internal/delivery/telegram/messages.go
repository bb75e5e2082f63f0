// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Error messages.
const (
	msgQuizUnavailable  = "Could not load questions. Please try again later."
	msgNoQuestions      = "There are no questions for this quiz yet."
	msgDeckUnavailable  = "Could not load the flashcard deck. Please try again later."
	msgEmptyDeck        = "The flashcard deck is empty."
	msgSessionExpired   = "This session has expired. Send /quiz or /cards to start again."
	msgSelectAnswer     = "Select an answer first."
	msgFlipFirst        = "Flip the card to see the answer first."
	msgActionNotAllowed = "This action is not available right now."
	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Available commands:\n\n/quiz [subject] - take a quiz\n/cards - study flashcards\n/stats - show your progress\n/help - help"
)

// Welcome and help texts are pre-escaped MarkdownV2.
const (
	msgWelcome = "👋 *Welcome to LearnHub\\!*\n\n" +
		"Practice with timed quizzes, review flashcards and follow your progress\\.\n\n" +
		"/quiz \\- take a quiz\n/cards \\- study flashcards\n/stats \\- your progress"

	msgHelp = "*How it works*\n\n" +
		"🎯 /quiz \\[subject\\] \\- up to 10 questions, 30 seconds each\\. " +
		"Pick an option and press *Submit*\\. When time runs out the question counts as wrong\\.\n\n" +
		"🗂 /cards \\- flip a card, then mark whether you knew the answer\\.\n\n" +
		"📊 /stats \\- accuracy per subject, streak and weekly activity\\."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}
