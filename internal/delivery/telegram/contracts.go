package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/learnhub/internal/service"
	"github.com/aliskhannn/learnhub/internal/storage"
)

// Bot is the part of *tgbotapi.BotAPI used by the handler.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type QuizService interface {
	NewSession(ctx context.Context, userID int64, subject string) (*service.QuizSession, error)
}

type DeckService interface {
	NewSession(ctx context.Context, userID int64) (*service.FlashcardSession, error)
}

type ProgressService interface {
	Dashboard(ctx context.Context, userID *int64) (*service.Dashboard, error)
}

type SessionStorage interface {
	StoreQuiz(userID int64, entry *storage.QuizEntry)
	GetQuiz(userID int64) (storage.QuizEntry, bool)
	SetQuizMessage(userID int64, messageID int)
	DeleteQuiz(userID int64)
	StoreDeck(userID int64, entry *storage.DeckEntry)
	GetDeck(userID int64) (storage.DeckEntry, bool)
	SetDeckMessage(userID int64, messageID int)
	CloseAll()
}
