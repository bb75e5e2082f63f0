package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot             Bot
	logger          *zap.Logger
	quizService     QuizService
	deckService     DeckService
	progressService ProgressService
	sessions        SessionStorage
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	quizService QuizService,
	deckService DeckService,
	progressService ProgressService,
	sessions SessionStorage,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		quizService:     quizService,
		deckService:     deckService,
		progressService: progressService,
		sessions:        sessions,
	}
}

// Commands returns the bot command menu.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start learning"},
		{Command: "quiz", Description: "Take a quiz (usage: /quiz SQL)"},
		{Command: "cards", Description: "Study flashcards"},
		{Command: "stats", Description: "Show your progress"},
		{Command: "help", Description: "Help"},
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.sessions.CloseAll()

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if !update.Message.IsCommand() {
		h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	switch update.Message.Command() {
	case "start":
		h.send(newMessage(chatID, msgWelcome))

	case "help":
		h.send(newMessage(chatID, msgHelp))

	case "quiz":
		_ = h.withErrorHandling(h.handleQuizCommand(userID, update.Message.CommandArguments()))(ctx, chatID)

	case "cards":
		_ = h.withErrorHandling(h.handleCardsCommand(userID))(ctx, chatID)

	case "stats":
		_ = h.withErrorHandling(h.handleStatsCommand(userID))(ctx, chatID)

	default:
		h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	sent, err := h.bot.Send(c)
	if err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
	return sent, err
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newPlainMessage(chatID, text))
}

// edit replaces the text and keyboard of a message.
func (h *Handler) edit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	e := tgbotapi.NewEditMessageText(chatID, messageID, text)
	e.ParseMode = tgbotapi.ModeMarkdownV2
	e.ReplyMarkup = kb
	h.send(e)
}

// answerCallback removes the user's "clock"; a non-empty text is shown as an alert.
func (h *Handler) answerCallback(callbackID, text string) {
	answer := tgbotapi.NewCallback(callbackID, "")
	if text != "" {
		answer = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}

	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}
