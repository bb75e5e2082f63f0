package telegram

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/service"
	"github.com/aliskhannn/learnhub/internal/storage"
)

// handleQuizCommand starts a new quiz, optionally for one subject.
func (h *Handler) handleQuizCommand(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		subject := strings.TrimSpace(args)

		qs, err := h.quizService.NewSession(ctx, userID, subject)
		if qs == nil {
			return fmt.Errorf("new quiz session: %w", err)
		}

		qs.OnExpire(func(service.AnswerResult) {
			h.onQuizExpired(userID)
		})
		h.sessions.StoreQuiz(userID, &storage.QuizEntry{Session: qs, ChatID: chatID})

		text := renderQuiz(qs.Snapshot())
		if err != nil {
			h.logger.Error("failed to load questions",
				zap.Int64("user_id", userID),
				zap.String("subject", subject),
				zap.Error(err),
			)
			text = md("⚠️ " + msgQuizUnavailable)
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = buildQuizKeyboard(qs.Snapshot())

		sent, err := h.send(msg)
		if err != nil {
			return nil
		}
		h.sessions.SetQuizMessage(userID, sent.MessageID)

		return nil
	}
}

// onQuizExpired re-renders the quiz message after the countdown ran out.
// It runs on the timer goroutine.
func (h *Handler) onQuizExpired(userID int64) {
	entry, ok := h.sessions.GetQuiz(userID)
	if !ok || entry.MessageID == 0 {
		return
	}

	v := entry.Session.Snapshot()
	h.edit(entry.ChatID, entry.MessageID, renderQuiz(v), buildQuizKeyboard(v))
}

// handleCardsCommand opens a flashcard study session.
func (h *Handler) handleCardsCommand(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fs, err := h.deckService.NewSession(ctx, userID)
		if err != nil {
			h.logger.Error("failed to load deck",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			h.sendError(chatID, msgDeckUnavailable)
			return nil
		}

		if fs.Empty() {
			return service.ErrEmptyDeck
		}

		h.sessions.StoreDeck(userID, &storage.DeckEntry{Session: fs, ChatID: chatID})

		v := fs.Snapshot()
		msg := newMessage(chatID, renderCard(v, nil))
		if kb := buildCardKeyboard(v); kb != nil {
			msg.ReplyMarkup = kb
		}

		sent, err := h.send(msg)
		if err != nil {
			return nil
		}
		h.sessions.SetDeckMessage(userID, sent.MessageID)

		return nil
	}
}

// handleStatsCommand shows the personal dashboard.
func (h *Handler) handleStatsCommand(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		d, err := h.progressService.Dashboard(ctx, entities.UserRef(userID))
		if err != nil {
			return fmt.Errorf("get dashboard: %w", err)
		}

		msg := newMessage(chatID, renderDashboard(d))
		msg.ReplyMarkup = buildStatsKeyboard()
		h.send(msg)

		return nil
	}
}
