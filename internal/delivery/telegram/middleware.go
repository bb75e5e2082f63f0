package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns a command error into a reply. Validation and
// data-unavailable errors are user-facing; anything else is logged as internal.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		text, internal := replyFor(err)
		if internal {
			h.logger.Error("command failed", zap.Int64("chat_id", chatID), zap.Error(err))
		} else {
			h.logger.Debug("command rejected", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		h.sendError(chatID, text)
		return nil
	}
}

// replyFor maps an error to the text shown to the user.
func replyFor(err error) (text string, internal bool) {
	switch {
	case service.IsValidation(err):
		return validationText(err), false
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		return msgNoQuestions, false
	case errors.Is(err, service.ErrEmptyDeck):
		return msgEmptyDeck, false
	default:
		return msgInternalError, true
	}
}

// validationText maps a rejected action to the alert shown to the user.
func validationText(err error) string {
	switch {
	case errors.Is(err, service.ErrNoSelection):
		return msgSelectAnswer
	case errors.Is(err, service.ErrCardNotFlipped):
		return msgFlipFirst
	default:
		return msgActionNotAllowed
	}
}
