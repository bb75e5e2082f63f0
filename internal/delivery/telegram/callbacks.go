package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/service"
)

// callbackResult is what a callback does to the message it came from.
type callbackResult struct {
	text  string // new message text, MarkdownV2
	kb    *tgbotapi.InlineKeyboardMarkup
	edit  bool
	alert string // shown to the user instead of an edit
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.From == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)
	userID := cb.From.ID

	var res callbackResult
	switch data.Action {
	case actionQuiz:
		res = h.handleQuizCallback(ctx, userID, data)
	case actionCard:
		res = h.handleCardCallback(userID, data)
	case actionStats:
		res = h.handleStatsCallback(ctx, userID)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	h.answerCallback(cb.ID, res.alert)
	if res.edit {
		h.edit(cb.Message.Chat.ID, cb.Message.MessageID, res.text, res.kb)
	}
}

func quizScreen(qs *service.QuizSession) callbackResult {
	v := qs.Snapshot()
	return callbackResult{text: renderQuiz(v), kb: buildQuizKeyboard(v), edit: true}
}

func (h *Handler) handleQuizCallback(ctx context.Context, userID int64, data callbackData) callbackResult {
	entry, ok := h.sessions.GetQuiz(userID)
	if !ok {
		return callbackResult{alert: msgSessionExpired}
	}
	qs := entry.Session

	var err error
	switch data.sub() {
	case quizSelect:
		idx, ok := data.intParam()
		if !ok {
			h.logger.Warn("invalid option in callback", zap.String("data", data.Raw))
			return callbackResult{}
		}
		err = qs.SelectOption(idx)

	case quizSubmit:
		_, err = qs.Submit()

	case quizNext:
		_, err = qs.Advance()

	case quizReset:
		if err := qs.Reset(ctx); err != nil {
			h.logger.Error("failed to reload questions",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return callbackResult{alert: msgQuizUnavailable}
		}

	default:
		h.logger.Warn("unknown quiz callback", zap.String("data", data.Raw))
		return callbackResult{}
	}

	switch {
	case err == nil:
		return quizScreen(qs)
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		return quizScreen(qs)
	case service.IsValidation(err):
		return callbackResult{alert: validationText(err)}
	default:
		h.logger.Error("quiz callback failed", zap.Int64("user_id", userID), zap.Error(err))
		return callbackResult{alert: msgInternalError}
	}
}

func (h *Handler) handleCardCallback(userID int64, data callbackData) callbackResult {
	entry, ok := h.sessions.GetDeck(userID)
	if !ok {
		return callbackResult{alert: msgSessionExpired}
	}
	fs := entry.Session

	var (
		summary *service.DeckSummary
		err     error
	)
	switch data.sub() {
	case cardFlip:
		err = fs.Flip()

	case cardMark:
		v, ok := data.intParam()
		if !ok {
			h.logger.Warn("invalid verdict in callback", zap.String("data", data.Raw))
			return callbackResult{}
		}
		var out service.MarkOutcome
		out, err = fs.MarkResult(v == 1)
		summary = out.Summary

	case cardReset:
		fs.ResetSession()

	default:
		h.logger.Warn("unknown card callback", zap.String("data", data.Raw))
		return callbackResult{}
	}

	switch {
	case errors.Is(err, service.ErrEmptyDeck):
		return callbackResult{alert: msgEmptyDeck}
	case err != nil:
		return callbackResult{alert: validationText(err)}
	}

	v := fs.Snapshot()
	return callbackResult{text: renderCard(v, summary), kb: buildCardKeyboard(v), edit: true}
}

func (h *Handler) handleStatsCallback(ctx context.Context, userID int64) callbackResult {
	d, err := h.progressService.Dashboard(ctx, entities.UserRef(userID))
	if err != nil {
		h.logger.Error("failed to get dashboard", zap.Int64("user_id", userID), zap.Error(err))
		return callbackResult{alert: msgInternalError}
	}

	return callbackResult{text: renderDashboard(d), kb: buildStatsKeyboard(), edit: true}
}
