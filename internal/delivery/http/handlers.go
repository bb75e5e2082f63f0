package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/domain/stats"
	"github.com/aliskhannn/learnhub/internal/service"
)

const (
	defaultAttemptsLimit = 20
	maxAttemptsLimit     = 100
)

var (
	errInvalidUserID = errors.New("user_id must be an integer")
	errInvalidLimit  = errors.New("limit must be a positive integer")
)

type ProgressService interface {
	Dashboard(ctx context.Context, userID *int64) (*service.Dashboard, error)
	Platform(ctx context.Context) (*stats.Platform, error)
	Attempts(ctx context.Context, userID *int64, limit int) ([]entities.QuizAttempt, error)
}

type StatsHandler struct {
	progress ProgressService
}

func NewStatsHandler(progress ProgressService) *StatsHandler {
	return &StatsHandler{progress: progress}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type platformResponse struct {
	stats.Platform
	CompletionRateLabel     string `json:"completion_rate_label"`
	AverageImprovementLabel string `json:"average_improvement_label"`
}

// GET /api/stats/platform
func (h *StatsHandler) Platform(c *gin.Context) {
	p, err := h.progress.Platform(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "stats_unavailable", errors.New("failed to load platform stats"))
		return
	}

	respondOK(c, platformResponse{
		Platform:                *p,
		CompletionRateLabel:     p.CompletionRateLabel(),
		AverageImprovementLabel: p.AverageImprovementLabel(),
	})
}

type attemptResponse struct {
	ID             string    `json:"id"`
	UserID         *int64    `json:"user_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	Subject        string    `json:"subject"`
	TimeTaken      int       `json:"time_taken"`
	CompletedAt    time.Time `json:"completed_at"`
}

func toAttemptResponses(attempts []entities.QuizAttempt) []attemptResponse {
	out := make([]attemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, attemptResponse{
			ID:             a.ID,
			UserID:         a.UserID,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			Percentage:     a.Percentage(),
			Subject:        a.Subject,
			TimeTaken:      a.TimeTaken,
			CompletedAt:    a.CompletedAt.UTC(),
		})
	}
	return out
}

type dashboardResponse struct {
	Subjects       []stats.SubjectScore `json:"subjects"`
	Overall        stats.Overall        `json:"overall"`
	Weekly         []stats.DayActivity  `json:"weekly"`
	RecentAttempts []attemptResponse    `json:"recent_attempts"`
}

// GET /api/stats/dashboard?user_id=
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	d, err := h.progress.Dashboard(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "stats_unavailable", errors.New("failed to load dashboard"))
		return
	}

	subjects := d.Subjects
	if subjects == nil {
		subjects = []stats.SubjectScore{}
	}
	respondOK(c, dashboardResponse{
		Subjects:       subjects,
		Overall:        d.Overall,
		Weekly:         d.Weekly,
		RecentAttempts: toAttemptResponses(d.RecentAttempts),
	})
}

// GET /api/attempts?user_id=&limit=
func (h *StatsHandler) Attempts(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_user_id", err)
		return
	}

	limit := defaultAttemptsLimit
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, http.StatusBadRequest, "invalid_limit", errInvalidLimit)
			return
		}
	}
	limit = min(limit, maxAttemptsLimit)

	attempts, err := h.progress.Attempts(c.Request.Context(), userID, limit)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "attempts_unavailable", errors.New("failed to load attempts"))
		return
	}

	respondOK(c, gin.H{"attempts": toAttemptResponses(attempts)})
}

// userIDParam returns nil when user_id is absent or anonymous, meaning all users.
func userIDParam(c *gin.Context) (*int64, error) {
	raw := c.Query("user_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errInvalidUserID
	}
	return entities.UserRef(id), nil
}
