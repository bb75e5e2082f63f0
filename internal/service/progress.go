package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/domain/stats"
)

const recentAttemptsLimit = 5

// Dashboard is the personal performance overview.
type Dashboard struct {
	Subjects       []stats.SubjectScore
	Overall        stats.Overall
	Weekly         []stats.DayActivity
	RecentAttempts []entities.QuizAttempt
}

// ProgressService reads snapshots from storage and summarises them.
type ProgressService struct {
	attempts AttemptRepository
	progress UserProgressRepository
	cards    FlashcardProgressRepository
	defaults stats.Defaults
}

func NewProgressService(
	attempts AttemptRepository,
	progress UserProgressRepository,
	cards FlashcardProgressRepository,
	defaults stats.Defaults,
) *ProgressService {
	return &ProgressService{
		attempts: attempts,
		progress: progress,
		cards:    cards,
		defaults: defaults,
	}
}

// Dashboard builds the overview for a user, or for all users when userID is nil.
func (s *ProgressService) Dashboard(ctx context.Context, userID *int64) (*Dashboard, error) {
	var (
		rows     []entities.UserProgress
		cards    []entities.FlashcardProgress
		attempts []entities.QuizAttempt
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.progress.ListUserProgress(gctx, userID, "")
		if err != nil {
			return fmt.Errorf("list user progress: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cards, err = s.cards.ListFlashcardProgress(gctx, userID)
		if err != nil {
			return fmt.Errorf("list flashcard progress: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		attempts, err = s.attempts.ListQuizAttempts(gctx, userID)
		if err != nil {
			return fmt.Errorf("list quiz attempts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall := stats.OverallStats(rows, cards)

	recent := attempts
	if len(recent) > recentAttemptsLimit {
		recent = recent[:recentAttemptsLimit]
	}

	return &Dashboard{
		Subjects:       stats.SubjectPerformance(rows),
		Overall:        overall,
		Weekly:         stats.WeeklyActivitySeries(len(attempts), overall.CardsMastered, overall.OverallScore),
		RecentAttempts: recent,
	}, nil
}

// Platform returns platform-wide landing page numbers.
func (s *ProgressService) Platform(ctx context.Context) (*stats.Platform, error) {
	var (
		attempts []entities.QuizAttempt
		rows     []entities.UserProgress
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		attempts, err = s.attempts.ListQuizAttempts(gctx, nil)
		if err != nil {
			return fmt.Errorf("list quiz attempts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = s.progress.ListUserProgress(gctx, nil, "")
		if err != nil {
			return fmt.Errorf("list user progress: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := stats.PlatformStats(attempts, rows, s.defaults)
	return &p, nil
}

// Attempts lists the newest attempts of a user, or of everybody when userID is nil.
func (s *ProgressService) Attempts(ctx context.Context, userID *int64, limit int) ([]entities.QuizAttempt, error) {
	attempts, err := s.attempts.ListQuizAttempts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	if limit > 0 && len(attempts) > limit {
		attempts = attempts[:limit]
	}
	return attempts, nil
}
