package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/learnhub/internal/config"
	httpapi "github.com/aliskhannn/learnhub/internal/delivery/http"
	"github.com/aliskhannn/learnhub/internal/delivery/telegram"
	"github.com/aliskhannn/learnhub/internal/domain/entities"
	"github.com/aliskhannn/learnhub/internal/domain/stats"
	"github.com/aliskhannn/learnhub/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/learnhub/internal/infra/postgres/repository"
	"github.com/aliskhannn/learnhub/internal/infra/sqlite"
	"github.com/aliskhannn/learnhub/internal/logger"
	"github.com/aliskhannn/learnhub/internal/outbox"
	"github.com/aliskhannn/learnhub/internal/repository"
	"github.com/aliskhannn/learnhub/internal/scheduler"
	"github.com/aliskhannn/learnhub/internal/service"
	"github.com/aliskhannn/learnhub/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type questionStore interface {
	service.QuestionRepository
	UpsertQuestions(ctx context.Context, questions []entities.Question) error
}

// backend is the storage selected by database.driver.
type backend struct {
	questions questionStore
	attempts  service.AttemptRepository
	progress  service.UserProgressRepository
	cards     service.FlashcardProgressRepository
	close     func()
}

// writer routes outbox records to the repositories.
type writer struct {
	service.AttemptRepository
	service.UserProgressRepository
	service.FlashcardProgressRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	l, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	if err := run(cfg, l); err != nil {
		l.Fatal("application stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, l *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openBackend(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer store.close()

	if err := seedQuestions(ctx, cfg.Quiz.QuestionsPath, store.questions, l); err != nil {
		return err
	}

	deckRepo, err := repository.NewDeckRepository(cfg.Flashcards.DeckPath)
	if err != nil {
		return fmt.Errorf("load flashcard deck: %w", err)
	}

	sched := scheduler.New(l)
	sched.Start()

	queue := outbox.New(
		writer{store.attempts, store.progress, store.cards},
		outbox.Config{
			Workers:      cfg.Outbox.Workers,
			BufferSize:   cfg.Outbox.BufferSize,
			WriteTimeout: cfg.Outbox.WriteTimeout,
			MaxRetries:   cfg.Outbox.MaxRetries,
		},
		l,
	)
	queue.Start(ctx)

	if err := sched.AddFunc("outbox_retry", cfg.Outbox.RetrySchedule, func() {
		queue.RetryDeadLetters(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule outbox retry: %w", err)
	}

	quizService := service.NewQuizService(store.questions, queue, sched, service.QuizConfig{
		MaxQuestions:   cfg.Quiz.MaxQuestions,
		QuestionBudget: cfg.Quiz.QuestionTimeBudget,
		TickInterval:   cfg.Quiz.TickInterval,
	}, l)
	deckService := service.NewDeckService(deckRepo, store.cards, queue, l)
	progressService := service.NewProgressService(store.attempts, store.progress, store.cards, stats.Defaults{
		ActiveUsersFallback: cfg.Stats.ActiveUsersFallback,
		CompletionRate:      cfg.Stats.DefaultCompletionRate,
		AverageScore:        cfg.Stats.DefaultAverageScore,
		MinImprovement:      cfg.Stats.MinImprovement,
		ImprovementBaseline: cfg.Stats.ImprovementBaseline,
	})

	sessions := storage.NewSessionStorage()

	g, gctx := errgroup.WithContext(ctx)

	var server *httpapi.Server
	if cfg.HTTP.Enabled {
		server = httpapi.NewServer(cfg.HTTP.Addr, httpapi.RouterConfig{
			StatsHandler:   httpapi.NewStatsHandler(progressService),
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			Logger:         l,
		})
		g.Go(server.Run)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	if cfg.Telegram.Enabled {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		if _, err := bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands()...)); err != nil {
			l.Warn("failed to set bot commands", zap.Error(err))
		}
		l.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

		handler := telegram.NewHandler(bot, l, quizService, deckService, progressService, sessions)
		g.Go(func() error {
			err := handler.Run(gctx)
			if gctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	runErr := g.Wait()
	l.Info("shutting down")

	sessions.CloseAll()
	queue.Close()
	if n := queue.RetryDeadLetters(context.Background()); n > 0 {
		l.Info("dead letters written on shutdown", zap.Int("written", n))
	}
	if n := queue.DeadLetters(); n > 0 {
		l.Warn("unsaved records dropped on shutdown", zap.Int("count", n))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	sched.Stop(stopCtx)

	return runErr
}

func openBackend(ctx context.Context, cfg *config.Config, l *zap.Logger) (*backend, error) {
	if cfg.DB.Driver == config.DriverSQLite {
		st, err := sqlite.Open(ctx, cfg.DB.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		l.Info("using sqlite storage", zap.String("path", cfg.DB.SQLitePath))

		return &backend{
			questions: st,
			attempts:  st,
			progress:  st,
			cards:     st,
			close: func() {
				if err := st.Close(); err != nil {
					l.Error("failed to close sqlite", zap.Error(err))
				}
			},
		}, nil
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	l.Info("using postgres storage")

	return &backend{
		questions: pgrepo.NewQuestionRepository(pool),
		attempts:  pgrepo.NewAttemptRepository(pool),
		progress:  pgrepo.NewProgressRepository(pool, postgres.NewTransactor(pool)),
		cards:     pgrepo.NewFlashcardRepository(pool),
		close:     pool.Close,
	}, nil
}

// seedQuestions loads the bundled question bank into storage.
func seedQuestions(ctx context.Context, path string, store questionStore, l *zap.Logger) error {
	if path == "" {
		return nil
	}

	questions, err := repository.LoadQuestionBank(path)
	if err != nil {
		return fmt.Errorf("load question bank: %w", err)
	}
	if err := store.UpsertQuestions(ctx, questions); err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}

	l.Info("question bank loaded", zap.Int("count", len(questions)))
	return nil
}
