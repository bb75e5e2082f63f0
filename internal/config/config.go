package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid config")
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"` // current application environment (local, dev, production etc)
	TelegramAPIToken string     `mapstructure:"-"`   // Telegram API token loaded from environment
	DB               DB         `mapstructure:"database"`
	Quiz             Quiz       `mapstructure:"quiz"`
	Flashcards       Flashcards `mapstructure:"flashcards"`
	Outbox           Outbox     `mapstructure:"outbox"`
	HTTP             HTTP       `mapstructure:"http"`
	Telegram         Telegram   `mapstructure:"telegram"`
	Stats            Stats      `mapstructure:"stats"`
}

// DB contains database-related configuration parameters.
type DB struct {
	Driver          string        `mapstructure:"driver"`            // postgres or sqlite
	URL             string        `mapstructure:"-"`                 // postgres connection string loaded from environment
	SQLitePath      string        `mapstructure:"sqlite_path"`       // database file used by the sqlite driver
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

type Quiz struct {
	MaxQuestions       int           `mapstructure:"max_questions"`
	QuestionTimeBudget int           `mapstructure:"question_time_budget"` // countdown units per question
	TickInterval       time.Duration `mapstructure:"tick_interval"`
	QuestionsPath      string        `mapstructure:"questions_path"` // question bank seeded on startup, optional
}

type Flashcards struct {
	DeckPath string `mapstructure:"deck_path"`
}

type Outbox struct {
	Workers       int           `mapstructure:"workers"`
	BufferSize    int           `mapstructure:"buffer_size"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetrySchedule string        `mapstructure:"retry_schedule"` // cron spec for dead letter retries
}

type HTTP struct {
	Enabled        bool     `mapstructure:"enabled"`
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Telegram struct {
	Enabled bool `mapstructure:"enabled"`
}

// Stats holds the landing page fallbacks.
type Stats struct {
	ActiveUsersFallback   string `mapstructure:"active_users_fallback"`
	DefaultCompletionRate int    `mapstructure:"default_completion_rate"`
	DefaultAverageScore   int    `mapstructure:"default_average_score"`
	MinImprovement        int    `mapstructure:"min_improvement"`
	ImprovementBaseline   int    `mapstructure:"improvement_baseline"`
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load("./config")
}

func load(paths ...string) (*Config, error) {
	// A missing .env file is fine: variables may come from the environment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.sqlite_path", "learnhub.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	v.SetDefault("quiz.max_questions", 10)
	v.SetDefault("quiz.question_time_budget", 30)
	v.SetDefault("quiz.tick_interval", "1s")
	v.SetDefault("quiz.questions_path", "assets/questions.json")

	v.SetDefault("flashcards.deck_path", "assets/flashcards.json")

	v.SetDefault("outbox.workers", 4)
	v.SetDefault("outbox.buffer_size", 256)
	v.SetDefault("outbox.write_timeout", "5s")
	v.SetDefault("outbox.max_retries", 5)
	v.SetDefault("outbox.retry_schedule", "@every 1m")

	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("telegram.enabled", true)

	v.SetDefault("stats.active_users_fallback", "10K+")
	v.SetDefault("stats.default_completion_rate", 94)
	v.SetDefault("stats.default_average_score", 87)
	v.SetDefault("stats.min_improvement", 15)
	v.SetDefault("stats.improvement_baseline", 70)
}

// Validate checks that every enabled component has what it needs.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
		}
	case DriverSQLite:
		if c.DB.SQLitePath == "" {
			return fmt.Errorf("%w: database.sqlite_path is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.DB.Driver)
	}

	if c.Telegram.Enabled && c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	if !c.Telegram.Enabled && !c.HTTP.Enabled {
		return fmt.Errorf("%w: neither telegram nor http is enabled", ErrInvalidConfig)
	}

	if c.Quiz.MaxQuestions <= 0 || c.Quiz.QuestionTimeBudget <= 0 || c.Quiz.TickInterval <= 0 {
		return fmt.Errorf("%w: quiz limits must be positive", ErrInvalidConfig)
	}

	return nil
}
