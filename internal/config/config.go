package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"kickoff-quiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	AllowedOrigins          []string      `env:"WS_ALLOWED_ORIGINS" envSeparator:"," envDefault:""`
	MatchRetention          time.Duration `env:"MATCH_RETENTION" envDefault:"10m"`
	ResultTTL               time.Duration `env:"MATCH_RESULT_TTL" envDefault:"2h"`

	Postgres Postgres
	Redis    Redis
	Match    Match
	Selector Selector
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// ConnString renders a pgx keyword/value connection string.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// DSN is ConnString plus pgxpool sizing.
func (p Postgres) DSN() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.ConnString(), p.MaxConns)
}

// LoadPostgres parses only the Postgres settings.
func LoadPostgres() (Postgres, error) {
	var pg Postgres
	if err := env.ParseWithOptions(&pg, env.Options{RequiredIfNoDef: true}); err != nil {
		return Postgres{}, fmt.Errorf("parse postgres config: %w", err)
	}
	return pg, nil
}

// Redis holds question cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Match groups gameplay defaults applied when a create request leaves a field unset.
type Match struct {
	QuestionTimeout  time.Duration `env:"MATCH_QUESTION_TIMEOUT" envDefault:"0s"`
	KFactor          float64       `env:"MATCH_K_FACTOR" envDefault:"32"`
	TerminationMode  string        `env:"MATCH_TERMINATION_MODE" envDefault:"question_count"`
	TerminationValue int64         `env:"MATCH_TERMINATION_VALUE" envDefault:"10"`
	BatchSize        int           `env:"MATCH_BATCH_SIZE" envDefault:"10"`
	GoalPolicy       string        `env:"MATCH_GOAL_POLICY" envDefault:"first_correct"`
	SettleTimeout    time.Duration `env:"MATCH_SETTLE_TIMEOUT" envDefault:"5s"`
}

// Selector configures question selection and caching.
type Selector struct {
	BandsFile    string        `env:"SELECTOR_BANDS_FILE" envDefault:""`
	MaxWidening  int           `env:"SELECTOR_MAX_WIDENING" envDefault:"2"`
	CacheTTL     time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"5m"`
	FetchTimeout time.Duration `env:"QUESTION_FETCH_TIMEOUT_SECONDS" envDefault:"4s"`
	Prefetch     bool          `env:"QUESTION_PREFETCH" envDefault:"true"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Selector.MaxWidening < 1 {
		return nil, fmt.Errorf("parse config: SELECTOR_MAX_WIDENING must be >= 1")
	}
	return cfg, nil
}
