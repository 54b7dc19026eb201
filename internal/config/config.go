// Package config loads the bot's settings from the environment, with a
// .env file as a convenience for local runs.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration. Every knob has a default
// except the Discord token.
type Config struct {
	Token  string `env:"HUSKY_TOKEN,required"`
	Prefix string `env:"HUSKY_PREFIX" envDefault:"hk "`
	DBPath string `env:"HUSKY_DB_PATH" envDefault:"data/husky.db"`

	LogLevel     string `env:"HUSKY_LOG_LEVEL" envDefault:"info"`
	LogFile      string `env:"HUSKY_LOG_FILE" envDefault:""`
	LogMaxSizeMB int    `env:"HUSKY_LOG_MAX_SIZE_MB" envDefault:"20"`
	LogMaxFiles  int    `env:"HUSKY_LOG_MAX_FILES" envDefault:"3"`

	SweepInterval  time.Duration `env:"HUSKY_SWEEP_INTERVAL" envDefault:"5s"`
	SweepThreshold time.Duration `env:"HUSKY_SWEEP_THRESHOLD" envDefault:"5s"`
	TrimInterval   time.Duration `env:"HUSKY_TRIM_INTERVAL" envDefault:"1h"`
	TaskRetention  time.Duration `env:"HUSKY_TASK_RETENTION" envDefault:"720h"`

	ClaimRadius int `env:"HUSKY_CLAIM_RADIUS" envDefault:"200"`
	ClaimLimit  int `env:"HUSKY_CLAIM_LIMIT" envDefault:"1"`

	SessionTimeout time.Duration `env:"HUSKY_SESSION_TIMEOUT" envDefault:"360s"`
}

// Load reads .env if present, then parses the environment. A missing .env
// file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
