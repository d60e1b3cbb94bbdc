package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hestia/internal/fees"
)

type Config struct {
	Port         string `env:"PORT" envDefault:"5250"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/hestia.db"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`

	// Frontend origins allowed to call the API
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// Directory generated statement PDFs are written to
	StatementsPath string `env:"STATEMENTS_PATH" envDefault:"statements"`

	// YAML file with the landlord letterhead printed on statements
	CompanyPath string `env:"COMPANY_PATH" envDefault:"config/company.yaml"`

	// "excluded" or "passthrough"; see fees.GasPolicy
	GasPolicy string `env:"GAS_POLICY" envDefault:"excluded"`

	Billing struct {
		// Cron spec of the monthly billing run
		Schedule string `env:"BILLING_SCHEDULE" envDefault:"0 6 1 * *"`

		Enabled bool `env:"BILLING_ENABLED" envDefault:"true"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Maximum number of job batches waiting in the queue
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"16"`

		// Maximum number of retries for a failed statement
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}

	Telegram struct {
		Enabled  bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
		BotToken string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `env:"TELEGRAM_CHAT_ID"`
	}
}

// LoadConfig reads .env files if present, then the environment
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing .env is normal outside development
		_ = godotenv.Load(f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.ParsedGasPolicy(); err != nil {
		return nil, err
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func (c *Config) ParsedGasPolicy() (fees.GasPolicy, error) {
	return fees.ParseGasPolicy(c.GasPolicy)
}

// Level returns the logrus level, defaulting to info
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
