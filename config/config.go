package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"flight-price-bot/models"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// ErrConfig marks a configuration problem that must stop the bot before it starts
var ErrConfig = errors.New("invalid configuration")

// Config holds all application-level configuration
type Config struct {
	// Credentials
	APIToken string `env:"API_TOKEN,required"`
	BotToken string `env:"BOT_TOKEN,required"`
	ChatID   string `env:"CHAT_ID,required"`

	// Pricing service
	PriceAPIURL    string        `env:"PRICE_API_URL,default=https://api.travelpayouts.com/aviasales/v3/prices_for_dates"`
	Currency       string        `env:"CURRENCY,default=rub"`
	CurrencySymbol string        `env:"CURRENCY_SYMBOL,default=₽"`
	RateLimitDelay int           `env:"RATE_LIMIT_DELAY_MS,default=1000"` // milliseconds between route requests
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=15s"`

	// Messaging
	TelegramAPIURL string `env:"TELEGRAM_API_URL,default=https://api.telegram.org"`

	// Schedule
	CheckInterval time.Duration `env:"CHECK_INTERVAL,default=20m"`
	ReportAt      string        `env:"REPORT_AT,default=21:00"`
	Timezone      string        `env:"TIMEZONE,default=Local"`

	// Output
	HistoryFile string `env:"HISTORY_FILE,default=price_history.csv"`
	ChartDir    string `env:"CHART_DIR,default=."`

	// Optional Postgres mirror of the history log
	DatabaseURL      string `env:"DATABASE_URL"`
	DBConnectRetries int    `env:"DB_CONNECT_RETRIES,default=3"`

	// Behaviour
	RoutesFile        string `env:"ROUTES_FILE"`
	RestoreLastPrices bool   `env:"RESTORE_LAST_PRICES,default=false"`

	// Operator surface
	MetricsAddr string `env:"METRICS_ADDR"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=console"`

	Routes []models.Route
}

// Load reads .env (if any), decodes the environment and validates the result
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: reading .env: %v", ErrConfig, err)
	}

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	cfg.Routes = DefaultRoutes()
	if cfg.RoutesFile != "" {
		routes, err := LoadRoutes(cfg.RoutesFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		cfg.Routes = routes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the decoded configuration for values the bot cannot run with
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.APIToken) == "" {
		problems = append(problems, "API_TOKEN is empty")
	}
	if strings.TrimSpace(c.BotToken) == "" {
		problems = append(problems, "BOT_TOKEN is empty")
	}
	if strings.TrimSpace(c.ChatID) == "" {
		problems = append(problems, "CHAT_ID is empty")
	}
	if c.CheckInterval < time.Second {
		problems = append(problems, fmt.Sprintf("CHECK_INTERVAL %s is below the 1s scheduler resolution", c.CheckInterval))
	}
	if _, _, err := c.ReportClock(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q: %v", c.Timezone, err))
	}
	if strings.TrimSpace(c.Currency) == "" {
		problems = append(problems, "CURRENCY is empty")
	}
	if c.HTTPTimeout <= 0 {
		problems = append(problems, "HTTP_TIMEOUT must be positive")
	}
	if err := ValidateRoutes(c.Routes); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrConfig, strings.Join(problems, "; "))
	}
	return nil
}

// ReportClock parses ReportAt ("HH:MM") into hour and minute
func (c *Config) ReportClock() (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.ReportAt))
	if err != nil {
		return 0, 0, fmt.Errorf("REPORT_AT %q is not HH:MM", c.ReportAt)
	}
	return t.Hour(), t.Minute(), nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
