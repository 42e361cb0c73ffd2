package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ImpulseRadar/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Email struct {
		Host     string   `yaml:"host"`
		Port     int      `yaml:"port"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		From     string   `yaml:"from"`
		To       []string `yaml:"to"`
		Subject  string   `yaml:"subject"`
	} `yaml:"email"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo, twelvedata or mock
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Symbols []model.SymbolConfig `yaml:"symbols"`
	Scan    struct {
		MinBars      int     `yaml:"min_bars"`
		Window       int     `yaml:"window"`
		ThresholdPct float64 `yaml:"threshold_pct"`
		MaxAttempts  int     `yaml:"max_attempts"`
		TrendFilter  struct {
			Enabled   bool   `yaml:"enabled"`
			Interval  string `yaml:"interval"`
			Lookback  string `yaml:"lookback"`
			SMAPeriod int    `yaml:"sma_period"`
		} `yaml:"trend_filter"`
	} `yaml:"scan"`
	Schedule struct {
		Cron string `yaml:"cron"` // empty means run once and exit
	} `yaml:"schedule"`
	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. The file may be absent, env-only setups are supported. A .env
// file in the working directory is picked up first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides. BOT_TOKEN and CHAT_ID are accepted
	// as legacy aliases.
	if v := firstEnv("TELEGRAM_BOT_TOKEN", "BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := firstEnv("TELEGRAM_CHAT_ID", "CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.Port = port
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Email.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("SMTP_TO"); v != "" {
		cfg.Email.To = splitList(v)
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Database.PostgresDSN = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Email.Port == 0 {
		cfg.Email.Port = 587
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = defaultSymbols()
	}
	for i := range cfg.Symbols {
		if cfg.Symbols[i].Interval == "" {
			cfg.Symbols[i].Interval = "15m"
		}
		if cfg.Symbols[i].Lookback == "" {
			cfg.Symbols[i].Lookback = "5d"
		}
	}
	if cfg.Scan.MinBars == 0 {
		cfg.Scan.MinBars = 3
	}
	if cfg.Scan.Window == 0 {
		cfg.Scan.Window = 3
	}
	if cfg.Scan.ThresholdPct == 0 {
		cfg.Scan.ThresholdPct = 0.5
	}
	if cfg.Scan.MaxAttempts == 0 {
		cfg.Scan.MaxAttempts = 2
	}
	if cfg.Scan.TrendFilter.Interval == "" {
		cfg.Scan.TrendFilter.Interval = "60m"
	}
	if cfg.Scan.TrendFilter.Lookback == "" {
		cfg.Scan.TrendFilter.Lookback = "10d"
	}
	if cfg.Scan.TrendFilter.SMAPeriod == 0 {
		cfg.Scan.TrendFilter.SMAPeriod = 20
	}
	if cfg.Database.SQLitePath == "" && cfg.Database.PostgresDSN == "" {
		cfg.Database.SQLitePath = "data/impulse_radar.db"
	}

	return cfg, nil
}

// defaultSymbols is the scan list used when none is configured: the NASDAQ
// index with futures fallbacks, two FX pairs and gold.
func defaultSymbols() []model.SymbolConfig {
	return []model.SymbolConfig{
		{Name: "NASDAQ", Tickers: []string{"^NDX", "NQ=F", "NDX"}},
		{Name: "EURUSD", Tickers: []string{"EURUSD=X"}},
		{Name: "GBPJPY", Tickers: []string{"GBPJPY=X"}},
		{Name: "GOLD", Tickers: []string{"GC=F", "XAUUSD=X"}},
	}
}

// TelegramEnabled reports whether Telegram delivery is fully configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// EmailEnabled reports whether SMTP delivery is fully configured.
func (c *Config) EmailEnabled() bool {
	return c.Email.Host != "" && c.Email.From != "" && len(c.Email.To) > 0
}

// Validate checks that the configuration is complete enough to scan and
// deliver. It runs before any network call so misconfiguration fails fast.
func (c *Config) Validate() error {
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Telegram.ChatID != "" && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required when telegram.chat_id is set")
	}
	if emailPartial(c) {
		return fmt.Errorf("email needs host, from and to to be set together")
	}
	if !c.TelegramEnabled() && !c.EmailEnabled() {
		return fmt.Errorf("at least one notification channel (telegram or email) must be configured")
	}

	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "twelvedata":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for provider twelvedata")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}

	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol must be configured")
	}
	for _, s := range c.Symbols {
		if s.Name == "" {
			return fmt.Errorf("every symbol needs a name")
		}
		if len(s.Tickers) == 0 {
			return fmt.Errorf("symbol %s has no tickers", s.Name)
		}
	}

	if c.Scan.Window < 2 {
		return fmt.Errorf("scan.window must be at least 2")
	}
	if c.Scan.ThresholdPct <= 0 {
		return fmt.Errorf("scan.threshold_pct must be positive")
	}
	return nil
}

func emailPartial(c *Config) bool {
	any := c.Email.Host != "" || c.Email.From != "" || len(c.Email.To) > 0
	return any && !c.EmailEnabled()
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
