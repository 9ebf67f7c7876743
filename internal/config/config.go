package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"QuantSuite/internal/collector"
	"QuantSuite/internal/model"
	"QuantSuite/internal/scanner"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultWatchlist is used when neither the config file nor WATCHLIST sets one.
const DefaultWatchlist = "RELIANCE, TCS, SBIN, INFY, HDFCBANK"

// Providers accepted for data_source.provider.
const (
	ProviderNSE       = "nse"
	ProviderYahoo     = "yahoo"
	ProviderFinanceGo = "financego"
	ProviderMock      = "mock"
)

// Config holds all application configuration.
type Config struct {
	Watchlist     []string `yaml:"watchlist"`
	DefaultSymbol string   `yaml:"default_symbol"`

	DataSource struct {
		// Provider selects the history source; live quotes always come from NSE
		// unless the provider is financego or mock.
		Provider     string        `yaml:"provider"`
		NSEBaseURL   string        `yaml:"nse_base_url"`
		YahooBaseURL string        `yaml:"yahoo_base_url"`
		Workers      int           `yaml:"workers"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`

	Periods    scanner.Periods  `yaml:"periods"`
	Windows    model.Windows    `yaml:"windows"`
	Thresholds model.Thresholds `yaml:"thresholds"`

	Backtest struct {
		Fast int `yaml:"fast"`
		Slow int `yaml:"slow"`
	} `yaml:"backtest"`

	Session struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"session"`

	Refresh struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"refresh"`

	Schedule struct {
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Proxy string `yaml:"proxy"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := base()
	applyDefaults(cfg)
	return cfg
}

// base seeds the nested tuning blocks so a partial YAML section only overrides what it names.
func base() *Config {
	return &Config{
		Windows:    model.DefaultWindows(),
		Thresholds: model.DefaultThresholds(),
		Periods:    scanner.DefaultPeriods(),
	}
}

// Load reads an optional .env file and the YAML config at path, then applies
// environment variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := base()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = collector.ParseWatchlist(v)
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REFRESH_INTERVAL: %w", err)
		}
		cfg.Refresh.Interval = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = collector.ParseWatchlist(DefaultWatchlist)
	} else {
		cfg.Watchlist = collector.ParseWatchlist(strings.Join(cfg.Watchlist, ","))
	}
	if cfg.DefaultSymbol == "" {
		cfg.DefaultSymbol = "RELIANCE"
	}
	cfg.DefaultSymbol = strings.ToUpper(strings.TrimSpace(cfg.DefaultSymbol))
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderNSE
	}
	if cfg.DataSource.NSEBaseURL == "" {
		cfg.DataSource.NSEBaseURL = collector.DefaultNSEBaseURL
	}
	if cfg.DataSource.YahooBaseURL == "" {
		cfg.DataSource.YahooBaseURL = collector.DefaultYahooBaseURL
	}
	if cfg.DataSource.Workers == 0 {
		cfg.DataSource.Workers = collector.DefaultWorkers
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = collector.DefaultTimeout
	}
	if cfg.Backtest.Fast == 0 {
		cfg.Backtest.Fast = 20
	}
	if cfg.Backtest.Slow == 0 {
		cfg.Backtest.Slow = 50
	}
	if cfg.Session.Capacity == 0 {
		cfg.Session.Capacity = 500
	}
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = 10 * time.Second
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 30 15 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderNSE, ProviderYahoo, ProviderFinanceGo, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not one of nse, yahoo, financego, mock", c.DataSource.Provider)
	}
	if c.DataSource.Workers < 1 {
		return fmt.Errorf("data_source.workers must be at least 1")
	}
	if c.DataSource.Timeout <= 0 {
		return fmt.Errorf("data_source.timeout must be positive")
	}

	w := c.Windows
	for name, v := range map[string]int{
		"sma_fast":      w.SMAFast,
		"sma_slow":      w.SMASlow,
		"ema_fast":      w.EMAFast,
		"ema_slow":      w.EMASlow,
		"rsi_period":    w.RSIPeriod,
		"sr_window":     w.SRWindow,
		"volume_window": w.VolumeWindow,
	} {
		if v <= 0 {
			return fmt.Errorf("windows.%s must be positive", name)
		}
	}

	if c.Backtest.Fast <= 0 || c.Backtest.Slow <= 0 {
		return fmt.Errorf("backtest windows must be positive")
	}
	if c.Backtest.Fast >= c.Backtest.Slow {
		return fmt.Errorf("backtest.fast (%d) must be smaller than backtest.slow (%d)", c.Backtest.Fast, c.Backtest.Slow)
	}

	th := c.Thresholds
	if th.BreakoutWindow <= 0 || th.PatternLookback <= 0 || th.FlowLookback <= 1 {
		return fmt.Errorf("thresholds: breakout_window, pattern_lookback and flow_lookback must be positive")
	}
	if th.RSIOversold >= th.RSIOverbought {
		return fmt.Errorf("thresholds.rsi_oversold must be below rsi_overbought")
	}
	if th.SupportZonePct < 0 || th.SupportZonePct > 100 {
		return fmt.Errorf("thresholds.support_zone_pct must be within [0, 100]")
	}
	for name, v := range map[string]float64{
		"resistance_band": th.ResistanceBand,
		"support_band":    th.SupportBand,
		"bottom_shoulder": th.BottomShoulder,
		"bottom_confirm":  th.BottomConfirm,
		"top_shoulder":    th.TopShoulder,
		"top_confirm":     th.TopConfirm,
		"flow_dominance":  th.FlowDominance,
		"rel_volume_min":  th.RelVolumeMin,
	} {
		if v <= 0 {
			return fmt.Errorf("thresholds.%s must be positive", name)
		}
	}
	if th.Similarity <= 0 || th.Similarity >= 1 {
		return fmt.Errorf("thresholds.similarity must be within (0, 1)")
	}

	for name, p := range map[string]model.Period{
		"default":  c.Periods.Default,
		"short":    c.Periods.Short,
		"backtest": c.Periods.Backtest,
	} {
		if p.Range == "" || p.Interval == "" {
			return fmt.Errorf("periods.%s needs range and interval", name)
		}
	}

	if c.Session.Capacity < 1 {
		return fmt.Errorf("session.capacity must be at least 1")
	}
	if c.Refresh.Interval < time.Second {
		return fmt.Errorf("refresh.interval must be at least 1s")
	}
	if len(c.Watchlist) == 0 {
		return fmt.Errorf("watchlist is empty")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
