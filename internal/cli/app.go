package cli

import (
	"fmt"
	"os"

	"QuantSuite/internal/collector"
	"QuantSuite/internal/config"
	"QuantSuite/internal/logger"
	"QuantSuite/internal/scanner"

	"go.uber.org/zap"
)

const defaultConfigPath = "configs/config.yaml"

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	scanner *scanner.Scanner
}

// globalOptions are the persistent flags.
type globalOptions struct {
	configPath string
	watchlist  string
	provider   string
	debug      bool
}

func newApp(opts *globalOptions) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.watchlist != "" {
		cfg.Watchlist = collector.ParseWatchlist(opts.watchlist)
	}
	if opts.provider != "" {
		cfg.DataSource.Provider = opts.provider
	}
	if opts.debug {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	history, quotes := newFetchers(cfg)
	log.Debug("data sources", zap.String("history", history.Name()), zap.String("quotes", quotes.Name()))

	col := collector.NewCollector(history, quotes, log.Named("collector"))
	col.Workers = cfg.DataSource.Workers
	col.Timeout = cfg.DataSource.Timeout

	sc := scanner.New(col, log.Named("scanner"))
	sc.Windows = cfg.Windows
	sc.Thresholds = cfg.Thresholds
	sc.Periods = cfg.Periods

	return &app{cfg: cfg, logger: log, scanner: sc}, nil
}

// newFetchers picks the history and quote sources for the configured provider.
func newFetchers(cfg *config.Config) (collector.HistoryFetcher, collector.QuoteFetcher) {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderYahoo:
		y := collector.NewYahooFetcher(ds.YahooBaseURL, cfg.Proxy)
		return y, y
	case config.ProviderFinanceGo:
		f := collector.NewFinanceGoFetcher()
		return f, f
	case config.ProviderMock:
		m := &collector.MockFetcher{Price: 1000, Count: 250}
		return m, m
	default:
		return collector.NewYahooFetcher(ds.YahooBaseURL, cfg.Proxy), collector.NewNSEFetcher(ds.NSEBaseURL, cfg.Proxy)
	}
}

func (a *app) close() {
	_ = a.logger.Sync()
}
