package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"QuantSuite/internal/backtest"
	"QuantSuite/internal/notifier"
	"QuantSuite/internal/report"
	"QuantSuite/internal/scheduler"
	"QuantSuite/internal/session"
	"QuantSuite/internal/strategy"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var a *app

	rootCmd := &cobra.Command{
		Use:   "quantsuite",
		Short: "QuantSuite - NSE technical analysis toolkit",
		Long: `QuantSuite fetches NSE price history and live quotes and runs technical
indicators, an SMA crossover backtest, a watchlist ranking model and simple
breakout, pattern and volume-flow heuristics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(opts)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.close()
			}
		},
	}

	get := func() *app { return a }
	rootCmd.AddCommand(
		newOverviewCmd(get),
		newBacktestCmd(get),
		newScreenerCmd(get),
		newRankCmd(get),
		newBreakoutCmd(get),
		newAlertsCmd(get),
		newPatternsCmd(get),
		newFlowCmd(get),
		newPicksCmd(get),
		newWatchCmd(get),
	)

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file path (default $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.watchlist, "watchlist", "", "Comma separated symbols, overrides the configured watchlist")
	rootCmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "Data provider: nse, yahoo, financego or mock")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	return rootCmd
}

func symbolArg(a *app, args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.ToUpper(strings.TrimSpace(args[0]))
	}
	return a.cfg.DefaultSymbol
}

func newOverviewCmd(get func() *app) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "overview [SYMBOL]",
		Short: "Live price and daily technicals for one symbol",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			sym := symbolArg(a, args)
			w := a.cfg.Windows
			flags := cmd.Flags()
			for name, dst := range map[string]*int{
				"sma-fast": &w.SMAFast,
				"sma-slow": &w.SMASlow,
				"ema-fast": &w.EMAFast,
				"ema-slow": &w.EMASlow,
				"rsi":      &w.RSIPeriod,
			} {
				if flags.Changed(name) {
					v, _ := flags.GetInt(name)
					*dst = v
				}
			}

			out := cmd.OutOrStdout()
			if err := report.Overview(out, a.scanner.Overview(cmd.Context(), sym, w)); err != nil {
				return err
			}
			if !follow {
				return nil
			}
			return followLive(cmd.Context(), a, sym, func(sess *session.Session) error {
				return report.History(out, sym, sess.History(sym))
			})
		},
	}
	cmd.Flags().Int("sma-fast", 5, "Fast SMA window")
	cmd.Flags().Int("sma-slow", 20, "Slow SMA window")
	cmd.Flags().Int("ema-fast", 12, "Fast EMA window")
	cmd.Flags().Int("ema-slow", 26, "Slow EMA window")
	cmd.Flags().Int("rsi", 14, "RSI period")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep polling the live price every refresh interval")
	return cmd
}

// followLive polls the live price into a session until ctx is cancelled.
func followLive(ctx context.Context, a *app, symbol string, render func(*session.Session) error) error {
	sess := session.New(a.cfg.Session.Capacity)
	defer sess.Close()
	a.logger.Info("following live price", zap.String("symbol", symbol), zap.String("session", sess.ID), zap.Duration("interval", a.cfg.Refresh.Interval))

	ticker := time.NewTicker(a.cfg.Refresh.Interval)
	defer ticker.Stop()
	for {
		a.scanner.ObserveLive(ctx, sess, []string{symbol})
		if err := render(sess); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func newBacktestCmd(get func() *app) *cobra.Command {
	var (
		fast, slow, rows int
		csvPath          string
	)
	cmd := &cobra.Command{
		Use:   "backtest [SYMBOL]",
		Short: "Long/flat SMA crossover backtest over the last year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			sym := symbolArg(a, args)
			if !cmd.Flags().Changed("fast") {
				fast = a.cfg.Backtest.Fast
			}
			if !cmd.Flags().Changed("slow") {
				slow = a.cfg.Backtest.Slow
			}

			res, err := a.scanner.Backtest(cmd.Context(), sym, fast, slow)
			if err != nil {
				return err
			}
			if err := report.Backtest(cmd.OutOrStdout(), res, rows); err != nil {
				return err
			}
			if csvPath == "" {
				return nil
			}
			f, err := os.Create(csvPath)
			if err != nil {
				return fmt.Errorf("create csv: %w", err)
			}
			if err := backtest.WriteCSV(f, res); err != nil {
				f.Close()
				return fmt.Errorf("write csv: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.logger.Info("backtest exported", zap.String("path", csvPath), zap.Int("rows", len(res.Rows)))
			return nil
		},
	}
	cmd.Flags().IntVar(&fast, "fast", 20, "Fast SMA window")
	cmd.Flags().IntVar(&slow, "slow", 50, "Slow SMA window")
	cmd.Flags().IntVar(&rows, "rows", 10, "Number of recent rows to print")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write every backtest row to this CSV file")
	return cmd
}

func newScreenerCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "screener",
		Short: "SMA trend screener and swing buy candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx := cmd.Context()
			rows, err := a.scanner.Screener(ctx, a.cfg.Watchlist)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := report.Screener(out, rows, a.cfg.Windows.SMAFast, a.cfg.Windows.SMASlow); err != nil {
				return err
			}
			picks, err := a.scanner.SwingPicks(ctx, a.cfg.Watchlist)
			if err != nil {
				return err
			}
			return report.Picks(out, "Swing buy candidates", picks)
		},
	}
}

func newRankCmd(get func() *app) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score and rank the watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			records, err := a.scanner.Rank(cmd.Context(), a.cfg.Watchlist)
			if err != nil {
				return err
			}
			minScore := a.cfg.Thresholds.TopRankedMin
			out := cmd.OutOrStdout()
			if err := report.Ranking(out, records, strategy.TopRanked(records, minScore), minScore); err != nil {
				return err
			}
			if !explain {
				return nil
			}
			for _, r := range records {
				if len(r.Factors) == 0 {
					continue
				}
				if err := report.Factors(out, r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "Print the per-rule breakdown of every score")
	return cmd
}

func newBreakoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "breakout",
		Short: "Breakout / breakdown scanner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			rows, err := a.scanner.Breakouts(cmd.Context(), a.cfg.Watchlist)
			if err != nil {
				return err
			}
			return report.Labels(cmd.OutOrStdout(), "Breakout scanner", "Breakout Status", rows)
		},
	}
}

func newAlertsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "RSI, MACD and SMA alert conditions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			rows, err := a.scanner.Alerts(cmd.Context(), a.cfg.Watchlist)
			if err != nil {
				return err
			}
			return report.Alerts(cmd.OutOrStdout(), rows)
		},
	}
}

func newPatternsCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Crude double bottom / double top hints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			rows, err := a.scanner.Patterns(cmd.Context(), a.cfg.Watchlist)
			if err != nil {
				return err
			}
			return report.Labels(cmd.OutOrStdout(), "Pattern hints", "Pattern Hint", rows)
		},
	}
}

func newFlowCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "flow",
		Short: "Up/down volume flow over the last sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			rows, err := a.scanner.Flow(cmd.Context(), a.cfg.Watchlist)
			if err != nil {
				return err
			}
			return report.Labels(cmd.OutOrStdout(), "Volume flow", "Flow", rows)
		},
	}
}

func newPicksCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "picks",
		Short: "Score-based candidates for the next session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			picks, err := a.scanner.TomorrowPicks(cmd.Context(), a.cfg.Watchlist)
			if err != nil {
				return err
			}
			return report.Picks(cmd.OutOrStdout(), "Top picks for the next session", picks)
		},
	}
}

func newWatchCmd(get func() *app) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh live prices, push alert changes and a daily digest to Telegram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ctx := cmd.Context()

			sess := session.New(a.cfg.Session.Capacity)
			defer sess.Close()

			tn := notifier.NewTelegramNotifier("", a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger.Named("telegram"))
			sched := scheduler.NewScheduler(ctx, a.scanner, sess, tn, a.cfg.Watchlist, a.logger.Named("scheduler"))
			if err := sched.RegisterAll(a.cfg.Refresh.Interval, a.cfg.Schedule.DigestCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			if runOnStart {
				go sched.RunRefreshNow()
			}

			a.logger.Info("watching",
				zap.String("session", sess.ID),
				zap.Strings("watchlist", a.cfg.Watchlist),
				zap.Duration("refresh", a.cfg.Refresh.Interval),
				zap.String("digest_cron", a.cfg.Schedule.DigestCron),
				zap.Bool("telegram", tn.Enabled()))

			<-ctx.Done()
			a.logger.Info("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "Refresh once immediately")
	return cmd
}
