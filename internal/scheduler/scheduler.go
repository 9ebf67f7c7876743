package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"QuantSuite/internal/model"
	"QuantSuite/internal/notifier"
	"QuantSuite/internal/scanner"
	"QuantSuite/internal/session"
	"QuantSuite/internal/strategy"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the watch-mode cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Scanner   *scanner.Scanner
	Session   *session.Session
	Notifier  Sender
	Watchlist []string
	Logger    *zap.Logger
	Ctx       context.Context

	mu         sync.Mutex
	lastAlerts map[string]string
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, sess *session.Session, n Sender, watchlist []string, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Scanner:   sc,
		Session:   sess,
		Notifier:  n,
		Watchlist: watchlist,
		Logger:    logger,
		Ctx:       ctx,
	}
}

// RegisterAll registers the live refresh and the daily digest.
func (s *Scheduler) RegisterAll(refresh time.Duration, digestCron string) error {
	if _, err := s.Cron.AddFunc(fmt.Sprintf("@every %s", refresh), s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("tasks", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunRefreshNow executes one refresh immediately.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	readings := s.Scanner.ObserveLive(s.Ctx, s.Session, s.Watchlist)
	ok := 0
	for _, r := range readings {
		if r.Valid() {
			ok++
		}
	}
	s.Logger.Debug("live refresh", zap.Int("quotes", ok), zap.Int("symbols", len(readings)))

	rows, unavailable, err := s.Scanner.AlertsWithQuotes(s.Ctx, s.Watchlist, readings)
	if err != nil {
		s.Logger.Error("refresh alerts", zap.Error(err))
		return
	}
	if len(unavailable) > 0 {
		s.Logger.Warn("alerts unavailable", zap.Strings("symbols", unavailable))
	}

	s.mu.Lock()
	changed, cleared, next := diffAlerts(s.lastAlerts, rows, unavailable)
	s.lastAlerts = next
	s.mu.Unlock()

	if len(changed) == 0 && len(cleared) == 0 {
		return
	}
	msg := notifier.FormatAlerts(changed)
	if len(changed) == 0 {
		msg = ""
	}
	if len(cleared) > 0 {
		msg += fmt.Sprintf("\nCleared: %s", strings.Join(cleared, ", "))
	}
	s.trySend(strings.TrimSpace(msg))
}

// diffAlerts compares the current alert rows with the previous notes per symbol.
// Symbols listed in unavailable keep their previous state; only symbols that
// were evaluated and no longer alert count as cleared.
func diffAlerts(prev map[string]string, rows []model.AlertRow, unavailable []string) (changed []model.AlertRow, cleared []string, next map[string]string) {
	next = make(map[string]string, len(rows))
	for _, sym := range unavailable {
		if key, ok := prev[sym]; ok {
			next[sym] = key
		}
	}
	for _, r := range rows {
		key := strings.Join(r.Notes, " | ")
		next[r.Symbol] = key
		if prev[r.Symbol] != key {
			changed = append(changed, r)
		}
	}
	for sym := range prev {
		if _, ok := next[sym]; !ok {
			cleared = append(cleared, sym)
		}
	}
	sort.Strings(cleared)
	return changed, cleared, next
}

func (s *Scheduler) digestTask() {
	s.Logger.Info("running ranking digest")
	records, err := s.Scanner.Rank(s.Ctx, s.Watchlist)
	if err != nil {
		s.Logger.Error("digest rank", zap.Error(err))
		return
	}
	s.trySend(notifier.FormatRankDigest(records, s.Scanner.Thresholds.TopRankedMin, time.Now()))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText()
	}
	switch strings.ToLower(fields[0]) {
	case "/rank":
		records, err := s.Scanner.Rank(ctx, s.Watchlist)
		if err != nil {
			return fmt.Sprintf("❌ rank failed: %v", err)
		}
		return notifier.FormatRanking(records)
	case "/alerts":
		rows, err := s.Scanner.Alerts(ctx, s.Watchlist)
		if err != nil {
			return fmt.Sprintf("❌ alerts failed: %v", err)
		}
		return notifier.FormatAlerts(rows)
	case "/breakout":
		rows, err := s.Scanner.Breakouts(ctx, s.Watchlist)
		if err != nil {
			return fmt.Sprintf("❌ breakout scan failed: %v", err)
		}
		return notifier.FormatBreakouts(rows, strategy.LabelInRange)
	case "/history":
		if len(fields) < 2 {
			return "Usage: /history SYMBOL"
		}
		sym := strings.ToUpper(fields[1])
		return notifier.FormatHistory(sym, s.Session.History(sym))
	default:
		return notifier.HelpText()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
