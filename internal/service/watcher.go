package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"sector-rotation/config"
	"sector-rotation/internal/dashboard"
	"sector-rotation/internal/dto"
	"sector-rotation/internal/repository"
	"sector-rotation/pkg/logger"
	"sector-rotation/pkg/utils"
)

// Presenter renders a published snapshot. It gets the snapshot by value
// reference only and has no way back into the watcher's state.
type Presenter interface {
	Present(snapshot *dashboard.Snapshot)
}

type WatcherService interface {
	// Run polls until ctx is cancelled. It stops cleanly between cycles,
	// never leaving a partial snapshot visible.
	Run(ctx context.Context) error
	// RunCycle executes a single fetch-compute-publish cycle and returns the
	// published snapshot.
	RunCycle(ctx context.Context) *dashboard.Snapshot
}

type watcherService struct {
	cfg        *config.Config
	log        *logger.Logger
	quoteRepo  repository.QuoteRepository
	board      *dashboard.Board
	presenter  Presenter
	cronParser cron.Parser
}

func NewWatcherService(
	cfg *config.Config,
	log *logger.Logger,
	quoteRepo repository.QuoteRepository,
	board *dashboard.Board,
	presenter Presenter,
) WatcherService {
	return &watcherService{
		cfg:        cfg,
		log:        log,
		quoteRepo:  quoteRepo,
		board:      board,
		presenter:  presenter,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

func (w *watcherService) Run(ctx context.Context) error {
	// A bad schedule is a configuration error and must surface before any
	// polling happens.
	var schedule cron.Schedule
	if w.cfg.Watch.Schedule != "" {
		var err error
		schedule, err = w.cronParser.Parse(w.cfg.Watch.Schedule)
		if err != nil {
			return fmt.Errorf("failed to parse watch schedule: %w", err)
		}
	}

	if err := w.quoteRepo.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to quote source: %w", err)
	}

	w.resolveSymbols(ctx)

	w.log.Info("Starting sector rotation watcher",
		logger.IntField("sectors", len(w.cfg.Sectors)),
		logger.StringField("benchmark", w.cfg.Benchmark.Symbol),
	)

	// First cycle runs immediately so the dashboard fills without waiting a
	// full interval.
	w.runAndPresent(ctx)

	if schedule != nil {
		return w.runOnCronSchedule(ctx, schedule)
	}
	return w.runOnInterval(ctx)
}

// resolveSymbols looks up terminal metadata for the benchmark and every
// tracked sector before the first cycle, warming the symbol cache. An
// unresolved symbol stays tracked; its fetches degrade to UNKNOWN each cycle.
func (w *watcherService) resolveSymbols(ctx context.Context) {
	symbols := make([]string, 0, len(w.board.Sectors())+1)
	symbols = append(symbols, w.cfg.Benchmark.Symbol)
	for _, sector := range w.board.Sectors() {
		symbols = append(symbols, sector.Symbol)
	}

	for _, symbol := range symbols {
		if !utils.ShouldContinue(ctx, w.log) {
			return
		}

		infoCtx, cancel := context.WithTimeout(ctx, w.cfg.Watch.FetchTimeout)
		info, err := w.quoteRepo.GetSymbolInfo(infoCtx, symbol)
		cancel()
		if err != nil {
			w.log.Warn("Symbol not resolved by terminal",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
			continue
		}

		w.log.Info("Resolved symbol",
			logger.StringField("symbol", info.Name),
			logger.StringField("description", info.Description),
		)
	}
}

func (w *watcherService) runOnInterval(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.Watch.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Watcher stopped")
			return nil
		case <-ticker.C:
			w.runAndPresent(ctx)
		}
	}
}

func (w *watcherService) runOnCronSchedule(ctx context.Context, schedule cron.Schedule) error {
	for {
		next := schedule.Next(time.Now())
		w.log.Debug("Next cycle scheduled", logger.StringField("at", next.Format(time.RFC3339)))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info("Watcher stopped")
			return nil
		case <-timer.C:
			w.runAndPresent(ctx)
		}
	}
}

func (w *watcherService) runAndPresent(ctx context.Context) {
	if !utils.ShouldContinue(ctx, w.log) {
		return
	}

	snapshot := w.RunCycle(ctx)
	if snapshot == nil {
		return
	}
	w.presenter.Present(snapshot)
}

// RunCycle fetches the benchmark plus every tracked sector with bounded
// concurrency, then assembles and publishes the snapshot. A failed symbol
// degrades to unknown for this cycle; it never aborts or delays the rest.
func (w *watcherService) RunCycle(ctx context.Context) *dashboard.Snapshot {
	if ctx.Err() != nil {
		return nil
	}

	cycleStart := time.Now()
	sectors := w.board.Sectors()

	var (
		mu        sync.Mutex
		quotes    = make(map[string]*dto.Quote, len(sectors))
		benchmark *dto.Quote
	)

	g := new(errgroup.Group)
	g.SetLimit(w.cfg.Watch.MaxConcurrency)

	g.Go(func() error {
		quote := w.fetchQuote(ctx, w.cfg.Benchmark.Symbol)
		if quote == nil {
			w.log.WarnContext(ctx, "Benchmark unavailable, all signals degrade to UNKNOWN this cycle",
				logger.StringField("symbol", w.cfg.Benchmark.Symbol))
			return nil
		}
		mu.Lock()
		benchmark = quote
		mu.Unlock()
		return nil
	})

	for _, sector := range sectors {
		if !utils.ShouldContinue(ctx, w.log) {
			break
		}

		sector := sector
		g.Go(func() error {
			quote := w.fetchQuote(ctx, sector.Symbol)
			if quote == nil {
				return nil
			}
			mu.Lock()
			quotes[sector.Symbol] = quote
			mu.Unlock()
			return nil
		})
	}

	// fetch errors degrade per symbol, so Wait never returns one
	_ = g.Wait()

	if ctx.Err() != nil {
		// Cancelled mid-cycle: do not publish a partial snapshot.
		return nil
	}

	snapshot := w.board.Update(quotes, benchmark, time.Now())

	w.log.InfoContext(ctx, "Cycle completed",
		logger.IntField("quotes", len(quotes)),
		logger.IntField("sectors", len(sectors)),
		logger.DurationField("elapsed", time.Since(cycleStart)),
	)
	return snapshot
}

func (w *watcherService) fetchQuote(ctx context.Context, symbol string) *dto.Quote {
	fetchCtx, cancel := context.WithTimeout(ctx, w.cfg.Watch.FetchTimeout)
	defer cancel()

	quote, err := w.quoteRepo.GetQuote(fetchCtx, symbol)
	if err != nil {
		w.log.WarnContext(ctx, "Quote unavailable this cycle",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return nil
	}
	return quote
}
