package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"flight-price-bot/config"
	"flight-price-bot/metrics"
	"flight-price-bot/notifier"
	"flight-price-bot/pricing/aviasales"
	"flight-price-bot/scheduler"
	"flight-price-bot/services"
	"flight-price-bot/storage"
	"flight-price-bot/utils"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// App bundles the wired components
type App struct {
	cfg      *config.Config
	logger   *utils.Logger
	store    storage.HistoryStore
	notifier notifier.Notifier
	watcher  *services.PriceWatcher
	charts   *services.ChartReporter
	state    *services.PriceState
	registry *prometheus.Registry
}

// newApp loads configuration and builds every component
func newApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := utils.NewLoggerWith(os.Stdout, level, cfg.LogFormat)
	logger.Info("Flight price bot: %d routes, currency %s", len(cfg.Routes), cfg.Currency)

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfig, err)
	}

	tg, err := notifier.NewTelegram(cfg, logger)
	if err != nil {
		return nil, err
	}

	var store storage.HistoryStore = storage.NewCSVStore(cfg.HistoryFile, logger)
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.DBConnectRetries, logger)
		if err != nil {
			logger.Error("PostgreSQL mirror disabled: %v", err)
		} else {
			store = storage.NewMultiStore(logger, store, pg)
		}
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	fetcher := aviasales.NewFetcher(cfg, logger)
	renderer := services.NewChartRenderer(cfg.ChartDir, cfg.CurrencySymbol, loc, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		notifier: tg,
		watcher:  services.NewPriceWatcher(cfg.Routes, fetcher, store, tg, cfg.CurrencySymbol, logger, m),
		charts:   services.NewChartReporter(store, renderer, tg, logger, m),
		state:    services.NewPriceState(),
		registry: registry,
	}, nil
}

// run sends the startup notice, then drives both scheduled jobs (and the
// operator endpoint when configured) until ctx is cancelled
func (a *App) run(ctx context.Context) error {
	hour, min, _ := a.cfg.ReportClock()
	loc, _ := a.cfg.Location()

	sched, err := scheduler.New(a.cfg.CheckInterval, hour, min, loc, a.priceCheck, a.dailyCharts, a.logger)
	if err != nil {
		return err
	}

	a.restoreState(ctx)

	if err := a.notifier.SendText(ctx, services.StartupMessage); err != nil {
		a.logger.Warn("Startup notice not delivered: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	if a.cfg.MetricsAddr != "" {
		handler := metrics.NewRouter(a.registry, func() interface{} { return a.state.Snapshot() })
		g.Go(func() error { return metrics.Serve(gctx, a.cfg.MetricsAddr, handler, a.logger) })
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		a.logger.Info("Shutdown complete")
		return nil
	}
	return err
}

// priceCheck is the interval job
func (a *App) priceCheck(ctx context.Context) {
	a.watcher.CheckPrices(ctx, a.state)
}

// dailyCharts is the once-a-day job
func (a *App) dailyCharts(ctx context.Context) {
	if _, err := a.charts.SendCharts(ctx); err != nil {
		a.logger.Error("Daily charts failed: %v", err)
	}
}

// restoreState seeds last known prices from history when enabled
func (a *App) restoreState(ctx context.Context) {
	if !a.cfg.RestoreLastPrices {
		return
	}
	groups, err := a.store.ReadAll(ctx)
	if err != nil {
		a.logger.Warn("Could not restore last prices: %v", err)
		return
	}
	n := a.state.Seed(groups, a.cfg.Routes)
	a.logger.Info("Restored last known prices for %d routes", n)
}

func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("Closing history store: %v", err)
	}
}
