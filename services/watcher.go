package services

import (
	"context"
	"errors"
	"time"

	"flight-price-bot/metrics"
	"flight-price-bot/models"
	"flight-price-bot/notifier"
	"flight-price-bot/pricing"
	"flight-price-bot/storage"
	"flight-price-bot/utils"

	"github.com/google/uuid"
)

// CycleResult summarises one pass over all routes
type CycleResult struct {
	Checked  int
	NoData   int
	Recorded int
	Notified int
	Failed   int
}

// PriceWatcher fetches, records and announces prices for the tracked routes
type PriceWatcher struct {
	routes   []models.Route
	fetcher  pricing.Fetcher
	store    storage.HistoryStore
	notifier notifier.Notifier
	symbol   string
	logger   *utils.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewPriceWatcher creates a new PriceWatcher
func NewPriceWatcher(
	routes []models.Route,
	fetcher pricing.Fetcher,
	store storage.HistoryStore,
	n notifier.Notifier,
	symbol string,
	logger *utils.Logger,
	m *metrics.Metrics,
) *PriceWatcher {
	return &PriceWatcher{
		routes:   routes,
		fetcher:  fetcher,
		store:    store,
		notifier: n,
		symbol:   symbol,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// CheckPrices runs one cycle over every route, one after another.
// Failures stay with the route they happened on.
func (w *PriceWatcher) CheckPrices(ctx context.Context, state *PriceState) CycleResult {
	log := w.logger.With("cycle", uuid.NewString())
	log.Info("Checking prices for %d routes...", len(w.routes))

	var res CycleResult
	for _, route := range w.routes {
		if ctx.Err() != nil {
			log.Warn("Cycle interrupted: %v", ctx.Err())
			break
		}
		res.Checked++
		w.checkRoute(ctx, log, state, route, &res)
	}

	log.Info("Cycle done: checked=%d recorded=%d no_data=%d notified=%d failed=%d",
		res.Checked, res.Recorded, res.NoData, res.Notified, res.Failed)
	return res
}

func (w *PriceWatcher) checkRoute(ctx context.Context, log *utils.Logger, state *PriceState, route models.Route, res *CycleResult) {
	price, err := w.fetcher.Fetch(ctx, route)
	if err != nil {
		w.metrics.Fetch(false)
		res.NoData++
		if errors.Is(err, pricing.ErrNoData) {
			log.Warn("No price for %s this cycle: %v", route, err)
		} else {
			log.Error("Fetch failed for %s: %v", route, err)
		}
		return
	}
	w.metrics.Fetch(true)

	obs := models.Observation{CapturedAt: w.now(), Route: route, Price: price}
	if err := w.store.Append(ctx, obs); err != nil {
		// without a history row the state is left alone so the two never disagree
		w.metrics.Append(false)
		res.Failed++
		log.Error("Could not record %s at %s: %v", route, price, err)
		return
	}
	w.metrics.Append(true)
	res.Recorded++

	change, old := state.Observe(route, price)
	switch change {
	case FirstSighting:
		log.Info("First price for %s: %s", route, price)
		w.notify(ctx, log, "start", startingPriceMessage(route, price, w.symbol), res)
	case Dropped:
		log.Info("Price dropped for %s: %s -> %s", route, old, price)
		w.notify(ctx, log, "drop", priceDroppedMessage(route, old, price, w.symbol), res)
	default:
		log.Debug("No drop for %s: %s (best %s)", route, price, old)
		return
	}
	w.metrics.LastPrice(route.Key(), price.InexactFloat64())
}

func (w *PriceWatcher) notify(ctx context.Context, log *utils.Logger, kind, msg string, res *CycleResult) {
	if err := w.notifier.SendText(ctx, msg); err != nil {
		w.metrics.Notification(kind, false)
		log.Warn("Notification not delivered: %v", err)
		return
	}
	w.metrics.Notification(kind, true)
	res.Notified++
}
