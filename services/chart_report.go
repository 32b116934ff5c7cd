package services

import (
	"context"
	"fmt"

	"flight-price-bot/metrics"
	"flight-price-bot/models"
	"flight-price-bot/notifier"
	"flight-price-bot/storage"
	"flight-price-bot/utils"
)

// Renderer turns grouped history into chart images
type Renderer interface {
	Render(groups []models.HistoryGroup) ([]models.Chart, error)
}

// ChartReporter renders the full history and sends every chart to the channel
type ChartReporter struct {
	store    storage.HistoryStore
	renderer Renderer
	notifier notifier.Notifier
	logger   *utils.Logger
	metrics  *metrics.Metrics
}

// NewChartReporter creates a new ChartReporter
func NewChartReporter(store storage.HistoryStore, renderer Renderer, n notifier.Notifier, logger *utils.Logger, m *metrics.Metrics) *ChartReporter {
	return &ChartReporter{store: store, renderer: renderer, notifier: n, logger: logger, metrics: m}
}

// SendCharts returns the number of charts delivered. Only a history read
// failure is returned as an error; render and delivery problems are logged.
func (c *ChartReporter) SendCharts(ctx context.Context) (int, error) {
	groups, err := c.store.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read history: %w", err)
	}
	if len(groups) == 0 {
		c.logger.Info("No price history yet, skipping charts")
		return 0, nil
	}

	charts, err := c.renderer.Render(groups)
	if err != nil {
		c.logger.Warn("Some charts could not be rendered: %v", err)
	}

	sent := 0
	for _, ch := range charts {
		if err := c.notifier.SendPhoto(ctx, ch.Path, ch.Caption); err != nil {
			c.metrics.Notification("chart", false)
			c.logger.Warn("Chart %s not delivered: %v", ch.Path, err)
			continue
		}
		c.metrics.Notification("chart", true)
		sent++
	}

	c.logger.Info("Delivered %d/%d charts", sent, len(charts))
	return sent, nil
}
