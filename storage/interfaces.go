package storage

import (
	"context"
	"errors"

	"flight-price-bot/models"
)

// ErrStorage marks a failed write or read of the price history
var ErrStorage = errors.New("history storage failure")

// HistoryStore is an append-only log of price observations
type HistoryStore interface {
	// Append durably records one observation
	Append(ctx context.Context, obs models.Observation) error
	// ReadAll returns every observation grouped by route, each group oldest first
	ReadAll(ctx context.Context) ([]models.HistoryGroup, error)
	Close() error
}
