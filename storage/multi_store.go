package storage

import (
	"context"
	"errors"

	"flight-price-bot/models"
	"flight-price-bot/utils"
)

// MultiStore writes to a primary store and best-effort mirrors.
// Reads are served by the primary only.
type MultiStore struct {
	primary HistoryStore
	mirrors []HistoryStore
	logger  *utils.Logger
}

// NewMultiStore creates a new MultiStore
func NewMultiStore(logger *utils.Logger, primary HistoryStore, mirrors ...HistoryStore) *MultiStore {
	return &MultiStore{primary: primary, mirrors: mirrors, logger: logger}
}

func (m *MultiStore) Append(ctx context.Context, obs models.Observation) error {
	if err := m.primary.Append(ctx, obs); err != nil {
		return err
	}
	for _, mirror := range m.mirrors {
		if err := mirror.Append(ctx, obs); err != nil {
			m.logger.Warn("History mirror append failed for %s: %v", obs.Route, err)
		}
	}
	return nil
}

func (m *MultiStore) ReadAll(ctx context.Context) ([]models.HistoryGroup, error) {
	return m.primary.ReadAll(ctx)
}

func (m *MultiStore) Close() error {
	errs := []error{m.primary.Close()}
	for _, mirror := range m.mirrors {
		errs = append(errs, mirror.Close())
	}
	return errors.Join(errs...)
}
