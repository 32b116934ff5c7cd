package services

import (
	"context"
	"sync"

	"flight-price-bot/models"
	"flight-price-bot/pricing"
	"flight-price-bot/storage"

	"github.com/shopspring/decimal"
)

var (
	mowLed = models.Route{Origin: "MOW", Destination: "LED", Date: "2025-09-10"}
	ledMow = models.Route{Origin: "LED", Destination: "MOW", Date: "2025-09-15"}
)

// scriptedFetcher returns queued prices per route; 0 means no data
type scriptedFetcher struct {
	prices map[models.Route][]int64
}

func (f *scriptedFetcher) Fetch(_ context.Context, r models.Route) (decimal.Decimal, error) {
	q := f.prices[r]
	if len(q) == 0 {
		return decimal.Zero, pricing.ErrNoData
	}
	p := q[0]
	f.prices[r] = q[1:]
	if p == 0 {
		return decimal.Zero, pricing.ErrNoData
	}
	return decimal.NewFromInt(p), nil
}

type memoryStore struct {
	mu  sync.Mutex
	obs []models.Observation
	err error
}

func (m *memoryStore) Append(_ context.Context, o models.Observation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.obs = append(m.obs, o)
	return nil
}

func (m *memoryStore) ReadAll(context.Context) ([]models.HistoryGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return storage.GroupObservations(m.obs), nil
}

func (m *memoryStore) Close() error { return nil }

type photo struct {
	path, caption string
}

type recordingNotifier struct {
	mu     sync.Mutex
	texts  []string
	photos []photo
	err    error
}

func (n *recordingNotifier) SendText(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.texts = append(n.texts, msg)
	return n.err
}

func (n *recordingNotifier) SendPhoto(_ context.Context, path, caption string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.photos = append(n.photos, photo{path, caption})
	return n.err
}
