package services

import (
	"sync"

	"flight-price-bot/models"

	"github.com/shopspring/decimal"
)

// Change describes how a new observation relates to the last known price
type Change int

const (
	// Unchanged means the price is equal to or above the known price
	Unchanged Change = iota
	// FirstSighting means the route had no known price yet
	FirstSighting
	// Dropped means the price is strictly below the known price
	Dropped
)

// PriceState holds the last known (lowest) price per route.
// It is owned by the scheduler and handed to the watcher; the mutex only
// guards reads from the operator endpoint.
type PriceState struct {
	mu     sync.RWMutex
	prices map[models.Route]decimal.Decimal
}

// NewPriceState creates an empty state
func NewPriceState() *PriceState {
	return &PriceState{prices: make(map[models.Route]decimal.Decimal)}
}

// Observe records a price and reports what changed. The stored value only
// ever moves down.
func (s *PriceState) Observe(route models.Route, price decimal.Decimal) (Change, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.prices[route]
	switch {
	case !ok:
		s.prices[route] = price
		return FirstSighting, decimal.Zero
	case price.LessThan(old):
		s.prices[route] = price
		return Dropped, old
	default:
		return Unchanged, old
	}
}

// Get returns the known price for a route
func (s *PriceState) Get(route models.Route) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[route]
	return p, ok
}

// Len returns the number of routes with a known price
func (s *PriceState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prices)
}

// Snapshot returns a copy keyed by route key, suitable for JSON
func (s *PriceState) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.prices))
	for r, p := range s.prices {
		out[r.Key()] = p.String()
	}
	return out
}

// Seed fills the state with the lowest recorded price of each tracked route.
// Routes not in the tracked list are ignored.
func (s *PriceState) Seed(groups []models.HistoryGroup, routes []models.Route) int {
	tracked := make(map[models.Route]bool, len(routes))
	for _, r := range routes {
		tracked[r] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seeded := 0
	for _, g := range groups {
		if !tracked[g.Route] || len(g.Observations) == 0 {
			continue
		}
		min := g.Observations[0].Price
		for _, o := range g.Observations[1:] {
			if o.Price.LessThan(min) {
				min = o.Price
			}
		}
		s.prices[g.Route] = min
		seeded++
	}
	return seeded
}
