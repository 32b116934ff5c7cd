package pricing

import (
	"context"
	"errors"

	"flight-price-bot/models"

	"github.com/shopspring/decimal"
)

// ErrNoData means the pricing service gave no usable price for a route this cycle
var ErrNoData = errors.New("no price data")

// Fetcher looks up the lowest offered price for a route
type Fetcher interface {
	Fetch(ctx context.Context, route models.Route) (decimal.Decimal, error)
}
