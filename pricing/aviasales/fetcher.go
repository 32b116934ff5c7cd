package aviasales

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"flight-price-bot/config"
	"flight-price-bot/models"
	"flight-price-bot/pricing"
	"flight-price-bot/utils"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const maxBodyBytes = 4 << 20

// Fetcher queries the Travelpayouts prices_for_dates endpoint
type Fetcher struct {
	endpoint    string
	token       string
	currency    string
	client      *http.Client
	logger      *utils.Logger
	rateLimiter *utils.RateLimiter
}

// NewFetcher creates a Fetcher from configuration
func NewFetcher(cfg *config.Config, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		endpoint:    cfg.PriceAPIURL,
		token:       cfg.APIToken,
		currency:    cfg.Currency,
		client:      &http.Client{Timeout: cfg.HTTPTimeout},
		logger:      logger,
		rateLimiter: utils.NewRateLimiter(cfg.RateLimitDelay),
	}
}

// Fetch returns the first (cheapest) price offered for the route.
// Every failure mode wraps pricing.ErrNoData so callers can skip the route.
func (f *Fetcher) Fetch(ctx context.Context, route models.Route) (decimal.Decimal, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("%w: rate limiter: %v", pricing.ErrNoData, err)
	}

	start := time.Now()
	defer f.logger.Since("fetch "+route.Key(), start)

	body, err := f.get(ctx, route)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", pricing.ErrNoData, route, err)
	}

	price, err := parsePrice(body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", pricing.ErrNoData, route, err)
	}
	return price, nil
}

func (f *Fetcher) get(ctx context.Context, route models.Route) ([]byte, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return nil, fmt.Errorf("bad endpoint: %w", err)
	}
	q := u.Query()
	q.Set("origin", route.Origin)
	q.Set("destination", route.Destination)
	q.Set("departure_at", route.Date)
	q.Set("currency", f.currency)
	q.Set("token", f.token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// parsePrice pulls data[0].price out of a prices_for_dates response
func parsePrice(body []byte) (decimal.Decimal, error) {
	if !gjson.ValidBytes(body) {
		return decimal.Zero, fmt.Errorf("malformed JSON response")
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsArray() || len(data.Array()) == 0 {
		return decimal.Zero, fmt.Errorf("empty result")
	}

	raw := data.Get("0.price")
	if !raw.Exists() || raw.Type != gjson.Number {
		return decimal.Zero, fmt.Errorf("first result has no numeric price")
	}

	price, err := decimal.NewFromString(raw.Raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad price %q: %w", raw.Raw, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive price %s", price)
	}
	return price, nil
}
