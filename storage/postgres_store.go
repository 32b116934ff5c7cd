package storage

import (
	"context"
	"fmt"
	"time"

	"flight-price-bot/models"
	"flight-price-bot/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// PostgresStore mirrors the price history into PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger *utils.Logger
}

// NewPostgresStore connects, pings and makes sure the table exists
func NewPostgresStore(ctx context.Context, connStr string, retries int, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := utils.RetryWithBackoff(ctx, retries, db.PingContext, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	s := NewPostgresStoreFromDB(db, logger)
	if err := s.CreateTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStoreFromDB wraps an existing connection
func NewPostgresStoreFromDB(db *sqlx.DB, logger *utils.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS price_history (
	id           SERIAL PRIMARY KEY,
	captured_at  TIMESTAMPTZ   NOT NULL,
	origin       VARCHAR(3)    NOT NULL,
	destination  VARCHAR(3)    NOT NULL,
	travel_date  DATE          NOT NULL,
	price        NUMERIC(12,2) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_price_history_route
ON price_history (origin, destination, travel_date, captured_at);
`

// CreateTable creates the price_history table if it doesn't exist
func (s *PostgresStore) CreateTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	s.logger.Info("Table 'price_history' is ready")
	return nil
}

const insertSQL = `
INSERT INTO price_history (captured_at, origin, destination, travel_date, price)
VALUES ($1, $2, $3, $4, $5)`

// Append inserts one observation
func (s *PostgresStore) Append(ctx context.Context, obs models.Observation) error {
	_, err := s.db.ExecContext(ctx, insertSQL,
		obs.CapturedAt,
		obs.Route.Origin,
		obs.Route.Destination,
		obs.Route.Date,
		obs.Price,
	)
	if err != nil {
		return fmt.Errorf("%w: insert observation: %v", ErrStorage, err)
	}
	return nil
}

type historyRow struct {
	CapturedAt  time.Time       `db:"captured_at"`
	Origin      string          `db:"origin"`
	Destination string          `db:"destination"`
	TravelDate  string          `db:"travel_date"`
	Price       decimal.Decimal `db:"price"`
}

const selectAllSQL = `
SELECT captured_at, origin, destination, to_char(travel_date, 'YYYY-MM-DD') AS travel_date, price
FROM price_history
ORDER BY origin, destination, travel_date, captured_at`

// ReadAll loads the whole table
func (s *PostgresStore) ReadAll(ctx context.Context) ([]models.HistoryGroup, error) {
	var rows []historyRow
	if err := s.db.SelectContext(ctx, &rows, selectAllSQL); err != nil {
		return nil, fmt.Errorf("%w: select history: %v", ErrStorage, err)
	}

	obs := make([]models.Observation, 0, len(rows))
	for _, r := range rows {
		obs = append(obs, models.Observation{
			CapturedAt: r.CapturedAt,
			Route:      models.Route{Origin: r.Origin, Destination: r.Destination, Date: r.TravelDate},
			Price:      r.Price,
		})
	}
	return GroupObservations(obs), nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
