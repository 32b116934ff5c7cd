package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"flight-price-bot/models"
	"flight-price-bot/utils"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{"time", "origin", "destination", "date", "price"}

// legacy rows written by the first version of the bot
const legacyTimeLayout = "2006-01-02 15:04:05.999999"

// CSVStore keeps the price history in an append-only CSV file
type CSVStore struct {
	filePath string
	logger   *utils.Logger
	mu       sync.Mutex
}

// NewCSVStore creates a new CSVStore
func NewCSVStore(filePath string, logger *utils.Logger) *CSVStore {
	return &CSVStore{filePath: filePath, logger: logger}
}

// Append writes one row, preceded by the header when the file is new or empty.
// The row is encoded up front and written with a single call so a failure
// never leaves half a record behind.
func (s *CSVStore) Append(_ context.Context, obs models.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: create history directory: %v", ErrStorage, err)
		}
	}

	file, err := os.OpenFile(s.filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: open history file: %v", ErrStorage, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat history file: %v", ErrStorage, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		_ = w.Write(csvHeader)
	}
	_ = w.Write([]string{
		obs.CapturedAt.Format(time.RFC3339Nano),
		obs.Route.Origin,
		obs.Route.Destination,
		obs.Route.Date,
		obs.Price.String(),
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: encode row: %v", ErrStorage, err)
	}

	if _, err := file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: write history row: %v", ErrStorage, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("%w: sync history file: %v", ErrStorage, err)
	}

	s.logger.Debug("History row appended for %s: %s", obs.Route, obs.Price)
	return nil
}

// ReadAll parses the whole file. A missing file is an empty history.
func (s *CSVStore) ReadAll(_ context.Context) ([]models.HistoryGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open history file: %v", ErrStorage, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	var (
		obs  []models.Observation
		line int
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			s.logger.Warn("Skipping unreadable history line %d: %v", line, err)
			continue
		}
		if line == 1 && rec[0] == csvHeader[0] {
			continue
		}

		o, err := parseRow(rec)
		if err != nil {
			s.logger.Warn("Skipping bad history line %d: %v", line, err)
			continue
		}
		obs = append(obs, o)
	}

	return GroupObservations(obs), nil
}

// Close is a no-op; the file is opened per operation
func (s *CSVStore) Close() error {
	return nil
}

func parseRow(rec []string) (models.Observation, error) {
	if len(rec) != len(csvHeader) {
		return models.Observation{}, fmt.Errorf("expected %d fields, got %d", len(csvHeader), len(rec))
	}

	ts, err := time.Parse(time.RFC3339Nano, rec[0])
	if err != nil {
		ts, err = time.ParseInLocation(legacyTimeLayout, rec[0], time.Local)
		if err != nil {
			return models.Observation{}, fmt.Errorf("bad time %q", rec[0])
		}
	}

	price, err := decimal.NewFromString(rec[4])
	if err != nil {
		return models.Observation{}, fmt.Errorf("bad price %q", rec[4])
	}

	return models.Observation{
		CapturedAt: ts,
		Route:      models.Route{Origin: rec[1], Destination: rec[2], Date: rec[3]},
		Price:      price,
	}, nil
}
