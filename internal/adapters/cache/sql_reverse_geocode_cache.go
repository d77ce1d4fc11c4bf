package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/platform/obs"

	"go.uber.org/zap"
)

// SQLReverseGeocodeCache is a SQL-backed cache mapping rounded coordinates
// to display addresses.
type SQLReverseGeocodeCache struct {
	DB  *sql.DB
	Log *zap.Logger
}

func NewSQLReverseGeocodeCache(db *sql.DB, log *zap.Logger) *SQLReverseGeocodeCache {
	return &SQLReverseGeocodeCache{DB: db, Log: log}
}

// ReverseGeocodeKey rounds to 5 decimals (about 1 m) so nearby samples of
// the same place share one entry.
func ReverseGeocodeKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// Get returns the cached address for key; ok is false on a miss.
func (s *SQLReverseGeocodeCache) Get(ctx context.Context, key string) (_ string, ok bool, err error) {
	defer obs.Time(ctx, s.Log, "reverse_geocode.cache.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("reverse geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, errors.New("get reverse geocode cache: key must not be empty")
	}

	q := `
	SELECT address
	FROM reverse_geocode_cache
	WHERE coord_key = $1;
	`

	var addr string
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&addr)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get reverse geocode cache: query reverse_geocode_cache table: %w", err)
	}

	return addr, true, nil
}

// Put stores key -> address, replacing any previous entry.
func (s *SQLReverseGeocodeCache) Put(ctx context.Context, key, address string) error {
	if s.DB == nil {
		return errors.New("reverse geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("insert reverse geocode cache: empty key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO reverse_geocode_cache (coord_key, address)
	VALUES ($1, $2)
	ON CONFLICT (coord_key) DO UPDATE
	SET address = EXCLUDED.address;
	`, key, address)
	if err != nil {
		return fmt.Errorf("insert reverse geocode cache key=%q: %w", key, err)
	}

	return nil
}
