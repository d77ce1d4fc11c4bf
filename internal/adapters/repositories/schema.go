package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"courier-tracking-service/internal/domain"
)

// Initialize the Postgres schema used by the tracking service.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL DEFAULT 'store',
		status TEXT NOT NULL DEFAULT 'pending',
		courier_id TEXT,
		customer_phone TEXT,
		store_lat DOUBLE PRECISION,
		store_lng DOUBLE PRECISION,
		customer_lat DOUBLE PRECISION,
		customer_lng DOUBLE PRECISION,
		courier_lat DOUBLE PRECISION,
		courier_lng DOUBLE PRECISION,
		courier_location_updated_at TIMESTAMPTZ
	);
	`

	createSharedLocationsQuery := `
	CREATE TABLE IF NOT EXISTS shared_locations (
		id BIGSERIAL PRIMARY KEY,
		phone TEXT NOT NULL,
		order_id TEXT,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		shared_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createReverseGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS reverse_geocode_cache (
		coord_key TEXT PRIMARY KEY,
		address TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_shared_locations_phone_shared_at
	ON shared_locations(phone, shared_at DESC);
	`

	statements := []string{
		createOrdersQuery,
		createSharedLocationsQuery,
		createReverseGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type OrderSeed struct {
	ID               string              `json:"id"`
	Kind             string              `json:"kind"`
	Status           string              `json:"status"`
	CourierID        string              `json:"courier_id"`
	CustomerPhone    string              `json:"customer_phone"`
	StoreLocation    *domain.Coordinates `json:"store_location"`
	CustomerLocation *domain.Coordinates `json:"customer_location"`
}

// ParseOrderSeeds decodes and checks seed data without touching the DB.
func ParseOrderSeeds(data []byte) ([]OrderSeed, error) {
	var items []OrderSeed
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("seed orders: parse json: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	rows := make([]OrderSeed, 0, len(items))
	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			return nil, fmt.Errorf("seed orders: item at index %d: id cannot be empty", i+1)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("seed orders: duplicate id %q", item.ID)
		}
		seen[item.ID] = struct{}{}

		if item.Kind == "" {
			item.Kind = string(domain.OrderKindStore)
		}
		if item.Status == "" {
			item.Status = string(domain.OrderStatusPending)
		}
		if item.StoreLocation != nil && !item.StoreLocation.Valid() {
			return nil, fmt.Errorf("seed orders: id %q: store location: %w", item.ID, domain.ErrInvalidCoordinates)
		}
		if item.CustomerLocation != nil && !item.CustomerLocation.Valid() {
			return nil, fmt.Errorf("seed orders: id %q: customer location: %w", item.ID, domain.ErrInvalidCoordinates)
		}
		rows = append(rows, item)
	}

	return rows, nil
}

// Populate the database with order data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	rows, err := ParseOrderSeeds(bytes)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO orders (
		id, kind, status, courier_id, customer_phone,
		store_lat, store_lng, customer_lat, customer_lng
	)
	VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET kind = EXCLUDED.kind,
		status = EXCLUDED.status,
		courier_id = EXCLUDED.courier_id,
		customer_phone = EXCLUDED.customer_phone,
		store_lat = EXCLUDED.store_lat,
		store_lng = EXCLUDED.store_lng,
		customer_lat = EXCLUDED.customer_lat,
		customer_lng = EXCLUDED.customer_lng;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed orders: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rows {
		storeLat, storeLng := nullableCoords(o.StoreLocation)
		custLat, custLng := nullableCoords(o.CustomerLocation)

		if _, err := stmt.Exec(
			o.ID, o.Kind, o.Status, o.CourierID, o.CustomerPhone,
			storeLat, storeLng, custLat, custLng,
		); err != nil {
			return fmt.Errorf("seed orders: insert id=%s: %w", o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}

func nullableCoords(c *domain.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}

func coordsFromNull(lat, lng sql.NullFloat64) *domain.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
}
