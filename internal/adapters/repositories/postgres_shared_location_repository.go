package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/platform/obs"

	"go.uber.org/zap"
)

// Postgres-backed implementation of the SharedLocationRepository port.
type PostgresSharedLocationRepository struct {
	DB  *sql.DB
	Log *zap.Logger
}

func NewPostgresSharedLocationRepository(db *sql.DB, log *zap.Logger) *PostgresSharedLocationRepository {
	return &PostgresSharedLocationRepository{DB: db, Log: log}
}

func (r *PostgresSharedLocationRepository) SaveSharedLocation(ctx context.Context, loc domain.SharedLocation) (err error) {
	defer obs.Time(ctx, r.Log, "shared_locations.Save")(&err)

	if r.DB == nil {
		return errors.New("postgres shared location repository: DB is nil")
	}

	phone := strings.TrimSpace(loc.Phone)
	if phone == "" {
		return errors.New("save shared location: phone cannot be empty")
	}
	if !loc.Valid() {
		return fmt.Errorf("save shared location: %w", domain.ErrInvalidCoordinates)
	}

	sharedAt := loc.SharedAt
	if sharedAt.IsZero() {
		sharedAt = time.Now()
	}

	_, err = r.DB.ExecContext(ctx, `
	INSERT INTO shared_locations (phone, order_id, lat, lng, address, url, shared_at)
	VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7);
	`, phone, loc.OrderID, loc.Lat, loc.Lng, loc.Address, loc.URL, sharedAt.UTC())
	if err != nil {
		return fmt.Errorf("save shared location phone=%q: %w", phone, err)
	}

	return nil
}

func (r *PostgresSharedLocationRepository) LatestSharedLocation(
	ctx context.Context,
	phone string,
) (_ *domain.SharedLocation, err error) {
	defer obs.Time(ctx, r.Log, "shared_locations.Latest")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres shared location repository: DB is nil")
	}

	var (
		loc     domain.SharedLocation
		orderID sql.NullString
	)
	err = r.DB.QueryRowContext(ctx, `
	SELECT phone, order_id, lat, lng, address, url, shared_at
	FROM shared_locations
	WHERE phone = $1
	ORDER BY shared_at DESC
	LIMIT 1;
	`, strings.TrimSpace(phone)).Scan(
		&loc.Phone, &orderID, &loc.Lat, &loc.Lng, &loc.Address, &loc.URL, &loc.SharedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest shared location phone=%q: %w", phone, err)
	}
	loc.OrderID = orderID.String

	return &loc, nil
}
