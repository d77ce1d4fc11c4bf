package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/platform/obs"

	"go.uber.org/zap"
)

// Postgres-backed implementation of the OrderRepository and
// CourierLocationStore ports.
type PostgresOrderRepository struct {
	DB  *sql.DB
	Log *zap.Logger
}

func NewPostgresOrderRepository(db *sql.DB, log *zap.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{DB: db, Log: log}
}

func (r *PostgresOrderRepository) GetOrder(ctx context.Context, orderID string) (_ *domain.Order, err error) {
	defer obs.Time(ctx, r.Log, "orders.GetOrder")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres order repository: DB is nil")
	}

	query := `
	SELECT
		id, kind, status,
		COALESCE(courier_id, ''), COALESCE(customer_phone, ''),
		store_lat, store_lng,
		customer_lat, customer_lng,
		courier_lat, courier_lng, courier_location_updated_at
	FROM orders
	WHERE id = $1;
	`

	var (
		o                  domain.Order
		kind, status       string
		storeLat, storeLng sql.NullFloat64
		custLat, custLng   sql.NullFloat64
		courLat, courLng   sql.NullFloat64
		courUpdated        sql.NullTime
	)

	err = r.DB.QueryRowContext(ctx, query, orderID).Scan(
		&o.ID, &kind, &status,
		&o.CourierID, &o.CustomerPhone,
		&storeLat, &storeLng,
		&custLat, &custLng,
		&courLat, &courLng, &courUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order %q: %w", orderID, domain.ErrOrderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %q: query orders table: %w", orderID, err)
	}

	o.Kind = domain.OrderKind(kind)
	o.Status = domain.OrderStatus(status)
	o.StoreLocation = coordsFromNull(storeLat, storeLng)
	o.CustomerLocation = coordsFromNull(custLat, custLng)

	if c := coordsFromNull(courLat, courLng); c != nil && courUpdated.Valid {
		o.CourierLocation = &domain.CourierLocation{Coordinates: *c, UpdatedAt: courUpdated.Time}
	}

	return &o, nil
}

// UpdateCourierLocation writes the sample unless a strictly newer one is
// stored already. A sample with an equal timestamp replaces the stored one.
func (r *PostgresOrderRepository) UpdateCourierLocation(
	ctx context.Context,
	orderID string,
	loc domain.CourierLocation,
) (_ bool, err error) {
	defer obs.Time(ctx, r.Log, "orders.UpdateCourierLocation")(&err)

	if r.DB == nil {
		return false, errors.New("postgres order repository: DB is nil")
	}
	if !loc.Valid() {
		return false, fmt.Errorf("update courier location %q: %w", orderID, domain.ErrInvalidCoordinates)
	}

	res, err := r.DB.ExecContext(ctx, `
	UPDATE orders
	SET courier_lat = $2,
		courier_lng = $3,
		courier_location_updated_at = $4
	WHERE id = $1
		AND (courier_location_updated_at IS NULL OR courier_location_updated_at <= $4);
	`, orderID, loc.Lat, loc.Lng, loc.UpdatedAt.UTC())
	if err != nil {
		return false, fmt.Errorf("update courier location %q: %w", orderID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update courier location %q: rows affected: %w", orderID, err)
	}
	if n > 0 {
		return true, nil
	}

	// Nothing updated: either the order is missing or the sample was stale.
	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1);`, orderID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("update courier location %q: check order: %w", orderID, err)
	}
	if !exists {
		return false, fmt.Errorf("update courier location %q: %w", orderID, domain.ErrOrderNotFound)
	}

	return false, nil
}

func (r *PostgresOrderRepository) CourierLocation(
	ctx context.Context,
	orderID string,
) (*domain.CourierLocation, error) {
	o, err := r.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return o.CourierLocation, nil
}
