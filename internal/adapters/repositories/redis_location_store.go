package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stored timestamps are unix milliseconds so Lua can compare them exactly.
var setIfNotOlder = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'updated_at')
if cur and tonumber(cur) > tonumber(ARGV[3]) then
	return 0
end
redis.call('HSET', KEYS[1], 'lat', ARGV[1], 'lng', ARGV[2], 'updated_at', ARGV[3])
redis.call('PEXPIRE', KEYS[1], ARGV[4])
return 1
`)

// RedisLocationStore keeps the latest courier position per order in a
// Redis hash. Writes are compare-and-set on updated_at.
type RedisLocationStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisLocationStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisLocationStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisLocationStore{client: client, ttl: ttl, log: log}
}

func courierLocationKey(orderID string) string {
	return "courier_location:" + orderID
}

func (s *RedisLocationStore) UpdateCourierLocation(
	ctx context.Context,
	orderID string,
	loc domain.CourierLocation,
) (_ bool, err error) {
	defer obs.Time(ctx, s.log, "redis.UpdateCourierLocation")(&err)

	if orderID == "" {
		return false, errors.New("update courier location: order id cannot be empty")
	}
	if !loc.Valid() {
		return false, fmt.Errorf("update courier location %q: %w", orderID, domain.ErrInvalidCoordinates)
	}

	applied, err := setIfNotOlder.Run(ctx, s.client,
		[]string{courierLocationKey(orderID)},
		strconv.FormatFloat(loc.Lat, 'f', -1, 64),
		strconv.FormatFloat(loc.Lng, 'f', -1, 64),
		loc.UpdatedAt.UnixMilli(),
		s.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("update courier location %q: %w", orderID, err)
	}

	return applied == 1, nil
}

func (s *RedisLocationStore) CourierLocation(
	ctx context.Context,
	orderID string,
) (_ *domain.CourierLocation, err error) {
	defer obs.Time(ctx, s.log, "redis.CourierLocation")(&err)

	vals, err := s.client.HGetAll(ctx, courierLocationKey(orderID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get courier location %q: %w", orderID, err)
	}
	if len(vals) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(vals["lat"], 64)
	if err != nil {
		return nil, fmt.Errorf("get courier location %q: parse lat: %w", orderID, err)
	}
	lng, err := strconv.ParseFloat(vals["lng"], 64)
	if err != nil {
		return nil, fmt.Errorf("get courier location %q: parse lng: %w", orderID, err)
	}
	ms, err := strconv.ParseInt(vals["updated_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("get courier location %q: parse updated_at: %w", orderID, err)
	}

	return &domain.CourierLocation{
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		UpdatedAt:   time.UnixMilli(ms).UTC(),
	}, nil
}
