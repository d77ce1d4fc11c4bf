package repositories

import (
	"context"
	"testing"
	"time"

	"courier-tracking-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*RedisLocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocationStore(client, time.Hour, zap.NewNop()), mr
}

func sample(lat, lng float64, at time.Time) domain.CourierLocation {
	return domain.CourierLocation{Coordinates: domain.Coordinates{Lat: lat, Lng: lng}, UpdatedAt: at}
}

func TestRedisLocationStore_EmptyIsNil(t *testing.T) {
	s, _ := newTestStore(t)

	loc, err := s.CourierLocation(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestRedisLocationStore_WriteThenRead(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	at := time.UnixMilli(1_700_000_000_000).UTC()

	applied, err := s.UpdateCourierLocation(ctx, "o-1", sample(24.7136, 46.6753, at))
	require.NoError(t, err)
	assert.True(t, applied)

	loc, err := s.CourierLocation(ctx, "o-1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 24.7136, loc.Lat)
	assert.Equal(t, 46.6753, loc.Lng)
	assert.True(t, at.Equal(loc.UpdatedAt))
	assert.True(t, mr.TTL("courier_location:o-1") > 0)
}

func TestRedisLocationStore_DropsStaleWrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	newer := time.UnixMilli(1_700_000_010_000)
	older := newer.Add(-5 * time.Second)

	applied, err := s.UpdateCourierLocation(ctx, "o-1", sample(1, 1, newer))
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = s.UpdateCourierLocation(ctx, "o-1", sample(2, 2, older))
	require.NoError(t, err)
	assert.False(t, applied)

	loc, err := s.CourierLocation(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, loc.Lat)
}

func TestRedisLocationStore_EqualTimestampReplaces(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	at := time.UnixMilli(1_700_000_000_000)

	_, err := s.UpdateCourierLocation(ctx, "o-1", sample(1, 1, at))
	require.NoError(t, err)

	applied, err := s.UpdateCourierLocation(ctx, "o-1", sample(3, 3, at))
	require.NoError(t, err)
	assert.True(t, applied)

	loc, err := s.CourierLocation(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, loc.Lat)
}

func TestRedisLocationStore_RejectsInvalid(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.UpdateCourierLocation(context.Background(), "o-1", sample(120, 0, time.Now()))
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)

	_, err = s.UpdateCourierLocation(context.Background(), "", sample(1, 1, time.Now()))
	assert.Error(t, err)
}
