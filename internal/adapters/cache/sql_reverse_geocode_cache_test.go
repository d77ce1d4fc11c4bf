package cache

import (
	"context"
	"testing"

	"courier-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestReverseGeocodeKey(t *testing.T) {
	assert.Equal(t, "24.71360,46.67530", ReverseGeocodeKey(domain.Coordinates{Lat: 24.713604, Lng: 46.675301}))
	assert.Equal(t,
		ReverseGeocodeKey(domain.Coordinates{Lat: 24.7136041, Lng: 46.6753}),
		ReverseGeocodeKey(domain.Coordinates{Lat: 24.7136002, Lng: 46.6753}),
	)
}

func TestSQLReverseGeocodeCache_NilDB(t *testing.T) {
	c := NewSQLReverseGeocodeCache(nil, nil)

	_, _, err := c.Get(context.Background(), "1,2")
	assert.Error(t, err)
	assert.Error(t, c.Put(context.Background(), "1,2", "x"))
}
