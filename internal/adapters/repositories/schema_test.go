package repositories

import (
	"testing"

	"courier-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderSeeds(t *testing.T) {
	data := []byte(`[
		{"id": " o-1 ", "status": "on_the_way", "courier_id": "c-1",
		 "store_location": {"lat": 24.7136, "lng": 46.6753},
		 "customer_location": {"lat": 24.73, "lng": 46.69}},
		{"id": "o-2", "kind": "special"}
	]`)

	rows, err := ParseOrderSeeds(data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "o-1", rows[0].ID)
	assert.Equal(t, "store", rows[0].Kind)
	assert.Equal(t, 46.69, rows[0].CustomerLocation.Lng)
	assert.Equal(t, "pending", rows[1].Status)
	assert.Nil(t, rows[1].StoreLocation)
}

func TestParseOrderSeedsErrors(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{`,
		"empty id":     `[{"id": "  "}]`,
		"duplicate id": `[{"id": "a"}, {"id": "a"}]`,
		"bad location": `[{"id": "a", "store_location": {"lat": 100, "lng": 0}}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseOrderSeeds([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestParseOrderSeedsInvalidLocationWrapsDomainError(t *testing.T) {
	_, err := ParseOrderSeeds([]byte(`[{"id": "a", "customer_location": {"lat": 0, "lng": 200}}]`))
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}
