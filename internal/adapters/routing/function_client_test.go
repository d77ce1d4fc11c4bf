package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"courier-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	store    = domain.Coordinates{Lat: 24.7136, Lng: 46.6753}
	customer = domain.Coordinates{Lat: 24.7300, Lng: 46.6900}
)

const trafficRoute = `{
	"coordinates": [[24.7136, 46.6753], [24.72, 46.68], [24.73, 46.69]],
	"distance_km": 3.2,
	"duration_minutes": 9.5,
	"traffic_level": "moderate",
	"traffic_segments": [
		{"coordinates": [[24.7136, 46.6753], [24.72, 46.68]], "congestionLevel": "low", "distance": 1.2},
		{"coordinates": [[24.72, 46.68], [24.73, 46.69]], "congestionLevel": "heavy", "distance": 2.0}
	],
	"directions": [
		{"instruction": "انطلق", "streetName": "", "distance": 0, "duration": 0, "location": [24.7136, 46.6753]},
		{"instruction": "انعطف يمينًا", "streetName": "طريق الملك فهد", "distance": 1200, "duration": 180, "location": [24.72, 46.68]},
		{"instruction": "وصلت", "streetName": "", "distance": 0, "duration": 0, "location": [24.73, 46.69]}
	]
}`

func newTestFunctionClient(t *testing.T, url string) *FunctionClient {
	t.Helper()
	c, err := NewFunctionClient(url, "secret", zap.NewNop())
	require.NoError(t, err)
	c.backoff = time.Millisecond
	return c
}

func TestFunctionClient_Route(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "secret", r.Header.Get("apikey"))

		var body functionRouteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, store.Lat, body.Origin.Lat)
		assert.Equal(t, customer.Lng, body.Destination.Lng)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(trafficRoute))
	}))
	defer srv.Close()

	route, err := newTestFunctionClient(t, srv.URL).Route(context.Background(), store, customer)
	require.NoError(t, err)

	assert.Len(t, route.Coordinates, 3)
	assert.Equal(t, domain.Coordinates{Lat: 24.7136, Lng: 46.6753}, route.Coordinates[0])
	assert.InDelta(t, 3.2, route.DistanceKM, 1e-9)
	assert.InDelta(t, 9.5, route.DurationMinutes, 1e-9)
	assert.Equal(t, domain.TrafficModerate, route.TrafficLevel)
	require.Len(t, route.TrafficSegments, 2)
	assert.Equal(t, domain.TrafficHeavy, route.TrafficSegments[1].CongestionLevel)
	require.Len(t, route.Directions, 3)
	assert.Equal(t, "طريق الملك فهد", route.Directions[1].StreetName)
	assert.Equal(t, domain.Coordinates{Lat: 24.72, Lng: 46.68}, route.Directions[1].Location)
	assert.Len(t, route.TurnPoints(), 1)
}

func TestFunctionClient_DropsInconsistentSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"coordinates": [[24.7136, 46.6753], [24.73, 46.69]],
			"distance_km": 3.2,
			"duration_minutes": 9.5,
			"traffic_segments": [
				{"coordinates": [[24.7136, 46.6753], [24.73, 46.69]], "congestionLevel": "low", "distance": 1.0}
			]
		}`))
	}))
	defer srv.Close()

	route, err := newTestFunctionClient(t, srv.URL).Route(context.Background(), store, customer)
	require.NoError(t, err)
	assert.False(t, route.HasTraffic())
	assert.Len(t, route.Coordinates, 2)
}

func TestFunctionClient_RejectsMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"missing distance":   `{"coordinates": [[1, 2], [3, 4]], "duration_minutes": 1}`,
		"single point":       `{"coordinates": [[1, 2]], "distance_km": 1, "duration_minutes": 1}`,
		"bad pair":           `{"coordinates": [[1, 2, 3], [3, 4]], "distance_km": 1, "duration_minutes": 1}`,
		"negative duration":  `{"coordinates": [[1, 2], [3, 4]], "distance_km": 1, "duration_minutes": -1}`,
		"not json":           `<html>`,
		"route out of range": `{"coordinates": [[200, 500], [-300, 999]], "distance_km": 1, "duration_minutes": 1}`,
		"direction out of range": `{"coordinates": [[24.7, 46.6], [24.8, 46.7]], "distance_km": 1, "duration_minutes": 1,
			"directions": [{"instruction": "turn right", "location": [123, 456]}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := newTestFunctionClient(t, srv.URL).Route(context.Background(), store, customer)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestFunctionClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(trafficRoute))
	}))
	defer srv.Close()

	_, err := newTestFunctionClient(t, srv.URL).Route(context.Background(), store, customer)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFunctionClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestFunctionClient(t, srv.URL).Route(context.Background(), store, customer)
	require.Error(t, err)
	assert.Equal(t, int32(4), calls.Load())
}

func TestFunctionClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestFunctionClient(t, srv.URL).Route(context.Background(), store, customer)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFunctionClient_InvalidInput(t *testing.T) {
	c := newTestFunctionClient(t, "http://127.0.0.1:0")

	_, err := c.Route(context.Background(), domain.Coordinates{Lat: 91}, customer)
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

func TestNewFunctionClient_RequiresURL(t *testing.T) {
	_, err := NewFunctionClient("", "", zap.NewNop())
	assert.Error(t, err)
}
