package maplink

import (
	"testing"

	"courier-tracking-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		link string
		want domain.Coordinates
	}{
		{"at pattern", "https://maps.google.com/@24.7136,46.6753,15z", domain.Coordinates{Lat: 24.7136, Lng: 46.6753}},
		{"query", "https://maps.google.com/?q=21.4858,39.1925", domain.Coordinates{Lat: 21.4858, Lng: 39.1925}},
		{"query second param", "https://maps.google.com/maps?hl=ar&q=21.4858,39.1925", domain.Coordinates{Lat: 21.4858, Lng: 39.1925}},
		{"place", "https://www.google.com/maps/place/26.4207,50.0888", domain.Coordinates{Lat: 26.4207, Lng: 50.0888}},
		{"ll", "https://maps.apple.com/?ll=24.5,46.7&z=10", domain.Coordinates{Lat: 24.5, Lng: 46.7}},
		{"destination", "https://www.google.com/maps/dir/?api=1&destination=24.1,-46.2", domain.Coordinates{Lat: 24.1, Lng: -46.2}},
		{"encoded comma", "https://maps.google.com/?q=24.7136%2C46.6753", domain.Coordinates{Lat: 24.7136, Lng: 46.6753}},
		{"negative", "https://maps.google.com/@-33.8688,151.2093,12z", domain.Coordinates{Lat: -33.8688, Lng: 151.2093}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Extract(tc.link)
			if !ok {
				t.Fatalf("expected a match for %q", tc.link)
			}
			assert.InDelta(t, tc.want.Lat, got.Lat, 1e-9)
			assert.InDelta(t, tc.want.Lng, got.Lng, 1e-9)
		})
	}
}

func TestExtractNoMatch(t *testing.T) {
	for _, link := range []string{
		"",
		"https://maps.app.goo.gl/AbCdEf123",
		"https://example.com/store/42",
		"https://maps.google.com/@95.0,46.0,15z",
	} {
		_, ok := Extract(link)
		assert.False(t, ok, "link %q", link)
	}
}

func TestDirectionsURL(t *testing.T) {
	got := DirectionsURL(domain.Coordinates{Lat: 24.7136, Lng: 46.6753})
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=24.7136,46.6753", got)
	assert.Equal(t, "https://www.google.com/maps?q=1.5,2", PlaceURL(domain.Coordinates{Lat: 1.5, Lng: 2}))
}
