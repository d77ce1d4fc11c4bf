package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"courier-tracking-service/internal/adapters/cache"
	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/platform/obs"

	"go.uber.org/zap"
)

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Language     string      `json:"language,omitempty"`
}

// ORS answers in GeoJSON, so geometry coordinates are [lon, lat].
type directionsResponse struct {
	Features []directionsFeature `json:"features" validate:"required,min=1,dive"`
}

type directionsFeature struct {
	Geometry struct {
		Coordinates [][]float64 `json:"coordinates" validate:"required,min=2,dive,len=2"`
	} `json:"geometry"`
	Properties struct {
		Summary struct {
			Distance float64 `json:"distance" validate:"gte=0"`
			Duration float64 `json:"duration" validate:"gte=0"`
		} `json:"summary"`
		Segments []struct {
			Steps []directionsStep `json:"steps" validate:"dive"`
		} `json:"segments" validate:"dive"`
	} `json:"properties"`
}

type directionsStep struct {
	Distance    float64 `json:"distance" validate:"gte=0"`
	Duration    float64 `json:"duration" validate:"gte=0"`
	Instruction string  `json:"instruction"`
	Name        string  `json:"name"`
	WayPoints   []int   `json:"way_points" validate:"required,len=2"`
}

// ORSClient implements RouteProvider and ReverseGeocoder on OpenRouteService.
//
// ORS has no live traffic, so its routes are always drawn flat. Reverse
// geocoding results are cached persistently when a cache is configured.
// The client is safe for concurrent use.
type ORSClient struct {
	apiClient
	baseURL      string
	profile      string
	language     string
	geocodeCache *cache.SQLReverseGeocodeCache
	log          *zap.Logger
}

func NewORSClient(
	apiKey string,
	baseURL string,
	profile string,
	geocodeCache *cache.SQLReverseGeocodeCache,
	log *zap.Logger,
) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	if profile == "" {
		profile = "driving-car"
	}

	return &ORSClient{
		apiClient:    newAPIClient(10*time.Second, map[string]string{"Authorization": apiKey}),
		baseURL:      strings.TrimRight(baseURL, "/"),
		profile:      profile,
		language:     "ar",
		geocodeCache: geocodeCache,
		log:          log,
	}, nil
}

func (o *ORSClient) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, o.log, "ors.Route")(&err)

	if !origin.Valid() || !destination.Valid() {
		return nil, fmt.Errorf("ORS route: %w", domain.ErrInvalidCoordinates)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  [][]float64{origin.LonLat(), destination.LonLat()},
		Instructions: true,
		Language:     o.language,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("decode directions response: %w: %v", ErrInvalidResponse, err)
	}
	if err := validateWire(&dr); err != nil {
		return nil, fmt.Errorf("directions response: %w", err)
	}

	f := dr.Features[0]
	path := make([]domain.Coordinates, 0, len(f.Geometry.Coordinates))
	for _, c := range f.Geometry.Coordinates {
		path = append(path, domain.Coordinates{Lat: c[1], Lng: c[0]})
	}

	route := &domain.RouteResult{
		Coordinates:     path,
		DistanceKM:      f.Properties.Summary.Distance / 1000,
		DurationMinutes: f.Properties.Summary.Duration / 60,
	}

	for _, seg := range f.Properties.Segments {
		for _, step := range seg.Steps {
			idx := step.WayPoints[0]
			if idx < 0 || idx >= len(path) {
				return nil, fmt.Errorf("directions response: %w: way point %d outside geometry", ErrInvalidResponse, idx)
			}

			street := step.Name
			if street == "-" {
				street = ""
			}

			route.Directions = append(route.Directions, domain.DirectionInstruction{
				Instruction:     step.Instruction,
				StreetName:      street,
				DistanceMeters:  step.Distance,
				DurationSeconds: step.Duration,
				Location:        path[idx],
			})
		}
	}

	route, err = finalizeRoute(route, o.log)
	if err != nil {
		return nil, fmt.Errorf("directions response: %w", err)
	}
	return route, nil
}
