package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/platform/obs"

	"go.uber.org/zap"
)

type functionPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type functionRouteRequest struct {
	Origin      functionPoint `json:"origin"`
	Destination functionPoint `json:"destination"`
}

// Coordinates on this contract are [lat, lng] pairs.
type functionRouteResponse struct {
	Coordinates     [][]float64              `json:"coordinates" validate:"required,min=2,dive,len=2"`
	DistanceKM      *float64                 `json:"distance_km" validate:"required,gte=0"`
	DurationMinutes *float64                 `json:"duration_minutes" validate:"required,gte=0"`
	TrafficLevel    string                   `json:"traffic_level"`
	TrafficSegments []functionTrafficSegment `json:"traffic_segments" validate:"omitempty,dive"`
	Directions      []functionDirection      `json:"directions" validate:"omitempty,dive"`
}

type functionTrafficSegment struct {
	Coordinates     [][]float64 `json:"coordinates" validate:"required,min=2,dive,len=2"`
	CongestionLevel string      `json:"congestionLevel" validate:"required"`
	Distance        *float64    `json:"distance" validate:"required,gte=0"`
}

type functionDirection struct {
	Instruction string    `json:"instruction" validate:"required"`
	StreetName  string    `json:"streetName"`
	Distance    float64   `json:"distance" validate:"gte=0"`
	Duration    float64   `json:"duration" validate:"gte=0"`
	Location    []float64 `json:"location" validate:"required,len=2"`
}

// FunctionClient calls the backend route function: one POST with origin and
// destination, answered with the route JSON contract.
type FunctionClient struct {
	apiClient
	url string
	log *zap.Logger
}

func NewFunctionClient(url, apiKey string, log *zap.Logger) (*FunctionClient, error) {
	if url == "" {
		return nil, errors.New("route function url is empty")
	}

	headers := map[string]string{}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
		headers["apikey"] = apiKey
	}

	return &FunctionClient{
		apiClient: newAPIClient(10*time.Second, headers),
		url:       url,
		log:       log,
	}, nil
}

func (f *FunctionClient) Route(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, f.log, "route.function.Route")(&err)

	if !origin.Valid() || !destination.Valid() {
		return nil, fmt.Errorf("route function: %w", domain.ErrInvalidCoordinates)
	}

	payload, err := json.Marshal(functionRouteRequest{
		Origin:      functionPoint{Lat: origin.Lat, Lng: origin.Lng},
		Destination: functionPoint{Lat: destination.Lat, Lng: destination.Lng},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal route request: %w", err)
	}

	resp, err := f.doWithRetry(ctx, func() (*http.Request, error) {
		return f.newRequest(ctx, http.MethodPost, f.url, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded functionRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w: %v", ErrInvalidResponse, err)
	}
	if err := validateWire(&decoded); err != nil {
		return nil, fmt.Errorf("route response: %w", err)
	}

	route := &domain.RouteResult{
		Coordinates:     latLngPairs(decoded.Coordinates),
		DistanceKM:      *decoded.DistanceKM,
		DurationMinutes: *decoded.DurationMinutes,
		TrafficLevel:    domain.ParseTrafficLevel(decoded.TrafficLevel),
	}

	for _, s := range decoded.TrafficSegments {
		route.TrafficSegments = append(route.TrafficSegments, domain.TrafficSegment{
			Coordinates:     latLngPairs(s.Coordinates),
			CongestionLevel: domain.ParseTrafficLevel(s.CongestionLevel),
			DistanceKM:      *s.Distance,
		})
	}

	for _, d := range decoded.Directions {
		route.Directions = append(route.Directions, domain.DirectionInstruction{
			Instruction:     d.Instruction,
			StreetName:      d.StreetName,
			DistanceMeters:  d.Distance,
			DurationSeconds: d.Duration,
			Location:        domain.Coordinates{Lat: d.Location[0], Lng: d.Location[1]},
		})
	}

	route, err = finalizeRoute(route, f.log)
	if err != nil {
		return nil, fmt.Errorf("route response: %w", err)
	}
	return route, nil
}
