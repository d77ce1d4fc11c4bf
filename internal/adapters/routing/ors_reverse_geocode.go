package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"courier-tracking-service/internal/adapters/cache"
	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/platform/obs"

	"go.uber.org/zap"
)

type reverseGeocodeResponse struct {
	Features []struct {
		Properties struct {
			Label string `json:"label" validate:"required"`
		} `json:"properties"`
	} `json:"features" validate:"required,min=1,dive"`
}

// ReverseGeocode resolves a display address using OpenRouteService
// (/geocode/reverse). The persistent cache is consulted first.
func (o *ORSClient) ReverseGeocode(ctx context.Context, c domain.Coordinates) (_ string, err error) {
	defer obs.Time(ctx, o.log, "ors.ReverseGeocode")(&err)

	if !c.Valid() {
		return "", fmt.Errorf("reverse geocode: %w", domain.ErrInvalidCoordinates)
	}

	key := cache.ReverseGeocodeKey(c)
	if o.geocodeCache != nil {
		addr, ok, err := o.geocodeCache.Get(ctx, key)
		if err != nil {
			return "", fmt.Errorf("ORS get reverse geocode cache: %w", err)
		}
		if ok {
			return addr, nil
		}
	}

	endpoint := o.baseURL + "/geocode/reverse"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("point.lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
		q.Set("point.lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))
		q.Set("size", "1")
		q.Set("lang", o.language)
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded reverseGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w: %v", ErrInvalidResponse, err)
	}
	if err := validateWire(&decoded); err != nil {
		return "", fmt.Errorf("no reverse geocode result for %s: %w", c, err)
	}

	addr := decoded.Features[0].Properties.Label

	if o.geocodeCache != nil {
		if err := o.geocodeCache.Put(ctx, key, addr); err != nil {
			o.log.Warn("reverse geocode cache write failed", zap.Error(err))
		}
	}

	return addr, nil
}
