package locationcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"courier-tracking-service/internal/platform/obs"
	"courier-tracking-service/internal/ports"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ErrInvalidResponse marks a check response that does not match the contract.
var ErrInvalidResponse = errors.New("invalid location check response")

var validate = validator.New()

type checkResponse struct {
	HasLocation *bool                `json:"has_location" validate:"required"`
	Location    *ports.CheckLocation `json:"location" validate:"required_if=HasLocation true"`
}

// HTTPChecker calls a remote location-check endpoint with ?phone=<key>.
type HTTPChecker struct {
	endpoint string
	session  *http.Client
	log      *zap.Logger
}

func NewHTTPChecker(endpoint string, log *zap.Logger) *HTTPChecker {
	return &HTTPChecker{
		endpoint: endpoint,
		session:  &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

func (c *HTTPChecker) Check(ctx context.Context, key string) (_ ports.LocationCheck, err error) {
	defer obs.Time(ctx, c.log, "locationcheck.http.Check")(&err)

	key = strings.TrimSpace(key)
	if key == "" {
		return ports.LocationCheck{}, errors.New("location check: key cannot be empty")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return ports.LocationCheck{}, fmt.Errorf("location check: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("phone", key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return ports.LocationCheck{}, fmt.Errorf("location check: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return ports.LocationCheck{}, fmt.Errorf("location check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ports.LocationCheck{}, fmt.Errorf("location check: Code %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.LocationCheck{}, fmt.Errorf("location check: %w: %v", ErrInvalidResponse, err)
	}
	if err := validate.Struct(&decoded); err != nil {
		return ports.LocationCheck{}, fmt.Errorf("location check: %w: %v", ErrInvalidResponse, err)
	}

	out := ports.LocationCheck{HasLocation: *decoded.HasLocation}
	if out.HasLocation {
		out.Location = decoded.Location
	}
	return out, nil
}
