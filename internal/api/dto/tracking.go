package dto

import (
	"time"

	"courier-tracking-service/internal/display"
	"courier-tracking-service/internal/domain"

	"github.com/paulmach/orb/geojson"
)

type CourierPosition struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TrackingResponse struct {
	OrderID       string                     `json:"order_id"`
	Status        display.Status             `json:"status"`
	Store         *domain.Coordinates        `json:"store,omitempty"`
	Customer      *domain.Coordinates        `json:"customer,omitempty"`
	Courier       *CourierPosition           `json:"courier,omitempty"`
	NavigationURL string                     `json:"navigation_url,omitempty"`
	Map           *geojson.FeatureCollection `json:"map,omitempty"`
	RefreshedAt   time.Time                  `json:"refreshed_at"`
}

type NavigationResponse struct {
	OrderID string             `json:"order_id"`
	URL     string             `json:"url"`
	Target  domain.Coordinates `json:"target"`
}
