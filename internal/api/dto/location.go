package dto

import "time"

// SharedLocationRequest records a location a customer shared. Coordinates
// are taken from URL when lat/lng are absent.
type SharedLocationRequest struct {
	Phone   string   `json:"phone" validate:"required"`
	OrderID string   `json:"order_id"`
	URL     string   `json:"url"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
}

type SharedLocationResponse struct {
	Phone    string    `json:"phone"`
	OrderID  string    `json:"order_id,omitempty"`
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Address  string    `json:"address"`
	URL      string    `json:"url"`
	SharedAt time.Time `json:"shared_at"`
}

type ReverseGeocodeResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}
