package dto

import "time"

// CourierLocationRequest is one device fix. A non-zero error_code is the
// device's geolocation error (1 denied, 2 unavailable, 3 timeout).
type CourierLocationRequest struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Accuracy  *float64 `json:"accuracy" validate:"omitempty,gte=0"`
	ErrorCode int      `json:"error_code" validate:"gte=0"`
}

type CourierLinkRequest struct {
	URL string `json:"url" validate:"required"`
}

type CourierLocationResponse struct {
	OrderID   string    `json:"order_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
	Applied   bool      `json:"applied"`
	Mode      string    `json:"mode"`
}

type GeolocationErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
