package api

import (
	"net/http"

	"courier-tracking-service/internal/api/handlers"
	"courier-tracking-service/internal/ports"
	"courier-tracking-service/internal/services/sampler"
	"courier-tracking-service/internal/services/tracking"

	"go.uber.org/zap"
)

type Deps struct {
	Orders   ports.OrderRepository
	Sessions *tracking.Registry
	Samplers *sampler.Manager
	Checker  ports.LocationChecker
	Shared   ports.SharedLocationRepository
	Geocoder ports.ReverseGeocoder
	Log      *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()

	trackingHandler := &handlers.TrackingHandler{Sessions: d.Sessions, Orders: d.Orders, Log: log}
	courierHandler := &handlers.CourierHandler{Samplers: d.Samplers, Log: log}
	locationHandler := &handlers.LocationHandler{
		Checker:  d.Checker,
		Shared:   d.Shared,
		Geocoder: d.Geocoder,
		Log:      log,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("GET /orders/{id}/tracking", trackingHandler.Get)
	mux.HandleFunc("GET /orders/{id}/navigation", trackingHandler.Navigation)
	mux.HandleFunc("PUT /orders/{id}/courier-location", courierHandler.PutLocation)
	mux.HandleFunc("POST /orders/{id}/courier-location/link", courierHandler.PostLink)
	mux.HandleFunc("DELETE /orders/{id}/courier-location/link", courierHandler.DeleteLink)
	mux.HandleFunc("GET /location-check", locationHandler.Check)
	mux.HandleFunc("POST /shared-locations", locationHandler.Share)
	mux.HandleFunc("GET /reverse-geocode", locationHandler.ReverseGeocode)

	return requestIDMiddleware(loggingMiddleware(log, recoveryMiddleware(log, mux)))
}
