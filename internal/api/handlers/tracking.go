package handlers

import (
	"errors"
	"net/http"

	"courier-tracking-service/internal/api/dto"
	"courier-tracking-service/internal/display"
	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/maplink"
	"courier-tracking-service/internal/ports"
	"courier-tracking-service/internal/services/tracking"

	"go.uber.org/zap"
)

type TrackingHandler struct {
	Sessions *tracking.Registry
	Orders   ports.OrderRepository
	Log      *zap.Logger
}

// Get refreshes the order's live session and returns status, map scene
// and navigation link.
func (h *TrackingHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		writeError(w, r, http.StatusBadRequest, "order id is required")
		return
	}

	sess := h.Sessions.Session(orderID)
	snap, err := sess.Refresh(r.Context())
	switch {
	case errors.Is(err, tracking.ErrSuperseded):
		// a concurrent refresh won; serve its result
		snap = sess.Snapshot()
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, r, http.StatusNotFound, "order not found")
		return
	case errors.Is(err, tracking.ErrSessionClosed):
		writeError(w, r, http.StatusServiceUnavailable, "shutting down")
		return
	case err != nil:
		h.Log.Error("tracking refresh failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toTrackingResponse(snap))
}

func toTrackingResponse(snap tracking.Snapshot) dto.TrackingResponse {
	res := dto.TrackingResponse{
		OrderID:       snap.OrderID,
		Status:        snap.Status,
		Store:         validOrNil(snap.Store),
		Customer:      validOrNil(snap.Customer),
		NavigationURL: snap.NavigationURL,
		RefreshedAt:   snap.RefreshedAt,
	}
	if snap.Courier != nil && snap.Courier.Valid() {
		res.Courier = &dto.CourierPosition{
			Lat:       snap.Courier.Lat,
			Lng:       snap.Courier.Lng,
			UpdatedAt: snap.Courier.UpdatedAt,
		}
	}
	if snap.Scene != nil {
		res.Map = snap.Scene.FeatureCollection()
	}
	return res
}

func validOrNil(c *domain.Coordinates) *domain.Coordinates {
	if !domain.ValidPtr(c) {
		return nil
	}
	return c
}

// Navigation returns the maps deep link to the customer's location.
func (h *TrackingHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	order, err := h.Orders.GetOrder(r.Context(), orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		writeError(w, r, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.Log.Error("get order failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if !domain.ValidPtr(order.CustomerLocation) {
		writeError(w, r, http.StatusUnprocessableEntity, display.NoCoordinatesMessage)
		return
	}

	target := *order.CustomerLocation
	writeJSON(w, r, http.StatusOK, dto.NavigationResponse{
		OrderID: orderID,
		URL:     maplink.DirectionsURL(target),
		Target:  target,
	})
}
