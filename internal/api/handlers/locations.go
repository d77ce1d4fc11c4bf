package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"courier-tracking-service/internal/api/dto"
	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/maplink"
	"courier-tracking-service/internal/ports"
	"courier-tracking-service/internal/services/sampler"

	"go.uber.org/zap"
)

type LocationHandler struct {
	Checker  ports.LocationChecker
	Shared   ports.SharedLocationRepository
	Geocoder ports.ReverseGeocoder // optional
	Log      *zap.Logger
}

// Check reports whether a delivered location exists for a phone.
func (h *LocationHandler) Check(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		writeError(w, r, http.StatusBadRequest, "phone is required")
		return
	}

	res, err := h.Checker.Check(r.Context(), phone)
	if err != nil {
		h.Log.Error("location check failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "location check failed")
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Share records a location a customer shared over a messaging channel.
func (h *LocationHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req dto.SharedLocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var (
		pos domain.Coordinates
		ok  bool
	)
	switch {
	case req.Lat != nil && req.Lng != nil:
		pos, ok = domain.Coordinates{Lat: *req.Lat, Lng: *req.Lng}, true
		if !pos.Valid() {
			writeError(w, r, http.StatusBadRequest, "invalid coordinates")
			return
		}
	case strings.TrimSpace(req.URL) != "":
		pos, ok = maplink.Extract(req.URL)
	}
	if !ok {
		writeError(w, r, http.StatusUnprocessableEntity, sampler.ErrLinkUnparseable.Error())
		return
	}

	loc := domain.SharedLocation{
		Coordinates: pos,
		Phone:       strings.TrimSpace(req.Phone),
		OrderID:     strings.TrimSpace(req.OrderID),
		Address:     strings.TrimSpace(req.Address),
		URL:         strings.TrimSpace(req.URL),
		SharedAt:    time.Now().UTC(),
	}
	if loc.URL == "" {
		loc.URL = maplink.PlaceURL(pos)
	}
	if loc.Address == "" && h.Geocoder != nil {
		addr, err := h.Geocoder.ReverseGeocode(r.Context(), pos)
		if err != nil {
			h.Log.Warn("reverse geocode failed", zap.Error(err))
		} else {
			loc.Address = addr
		}
	}

	if err := h.Shared.SaveSharedLocation(r.Context(), loc); err != nil {
		h.Log.Error("save shared location failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.SharedLocationResponse{
		Phone:    loc.Phone,
		OrderID:  loc.OrderID,
		Lat:      loc.Lat,
		Lng:      loc.Lng,
		Address:  loc.Address,
		URL:      loc.URL,
		SharedAt: loc.SharedAt,
	})
}

// ReverseGeocode resolves ?lat=&lng= to a display address.
func (h *LocationHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	if h.Geocoder == nil {
		writeError(w, r, http.StatusNotImplemented, "reverse geocoding is not configured")
		return
	}

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	pos := domain.Coordinates{Lat: lat, Lng: lng}
	if errLat != nil || errLng != nil || !pos.Valid() {
		writeError(w, r, http.StatusBadRequest, "valid lat and lng are required")
		return
	}

	addr, err := h.Geocoder.ReverseGeocode(r.Context(), pos)
	if err != nil {
		h.Log.Error("reverse geocode failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "reverse geocode failed")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReverseGeocodeResponse{Lat: lat, Lng: lng, Address: addr})
}
