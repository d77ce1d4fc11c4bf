package handlers

import (
	"errors"
	"net/http"

	"courier-tracking-service/internal/api/dto"
	"courier-tracking-service/internal/domain"
	"courier-tracking-service/internal/services/sampler"

	"go.uber.org/zap"
)

type CourierHandler struct {
	Samplers *sampler.Manager
	Log      *zap.Logger
}

// PutLocation records one GPS fix reported by the courier device.
func (h *CourierHandler) PutLocation(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	var req dto.CourierLocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pos := sampler.ReportedPosition{ErrorCode: req.ErrorCode}
	if req.ErrorCode == 0 {
		if req.Lat == nil || req.Lng == nil {
			writeError(w, r, http.StatusBadRequest, "lat and lng are required")
			return
		}
		pos.Position = domain.Coordinates{Lat: *req.Lat, Lng: *req.Lng}
	}

	s := h.Samplers.Get(orderID)
	res, err := s.SampleGPS(r.Context(), pos)
	if err != nil {
		h.writeSampleError(w, r, orderID, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toCourierResponse(orderID, res, s.Mode()))
}

// PostLink switches the courier to link mode with a shared maps link.
func (h *CourierHandler) PostLink(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	var req dto.CourierLinkRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s := h.Samplers.Get(orderID)
	res, err := s.UseLink(r.Context(), req.URL)
	if err != nil {
		h.writeSampleError(w, r, orderID, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toCourierResponse(orderID, res, s.Mode()))
}

// DeleteLink leaves link mode and stops the periodic pushes.
func (h *CourierHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	if err := h.Samplers.Get(orderID).SetMode(sampler.ModeGPS); err != nil {
		h.Log.Error("switch to gps mode failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CourierHandler) writeSampleError(w http.ResponseWriter, r *http.Request, orderID string, err error) {
	var ge *sampler.GeolocationError
	switch {
	case errors.As(err, &ge):
		writeJSON(w, r, http.StatusUnprocessableEntity, dto.GeolocationErrorResponse{
			Error: ge.Message(),
			Code:  int(ge.Code),
		})
	case errors.Is(err, sampler.ErrLinkUnparseable):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidCoordinates):
		writeError(w, r, http.StatusBadRequest, "invalid coordinates")
	case errors.Is(err, sampler.ErrModeMismatch):
		writeError(w, r, http.StatusConflict, "link mode is active")
	case errors.Is(err, domain.ErrOrderNotFound):
		h.Samplers.Stop(orderID)
		writeError(w, r, http.StatusNotFound, "order not found")
	default:
		h.Log.Error("courier location push failed", zap.String("order_id", orderID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func toCourierResponse(orderID string, res sampler.PushResult, mode sampler.Mode) dto.CourierLocationResponse {
	return dto.CourierLocationResponse{
		OrderID:   orderID,
		Lat:       res.Location.Lat,
		Lng:       res.Location.Lng,
		UpdatedAt: res.Location.UpdatedAt,
		Applied:   res.Applied,
		Mode:      string(mode),
	}
}
