package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/service"
)

// ItineraryHandler handles HTTP requests for itineraries and their locations.
type ItineraryHandler struct {
	errorWriter
	svc *service.ItineraryService
}

// NewItineraryHandler creates a new ItineraryHandler.
func NewItineraryHandler(svc *service.ItineraryService, logger *slog.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		errorWriter: errorWriter{logger: logger},
		svc:         svc,
	}
}

// List handles GET /itineraries.
func (h *ItineraryHandler) List(w http.ResponseWriter, r *http.Request) {
	itineraries, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItineraryList(itineraries))
}

// Get handles GET /itineraries/{id}.
func (h *ItineraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	itinerary, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItineraryResponse(itinerary))
}

// Create handles POST /itineraries.
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItineraryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	itinerary, err := h.svc.Create(r.Context(), req.ToInput(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("itinerary_created",
		"itinerary_id", itinerary.ID,
		"user_id", itinerary.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToItineraryResponse(itinerary))
}

// Update handles PUT /itineraries/{id}.
func (h *ItineraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateItineraryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	itinerary, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.ToInput(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("itinerary_updated", "itinerary_id", itinerary.ID)

	writeJSON(w, http.StatusOK, dto.ToItineraryResponse(itinerary))
}

// Delete handles DELETE /itineraries/{id}.
func (h *ItineraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id, auth.UserIDFromContext(r.Context())); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("itinerary_deleted", "itinerary_id", id)

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: true, ID: id})
}

// CreateLocation handles POST /itineraries/{id}/location.
func (h *ItineraryHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLocationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	location, err := h.svc.CreateLocation(r.Context(), chi.URLParam(r, "id"), req.ToInput(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("location_created",
		"location_id", location.ID,
		"itinerary_id", location.ItineraryID,
	)

	writeJSON(w, http.StatusCreated, dto.ToLocationResponse(location))
}

// GetLocation handles GET /itineraries/{id}/location/{locationId}.
func (h *ItineraryHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	location, err := h.svc.GetLocation(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "locationId"),
		auth.UserIDFromContext(r.Context()),
	)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLocationResponse(location))
}

// UpdateLocation handles PUT /itineraries/{id}/location/{locationId}.
func (h *ItineraryHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLocationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	location, err := h.svc.UpdateLocation(r.Context(),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "locationId"),
		req.ToInput(),
		auth.UserIDFromContext(r.Context()),
	)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("location_updated",
		"location_id", location.ID,
		"itinerary_id", location.ItineraryID,
	)

	writeJSON(w, http.StatusOK, dto.ToLocationResponse(location))
}

// DeleteLocation handles DELETE /itineraries/{id}/location/{locationId}.
func (h *ItineraryHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	itineraryID := chi.URLParam(r, "id")
	locationID := chi.URLParam(r, "locationId")

	if err := h.svc.DeleteLocation(r.Context(), itineraryID, locationID, auth.UserIDFromContext(r.Context())); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("location_deleted",
		"location_id", locationID,
		"itinerary_id", itineraryID,
	)

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: true, ID: locationID})
}
