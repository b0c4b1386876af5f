package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/travelog/travelog/internal/maps"
	"github.com/travelog/travelog/internal/service"
)

// MapsProvider forwards lookups to the external maps provider.
type MapsProvider interface {
	Geocode(ctx context.Context, address string) (*maps.Response, error)
	Search(ctx context.Context, query string) (*maps.Response, error)
	PlaceDetails(ctx context.Context, placeID string) (*maps.Response, error)
	Autocomplete(ctx context.Context, input string) (*maps.Response, error)
	Distance(ctx context.Context, origins, destinations []string) (*maps.Response, error)
}

// MapsHandler passes maps queries through to the provider and relays its answer.
type MapsHandler struct {
	errorWriter
	provider MapsProvider
}

// NewMapsHandler creates a new MapsHandler.
func NewMapsHandler(provider MapsProvider, logger *slog.Logger) *MapsHandler {
	return &MapsHandler{
		errorWriter: errorWriter{logger: logger},
		provider:    provider,
	}
}

// Geocode handles GET /maps/geocode?address=.
func (h *MapsHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "address"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp, err := h.provider.Geocode(r.Context(), r.URL.Query().Get("address"))
	h.relay(w, r, resp, err)
}

// Search handles GET /maps/search?query=.
func (h *MapsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "query"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp, err := h.provider.Search(r.Context(), r.URL.Query().Get("query"))
	h.relay(w, r, resp, err)
}

// PlaceDetails handles GET /maps/place-details?place_id=.
func (h *MapsHandler) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "place_id"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp, err := h.provider.PlaceDetails(r.Context(), r.URL.Query().Get("place_id"))
	h.relay(w, r, resp, err)
}

// Autocomplete handles GET /maps/autocomplete?input=.
func (h *MapsHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "input"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	resp, err := h.provider.Autocomplete(r.Context(), r.URL.Query().Get("input"))
	h.relay(w, r, resp, err)
}

// Distance handles GET /maps/distance?origins=&destinations=.
// Both parameters may repeat or carry "|"-joined values.
func (h *MapsHandler) Distance(w http.ResponseWriter, r *http.Request) {
	if err := requireQuery(r, "origins", "destinations"); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	query := r.URL.Query()
	resp, err := h.provider.Distance(r.Context(), query["origins"], query["destinations"])
	h.relay(w, r, resp, err)
}

func (h *MapsHandler) relay(w http.ResponseWriter, r *http.Request, resp *maps.Response, err error) {
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

// requireQuery returns a validation error naming every absent or blank parameter.
func requireQuery(r *http.Request, names ...string) error {
	query := r.URL.Query()
	var fields []service.FieldError
	for _, name := range names {
		present := false
		for _, v := range query[name] {
			if strings.TrimSpace(v) != "" {
				present = true
				break
			}
		}
		if !present {
			fields = append(fields, service.FieldError{Field: name, Rule: "required"})
		}
	}
	if len(fields) > 0 {
		return &service.ValidationError{Fields: fields}
	}
	return nil
}
