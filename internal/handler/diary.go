package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/handler/dto"
	"github.com/travelog/travelog/internal/service"
)

// DiaryHandler handles HTTP requests for diary entries.
type DiaryHandler struct {
	errorWriter
	svc *service.DiaryService
}

// NewDiaryHandler creates a new DiaryHandler.
func NewDiaryHandler(svc *service.DiaryService, logger *slog.Logger) *DiaryHandler {
	return &DiaryHandler{
		errorWriter: errorWriter{logger: logger},
		svc:         svc,
	}
}

// List handles GET /diary/entries.
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDiaryEntryList(entries))
}

// ListAll handles GET /diary/entries/all?page=&limit=.
// Unparseable values fall back to the defaults.
func (h *DiaryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.svc.ListAllPaginated(r.Context(), page, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDiaryEntryPageResponse(result))
}

// Get handles GET /diary/entry/{id}.
func (h *DiaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToDiaryEntryResponse(entry))
}

// Create handles POST /diary/entry.
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDiaryEntryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.svc.Create(r.Context(), req.ToInput(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("diary_entry_created",
		"entry_id", entry.ID,
		"user_id", entry.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.ToDiaryEntryResponse(entry))
}

// Update handles PUT /diary/entry/{id}.
func (h *DiaryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDiaryEntryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.ToInput(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("diary_entry_updated", "entry_id", entry.ID)

	writeJSON(w, http.StatusOK, dto.ToDiaryEntryResponse(entry))
}

// Delete handles DELETE /diary/entry/{id}.
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(r.Context(), id, auth.UserIDFromContext(r.Context())); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info("diary_entry_deleted", "entry_id", id)

	writeJSON(w, http.StatusOK, dto.DeleteResponse{Deleted: true, ID: id})
}
