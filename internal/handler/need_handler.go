package handler

import (
	"errors"
	"net/http"
	"strconv"

	"product-needs/internal/model"
	"product-needs/internal/service"

	"github.com/rs/zerolog"
)

const needEntity = "need"

// NeedHandler handles need-related HTTP requests.
type NeedHandler struct {
	service service.NeedService
	alerts  Alerts
	logger  zerolog.Logger
}

// NewNeedHandler creates a new need handler.
func NewNeedHandler(service service.NeedService, alerts Alerts, logger zerolog.Logger) *NeedHandler {
	return &NeedHandler{
		service: service,
		alerts:  alerts,
		logger:  logger.With().Str("handler", "need").Logger(),
	}
}

// Create handles POST /api/needs requests.
func (h *NeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var need model.Need
	if err := decodeBody(w, r, &need); err != nil {
		writeProblem(w, r, h.alerts, needEntity, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if need.ID != nil {
		writeProblem(w, r, h.alerts, needEntity, model.ErrCodeIDExists, "A new need cannot already have an ID", h.logger)
		return
	}

	saved, err := h.service.Save(r.Context(), &need)
	if err != nil {
		writeServiceError(w, r, h.alerts, needEntity, err, h.logger)
		return
	}

	id := strconv.FormatInt(*saved.ID, 10)
	w.Header().Set("Location", "/api/needs/"+id)
	h.alerts.Created(w, needEntity, id)
	writeJSON(w, http.StatusCreated, saved)
}

// Update handles PUT /api/needs requests. The body must carry the id of an
// existing need: an id with no stored row is answered with 400 idnotfound
// and nothing is inserted. Use POST to create.
func (h *NeedHandler) Update(w http.ResponseWriter, r *http.Request) {
	var need model.Need
	if err := decodeBody(w, r, &need); err != nil {
		writeProblem(w, r, h.alerts, needEntity, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if need.ID == nil {
		writeProblem(w, r, h.alerts, needEntity, model.ErrCodeIDNull, "Invalid id", h.logger)
		return
	}

	saved, err := h.service.Save(r.Context(), &need)
	if err != nil {
		if errors.Is(err, model.ErrNeedNotFound) {
			writeProblem(w, r, h.alerts, needEntity, model.ErrCodeIDNotFound, "Entity not found", h.logger)
			return
		}
		writeServiceError(w, r, h.alerts, needEntity, err, h.logger)
		return
	}

	h.alerts.Updated(w, needEntity, strconv.FormatInt(*saved.ID, 10))
	writeJSON(w, http.StatusOK, saved)
}

// GetAll handles GET /api/needs requests with page, size and sort parameters.
func (h *NeedHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	pageable, err := parsePageable(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, h.alerts, needEntity, err, h.logger)
		return
	}

	page, err := h.service.FindAll(r.Context(), pageable)
	if err != nil {
		writeServiceError(w, r, h.alerts, needEntity, err, h.logger)
		return
	}

	writePaginationHeaders(w, r, page)
	writeJSON(w, http.StatusOK, page.Content)
}

// GetByID handles GET /api/needs/{id} requests.
func (h *NeedHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, r, h.alerts, needEntity, model.ErrCodeInvalidID, "invalid need ID", h.logger)
		return
	}

	need, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNeedNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeServiceError(w, r, h.alerts, needEntity, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, need)
}

// Delete handles DELETE /api/needs/{id} requests.
func (h *NeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, r, h.alerts, needEntity, model.ErrCodeInvalidID, "invalid need ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.alerts, needEntity, err, h.logger)
		return
	}

	h.alerts.Deleted(w, needEntity, strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusNoContent)
}
