package handler

import (
	"errors"
	"net/http"
	"strconv"

	"product-needs/internal/model"
	"product-needs/internal/service"

	"github.com/rs/zerolog"
)

const productEntity = "product"

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	alerts  Alerts
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, alerts Alerts, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		alerts:  alerts,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := decodeBody(w, r, &product); err != nil {
		writeProblem(w, r, h.alerts, productEntity, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if product.ID != nil {
		writeProblem(w, r, h.alerts, productEntity, model.ErrCodeIDExists, "A new product cannot already have an ID", h.logger)
		return
	}

	if err := product.Validate(); err != nil {
		writeServiceError(w, r, h.alerts, productEntity, err, h.logger)
		return
	}

	saved, err := h.service.Save(r.Context(), &product)
	if err != nil {
		writeServiceError(w, r, h.alerts, productEntity, err, h.logger)
		return
	}

	id := strconv.FormatInt(*saved.ID, 10)
	w.Header().Set("Location", "/api/products/"+id)
	h.alerts.Created(w, productEntity, id)
	writeJSON(w, http.StatusCreated, saved)
}

// Update handles PUT /api/products requests. The body must carry the id of an
// existing product: an id with no stored row is answered with 400 idnotfound
// and nothing is inserted. Use POST to create.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := decodeBody(w, r, &product); err != nil {
		writeProblem(w, r, h.alerts, productEntity, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if product.ID == nil {
		writeProblem(w, r, h.alerts, productEntity, model.ErrCodeIDNull, "Invalid id", h.logger)
		return
	}

	if err := product.Validate(); err != nil {
		writeServiceError(w, r, h.alerts, productEntity, err, h.logger)
		return
	}

	saved, err := h.service.Save(r.Context(), &product)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeProblem(w, r, h.alerts, productEntity, model.ErrCodeIDNotFound, "Entity not found", h.logger)
			return
		}
		writeServiceError(w, r, h.alerts, productEntity, err, h.logger)
		return
	}

	h.alerts.Updated(w, productEntity, strconv.FormatInt(*saved.ID, 10))
	writeJSON(w, http.StatusOK, saved)
}

// GetAll handles GET /api/products requests. The list is not paginated.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, r, h.alerts, productEntity, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, r, h.alerts, productEntity, model.ErrCodeInvalidID, "invalid product ID", h.logger)
		return
	}

	product, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeServiceError(w, r, h.alerts, productEntity, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeProblem(w, r, h.alerts, productEntity, model.ErrCodeInvalidID, "invalid product ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.alerts, productEntity, err, h.logger)
		return
	}

	h.alerts.Deleted(w, productEntity, strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusNoContent)
}
