package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"product-needs/internal/cache"
	"product-needs/internal/database"
	"product-needs/internal/handler"
	"product-needs/internal/metrics"
	"product-needs/internal/model"
	"product-needs/internal/repository"
	"product-needs/internal/router"
	"product-needs/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey = "test-api-key"
	testApp    = "productNeedsApp"

	defaultValue = "AAAAAAAAAA"
	updatedValue = "BBBBBBBBBB"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	store := cache.NewMemoryStore(100, time.Hour)
	txManager := database.NewTxManager(testDB.Pool, logger)

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	needRepo := repository.NewNeedRepository(testDB.Pool, logger)

	productService := service.NewProductService(productRepo, txManager, store, logger)
	needService := service.NewNeedService(needRepo, productService, txManager, store, logger)

	alerts := handler.NewAlerts(testApp)
	productHandler := handler.NewProductHandler(productService, alerts, logger)
	needHandler := handler.NewNeedHandler(needService, alerts, logger)

	return router.New(productHandler, needHandler, metrics.New(), testApp, testAPIKey, logger)
}

// do sends an authenticated request with an optional JSON body.
func do(t *testing.T, server http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func ptr[T any](v T) *T { return &v }

func defaultProduct() map[string]any {
	return map[string]any{
		"code":        defaultValue,
		"description": defaultValue,
		"priority":    1,
		"colour":      defaultValue,
	}
}

// createProduct creates the default product and returns its id.
func createProduct(t *testing.T, server http.Handler) int64 {
	t.Helper()

	w := do(t, server, http.MethodPost, "/api/products", defaultProduct())
	require.Equal(t, http.StatusCreated, w.Code)
	return *decode[model.Product](t, w).ID
}

func TestProductAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("POST /api/products creates product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodPost, "/api/products", defaultProduct())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/products/1", w.Header().Get("Location"))
		assert.Equal(t, testApp+".product.created", w.Header().Get("X-"+testApp+"-alert"))
		assert.Equal(t, "1", w.Header().Get("X-"+testApp+"-params"))

		product := decode[model.Product](t, w)
		assert.Equal(t, defaultValue, *product.Code)
		assert.Equal(t, defaultValue, *product.Description)
		assert.Equal(t, int32(1), *product.Priority)
		assert.Equal(t, defaultValue, *product.Colour)
		assert.Equal(t, int64(1), CountRows(t, testDB.Pool, "product"))
	})

	t.Run("POST /api/products with existing id returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		body := defaultProduct()
		body["id"] = 1
		w := do(t, server, http.MethodPost, "/api/products", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.idexists", w.Header().Get("X-"+testApp+"-error"))
		assert.Equal(t, int64(0), CountRows(t, testDB.Pool, "product"))
	})

	t.Run("POST /api/products without code returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		body := defaultProduct()
		delete(body, "code")
		w := do(t, server, http.MethodPost, "/api/products", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, int64(0), CountRows(t, testDB.Pool, "product"))
	})

	t.Run("POST /api/products with duplicate code returns 409", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		createProduct(t, server)

		w := do(t, server, http.MethodPost, "/api/products", defaultProduct())

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "error.codeexists", decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("GET /api/products returns all products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		id := createProduct(t, server)

		w := do(t, server, http.MethodGet, "/api/products", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
		products := decode[[]model.Product](t, w)
		require.Len(t, products, 1)
		assert.Equal(t, id, *products[0].ID)
		assert.Equal(t, defaultValue, *products[0].Code)
	})

	t.Run("GET /api/products/{id} returns product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		id := createProduct(t, server)

		w := do(t, server, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		product := decode[model.Product](t, w)
		assert.Equal(t, id, *product.ID)
		assert.Equal(t, defaultValue, *product.Colour)
	})

	t.Run("GET /api/products/{id} returns 404 for non-existent product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodGet, "/api/products/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PUT /api/products updates product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		id := createProduct(t, server)

		// Warm the cache so the update has to replace the cached entry.
		do(t, server, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)

		w := do(t, server, http.MethodPut, "/api/products", map[string]any{
			"id":          id,
			"code":        updatedValue,
			"description": updatedValue,
			"priority":    2,
			"colour":      updatedValue,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testApp+".product.updated", w.Header().Get("X-"+testApp+"-alert"))

		w = do(t, server, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
		product := decode[model.Product](t, w)
		assert.Equal(t, updatedValue, *product.Code)
		assert.Equal(t, int32(2), *product.Priority)
	})

	t.Run("PUT /api/products without id returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodPut, "/api/products", defaultProduct())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.idnull", w.Header().Get("X-"+testApp+"-error"))
		assert.Equal(t, int64(0), CountRows(t, testDB.Pool, "product"))
	})

	t.Run("PUT /api/products with unknown id returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		body := defaultProduct()
		body["id"] = 42
		w := do(t, server, http.MethodPut, "/api/products", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.idnotfound", w.Header().Get("X-"+testApp+"-error"))
	})

	t.Run("DELETE /api/products/{id} deletes product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		id := createProduct(t, server)
		do(t, server, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)

		w := do(t, server, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, testApp+".product.deleted", w.Header().Get("X-"+testApp+"-alert"))
		assert.Equal(t, int64(0), CountRows(t, testDB.Pool, "product"))

		w = do(t, server, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DELETE /api/products/{id} of referenced product returns 409", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		id := createProduct(t, server)
		w := do(t, server, http.MethodPost, "/api/needs", map[string]any{
			"priority": defaultValue,
			"product":  map[string]any{"id": id},
		})
		require.Equal(t, http.StatusCreated, w.Code)

		w = do(t, server, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, int64(1), CountRows(t, testDB.Pool, "product"))
	})

	t.Run("GET /api/products without API key returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health returns 200 without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestNeedAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	createNeed := func(t *testing.T, body map[string]any) model.Need {
		t.Helper()
		w := do(t, server, http.MethodPost, "/api/needs", body)
		require.Equal(t, http.StatusCreated, w.Code)
		return decode[model.Need](t, w)
	}

	t.Run("POST /api/needs creates need", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := createProduct(t, server)

		w := do(t, server, http.MethodPost, "/api/needs", map[string]any{
			"priority": defaultValue,
			"product":  map[string]any{"id": productID},
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "/api/needs/1", w.Header().Get("Location"))
		assert.Equal(t, testApp+".need.created", w.Header().Get("X-"+testApp+"-alert"))
		assert.Equal(t, int64(1), CountRows(t, testDB.Pool, "need"))
	})

	t.Run("POST /api/needs with existing id returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodPost, "/api/needs", map[string]any{"id": 1, "priority": defaultValue})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.idexists", w.Header().Get("X-"+testApp+"-error"))
		assert.Equal(t, int64(0), CountRows(t, testDB.Pool, "need"))
	})

	t.Run("POST /api/needs with unknown product returns 400", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodPost, "/api/needs", map[string]any{
			"priority": defaultValue,
			"product":  map[string]any{"id": 404},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.productnotfound", w.Header().Get("X-"+testApp+"-error"))
	})

	t.Run("GET /api/needs pages results", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		for i := range 5 {
			createNeed(t, map[string]any{"priority": fmt.Sprintf("P%d", i)})
		}

		w := do(t, server, http.MethodGet, "/api/needs?page=1&size=2&sort=id,asc", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-Total-Count"))
		link := w.Header().Get("Link")
		assert.Contains(t, link, `page=2&size=2&sort=id%2Casc>; rel="next"`)
		assert.Contains(t, link, `page=0&size=2&sort=id%2Casc>; rel="prev"`)
		assert.Contains(t, link, `page=2&size=2&sort=id%2Casc>; rel="last"`)

		needs := decode[[]model.Need](t, w)
		require.Len(t, needs, 2)
		assert.Equal(t, int64(3), *needs[0].ID)
		assert.Equal(t, int64(4), *needs[1].ID)
	})

	t.Run("GET /api/needs sorts by priority descending", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		createNeed(t, map[string]any{"priority": "A"})
		createNeed(t, map[string]any{"priority": "C"})
		createNeed(t, map[string]any{"priority": "B"})

		w := do(t, server, http.MethodGet, "/api/needs?sort=priority,desc", nil)

		require.Equal(t, http.StatusOK, w.Code)
		needs := decode[[]model.Need](t, w)
		require.Len(t, needs, 3)
		assert.Equal(t, []string{"C", "B", "A"}, []string{*needs[0].Priority, *needs[1].Priority, *needs[2].Priority})
	})

	t.Run("GET /api/needs with unknown sort returns 400", func(t *testing.T) {
		w := do(t, server, http.MethodGet, "/api/needs?sort=colour", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.invalidsort", decode[model.ErrorResponse](t, w).Error)
	})

	t.Run("GET /api/needs/{id} returns need with product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := createProduct(t, server)
		need := createNeed(t, map[string]any{"priority": defaultValue, "product": map[string]any{"id": productID}})

		w := do(t, server, http.MethodGet, fmt.Sprintf("/api/needs/%d", *need.ID), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		got := decode[model.Need](t, w)
		assert.Equal(t, defaultValue, *got.Priority)
		require.NotNil(t, got.Product)
		assert.Equal(t, defaultValue, *got.Product.Code)
	})

	t.Run("GET /api/needs/{id} reflects product updates", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		productID := createProduct(t, server)
		need := createNeed(t, map[string]any{"priority": defaultValue, "product": map[string]any{"id": productID}})
		do(t, server, http.MethodGet, fmt.Sprintf("/api/needs/%d", *need.ID), nil)

		w := do(t, server, http.MethodPut, "/api/products", map[string]any{"id": productID, "code": updatedValue})
		require.Equal(t, http.StatusOK, w.Code)

		w = do(t, server, http.MethodGet, fmt.Sprintf("/api/needs/%d", *need.ID), nil)
		got := decode[model.Need](t, w)
		require.NotNil(t, got.Product)
		assert.Equal(t, updatedValue, *got.Product.Code)
	})

	t.Run("GET /api/needs/{id} returns 404 for non-existent need", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		w := do(t, server, http.MethodGet, "/api/needs/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PUT /api/needs updates need", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		need := createNeed(t, map[string]any{"priority": defaultValue})
		do(t, server, http.MethodGet, fmt.Sprintf("/api/needs/%d", *need.ID), nil)

		w := do(t, server, http.MethodPut, "/api/needs", model.Need{ID: need.ID, Priority: ptr(updatedValue)})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, testApp+".need.updated", w.Header().Get("X-"+testApp+"-alert"))

		w = do(t, server, http.MethodGet, fmt.Sprintf("/api/needs/%d", *need.ID), nil)
		assert.Equal(t, updatedValue, *decode[model.Need](t, w).Priority)
	})

	t.Run("PUT /api/needs without id returns 400", func(t *testing.T) {
		w := do(t, server, http.MethodPut, "/api/needs", map[string]any{"priority": updatedValue})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.idnull", w.Header().Get("X-"+testApp+"-error"))
	})

	t.Run("DELETE /api/needs/{id} deletes need", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		need := createNeed(t, map[string]any{"priority": defaultValue})
		do(t, server, http.MethodGet, fmt.Sprintf("/api/needs/%d", *need.ID), nil)

		w := do(t, server, http.MethodDelete, fmt.Sprintf("/api/needs/%d", *need.ID), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, int64(0), CountRows(t, testDB.Pool, "need"))

		w = do(t, server, http.MethodGet, fmt.Sprintf("/api/needs/%d", *need.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
