package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"jvdveen/dealwatch/internal/deal"
	"jvdveen/dealwatch/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRefresher implements the Refresher interface for testing
type MockRefresher struct {
	results    map[string]string
	refreshErr error
	gotIDs     []string
}

var _ Refresher = (*MockRefresher)(nil)

func (m *MockRefresher) Refresh(ctx context.Context, ids []string) (map[string]string, error) {
	m.gotIDs = ids
	return m.results, m.refreshErr
}

func newTestAPI(t *testing.T) (*gin.Engine, *store.Store, *MockRefresher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(filepath.Join(t.TempDir(), "deals.json"))
	require.NoError(t, err)

	mock := &MockRefresher{results: map[string]string{}}
	router := NewRouter(NewHandler(st, mock, 24*time.Hour))
	return router, st, mock
}

func addDeal(t *testing.T, st *store.Store, name, retailer string, price float64, original float64) deal.Deal {
	t.Helper()
	d, err := st.Add(deal.Deal{
		ProductName:   name,
		Brand:         "Tommy Hilfiger",
		Retailer:      retailer,
		CurrentPrice:  price,
		OriginalPrice: &original,
		ProductURL:    "https://example.com/" + name,
	})
	require.NoError(t, err)
	return d
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetHealth(t *testing.T) {
	router, st, _ := newTestAPI(t)
	addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)

	w := doRequest(router, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Meta.RequestID)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, float64(1), data["deal_count"])
}

func TestAddDeal(t *testing.T) {
	router, st, _ := newTestAPI(t)

	w := doRequest(router, http.MethodPost, "/v1/deals", gin.H{
		"product_name":   "Wool Coat",
		"brand":          "Tommy Hilfiger",
		"retailer":       "Zalando",
		"current_price":  89.99,
		"original_price": 199.99,
		"product_url":    "https://example.com/coat",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "active", data["status"])
	assert.Equal(t, true, data["manually_added"])
	assert.Equal(t, 55.0, data["discount_percentage"])

	assert.Equal(t, 1, st.Count())
}

func TestAddDealValidation(t *testing.T) {
	router, _, _ := newTestAPI(t)

	w := doRequest(router, http.MethodPost, "/v1/deals", gin.H{
		"product_name": "Wool Coat",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation", resp.Error.Code)
}

func TestListDeals(t *testing.T) {
	router, st, _ := newTestAPI(t)
	addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)   // 55.0%
	addDeal(t, st, "Chinos", "de Bijenkorf", 49.99, 59.99)  // 16.7%
	addDeal(t, st, "Oxford Shirt", "Zalando", 39.99, 79.99) // 50.0%

	w := doRequest(router, http.MethodGet, "/v1/deals", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(3), data["count"])

	// Default ordering is by discount, highest first
	deals := data["deals"].([]interface{})
	first := deals[0].(map[string]interface{})
	assert.Equal(t, "Wool Coat", first["product_name"])
}

func TestListDealsFiltered(t *testing.T) {
	router, st, _ := newTestAPI(t)
	addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)
	addDeal(t, st, "Chinos", "de Bijenkorf", 49.99, 59.99)

	w := doRequest(router, http.MethodGet, "/v1/deals?retailer=Zalando&min_discount=30", nil)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	w = doRequest(router, http.MethodGet, "/v1/deals?min_discount=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/v1/deals?sort=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDeal(t *testing.T) {
	router, st, _ := newTestAPI(t)
	d := addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)

	w := doRequest(router, http.MethodGet, "/v1/deals/"+d.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/v1/deals/nope_0_0", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestDeleteDeal(t *testing.T) {
	router, st, _ := newTestAPI(t)
	d := addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)

	w := doRequest(router, http.MethodDelete, "/v1/deals/"+d.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, st.Count())

	w = doRequest(router, http.MethodDelete, "/v1/deals/"+d.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListStaleDeals(t *testing.T) {
	router, st, _ := newTestAPI(t)
	addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)

	// A freshly added deal is not stale within the default window
	w := doRequest(router, http.MethodGet, "/v1/deals/stale", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["count"])

	w = doRequest(router, http.MethodGet, "/v1/deals/stale?hours=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshDeals(t *testing.T) {
	router, st, mock := newTestAPI(t)
	d := addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)
	mock.results = map[string]string{d.ID: "Price unchanged"}

	w := doRequest(router, http.MethodPost, "/v1/refresh", gin.H{"ids": []string{d.ID}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{d.ID}, mock.gotIDs)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	results := data["results"].(map[string]interface{})
	assert.Equal(t, "Price unchanged", results[d.ID])
}

func TestRefreshAllDeals(t *testing.T) {
	router, _, mock := newTestAPI(t)

	// An empty body refreshes everything
	req := httptest.NewRequest(http.MethodPost, "/v1/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mock.gotIDs)
}

func TestGetSummary(t *testing.T) {
	router, st, _ := newTestAPI(t)
	addDeal(t, st, "Wool Coat", "Zalando", 89.99, 199.99)
	addDeal(t, st, "Chinos", "de Bijenkorf", 49.99, 59.99)

	w := doRequest(router, http.MethodGet, "/v1/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["active_count"])

	perRetailer := data["per_retailer"].(map[string]interface{})
	assert.Equal(t, float64(1), perRetailer["Zalando"])
}

func TestCORSPreflight(t *testing.T) {
	router, _, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/deals", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
