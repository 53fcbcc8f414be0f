package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"jvdveen/dealwatch/internal/deal"
	"jvdveen/dealwatch/internal/store"
	"jvdveen/dealwatch/pkg/errors"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Refresher re-checks stored deals and reports a result message per deal
type Refresher interface {
	Refresh(ctx context.Context, ids []string) (map[string]string, error)
}

// Handler serves the deal tracker API.
type Handler struct {
	store      *store.Store
	refresher  Refresher
	staleAfter time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(st *store.Store, refresher Refresher, staleAfter time.Duration) *Handler {
	return &Handler{
		store:      st,
		refresher:  refresher,
		staleAfter: staleAfter,
	}
}

// GetHealth responds with service status.
func (h *Handler) GetHealth(c *gin.Context) {
	Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status":     "healthy",
		"deal_count": h.store.Count(),
		"deals_file": h.store.Path(),
		"uptime":     int(time.Since(startTime).Seconds()),
	})
}

// ListDeals returns deals filtered and sorted by query parameters.
func (h *Handler) ListDeals(c *gin.Context) {
	sortKey, err := deal.ParseSortKey(c.Query("sort"))
	if err != nil {
		writeError(c, err)
		return
	}

	filter := deal.Filter{
		Status:    c.DefaultQuery("status", deal.StatusActive),
		Retailers: c.QueryArray("retailer"),
	}
	if filter.Status == "all" {
		filter.Status = ""
	}

	if raw := c.Query("min_discount"); raw != "" {
		minDiscount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(c, errors.NewValidation("min_discount must be a number"))
			return
		}
		filter.MinDiscount = minDiscount
	}

	deals := h.store.Filtered(filter, sortKey)
	Success(c, http.StatusOK, "Deals retrieved", gin.H{
		"deals": deals,
		"count": len(deals),
	})
}

// AddDeal inserts a manually curated deal.
func (h *Handler) AddDeal(c *gin.Context) {
	var d deal.Deal
	if err := c.ShouldBindJSON(&d); err != nil {
		writeError(c, errors.NewValidation("invalid request body: "+err.Error()))
		return
	}

	added, err := h.store.Add(d)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, http.StatusCreated, "Deal added", added)
}

// GetDeal returns a single deal by id.
func (h *Handler) GetDeal(c *gin.Context) {
	d, err := h.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, http.StatusOK, "Deal retrieved", d)
}

// DeleteDeal removes a deal by id.
func (h *Handler) DeleteDeal(c *gin.Context) {
	if err := h.store.Remove(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	Success(c, http.StatusOK, "Deal removed", nil)
}

// ListStaleDeals returns deals not checked within the stale window.
func (h *Handler) ListStaleDeals(c *gin.Context) {
	maxAge := h.staleAfter
	if raw := c.Query("hours"); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours <= 0 {
			writeError(c, errors.NewValidation("hours must be a positive number"))
			return
		}
		maxAge = time.Duration(hours * float64(time.Hour))
	}

	stale := h.store.Stale(maxAge)
	Success(c, http.StatusOK, "Stale deals retrieved", gin.H{
		"deals": stale,
		"count": len(stale),
	})
}

type refreshRequest struct {
	IDs []string `json:"ids"`
}

// RefreshDeals re-checks live prices for the requested deals, or every
// deal when no ids are given. The pass runs synchronously.
func (h *Handler) RefreshDeals(c *gin.Context) {
	var req refreshRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, errors.NewValidation("invalid request body: "+err.Error()))
			return
		}
	}

	results, err := h.refresher.Refresh(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}
	Success(c, http.StatusOK, "Refresh complete", gin.H{
		"results": results,
		"count":   len(results),
	})
}

// GetSummary returns aggregate analytics over the collection.
func (h *Handler) GetSummary(c *gin.Context) {
	Success(c, http.StatusOK, "Summary retrieved", h.store.Summarize(h.staleAfter))
}

// writeError maps application errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.IsValidation(err):
		Error(c, http.StatusBadRequest, string(errors.ErrorTypeValidation), err.Error())
	case errors.IsNotFound(err):
		Error(c, http.StatusNotFound, string(errors.ErrorTypeNotFound), err.Error())
	default:
		Error(c, http.StatusInternalServerError, "internal", err.Error())
	}
}
