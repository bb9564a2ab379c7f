package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eventtrader/internal/repository"
)

// EventHandler exposes read-only access to committed events for inspection
// and tooling. Writes go exclusively through the pipeline.
type EventHandler struct {
	Store repository.EventStore
}

func (h *EventHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/events")
	group.GET("", h.listEvents)
	group.GET("/stats", h.stats)
	group.GET("/:fingerprint", h.getEvent)
}

func (h *EventHandler) listEvents(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	if limit > 500 {
		limit = 500
	}
	items, err := h.Store.ListRecent(c.Request.Context(), limit)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"limit": limit, "count": len(items)})
}

func (h *EventHandler) getEvent(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	fp := strings.TrimSpace(c.Param("fingerprint"))
	if fp == "" {
		Error(c, http.StatusBadRequest, "fingerprint required", nil)
		return
	}
	record, err := h.Store.GetByFingerprint(c.Request.Context(), fp)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if record == nil {
		Error(c, http.StatusNotFound, "event not found", nil)
		return
	}
	Ok(c, record, nil)
}

func (h *EventHandler) stats(c *gin.Context) {
	if h.Store == nil {
		Error(c, http.StatusInternalServerError, "store unavailable", nil)
		return
	}
	window := 24 * time.Hour
	if hours := intQuery(c, "hours", 24); hours > 0 {
		window = time.Duration(hours) * time.Hour
	}
	since := time.Now().Add(-window)
	count, err := h.Store.CountSince(c.Request.Context(), since)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"since": since.UTC().Format(time.RFC3339), "count": count}, nil)
}
