package api

import (
	"net/http"
	"time"

	"whatsapp-console/internal/store"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	store *store.Store
}

func NewStatsHandler(st *store.Store) *StatsHandler {
	return &StatsHandler{store: st}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.store.GetStats(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
