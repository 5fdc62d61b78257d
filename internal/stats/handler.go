package stats

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/internal/auth"
	"bookhub/internal/record"
)

type Handler struct {
	Records *record.Repo
}

func NewHandler(records *record.Repo) *Handler {
	return &Handler{Records: records}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.stats)
}

func (h *Handler) stats(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	records, err := h.Records.ListAll(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	summary := Aggregate(records, time.Now(), DefaultWindowMonths, StatsTopAuthors)
	c.JSON(http.StatusOK, summary)
}
