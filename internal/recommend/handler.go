package recommend

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookhub/internal/auth"
	"bookhub/internal/record"
)

type Handler struct {
	Records *record.Repo
	Engine  *Engine
}

func NewHandler(records *record.Repo, engine *Engine) *Handler {
	return &Handler{Records: records, Engine: engine}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recommendations", h.recommendations)
}

func (h *Handler) recommendations(c *gin.Context) {
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

	result := h.Engine.Recommend(c.Request.Context(), records, Options{})
	c.JSON(http.StatusOK, result)
}
