package catalog

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{Resolver: resolver}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/resolve", h.resolve) // GET /catalog/resolve?title=..&author=..
}

func (h *Handler) resolve(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	author := strings.TrimSpace(c.Query("author"))

	m := h.Resolver.Resolve(c.Request.Context(), title, author)
	c.JSON(http.StatusOK, m)
}
