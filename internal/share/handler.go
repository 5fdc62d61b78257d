package share

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookhub/internal/auth"
	"bookhub/internal/catalog"
	"bookhub/internal/record"
	"bookhub/pkg/models"
)

// Cover lookups for a shelf run concurrently; this bounds in-flight
// catalog requests per page render.
const resolveConcurrency = 8

// Handler serves the public read-only view of a user's shelf, with
// best-effort covers resolved for each record.
type Handler struct {
	Users    *auth.Repo
	Records  *record.Repo
	Resolver *catalog.Resolver
}

func NewHandler(users *auth.Repo, records *record.Repo, resolver *catalog.Resolver) *Handler {
	return &Handler{Users: users, Records: records, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:user_id", h.shelf)
}

type shelfItem struct {
	models.Record
	Cover models.CatalogMatch `json:"cover"`
}

func (h *Handler) shelf(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return
	}

	u, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get user failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	records, err := h.Records.ListAll(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.Status == status {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	covers := h.Resolver.ResolveRecords(c.Request.Context(), records, resolveConcurrency)

	items := make([]shelfItem, 0, len(records))
	for i, rec := range records {
		items = append(items, shelfItem{Record: rec, Cover: covers[i]})
	}

	c.JSON(http.StatusOK, gin.H{
		"nickname": u.Nickname,
		"total":    len(items),
		"items":    items,
	})
}
