package record

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookhub/internal/auth"
	"bookhub/internal/feed"
	"bookhub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *feed.Hub
}

func NewHandler(repo *Repo, hub *feed.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/records", h.list)
	rg.POST("/records", h.create)
	rg.GET("/records/:id", h.getOne)
	rg.PUT("/records/:id", h.update)
	rg.DELETE("/records/:id", h.remove)
	rg.GET("/records/:id/history", h.history)
}

type createReq struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Status string `json:"status"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusRead
	}
	status = normalizeStatus(status)
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: read, reading, want_to_read",
		})
		return
	}

	rec := models.Record{
		UserID: claims.UserID,
		Title:  title,
		Author: strings.TrimSpace(req.Author),
		Quote:  strings.TrimSpace(req.Quote),
		Status: status,
	}

	saved, err := h.Repo.Create(c.Request.Context(), rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	_ = h.Repo.AddStatusChange(c.Request.Context(), models.StatusChange{
		UserID:   claims.UserID,
		RecordID: saved.ID,
		Status:   saved.Status,
	})

	h.broadcast(feed.RecordCreated, saved)
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	if status != "" {
		status = normalizeStatus(status)
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}
	}

	limit := parseInt(c.Query("limit"), 20)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.List(c.Request.Context(), claims.UserID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.Repo.GetByID(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type updateReq struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Quote  string `json:"quote"`
	Status string `json:"status"`
}

func (h *Handler) update(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	existing, err := h.Repo.GetByID(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = existing.Title
	}

	status := existing.Status
	if req.Status != "" {
		status = normalizeStatus(req.Status)
		if status == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "status must be one of: read, reading, want_to_read",
			})
			return
		}
	}

	updated := models.Record{
		ID:     id,
		UserID: claims.UserID,
		Title:  title,
		Author: strings.TrimSpace(req.Author),
		Quote:  strings.TrimSpace(req.Quote),
		Status: status,
	}

	ok, err = h.Repo.Update(c.Request.Context(), updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if status != existing.Status {
		_ = h.Repo.AddStatusChange(c.Request.Context(), models.StatusChange{
			UserID:   claims.UserID,
			RecordID: id,
			Status:   status,
		})
	}

	saved, err := h.Repo.GetByID(c.Request.Context(), claims.UserID, id)
	if err != nil || saved == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch saved failed"})
		return
	}

	h.broadcast(feed.RecordUpdated, saved)
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.Repo.Delete(c.Request.Context(), claims.UserID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if h.Hub != nil {
		ev := feed.RecordEvent{
			Type:     feed.RecordDeleted,
			UserID:   claims.UserID,
			RecordID: id,
			At:       time.Now().UTC(),
		}
		go h.Hub.Broadcast(ev)
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) history(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	limit := parseInt(c.Query("limit"), 50)
	offset := parseInt(c.Query("offset"), 0)

	items, total, err := h.Repo.ListStatusHistory(c.Request.Context(), claims.UserID, id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  items,
	})
}

func (h *Handler) broadcast(eventType string, rec *models.Record) {
	if h.Hub == nil {
		return
	}
	ev := feed.RecordEvent{
		Type:     eventType,
		UserID:   rec.UserID,
		RecordID: rec.ID,
		Title:    rec.Title,
		Status:   rec.Status,
		At:       time.Now().UTC(),
	}
	go h.Hub.Broadcast(ev)
}

func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return models.StatusRead
	case "reading":
		return models.StatusReading
	case "want to read", "want_to_read", "wanttoread":
		return models.StatusWantToRead
	default:
		return ""
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return 0, false
	}
	return id, true
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
