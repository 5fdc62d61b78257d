package record

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/internal/auth"
	"bookhub/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newTestRepo(t)
	router := gin.New()
	group := router.Group("/users")
	group.Use(func(c *gin.Context) {
		c.Set(auth.CtxClaimsKey, &auth.Claims{UserID: "u1", Username: "alice"})
	})
	NewHandler(repo, nil).RegisterRoutes(group)
	return router, repo
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateRecordHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/users/records",
		`{"title":" Norwegian Wood ","author":"Haruki Murakami","status":"read"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var rec models.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, "Norwegian Wood", rec.Title, "title should be trimmed")
	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, models.StatusRead, rec.Status)
}

func TestCreateRecordRequiresTitle(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/users/records", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRecordDefaultsStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/users/records", `{"title":"Kitchen"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var rec models.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, models.StatusRead, rec.Status)
}

func TestCreateRecordNormalizesStatus(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/users/records",
		`{"title":"Kokoro","status":"want to read"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var rec models.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, models.StatusWantToRead, rec.Status)

	w = doRequest(router, http.MethodPost, "/users/records",
		`{"title":"Bad","status":"devoured"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecordsHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, title := range []string{"a", "b", "c"} {
		w := doRequest(router, http.MethodPost, "/users/records", `{"title":"`+title+`"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(router, http.MethodGet, "/users/records?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int             `json:"total"`
		Items []models.Record `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Items, 2)
}

func TestUpdateRecordTracksStatusHistory(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/users/records",
		`{"title":"The Wind-Up Bird Chronicle","status":"want_to_read"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var rec models.Record
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))

	w = doRequest(router, http.MethodPut, "/users/records/1", `{"status":"reading"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/users/records/1/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var hist struct {
		Total int                   `json:"total"`
		Items []models.StatusChange `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	// create logs the initial status, update logs the transition
	assert.Equal(t, 2, hist.Total)
}

func TestDeleteRecordHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/users/records", `{"title":"gone"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodDelete, "/users/records/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/users/records/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordNotFoundHTTP(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/users/records/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, "/users/records/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
