package share

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookhub/internal/auth"
	"bookhub/internal/catalog"
	"bookhub/internal/record"
	"bookhub/pkg/models"
)

// Open Library stub that hands each title its own cover id, so tests can
// check which record a cover belongs to.
func stubCatalogs(t *testing.T) *catalog.Resolver {
	t.Helper()

	coverByTitle := map[string]int64{
		"Norwegian Wood": 101,
		"Kitchen":        202,
	}
	ol := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := coverByTitle[r.URL.Query().Get("title")]
		if !ok {
			w.Write([]byte(`{"docs":[]}`))
			return
		}
		fmt.Fprintf(w, `{"docs":[{"cover_i":%d}]}`, id)
	}))
	t.Cleanup(ol.Close)

	gb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(gb.Close)

	return catalog.NewResolver(
		catalog.NewOpenLibraryClient(ol.URL),
		catalog.NewGoogleBooksClient(gb.URL, ""),
	)
}

func newShelfRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile("../../docs/schema.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (id, username, nickname, email, password_hash)
		VALUES ('u1', 'alice', 'Alice', 'alice@example.com', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO records (user_id, title, author, status) VALUES
		('u1', 'Norwegian Wood', 'Haruki Murakami', 'read'),
		('u1', 'Kitchen', 'Banana Yoshimoto', 'reading'),
		('u1', 'Unknown Zine', '', 'read')`)
	require.NoError(t, err)

	router := gin.New()
	h := NewHandler(auth.NewRepo(db), record.NewRepo(db), stubCatalogs(t))
	h.RegisterRoutes(router.Group("/share"))
	return router
}

type shelfResponse struct {
	Nickname string `json:"nickname"`
	Total    int    `json:"total"`
	Items    []struct {
		Title  string              `json:"title"`
		Status string              `json:"status"`
		Cover  models.CatalogMatch `json:"cover"`
	} `json:"items"`
}

func getShelf(t *testing.T, router *gin.Engine, path string) (int, shelfResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp shelfResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestShelfUnknownUser(t *testing.T) {
	router := newShelfRouter(t)

	code, _ := getShelf(t, router, "/share/nobody")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestShelfResolvesCoversPerRecord(t *testing.T) {
	router := newShelfRouter(t)

	code, resp := getShelf(t, router, "/share/u1")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "Alice", resp.Nickname)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Items, 3)

	covers := make(map[string]models.CatalogMatch, len(resp.Items))
	for _, item := range resp.Items {
		covers[item.Title] = item.Cover
	}
	assert.Equal(t, "https://covers.openlibrary.org/b/id/101-M.jpg", covers["Norwegian Wood"].CoverURL)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/202-M.jpg", covers["Kitchen"].CoverURL)
	assert.Equal(t, models.SourceNone, covers["Unknown Zine"].Source)
}

func TestShelfStatusFilter(t *testing.T) {
	router := newShelfRouter(t)

	code, resp := getShelf(t, router, "/share/u1?status=reading")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Kitchen", resp.Items[0].Title)
	assert.Equal(t, "reading", resp.Items[0].Status)
}
