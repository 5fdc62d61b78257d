package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookhub/pkg/models"
)

func stubServer(t *testing.T, body string, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(olURL, gbURL string) *Resolver {
	return NewResolver(NewOpenLibraryClient(olURL), NewGoogleBooksClient(gbURL, ""))
}

func TestResolvePrefersCoverID(t *testing.T) {
	ol := stubServer(t, `{"docs":[{"cover_i":42,"key":"/works/OL1W","isbn":["111"]}]}`, nil)
	var gbHits atomic.Int64
	gb := stubServer(t, `{}`, &gbHits)

	r := newTestResolver(ol.URL, gb.URL)
	m := r.Resolve(context.Background(), "Kitchen", "Banana Yoshimoto")

	assert.Equal(t, models.SourceOpenLibrary, m.Source)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-M.jpg", m.CoverURL)
	assert.Equal(t, "https://openlibrary.org/works/OL1W", m.DetailURL)
	assert.Equal(t, int64(0), gbHits.Load(), "secondary catalog should not be queried")
}

func TestResolveFallsBackToISBN(t *testing.T) {
	ol := stubServer(t, `{"docs":[{"key":"/works/OL1W","isbn":["9784101001548","222"]}]}`, nil)
	gb := stubServer(t, `{}`, nil)

	r := newTestResolver(ol.URL, gb.URL)
	m := r.Resolve(context.Background(), "Snow Country", "")

	assert.Equal(t, models.SourceOpenLibrary, m.Source)
	assert.Equal(t, "https://covers.openlibrary.org/b/isbn/9784101001548-M.jpg", m.CoverURL)
	assert.Equal(t, "https://openlibrary.org/isbn/9784101001548", m.DetailURL)
}

func TestResolveFallsBackToGoogleBooks(t *testing.T) {
	ol := stubServer(t, `{"docs":[]}`, nil)
	gb := stubServer(t, `{"items":[{"volumeInfo":{
		"title":"Coin Locker Babies",
		"imageLinks":{"thumbnail":"http://books.google.com/t.jpg"},
		"infoLink":"http://books.google.com/info"
	}}]}`, nil)

	r := newTestResolver(ol.URL, gb.URL)
	m := r.Resolve(context.Background(), "Coin Locker Babies", "Ryu Murakami")

	assert.Equal(t, models.SourceGoogleBooks, m.Source)
	assert.Equal(t, "https://books.google.com/t.jpg", m.CoverURL)
	assert.Equal(t, "https://books.google.com/info", m.DetailURL)
}

func TestResolveNoMatchAnywhere(t *testing.T) {
	ol := stubServer(t, `{"docs":[]}`, nil)
	gb := stubServer(t, `{"items":[{"volumeInfo":{"title":"No Images Here"}}]}`, nil)

	r := newTestResolver(ol.URL, gb.URL)
	m := r.Resolve(context.Background(), "Obscure Title", "")

	assert.Equal(t, models.SourceNone, m.Source)
	assert.Empty(t, m.CoverURL)
	assert.Empty(t, m.DetailURL)
}

func TestResolveNeverErrorsOnUpstreamFailure(t *testing.T) {
	ol := failingServer(t)
	gb := failingServer(t)

	r := newTestResolver(ol.URL, gb.URL)
	m := r.Resolve(context.Background(), "Anything", "Anyone")
	assert.Equal(t, models.SourceNone, m.Source)
}

func TestResolveEmptyTitle(t *testing.T) {
	var hits atomic.Int64
	ol := stubServer(t, `{}`, &hits)
	gb := stubServer(t, `{}`, &hits)

	r := newTestResolver(ol.URL, gb.URL)
	m := r.Resolve(context.Background(), "   ", "Someone")
	assert.Equal(t, models.SourceNone, m.Source)
	assert.Equal(t, int64(0), hits.Load())
}

func TestResolveCaches(t *testing.T) {
	var hits atomic.Int64
	ol := stubServer(t, `{"docs":[{"cover_i":7}]}`, &hits)
	gb := stubServer(t, `{}`, nil)

	r := newTestResolver(ol.URL, gb.URL)
	first := r.Resolve(context.Background(), "Kokoro", "Natsume Soseki")
	second := r.Resolve(context.Background(), "  kokoro ", "NATSUME SOSEKI")

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "normalized key should hit the cache")
}

func TestResolveCacheExpires(t *testing.T) {
	var hits atomic.Int64
	ol := stubServer(t, `{"docs":[{"cover_i":7}]}`, &hits)
	gb := stubServer(t, `{}`, nil)

	r := newTestResolver(ol.URL, gb.URL)
	current := time.Now()
	r.now = func() time.Time { return current }

	r.Resolve(context.Background(), "Kokoro", "")
	current = current.Add(CacheTTL + time.Minute)
	r.Resolve(context.Background(), "Kokoro", "")

	assert.Equal(t, int64(2), hits.Load())
}

func TestResolveRecordsIndexAligned(t *testing.T) {
	ol := stubServer(t, `{"docs":[{"cover_i":9}]}`, nil)
	gb := stubServer(t, `{}`, nil)

	records := []models.Record{
		{Title: "A", Author: "X"},
		{Title: "", Author: "Y"},
		{Title: "C", Author: "Z"},
	}

	r := newTestResolver(ol.URL, gb.URL)
	out := r.ResolveRecords(context.Background(), records, 2)

	assert.Len(t, out, 3)
	assert.Equal(t, models.SourceOpenLibrary, out[0].Source)
	assert.Equal(t, models.SourceNone, out[1].Source)
	assert.Equal(t, models.SourceOpenLibrary, out[2].Source)
}
