package catalog

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bookhub/pkg/models"
)

// CacheTTL bounds how stale a cached resolution may get. Upstream catalog
// data moves slowly; 15 minutes keeps repeated shelf renders cheap.
const CacheTTL = 15 * time.Minute

// Resolver maps a (title, author) pair to a best-effort cover image and
// detail link, trying Open Library first and falling back to Google Books.
// Resolve never returns an error: every upstream failure degrades to a
// "none" match.
type Resolver struct {
	OpenLibrary *OpenLibraryClient
	GoogleBooks *GoogleBooksClient

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	match   models.CatalogMatch
	expires time.Time
}

func NewResolver(ol *OpenLibraryClient, gb *GoogleBooksClient) *Resolver {
	return &Resolver{
		OpenLibrary: ol,
		GoogleBooks: gb,
		cache:       make(map[string]cacheEntry),
		now:         time.Now,
	}
}

func noMatch() models.CatalogMatch {
	return models.CatalogMatch{Source: models.SourceNone}
}

// Resolve returns the best-effort match for one record's title/author.
func (r *Resolver) Resolve(ctx context.Context, title, author string) models.CatalogMatch {
	title = strings.TrimSpace(title)
	if title == "" {
		return noMatch()
	}

	key := cacheKey(title, author)
	if m, ok := r.cached(key); ok {
		return m
	}

	m := r.lookup(ctx, title, author)

	// Don't cache a miss caused by the context being torn down mid-flight.
	if ctx.Err() != nil {
		return m
	}

	r.store(key, m)
	return m
}

func (r *Resolver) lookup(ctx context.Context, title, author string) models.CatalogMatch {
	doc, err := r.OpenLibrary.SearchOne(ctx, title, author)
	if err != nil {
		log.Printf("[catalog] openlibrary lookup failed for %q: %v", title, err)
	}
	if doc != nil {
		if doc.CoverID > 0 {
			m := models.CatalogMatch{
				CoverURL: CoverURLByID(doc.CoverID),
				Source:   models.SourceOpenLibrary,
			}
			if doc.Key != "" {
				m.DetailURL = DetailURLByKey(doc.Key)
			}
			return m
		}
		if len(doc.ISBN) > 0 {
			isbn := doc.ISBN[0]
			return models.CatalogMatch{
				CoverURL:  CoverURLByISBN(isbn),
				DetailURL: DetailURLByISBN(isbn),
				Source:    models.SourceOpenLibrary,
			}
		}
	}

	vols, err := r.GoogleBooks.SearchByTitle(ctx, title, author, 1)
	if err != nil {
		log.Printf("[catalog] googlebooks lookup failed for %q: %v", title, err)
	}
	if len(vols) > 0 {
		if thumb := vols[0].Thumbnail(); thumb != "" {
			return models.CatalogMatch{
				CoverURL:  thumb,
				DetailURL: vols[0].DetailLink(),
				Source:    models.SourceGoogleBooks,
			}
		}
	}

	return noMatch()
}

// ResolveRecords resolves covers for a batch of records concurrently.
// Each resolution is independent; maxConcurrent bounds in-flight lookups
// (values <= 0 mean unbounded). The result is index-aligned with records.
func (r *Resolver) ResolveRecords(ctx context.Context, records []models.Record, maxConcurrent int) []models.CatalogMatch {
	out := make([]models.CatalogMatch, len(records))

	g, gctx := errgroup.WithContext(ctx)
	if maxConcurrent > 0 {
		g.SetLimit(maxConcurrent)
	}

	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			out[i] = r.Resolve(gctx, rec.Title, rec.Author)
			return nil
		})
	}

	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()
	return out
}

func (r *Resolver) cached(key string) (models.CatalogMatch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.cache[key]
	if !ok || r.now().After(e.expires) {
		return models.CatalogMatch{}, false
	}
	return e.match, true
}

func (r *Resolver) store(key string, m models.CatalogMatch) {
	r.mu.Lock()
	r.cache[key] = cacheEntry{match: m, expires: r.now().Add(CacheTTL)}
	r.mu.Unlock()
}

func cacheKey(title, author string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(author))
}
