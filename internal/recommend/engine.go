package recommend

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"bookhub/internal/catalog"
	"bookhub/internal/stats"
	"bookhub/pkg/models"
)

// Defaults mirrored by Options zero values.
const (
	DefaultMaxResults     = 8
	DefaultPerAuthorFetch = 5

	descriptionLimit = 150
	noDescription    = "No description available."
)

type Options struct {
	MaxResults     int
	PerAuthorFetch int
	TopAuthors     int
}

func (o Options) withDefaults() Options {
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.PerAuthorFetch <= 0 {
		o.PerAuthorFetch = DefaultPerAuthorFetch
	}
	if o.TopAuthors <= 0 {
		o.TopAuthors = stats.RecommendTopAuthors
	}
	return o
}

// Result is the recommendation output: the sampled candidates plus the
// author names the sampling was based on.
type Result struct {
	TopAuthors      []string                         `json:"top_authors"`
	Recommendations []models.RecommendationCandidate `json:"recommendations"`
}

// Engine selects candidate books by the user's most-read authors,
// excludes titles already on the shelf, deduplicates, and samples a
// bounded random subset. The random source is injected so sampling is
// deterministic under a fixed seed. One Engine serves all requests;
// rand.Rand is not safe for concurrent use, so shuffles go through mu.
type Engine struct {
	Books *catalog.GoogleBooksClient

	mu  sync.Mutex
	rng *rand.Rand
}

func NewEngine(books *catalog.GoogleBooksClient, rng *rand.Rand) *Engine {
	return &Engine{Books: books, rng: rng}
}

func (e *Engine) shuffle(n int, swap func(i, j int)) {
	e.mu.Lock()
	e.rng.Shuffle(n, swap)
	e.mu.Unlock()
}

// Recommend derives a recommendation set from a user's full record set.
// An empty record set short-circuits to an empty result with no network
// calls. A failed fetch for one author is logged and skipped; the call
// succeeds with whatever remains.
func (e *Engine) Recommend(ctx context.Context, records []models.Record, opts Options) Result {
	opts = opts.withDefaults()

	if len(records) == 0 {
		return Result{TopAuthors: []string{}, Recommendations: []models.RecommendationCandidate{}}
	}

	ranking := stats.TopAuthors(records, opts.TopAuthors)
	authors := make([]string, 0, len(ranking))
	for _, r := range ranking {
		authors = append(authors, r.Author)
	}

	result := Result{
		TopAuthors:      authors,
		Recommendations: []models.RecommendationCandidate{},
	}
	if len(authors) == 0 {
		return result
	}

	owned := make(map[string]struct{}, len(records))
	for _, rec := range records {
		owned[fingerprint(rec.Title)] = struct{}{}
	}

	// Fetch per-author candidates concurrently but keep them in ranking
	// order so first-occurrence dedup favors higher-ranked authors.
	perAuthor := make([][]models.RecommendationCandidate, len(authors))
	g, gctx := errgroup.WithContext(ctx)
	for i, author := range authors {
		i, author := i, author
		g.Go(func() error {
			vols, err := e.Books.SearchByAuthor(gctx, author, opts.PerAuthorFetch)
			if err != nil {
				log.Printf("[recommend] candidate fetch failed for %q: %v", author, err)
				return nil
			}
			perAuthor[i] = buildCandidates(vols, author, owned)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var merged []models.RecommendationCandidate
	for _, candidates := range perAuthor {
		for _, cand := range candidates {
			fp := fingerprint(cand.Title)
			if _, dup := seen[fp]; dup {
				continue
			}
			seen[fp] = struct{}{}
			merged = append(merged, cand)
		}
	}

	e.shuffle(len(merged), func(i, j int) {
		merged[i], merged[j] = merged[j], merged[i]
	})

	if len(merged) > opts.MaxResults {
		merged = merged[:opts.MaxResults]
	}
	result.Recommendations = append(result.Recommendations, merged...)
	return result
}

func buildCandidates(vols []catalog.VolumeInfo, queriedAuthor string, owned map[string]struct{}) []models.RecommendationCandidate {
	out := make([]models.RecommendationCandidate, 0, len(vols))
	for _, v := range vols {
		title := strings.TrimSpace(v.Title)
		if title == "" {
			continue
		}
		if _, have := owned[fingerprint(title)]; have {
			continue
		}

		author := queriedAuthor
		if len(v.Authors) > 0 {
			author = strings.Join(v.Authors, ", ")
		}

		out = append(out, models.RecommendationCandidate{
			Title:        title,
			Author:       author,
			Description:  truncate(v.Description),
			ThumbnailURL: v.Thumbnail(),
			InfoURL:      v.DetailLink(),
		})
	}
	return out
}

// fingerprint is the dedup key: lowercased, trimmed title.
func fingerprint(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func truncate(desc string) string {
	if desc == "" {
		return noDescription
	}
	runes := []rune(desc)
	if len(runes) <= descriptionLimit {
		return desc
	}
	return string(runes[:descriptionLimit]) + "..."
}
