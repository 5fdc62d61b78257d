package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Canonical Open Library hosts. Search goes through BaseURL (overridable
// for tests and the local stub); cover and detail URLs always point at the
// public hosts because that is what clients render.
const (
	openLibrarySite   = "https://openlibrary.org"
	openLibraryCovers = "https://covers.openlibrary.org"
)

// OpenLibraryClient is the primary catalog: title(+author) search returning
// at most one best match.
type OpenLibraryClient struct {
	BaseURL string
	Client  *http.Client
}

func NewOpenLibraryClient(baseURL string) *OpenLibraryClient {
	return &OpenLibraryClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchDoc is the subset of an Open Library search doc we consume.
// Unknown fields are ignored; missing fields degrade to "no match".
type SearchDoc struct {
	CoverID int64    `json:"cover_i"`
	Key     string   `json:"key"` // stable work key, e.g. "/works/OL82563W"
	ISBN    []string `json:"isbn"`
}

type olSearchResponse struct {
	Docs []SearchDoc `json:"docs"`
}

// SearchOne looks up the single best match for a title (and optional
// author). A response with no docs returns (nil, nil).
func (c *OpenLibraryClient) SearchOne(ctx context.Context, title, author string) (*SearchDoc, error) {
	u, err := url.Parse(c.BaseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("openlibrary: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("title", title)
	if author != "" {
		q.Set("author", author)
	}
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("openlibrary: build request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openlibrary: request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openlibrary: status %d", resp.StatusCode)
	}

	var sr olSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("openlibrary: decode: %w", err)
	}
	if len(sr.Docs) == 0 {
		return nil, nil
	}
	return &sr.Docs[0], nil
}

// CoverURLByID maps an Open Library cover identifier to its medium image.
func CoverURLByID(coverID int64) string {
	return fmt.Sprintf("%s/b/id/%d-M.jpg", openLibraryCovers, coverID)
}

// CoverURLByISBN builds a cover image URL from an ISBN.
func CoverURLByISBN(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-M.jpg", openLibraryCovers, isbn)
}

// DetailURLByKey maps a work key ("/works/...") to its public page.
func DetailURLByKey(key string) string {
	return openLibrarySite + key
}

// DetailURLByISBN builds a detail page URL from an ISBN.
func DetailURLByISBN(isbn string) string {
	return openLibrarySite + "/isbn/" + isbn
}
