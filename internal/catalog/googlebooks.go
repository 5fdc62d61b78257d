package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// GoogleBooksClient is the secondary catalog: free-text volume search.
// It serves both the metadata fallback (title search) and the
// recommendation engine (per-author candidate search).
type GoogleBooksClient struct {
	BaseURL string
	Client  *http.Client
	Lang    string // optional langRestrict, e.g. "ja"
}

func NewGoogleBooksClient(baseURL, lang string) *GoogleBooksClient {
	return &GoogleBooksClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Lang:    lang,
	}
}

// VolumeInfo is the subset of a Google Books volume we consume.
type VolumeInfo struct {
	Title       string      `json:"title"`
	Authors     []string    `json:"authors"`
	Description string      `json:"description"`
	ImageLinks  *ImageLinks `json:"imageLinks"`
	InfoLink    string      `json:"infoLink"`
	Canonical   string      `json:"canonicalVolumeLink"`
	PreviewLink string      `json:"previewLink"`
}

type ImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// Thumbnail returns the best available image URL, https-normalized,
// or "" if the volume has none.
func (v VolumeInfo) Thumbnail() string {
	if v.ImageLinks == nil {
		return ""
	}
	if v.ImageLinks.Thumbnail != "" {
		return secureURL(v.ImageLinks.Thumbnail)
	}
	return secureURL(v.ImageLinks.SmallThumbnail)
}

// DetailLink returns the best available detail page, preferring
// infoLink, then the canonical volume link, then the preview link.
func (v VolumeInfo) DetailLink() string {
	for _, link := range []string{v.InfoLink, v.Canonical, v.PreviewLink} {
		if link != "" {
			return secureURL(link)
		}
	}
	return ""
}

type gbResponse struct {
	Items []struct {
		VolumeInfo VolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

func (c *GoogleBooksClient) search(ctx context.Context, query string, max int) ([]VolumeInfo, error) {
	u, err := url.Parse(c.BaseURL + "/books/v1/volumes")
	if err != nil {
		return nil, fmt.Errorf("googlebooks: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("maxResults", strconv.Itoa(max))
	if c.Lang != "" {
		q.Set("langRestrict", c.Lang)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("googlebooks: build request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googlebooks: request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("googlebooks: status %d", resp.StatusCode)
	}

	var gr gbResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, fmt.Errorf("googlebooks: decode: %w", err)
	}

	out := make([]VolumeInfo, 0, len(gr.Items))
	for _, item := range gr.Items {
		out = append(out, item.VolumeInfo)
	}
	return out, nil
}

// SearchByTitle finds up to max volumes matching a title (and optional
// author).
func (c *GoogleBooksClient) SearchByTitle(ctx context.Context, title, author string, max int) ([]VolumeInfo, error) {
	query := "intitle:" + title
	if author != "" {
		query += " inauthor:" + author
	}
	return c.search(ctx, query, max)
}

// SearchByAuthor finds up to max volumes by an author.
func (c *GoogleBooksClient) SearchByAuthor(ctx context.Context, author string, max int) ([]VolumeInfo, error) {
	return c.search(ctx, "inauthor:"+author, max)
}

// secureURL upgrades plain-http catalog links to https.
func secureURL(s string) string {
	if strings.HasPrefix(s, "http:") {
		return "https:" + strings.TrimPrefix(s, "http:")
	}
	return s
}
