package models

// Catalog sources a match can come from.
const (
	SourceOpenLibrary = "openlibrary"
	SourceGoogleBooks = "googlebooks"
	SourceNone        = "none"
)

// CatalogMatch is the best-effort cover/detail link for one record.
// It is recomputed on demand and never persisted. When Source is "none"
// both URLs are empty.
type CatalogMatch struct {
	CoverURL  string `json:"cover_url,omitempty"`
	DetailURL string `json:"detail_url,omitempty"`
	Source    string `json:"source"`
}
