package models

// RecommendationCandidate is one proposed book, deduplicated across the
// whole result set by lowercased trimmed title.
type RecommendationCandidate struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	InfoURL      string `json:"info_url,omitempty"`
}
