package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("BOOKHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("BOOKHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "bookhub"
	}

	dur := 24 * time.Hour
	if ttl := os.Getenv("BOOKHUB_JWT_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			dur = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: dur,
	}
}

type ServerConfig struct {
	HTTPAddr string
	FeedAddr string // TCP feed listener
}

func LoadServerConfig() ServerConfig {
	httpAddr := os.Getenv("BOOKHUB_HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	feedAddr := os.Getenv("BOOKHUB_FEED_ADDR")
	if feedAddr == "" {
		feedAddr = ":7070"
	}
	return ServerConfig{HTTPAddr: httpAddr, FeedAddr: feedAddr}
}

// CatalogConfig points the catalog clients at their upstream bases.
// Overridable so local dev can run against cmd/catalog-stub.
type CatalogConfig struct {
	OpenLibraryBase string
	GoogleBooksBase string
	Lang            string // optional language restrict for candidate search
}

func LoadCatalogConfig() CatalogConfig {
	olBase := os.Getenv("BOOKHUB_OPENLIBRARY_BASE")
	if olBase == "" {
		olBase = "https://openlibrary.org"
	}
	gbBase := os.Getenv("BOOKHUB_GOOGLEBOOKS_BASE")
	if gbBase == "" {
		gbBase = "https://www.googleapis.com"
	}
	return CatalogConfig{
		OpenLibraryBase: olBase,
		GoogleBooksBase: gbBase,
		Lang:            os.Getenv("BOOKHUB_CATALOG_LANG"),
	}
}
