package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// Local stand-in for both book catalogs so the API server can run
// offline: point BOOKHUB_OPENLIBRARY_BASE and BOOKHUB_GOOGLEBOOKS_BASE
// at this process. Fixture files use the real response shapes.
func main() {
	searchPath := envOr("BOOKHUB_STUB_SEARCH", "data/openlibrary_search.json")
	volumesPath := envOr("BOOKHUB_STUB_VOLUMES", "data/googlebooks_volumes.json")

	http.HandleFunc("/search.json", serveFixture(searchPath))
	http.HandleFunc("/books/v1/volumes", serveFixture(volumesPath))

	addr := envOr("BOOKHUB_STUB_ADDR", ":9000")
	log.Printf("catalog-stub listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func serveFixture(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := os.ReadFile(path)
		if err != nil {
			http.Error(w, "cannot read "+path+": "+err.Error(), http.StatusInternalServerError)
			return
		}
		// validate JSON so a bad fixture doesn't silently break
		var tmp any
		if err := json.Unmarshal(b, &tmp); err != nil {
			http.Error(w, path+" invalid JSON: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
