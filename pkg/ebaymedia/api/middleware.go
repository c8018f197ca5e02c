package api

import "net/http"

// Cache directive for served media: listing photos never change once
// uploaded, so one year immutable.
const mediaCacheControl = "public, max-age=31536000, immutable"

// PublicCORS allows any origin to read media and gallery responses.
// The media directory is deliberately public; downstream analyzers and
// chat surfaces fetch photos cross-origin.
func PublicCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ImmutableCache marks responses as cacheable for a year. Only mount
// it on content-addressed or write-once routes.
func ImmutableCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", mediaCacheControl)
		next.ServeHTTP(w, r)
	})
}
