package middleware

import "net/http"

// SecurityHeaders applies the response headers every page gets
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "same-origin")
		// pages carry per-user cart and order data
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
