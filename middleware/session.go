package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"go-storefront/session"
)

const (
	cookiePrefix    = "shop_"
	CookieSessionID = cookiePrefix + "session-id"
	cookieMaxAge    = 60 * 60 * 24 * 7
)

type ctxKeySessionID struct{}
type ctxKeyShopper struct{}

// EnsureSessionID gives every browser a session id cookie
func EnsureSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		c, err := r.Cookie(CookieSessionID)
		if err == nil && c.Value != "" {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				sessionID = c.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieSessionID,
				Value:    sessionID,
				MaxAge:   cookieMaxAge,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), ctxKeySessionID{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the browser session id set by EnsureSessionID
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeySessionID{}).(string)
	return v
}

// WithShopper attaches the browser's shopper from reg to the request context
func WithShopper(reg *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := SessionID(r.Context())
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			sh := reg.Get(r.Context(), id)
			ctx := context.WithValue(r.Context(), ctxKeyShopper{}, sh)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ShopperFromContext returns the shopper attached by WithShopper, or nil
func ShopperFromContext(ctx context.Context) *session.Shopper {
	sh, _ := ctx.Value(ctxKeyShopper{}).(*session.Shopper)
	return sh
}

// ContextWithShopper is used by tests and by handlers that build their own context
func ContextWithShopper(ctx context.Context, sh *session.Shopper) context.Context {
	return context.WithValue(ctx, ctxKeyShopper{}, sh)
}
