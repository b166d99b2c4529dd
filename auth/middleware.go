package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hamboms/kbob-dating-app/models"
	"github.com/hamboms/kbob-dating-app/store"
)

// CookieName is the session cookie set on login.
const CookieName = "auth_token"

type contextKey struct{}

// Auth resolves the current user from the session cookie (or bearer
// header) and gates admin-only routes.
type Auth struct {
	Secret []byte
	Users  store.UserStore
}

// CurrentUser returns the claims stored by RequireUser, or nil.
func CurrentUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(contextKey{}).(*Claims)
	return claims
}

// RequireUser rejects unauthenticated requests and stores the resolved
// claims in the request context.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.resolve(r)
		if err != nil {
			http.Error(w, `{"error": "Authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, claims)))
	})
}

// RequireAdmin is RequireUser plus an admin-flag check against the user
// store, so a revoked admin loses access as soon as the record changes.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := CurrentUser(r.Context())
		user, err := a.Users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				http.Error(w, `{"error": "Authentication required"}`, http.StatusUnauthorized)
				return
			}
			http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
			return
		}
		if !user.IsAdmin {
			http.Error(w, `{"error": "Forbidden: Admins only"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (a *Auth) resolve(r *http.Request) (*Claims, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return ParseToken(a.Secret, cookie.Value)
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return ParseToken(a.Secret, strings.TrimPrefix(header, "Bearer "))
	}
	return nil, models.ErrUnauthenticated
}
