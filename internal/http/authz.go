package http

import (
	"context"
	"net/http"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/pkg/httpx"
)

// RequireCapability gates a route on the permission matrix. It must sit
// after AuthnMiddleware in the chain; an unauthenticated request here is a
// wiring bug and denies.
func RequireCapability(cap domain.Capability) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := httpx.ClaimsFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !domain.HasPermission(domain.Role(claims.Role), cap) {
				httpx.WriteError(w, http.StatusForbidden, "permission denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// actorFromContext rebuilds the acting identity from verified claims.
func actorFromContext(ctx context.Context) (domain.Identity, bool) {
	claims, ok := httpx.ClaimsFromContext(ctx)
	if !ok {
		return domain.Identity{}, false
	}
	return domain.Identity{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  domain.Role(claims.Role),
	}, true
}
