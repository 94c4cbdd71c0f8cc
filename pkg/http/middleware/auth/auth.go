package auth

import (
	"net/http"
	"strconv"

	"github.com/briansbrian/coshop/order/internal/service/models/identity"
)

// The identity collaborator authenticates the request upstream and
// attaches the resulting pair as headers. This middleware only lifts
// them into the context; it performs no credential checks.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

func NewAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			http.Error(w, "missing or invalid identity", http.StatusUnauthorized)

			return
		}

		role, err := identity.ParseRole(r.Header.Get(HeaderRole))
		if err != nil {
			http.Error(w, "missing or invalid role", http.StatusUnauthorized)

			return
		}

		ctx := identity.WithIdentity(r.Context(), identity.Identity{
			UserID: userID,
			Role:   role,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
