package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/briansbrian/coshop/order/internal/service/models/identity"
)

func TestAuthMiddleware(t *testing.T) {
	var captured identity.Identity
	var reached bool
	handler := NewAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = identity.FromContext(r.Context())
		reached = true
	}))

	t.Run("valid headers reach the handler", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set(HeaderUserID, "42")
		req.Header.Set(HeaderRole, "business")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !reached {
			t.Fatal("handler was not reached")
		}
		if captured.UserID != 42 || captured.Role != identity.RoleBusiness {
			t.Errorf("identity = %+v", captured)
		}
	})

	for _, tc := range []struct {
		name   string
		userID string
		role   string
	}{
		{"missing user id", "", "consumer"},
		{"non-numeric user id", "abc", "consumer"},
		{"zero user id", "0", "consumer"},
		{"negative user id", "-3", "consumer"},
		{"missing role", "42", ""},
		{"unknown role", "42", "superuser"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tc.userID != "" {
				req.Header.Set(HeaderUserID, tc.userID)
			}
			if tc.role != "" {
				req.Header.Set(HeaderRole, tc.role)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if reached {
				t.Error("handler was reached without a valid identity")
			}
		})
	}
}
