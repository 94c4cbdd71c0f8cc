package updatestatus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/briansbrian/coshop/order/internal/apperr"
	"github.com/briansbrian/coshop/order/internal/service/models/identity"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/transport/http/httperr"
	"github.com/go-chi/chi/v5"
)

type stubService struct {
	gotIdent  identity.Identity
	gotOrder  int64
	gotStatus order.Status
	updated   *order.Order
	err       error
}

func (s *stubService) UpdateStatus(
	_ context.Context,
	ident identity.Identity,
	orderID int64,
	next order.Status,
) (*order.Order, error) {
	s.gotIdent = ident
	s.gotOrder = orderID
	s.gotStatus = next

	return s.updated, s.err
}

func serve(stub *stubService, ident *identity.Identity, target, body string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Patch("/api/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		UpdateStatus(w, r, stub)
	})

	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	if ident != nil {
		req = req.WithContext(identity.WithIdentity(req.Context(), *ident))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestUpdateStatus(t *testing.T) {
	ident := identity.Identity{UserID: 100, Role: identity.RoleBusiness}

	t.Run("valid transition", func(t *testing.T) {
		stub := &stubService{updated: &order.Order{ID: 5, Status: order.StatusConfirmed}}
		rec := serve(stub, &ident, "/api/orders/5/status", `{"status": "confirmed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if stub.gotOrder != 5 || stub.gotStatus != order.StatusConfirmed {
			t.Errorf("service called with order %d, status %s", stub.gotOrder, stub.gotStatus)
		}
		if stub.gotIdent != ident {
			t.Errorf("identity = %+v", stub.gotIdent)
		}

		var out order.Order
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if out.Status != order.StatusConfirmed {
			t.Errorf("response status = %s", out.Status)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := serve(&stubService{}, nil, "/api/orders/5/status", `{"status": "confirmed"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	for _, tc := range []struct {
		name   string
		target string
		body   string
	}{
		{"non-numeric id", "/api/orders/abc/status", `{"status": "confirmed"}`},
		{"malformed body", "/api/orders/5/status", `{`},
		{"missing status", "/api/orders/5/status", `{}`},
		{"unknown status", "/api/orders/5/status", `{"status": "shipped"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubService{}
			rec := serve(stub, &ident, tc.target, tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if stub.gotOrder != 0 {
				t.Error("service was called for an invalid request")
			}
		})
	}

	t.Run("invalid transition surfaces its code", func(t *testing.T) {
		stub := &stubService{err: apperr.InvalidStatusTransition("delivered", "ready")}
		rec := serve(stub, &ident, "/api/orders/5/status", `{"status": "ready"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var body httperr.Body
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Code != apperr.CodeInvalidStatusTransition {
			t.Errorf("code = %s, want %s", body.Code, apperr.CodeInvalidStatusTransition)
		}
	})
}
