package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/briansbrian/coshop/order/internal/apperr"
)

func TestStatus(t *testing.T) {
	for _, tc := range []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindValidation, http.StatusBadRequest},
		{apperr.KindConflict, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindAuthorization, http.StatusForbidden},
		{apperr.KindInfrastructure, http.StatusInternalServerError},
		{apperr.Kind(0), http.StatusInternalServerError},
	} {
		if got := Status(tc.kind); got != tc.want {
			t.Errorf("Status(%d) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestWriteRendersTaggedError(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, fmt.Errorf("transition: %w", apperr.InvalidStatusTransition("delivered", "ready")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}

	var body Body
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != apperr.CodeInvalidStatusTransition {
		t.Errorf("code = %s, want %s", body.Code, apperr.CodeInvalidStatusTransition)
	}
	if body.Message == "" {
		t.Error("message is empty")
	}
}

func TestWriteHidesUntaggedErrorDetail(t *testing.T) {
	rec := httptest.NewRecorder()

	Write(rec, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}

	var body Body
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != apperr.CodeInternal {
		t.Errorf("code = %s, want %s", body.Code, apperr.CodeInternal)
	}
	if body.Message != "internal error" {
		t.Errorf("message leaked detail: %q", body.Message)
	}
}
