package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestFromUnwrapsWrappedErrors(t *testing.T) {
	base := OrderNotFound(42)
	wrapped := fmt.Errorf("loading order: %w", base)

	appErr, ok := From(wrapped)
	if !ok {
		t.Fatal("From did not find the tagged error in the chain")
	}
	if appErr.Code != CodeOrderNotFound {
		t.Errorf("code = %s, want %s", appErr.Code, CodeOrderNotFound)
	}
	if appErr.Kind != KindNotFound {
		t.Errorf("kind = %d, want %d", appErr.Kind, KindNotFound)
	}
}

func TestFromRejectsUntaggedErrors(t *testing.T) {
	if _, ok := From(errors.New("plain")); ok {
		t.Error("From matched an untagged error")
	}
	if _, ok := From(nil); ok {
		t.Error("From matched nil")
	}
}

func TestConstructorsCarryKindAndCode(t *testing.T) {
	for _, tc := range []struct {
		err  *Error
		kind Kind
		code string
	}{
		{Validation("bad input"), KindValidation, CodeValidation},
		{ProductNotFound(1), KindNotFound, CodeProductNotFound},
		{OrderNotFound(1), KindNotFound, CodeOrderNotFound},
		{OutOfStock(1), KindConflict, CodeOutOfStock},
		{InsufficientInventory(1, 5, 2), KindConflict, CodeInsufficientInventory},
		{InsufficientInventoryAtConfirm(1, 5), KindConflict, CodeInsufficientInventory},
		{InvalidStatusTransition("pending", "ready"), KindConflict, CodeInvalidStatusTransition},
		{Forbidden("nope"), KindAuthorization, CodeForbidden},
		{Infrastructure(errors.New("boom")), KindInfrastructure, CodeInternal},
	} {
		if tc.err.Kind != tc.kind {
			t.Errorf("%s: kind = %d, want %d", tc.err.Code, tc.err.Kind, tc.kind)
		}
		if tc.err.Code != tc.code {
			t.Errorf("code = %s, want %s", tc.err.Code, tc.code)
		}
	}
}

func TestInfrastructureUnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Infrastructure(cause)

	if !errors.Is(err, cause) {
		t.Error("Infrastructure error does not unwrap to its cause")
	}
}
