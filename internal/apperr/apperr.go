package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindAuthorization
	KindInfrastructure
)

// Machine-readable error codes surfaced to clients.
const (
	CodeValidation              = "VALIDATION_ERROR"
	CodeProductNotFound         = "PRODUCT_NOT_FOUND"
	CodeOrderNotFound           = "ORDER_NOT_FOUND"
	CodeOutOfStock              = "OUT_OF_STOCK"
	CodeInsufficientInventory   = "INSUFFICIENT_INVENTORY"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeForbidden               = "FORBIDDEN"
	CodeInternal                = "INTERNAL_ERROR"
)

// Error is a tagged application error carrying a kind, a stable code and
// a human-readable message. It replaces loose {status, code, message}
// records with something errors.As can dispatch on.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// From unwraps err into an *Error if there is one anywhere in the chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message}
}

func ProductNotFound(productID int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeProductNotFound,
		Message: fmt.Sprintf("product %d not found", productID),
	}
}

func OrderNotFound(orderID int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    CodeOrderNotFound,
		Message: fmt.Sprintf("order %d not found", orderID),
	}
}

func OutOfStock(productID int64) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeOutOfStock,
		Message: fmt.Sprintf("product %d is out of stock", productID),
	}
}

func InsufficientInventory(productID int64, requested, available int) *Error {
	return &Error{
		Kind: KindConflict,
		Code: CodeInsufficientInventory,
		Message: fmt.Sprintf(
			"product %d has insufficient inventory: requested %d, available %d",
			productID, requested, available,
		),
	}
}

// InsufficientInventoryAtConfirm is raised when the conditional deduction
// finds less stock than the order needs. Unlike the checkout-time check
// there is no snapshot to report a precise available count from.
func InsufficientInventoryAtConfirm(productID int64, requested int) *Error {
	return &Error{
		Kind: KindConflict,
		Code: CodeInsufficientInventory,
		Message: fmt.Sprintf(
			"product %d has insufficient inventory for quantity %d",
			productID, requested,
		),
	}
}

func InvalidStatusTransition(from, to string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    CodeInvalidStatusTransition,
		Message: fmt.Sprintf("cannot transition order from %s to %s", from, to),
	}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindAuthorization, Code: CodeForbidden, Message: message}
}

func Infrastructure(err error) *Error {
	return &Error{
		Kind:    KindInfrastructure,
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}
