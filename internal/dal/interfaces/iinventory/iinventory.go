package iinventory

import "context"

// Ledger is the sole mutation path for product stock. Both operations
// are expected to run on the caller's open transaction so that a failed
// status transition rolls its deductions back wholesale.
type Ledger interface {
	// TryDeduct decrements stock with a single conditional update and
	// reports whether a row matched. Callers must never read a quantity
	// and write back an unconditional value based on it.
	TryDeduct(ctx context.Context, productID int64, qty int) (bool, error)

	// Restore increments stock unconditionally, undoing a prior deduction.
	Restore(ctx context.Context, productID int64, qty int) error
}
