package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/briansbrian/coshop/order/internal/dal/postgres"
)

// InventoryLedger is the sole access path to the shared stock counter.
// Deductions are a single conditional update, so two concurrent confirms
// against a product with stock for only one can never both match.
type InventoryLedger struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewInventoryLedger creates a new Postgres inventory ledger.
func NewInventoryLedger(conn postgres.Conn) *InventoryLedger {
	return &InventoryLedger{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// TryDeduct decrements stock iff enough remains, reporting whether a row
// matched. Runs on whatever connection scope the caller holds, normally
// the transition's open transaction.
func (l *InventoryLedger) TryDeduct(ctx context.Context, productID int64, qty int) (bool, error) {
	sql, args, err := l.sb.
		Update("products").
		Set("quantity", sq.Expr("quantity - ?", qty)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": productID}).
		Where(sq.Expr("quantity >= ?", qty)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build deduct query: %w", err)
	}

	tag, err := l.conn.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("failed to deduct inventory: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Restore increments stock unconditionally, undoing a prior deduction.
func (l *InventoryLedger) Restore(ctx context.Context, productID int64, qty int) error {
	sql, args, err := l.sb.
		Update("products").
		Set("quantity", sq.Expr("quantity + ?", qty)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build restore query: %w", err)
	}

	if _, err := l.conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to restore inventory: %w", err)
	}

	return nil
}
