package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/briansbrian/coshop/order/internal/dal/interfaces/icatalog"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iinventory"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iorder"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iorderitem"
	"github.com/briansbrian/coshop/order/internal/dal/postgres"
	catalogrepo "github.com/briansbrian/coshop/order/internal/dal/repositories/catalog/postgres"
	inventoryrepo "github.com/briansbrian/coshop/order/internal/dal/repositories/inventory/postgres"
	orderrepo "github.com/briansbrian/coshop/order/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/briansbrian/coshop/order/internal/dal/repositories/orderitem/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UnitOfWork binds the order core's repositories to one connection
// scope. Outside a transaction the repositories run on the pool; inside
// Within they all share one pgx.Tx, so a status write and its inventory
// side effects commit or roll back together.
type UnitOfWork struct {
	pool *pgxpool.Pool
	tx   pgx.Tx

	orderRepo     iorder.Repository
	orderItemRepo iorderitem.Repository
	catalogRepo   icatalog.Repository
	inventoryRepo iinventory.Ledger
}

// NewUnitOfWork creates a unit of work with pool-bound repositories.
func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{pool: client.Pool()}
	u.bind(client.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.Conn) {
	u.orderRepo = orderrepo.NewOrderRepository(conn)
	u.orderItemRepo = orderitemrepo.NewOrderItemRepository(conn)
	u.catalogRepo = catalogrepo.NewCatalogRepository(conn)
	u.inventoryRepo = inventoryrepo.NewInventoryLedger(conn)
}

func (u *UnitOfWork) OrderRepository() iorder.Repository {
	return u.orderRepo
}

func (u *UnitOfWork) OrderItemRepository() iorderitem.Repository {
	return u.orderItemRepo
}

func (u *UnitOfWork) CatalogRepository() icatalog.Repository {
	return u.catalogRepo
}

func (u *UnitOfWork) InventoryLedger() iinventory.Ledger {
	return u.inventoryRepo
}

// Within runs fn inside one transaction. The transaction is rolled back
// on any error or panic and committed otherwise; callers never touch
// BEGIN/COMMIT/ROLLBACK themselves.
func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.bind(tx)

	defer func() {
		u.tx = nil
		u.bind(u.pool)

		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				slog.Error("rollback after panic failed", "error", rbErr)
			}
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				slog.Error("rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(ctx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
