package iorder

import (
	"context"

	"github.com/briansbrian/coshop/order/internal/service/models/order"
)

// Repository defines persistence operations on orders.
type Repository interface {
	// BulkInsert inserts all orders of one checkout and returns them with IDs.
	BulkInsert(ctx context.Context, orders []order.Order) ([]order.Order, error)

	// GetForUpdate reads one order, locking its row for the open
	// transaction. Returns (nil, nil) when the order does not exist.
	GetForUpdate(ctx context.Context, id int64) (*order.Order, error)

	// Update applies a typed partial update to one order.
	Update(ctx context.Context, id int64, upd order.UpdateOrderModel) error

	// Query retrieves orders matching the filter.
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)
}
