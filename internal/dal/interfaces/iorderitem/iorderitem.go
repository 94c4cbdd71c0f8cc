package iorderitem

import (
	"context"

	"github.com/briansbrian/coshop/order/internal/service/models/orderitem"
)

// Repository defines persistence operations on order items.
type Repository interface {
	// BulkInsert inserts items for already-persisted orders and returns
	// them with IDs.
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)

	// Query retrieves order items matching the filter.
	Query(ctx context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error)
}
