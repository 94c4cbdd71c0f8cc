package icatalog

import (
	"context"

	"github.com/briansbrian/coshop/order/internal/service/models/product"
)

// Repository is the read-only view of the external product/business
// catalog this core consumes.
type Repository interface {
	// GetProductsByIds reads one consistent snapshot of the referenced
	// products. Unknown ids are simply absent from the result.
	GetProductsByIds(ctx context.Context, ids []int64) ([]product.Product, error)

	// GetBusinessOwner returns the owning user of a business, or 0 when
	// the business does not exist.
	GetBusinessOwner(ctx context.Context, businessID int64) (int64, error)
}
