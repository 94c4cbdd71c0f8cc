package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/briansbrian/coshop/order/internal/dal/postgres"
	"github.com/briansbrian/coshop/order/internal/service/models/product"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository reads product and business data owned by the catalog
// collaborator. It never writes: stock mutation goes through the
// inventory ledger only.
type CatalogRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewCatalogRepository creates a new Postgres catalog repository.
func NewCatalogRepository(conn postgres.Conn) *CatalogRepository {
	return &CatalogRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// GetProductsByIds reads one snapshot of the referenced products.
// Unknown ids are absent from the result.
func (r *CatalogRepository) GetProductsByIds(ctx context.Context, ids []int64) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}

	sql, args, err := r.sb.
		Select("id", "business_id", "title", "price_cents", "quantity").
		From("products").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Title, &p.PriceCents, &p.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.InStock = p.Quantity > 0
		result = append(result, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetBusinessOwner returns the owning user of a business, or 0 when the
// business does not exist.
func (r *CatalogRepository) GetBusinessOwner(ctx context.Context, businessID int64) (int64, error) {
	sql, args, err := r.sb.
		Select("owner_id").
		From("businesses").
		Where(sq.Eq{"id": businessID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var ownerID int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to query business owner: %w", err)
	}

	return ownerID, nil
}
