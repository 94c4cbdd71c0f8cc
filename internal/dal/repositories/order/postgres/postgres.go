package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/briansbrian/coshop/order/internal/dal/postgres"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id              int64     `db:"id"`
	ConsumerId      int64     `db:"consumer_id"`
	BusinessId      int64     `db:"business_id"`
	TotalPriceCents int64     `db:"total_price_cents"`
	Status          string    `db:"status"`
	DeliveryMethod  string    `db:"delivery_method"`
	PaymentStatus   string    `db:"payment_status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}
	method, err := order.ParseDeliveryMethod(o.DeliveryMethod)
	if err != nil {
		return nil, err
	}
	payment, err := order.ParsePaymentStatus(o.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:              o.Id,
		ConsumerID:      o.ConsumerId,
		BusinessID:      o.BusinessId,
		TotalPriceCents: o.TotalPriceCents,
		Status:          status,
		DeliveryMethod:  method,
		PaymentStatus:   payment,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		OrderItems:      []orderitem.OrderItem{},
	}, nil
}

// OrderRepository is a Postgres order repository.
type OrderRepository struct {
	conn postgres.Conn
	sb   sq.StatementBuilderType
}

// NewOrderRepository creates a new Postgres order repository.
func NewOrderRepository(conn postgres.Conn) *OrderRepository {
	return &OrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{
	"id",
	"consumer_id",
	"business_id",
	"total_price_cents",
	"status",
	"delivery_method",
	"payment_status",
	"created_at",
	"updated_at",
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.ConsumerId,
		&dal.BusinessId,
		&dal.TotalPriceCents,
		&dal.Status,
		&dal.DeliveryMethod,
		&dal.PaymentStatus,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// BulkInsert inserts all orders of one checkout and returns them with IDs.
func (r *OrderRepository) BulkInsert(ctx context.Context, orders []order.Order) ([]order.Order, error) {
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	sql := `
		INSERT INTO orders (
			consumer_id,
			business_id,
			total_price_cents,
			status,
			delivery_method,
			payment_status,
			created_at,
			updated_at
		)
		SELECT
			consumer_id,
			business_id,
			total_price_cents,
			status,
			delivery_method,
			payment_status,
			created_at,
			updated_at
		FROM unnest($1::bigint[], $2::bigint[], $3::bigint[], $4::text[], $5::text[], $6::text[], $7::timestamptz[], $8::timestamptz[])
		AS t(consumer_id, business_id, total_price_cents, status, delivery_method, payment_status, created_at, updated_at)
		RETURNING
			id,
			consumer_id,
			business_id,
			total_price_cents,
			status,
			delivery_method,
			payment_status,
			created_at,
			updated_at
	`

	consumerIds := make([]int64, len(orders))
	businessIds := make([]int64, len(orders))
	totalPriceCents := make([]int64, len(orders))
	statuses := make([]string, len(orders))
	deliveryMethods := make([]string, len(orders))
	paymentStatuses := make([]string, len(orders))
	createdAts := make([]time.Time, len(orders))
	updatedAts := make([]time.Time, len(orders))

	for i, o := range orders {
		consumerIds[i] = o.ConsumerID
		businessIds[i] = o.BusinessID
		totalPriceCents[i] = o.TotalPriceCents
		statuses[i] = o.Status.String()
		deliveryMethods[i] = o.DeliveryMethod.String()
		paymentStatuses[i] = o.PaymentStatus.String()
		createdAts[i] = o.CreatedAt
		updatedAts[i] = o.UpdatedAt
	}

	rows, err := r.conn.Query(ctx, sql,
		consumerIds,
		businessIds,
		totalPriceCents,
		statuses,
		deliveryMethods,
		paymentStatuses,
		createdAts,
		updatedAts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk insert orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	i := 0
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model.OrderItems = append(model.OrderItems, orders[i].OrderItems...)
		i++

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// GetForUpdate reads one order with a row lock held by the open
// transaction, serializing concurrent transitions of the same order.
// Returns (nil, nil) when the order does not exist.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	sql, args, err := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	model, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to get order for update: %w", err)
	}

	return model, nil
}

// Update applies a typed partial update: only set fields of upd are
// translated into the parameterized SET clause.
func (r *OrderRepository) Update(ctx context.Context, id int64, upd order.UpdateOrderModel) error {
	if upd.Empty() {
		return nil
	}

	sql, args, err := buildUpdate(r.sb, id, upd).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %d not updated", id)
	}

	return nil
}

func buildUpdate(sb sq.StatementBuilderType, id int64, upd order.UpdateOrderModel) sq.UpdateBuilder {
	query := sb.Update("orders").Where(sq.Eq{"id": id})

	if upd.Status != nil {
		query = query.Set("status", upd.Status.String())
	}
	if upd.PaymentStatus != nil {
		query = query.Set("payment_status", upd.PaymentStatus.String())
	}
	if upd.UpdatedAt != nil {
		query = query.Set("updated_at", *upd.UpdatedAt)
	}

	return query
}

// Query retrieves orders based on filter criteria.
func (r *OrderRepository) Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if len(filter.ConsumerIds) > 0 {
		query = query.Where(sq.Eq{"consumer_id": filter.ConsumerIds})
	}

	if len(filter.BusinessIds) > 0 {
		query = query.Where(sq.Eq{"business_id": filter.BusinessIds})
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = s.String()
		}
		query = query.Where(sq.Eq{"status": statuses})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
