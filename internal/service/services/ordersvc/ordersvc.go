package ordersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/briansbrian/coshop/order/internal/apperr"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/icatalog"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iinventory"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iorder"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iorderitem"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/ioutbox"
	"github.com/briansbrian/coshop/order/internal/dal/postgres"
	notificationrepo "github.com/briansbrian/coshop/order/internal/dal/repositories/notification"
	outboxrepo "github.com/briansbrian/coshop/order/internal/dal/repositories/outbox/postgres"
	"github.com/briansbrian/coshop/order/internal/dal/uow"
	"github.com/briansbrian/coshop/order/internal/service/models/identity"
	"github.com/briansbrian/coshop/order/internal/service/models/notification"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/service/models/orderitem"
	"github.com/briansbrian/coshop/order/internal/service/models/outbox"
	"github.com/briansbrian/coshop/order/internal/service/models/product"
	"github.com/briansbrian/coshop/order/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// unitOfWork is the transaction scope the service runs its writes in.
type unitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context) error) error

	OrderRepository() iorder.Repository
	OrderItemRepository() iorderitem.Repository
	CatalogRepository() icatalog.Repository
	InventoryLedger() iinventory.Ledger
}

// Notifier publishes an event to the external notification collaborator.
type Notifier interface {
	Publish(ctx context.Context, event notification.Event) error
}

// CartItem is one requested line of a multi-vendor cart.
type CartItem struct {
	ProductID int64
	Quantity  int
}

// OrderService is the order lifecycle core: cart validation and
// splitting, atomic order creation, and the status state machine with
// its inventory side effects.
type OrderService struct {
	uowFactory func() unitOfWork
	notifier   Notifier
	outboxRepo ioutbox.Repository
	metrics    *metrics.OrderMetrics
}

func (s *OrderService) newUOW() unitOfWork {
	return s.uowFactory()
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.uowFactory == nil {
		panic("ordersvc: no storage configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.uowFactory = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
		if s.outboxRepo == nil {
			s.outboxRepo = outboxrepo.NewOutboxRepository(pgClient)
		}
	}
}

// WithNotifier sets the notification publisher.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithNotifier(n Notifier) option {
	return func(s *OrderService) {
		s.notifier = n
	}
}

// WithMetrics sets the metrics collector.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMetrics(m *metrics.OrderMetrics) option {
	return func(s *OrderService) {
		s.metrics = m
	}
}

// Checkout validates a multi-vendor cart against one catalog snapshot,
// splits it into one order per seller and persists all of them in one
// transaction. Either every seller's order commits or none does.
//
// The stock check here is advisory: it guards against carts that are
// already unsatisfiable at read time, but stock is only authoritatively
// deducted at the pending->confirmed transition. Two carts accepted in
// between can both reference the same last unit; the loser finds out at
// confirmation.
func (s *OrderService) Checkout(
	ctx context.Context,
	consumerID int64,
	items []CartItem,
	method order.DeliveryMethod,
) ([]order.Order, error) {
	if consumerID <= 0 {
		return nil, apperr.Validation("consumer id is required")
	}
	if len(items) == 0 {
		return nil, apperr.Validation("cart must contain at least one item")
	}
	if _, err := order.ParseDeliveryMethod(method.String()); err != nil {
		return nil, apperr.Validation("delivery method must be pickup or delivery")
	}

	// Merge duplicate product lines, keeping first-seen order.
	productIds := make([]int64, 0, len(items))
	quantities := make(map[int64]int, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, apperr.Validation("product id is required for every cart item")
		}
		if item.Quantity < 1 {
			return nil, apperr.Validation(fmt.Sprintf("quantity must be at least 1 for product %d", item.ProductID))
		}
		if _, seen := quantities[item.ProductID]; !seen {
			productIds = append(productIds, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	work := s.newUOW()

	var created []order.Order
	err := work.Within(ctx, func(ctx context.Context) error {
		snapshot, err := work.CatalogRepository().GetProductsByIds(ctx, productIds)
		if err != nil {
			return fmt.Errorf("failed to read product snapshot: %w", err)
		}

		groups, err := splitBySeller(productIds, quantities, snapshot)
		if err != nil {
			return err
		}

		now := time.Now()
		orders := make([]order.Order, 0, len(groups))
		for _, g := range groups {
			orders = append(orders, order.Order{
				ConsumerID:      consumerID,
				BusinessID:      g.businessID,
				TotalPriceCents: g.subtotal,
				Status:          order.StatusPending,
				DeliveryMethod:  method,
				PaymentStatus:   order.PaymentStatusPending,
				CreatedAt:       now,
				UpdatedAt:       now,
				OrderItems:      g.items,
			})
		}

		created, err = work.OrderRepository().BulkInsert(ctx, orders)
		if err != nil {
			return fmt.Errorf("failed to insert orders: %w", err)
		}

		allItems := make([]orderitem.OrderItem, 0, len(items))
		for _, o := range created {
			for _, item := range o.OrderItems {
				item.OrderID = o.ID
				item.CreatedAt = now
				item.UpdatedAt = now
				allItems = append(allItems, item)
			}
		}

		inserted, err := work.OrderItemRepository().BulkInsert(ctx, allItems)
		if err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}

		attachItems(created, inserted)

		return nil
	})
	if err != nil {
		s.countCheckout("error")

		return nil, err
	}

	s.countCheckout("ok")
	s.notifyNewOrders(ctx, created)

	return created, nil
}

// sellerGroup is one seller's slice of a validated cart.
type sellerGroup struct {
	businessID int64
	subtotal   int64
	items      []orderitem.OrderItem
}

// splitBySeller validates every requested line against the snapshot and
// partitions the cart by seller. Any failing line fails the whole cart.
func splitBySeller(
	productIds []int64,
	quantities map[int64]int,
	snapshot []product.Product,
) ([]sellerGroup, error) {
	byID := make(map[int64]product.Product, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}

	groupIndex := make(map[int64]int)
	var groups []sellerGroup

	for _, id := range productIds {
		p, ok := byID[id]
		if !ok {
			return nil, apperr.ProductNotFound(id)
		}
		if !p.InStock {
			return nil, apperr.OutOfStock(id)
		}
		qty := quantities[id]
		if qty > p.Quantity {
			return nil, apperr.InsufficientInventory(id, qty, p.Quantity)
		}

		idx, ok := groupIndex[p.BusinessID]
		if !ok {
			idx = len(groups)
			groupIndex[p.BusinessID] = idx
			groups = append(groups, sellerGroup{businessID: p.BusinessID})
		}

		groups[idx].items = append(groups[idx].items, orderitem.OrderItem{
			ProductID:    p.ID,
			Quantity:     qty,
			ProductTitle: p.Title,
			PriceCents:   p.PriceCents,
		})
		groups[idx].subtotal += p.PriceCents * int64(qty)
	}

	return groups, nil
}

// attachItems distributes persisted items back onto their orders.
func attachItems(orders []order.Order, items []orderitem.OrderItem) {
	for i := range orders {
		orders[i].OrderItems = orders[i].OrderItems[:0]
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}
}

// UpdateStatus moves an order along the status state machine, applying
// the edge's inventory side effects in the same transaction as the
// status write. Only the owner of the fulfilling business (or an admin)
// may transition an order.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	ident identity.Identity,
	orderID int64,
	next order.Status,
) (*order.Order, error) {
	if _, err := order.ParseStatus(next.String()); err != nil {
		return nil, apperr.Validation("unknown order status: " + next.String())
	}

	work := s.newUOW()

	var updated *order.Order
	var prev order.Status
	err := work.Within(ctx, func(ctx context.Context) error {
		o, err := work.OrderRepository().GetForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}
		if o == nil {
			return apperr.OrderNotFound(orderID)
		}

		if ident.Role != identity.RoleAdmin {
			owner, err := work.CatalogRepository().GetBusinessOwner(ctx, o.BusinessID)
			if err != nil {
				return fmt.Errorf("failed to resolve business owner: %w", err)
			}
			if owner == 0 || owner != ident.UserID {
				return apperr.Forbidden("only the owning business may update this order")
			}
		}

		if !o.Status.CanTransition(next) {
			return apperr.InvalidStatusTransition(o.Status.String(), next.String())
		}

		items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
			OrderIds: []int64{o.ID},
		})
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		o.OrderItems = items

		switch {
		case o.Status == order.StatusPending && next == order.StatusConfirmed:
			// Authoritative deduction. Any failure aborts the whole
			// transaction, which also undoes deductions applied for
			// earlier items of this order.
			for _, item := range items {
				ok, err := work.InventoryLedger().TryDeduct(ctx, item.ProductID, item.Quantity)
				if err != nil {
					return fmt.Errorf("failed to deduct inventory: %w", err)
				}
				if !ok {
					return apperr.InsufficientInventoryAtConfirm(item.ProductID, item.Quantity)
				}
			}
		case o.Status == order.StatusConfirmed && next == order.StatusCancelled:
			for _, item := range items {
				if err := work.InventoryLedger().Restore(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("failed to restore inventory: %w", err)
				}
			}
		}

		now := time.Now()
		if err := work.OrderRepository().Update(ctx, o.ID, order.UpdateOrderModel{
			Status:    &next,
			UpdatedAt: &now,
		}); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		prev = o.Status
		o.Status = next
		o.UpdatedAt = now
		updated = o

		return nil
	})
	if err != nil {
		s.countTransition(next, "error")

		return nil, err
	}

	s.countTransition(next, "ok")
	s.notifyStatusChanged(ctx, updated, prev)

	return updated, nil
}

// GetOrders retrieves orders visible to the caller, items attached.
func (s *OrderService) GetOrders(
	ctx context.Context,
	ident identity.Identity,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	if filter == nil {
		filter = &order.QueryOrdersModel{}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	work := s.newUOW()

	switch ident.Role {
	case identity.RoleConsumer:
		filter.ConsumerIds = []int64{ident.UserID}
	case identity.RoleBusiness:
		if len(filter.BusinessIds) == 0 {
			return nil, apperr.Validation("businessIds filter is required for business callers")
		}
		for _, businessID := range filter.BusinessIds {
			owner, err := work.CatalogRepository().GetBusinessOwner(ctx, businessID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve business owner: %w", err)
			}
			if owner != ident.UserID {
				return nil, apperr.Forbidden(fmt.Sprintf("business %d is not owned by the caller", businessID))
			}
		}
	case identity.RoleAdmin:
		// Unrestricted.
	default:
		return nil, apperr.Forbidden("unknown role")
	}

	orders, err := work.OrderRepository().Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIds := make([]int64, len(orders))
	for i, o := range orders {
		orderIds[i] = o.ID
	}
	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: orderIds,
	})
	if err != nil {
		return nil, err
	}

	attachItems(orders, items)

	return orders, nil
}

// notifyNewOrders dispatches a NewOrder event per created order to the
// owning business, strictly after commit and best-effort.
func (s *OrderService) notifyNewOrders(ctx context.Context, orders []order.Order) {
	if s.notifier == nil {
		return
	}

	catalog := s.newUOW().CatalogRepository()

	events := make([]notification.Event, 0, len(orders))
	for _, o := range orders {
		owner, err := catalog.GetBusinessOwner(ctx, o.BusinessID)
		if err != nil || owner == 0 {
			slog.Error("failed to resolve notification recipient", "business_id", o.BusinessID, "error", err)

			continue
		}
		event, err := notification.NewOrderEvent(owner, o)
		if err != nil {
			slog.Error("failed to build new order event", "order_id", o.ID, "error", err)

			continue
		}
		events = append(events, event)
	}

	s.dispatch(events)
}

// notifyStatusChanged dispatches a StatusChanged event to the consumer,
// strictly after commit and best-effort.
func (s *OrderService) notifyStatusChanged(ctx context.Context, o *order.Order, prev order.Status) {
	if s.notifier == nil {
		return
	}

	event, err := notification.StatusChangedEvent(o.ConsumerID, o.ID, prev, o.Status)
	if err != nil {
		slog.Error("failed to build status changed event", "order_id", o.ID, "error", err)

		return
	}

	s.dispatch([]notification.Event{event})
}

// dispatch publishes events with bounded concurrency. A failed publish
// is logged and parked in the outbox for the retry worker; it is never
// surfaced to the caller of the committed operation.
func (s *OrderService) dispatch(events []notification.Event) {
	dispatchCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g := new(errgroup.Group)
	g.SetLimit(3)

	for _, event := range events {
		event := event
		g.Go(func() error {
			if err := s.notifier.Publish(dispatchCtx, event); err != nil {
				slog.Error("failed to publish notification", "event_id", event.ID, "type", event.Type, "error", err)
				s.park(dispatchCtx, event)
			}

			return nil
		})
	}

	_ = g.Wait()
}

// park stores an undelivered event in the outbox.
func (s *OrderService) park(ctx context.Context, event notification.Event) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event for outbox", "event_id", event.ID, "error", err)

		return
	}

	now := time.Now()
	msg := outbox.Message{
		QueueName:   notificationrepo.QueueName,
		RoutingKey:  notificationrepo.QueueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  5,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Error("failed to park notification in outbox", "event_id", event.ID, "error", err)
	}
}

func (s *OrderService) countCheckout(result string) {
	if s.metrics != nil {
		s.metrics.Checkouts.WithLabelValues(result).Inc()
	}
}

func (s *OrderService) countTransition(to order.Status, result string) {
	if s.metrics != nil {
		s.metrics.Transitions.WithLabelValues(to.String(), result).Inc()
	}
}
