package ordersvc

import (
	"context"
	"sync"
	"time"

	"github.com/briansbrian/coshop/order/internal/dal/interfaces/icatalog"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iinventory"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iorder"
	"github.com/briansbrian/coshop/order/internal/dal/interfaces/iorderitem"
	"github.com/briansbrian/coshop/order/internal/service/models/notification"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/service/models/orderitem"
	"github.com/briansbrian/coshop/order/internal/service/models/outbox"
	"github.com/briansbrian/coshop/order/internal/service/models/product"
)

// fakeStore is the shared in-memory backing state of one test. Within
// holds the store mutex for the whole transaction, mirroring the
// row-level serialization FOR UPDATE gives the real repositories, and
// restores a snapshot on error to mirror a rollback.
type fakeStore struct {
	mu       sync.Mutex
	products map[int64]product.Product
	owners   map[int64]int64
	orders   map[int64]order.Order
	items    map[int64]orderitem.OrderItem

	nextOrderID int64
	nextItemID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[int64]product.Product),
		owners:   make(map[int64]int64),
		orders:   make(map[int64]order.Order),
		items:    make(map[int64]orderitem.OrderItem),
	}
}

type storeSnapshot struct {
	products map[int64]product.Product
	orders   map[int64]order.Order
	items    map[int64]orderitem.OrderItem

	nextOrderID int64
	nextItemID  int64
}

func (st *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		products:    make(map[int64]product.Product, len(st.products)),
		orders:      make(map[int64]order.Order, len(st.orders)),
		items:       make(map[int64]orderitem.OrderItem, len(st.items)),
		nextOrderID: st.nextOrderID,
		nextItemID:  st.nextItemID,
	}
	for k, v := range st.products {
		snap.products[k] = v
	}
	for k, v := range st.orders {
		snap.orders[k] = v
	}
	for k, v := range st.items {
		snap.items[k] = v
	}

	return snap
}

func (st *fakeStore) restore(snap storeSnapshot) {
	st.products = snap.products
	st.orders = snap.orders
	st.items = snap.items
	st.nextOrderID = snap.nextOrderID
	st.nextItemID = snap.nextItemID
}

type fakeUOW struct {
	store *fakeStore
}

func (u *fakeUOW) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(ctx); err != nil {
		u.store.restore(snap)

		return err
	}

	return nil
}

func (u *fakeUOW) OrderRepository() iorder.Repository {
	return &fakeOrderRepo{store: u.store}
}

func (u *fakeUOW) OrderItemRepository() iorderitem.Repository {
	return &fakeOrderItemRepo{store: u.store}
}

func (u *fakeUOW) CatalogRepository() icatalog.Repository {
	return &fakeCatalogRepo{store: u.store}
}

func (u *fakeUOW) InventoryLedger() iinventory.Ledger {
	return &fakeInventoryLedger{store: u.store}
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) BulkInsert(_ context.Context, orders []order.Order) ([]order.Order, error) {
	out := make([]order.Order, len(orders))
	for i, o := range orders {
		r.store.nextOrderID++
		o.ID = r.store.nextOrderID

		stored := o
		stored.OrderItems = nil
		r.store.orders[o.ID] = stored

		out[i] = o
	}

	return out, nil
}

func (r *fakeOrderRepo) GetForUpdate(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}

	return &o, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, id int64, upd order.UpdateOrderModel) error {
	o, ok := r.store.orders[id]
	if !ok {
		return nil
	}
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	if upd.PaymentStatus != nil {
		o.PaymentStatus = *upd.PaymentStatus
	}
	if upd.UpdatedAt != nil {
		o.UpdatedAt = *upd.UpdatedAt
	}
	r.store.orders[id] = o

	return nil
}

func (r *fakeOrderRepo) Query(_ context.Context, filter *order.QueryOrdersModel) ([]order.Order, error) {
	var out []order.Order
	for _, o := range r.store.orders {
		if matchesOrderFilter(o, filter) {
			out = append(out, o)
		}
	}
	// Deterministic order for assertions.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func matchesOrderFilter(o order.Order, filter *order.QueryOrdersModel) bool {
	if len(filter.Ids) > 0 && !containsInt64(filter.Ids, o.ID) {
		return false
	}
	if len(filter.ConsumerIds) > 0 && !containsInt64(filter.ConsumerIds, o.ConsumerID) {
		return false
	}
	if len(filter.BusinessIds) > 0 && !containsInt64(filter.BusinessIds, o.BusinessID) {
		return false
	}
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			if s == o.Status {
				found = true

				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func containsInt64(haystack []int64, needle int64) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}

	return false
}

type fakeOrderItemRepo struct {
	store *fakeStore
}

func (r *fakeOrderItemRepo) BulkInsert(_ context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error) {
	out := make([]orderitem.OrderItem, len(items))
	for i, item := range items {
		r.store.nextItemID++
		item.ID = r.store.nextItemID
		r.store.items[item.ID] = item
		out[i] = item
	}

	return out, nil
}

func (r *fakeOrderItemRepo) Query(_ context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error) {
	var out []orderitem.OrderItem
	for _, item := range r.store.items {
		if len(filter.OrderIds) > 0 && !containsInt64(filter.OrderIds, item.OrderID) {
			continue
		}
		if len(filter.ProductIds) > 0 && !containsInt64(filter.ProductIds, item.ProductID) {
			continue
		}
		out = append(out, item)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}

	return out, nil
}

type fakeCatalogRepo struct {
	store *fakeStore
}

func (r *fakeCatalogRepo) GetProductsByIds(_ context.Context, ids []int64) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		p, ok := r.store.products[id]
		if !ok {
			continue
		}
		p.InStock = p.Quantity > 0
		out = append(out, p)
	}

	return out, nil
}

func (r *fakeCatalogRepo) GetBusinessOwner(_ context.Context, businessID int64) (int64, error) {
	return r.store.owners[businessID], nil
}

type fakeInventoryLedger struct {
	store *fakeStore
}

func (l *fakeInventoryLedger) TryDeduct(_ context.Context, productID int64, qty int) (bool, error) {
	p, ok := l.store.products[productID]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	l.store.products[productID] = p

	return true, nil
}

func (l *fakeInventoryLedger) Restore(_ context.Context, productID int64, qty int) error {
	p, ok := l.store.products[productID]
	if !ok {
		return nil
	}
	p.Quantity += qty
	l.store.products[productID] = p

	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	err    error
	events []notification.Event
}

func (n *fakeNotifier) Publish(_ context.Context, event notification.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)

	return nil
}

func (n *fakeNotifier) published() []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]notification.Event(nil), n.events...)
}

type fakeOutboxRepo struct {
	mu       sync.Mutex
	messages []outbox.Message
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]outbox.Message(nil), r.messages...), nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, _ int64) error {
	return nil
}

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}
