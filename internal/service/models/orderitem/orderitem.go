package orderitem

import "time"

// OrderItem represents one distinct product within an order. PriceCents
// is the per-unit price snapshot taken when the order was created and is
// never rewritten, whatever happens to the catalog price later.
type OrderItem struct {
	ID           int64     `json:"id"`
	OrderID      int64     `json:"orderId"`
	ProductID    int64     `json:"productId"`
	Quantity     int       `json:"quantity"`
	ProductTitle string    `json:"productTitle"`
	PriceCents   int64     `json:"priceCents"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
