package order

import (
	"time"

	"github.com/briansbrian/coshop/order/internal/service/models/orderitem"
)

// Order represents a single seller's share of one checkout.
type Order struct {
	ID              int64                 `json:"id"`
	ConsumerID      int64                 `json:"consumerId"`
	BusinessID      int64                 `json:"businessId"`
	TotalPriceCents int64                 `json:"totalPriceCents"`
	Status          Status                `json:"status"`
	DeliveryMethod  DeliveryMethod        `json:"deliveryMethod"`
	PaymentStatus   PaymentStatus         `json:"paymentStatus"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	OrderItems      []orderitem.OrderItem `json:"orderItems"`
}
