package notification

import (
	"encoding/json"
	"time"

	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/google/uuid"
)

// EventType identifies what happened to an order.
type EventType string

const (
	EventTypeNewOrder      EventType = "new_order"
	EventTypeStatusChanged EventType = "status_changed"
)

// Event is the at-most-once, best-effort signal emitted to the external
// notification collaborator after a commit. Delivery failures never fail
// the committed operation.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	Type        EventType       `json:"type"`
	RecipientID int64           `json:"recipientId"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewOrderPayload announces a freshly created order to the owning business.
type NewOrderPayload struct {
	OrderID         int64  `json:"orderId"`
	BusinessID      int64  `json:"businessId"`
	ConsumerID      int64  `json:"consumerId"`
	TotalPriceCents int64  `json:"totalPriceCents"`
	DeliveryMethod  string `json:"deliveryMethod"`
}

// StatusChangedPayload announces a status transition to the consumer.
type StatusChangedPayload struct {
	OrderID   int64  `json:"orderId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
}

// NewOrderEvent builds a NewOrder event addressed to the business owner.
func NewOrderEvent(recipientID int64, o order.Order) (Event, error) {
	payload, err := json.Marshal(NewOrderPayload{
		OrderID:         o.ID,
		BusinessID:      o.BusinessID,
		ConsumerID:      o.ConsumerID,
		TotalPriceCents: o.TotalPriceCents,
		DeliveryMethod:  o.DeliveryMethod.String(),
	})
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:          uuid.New(),
		Type:        EventTypeNewOrder,
		RecipientID: recipientID,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}, nil
}

// StatusChangedEvent builds a StatusChanged event addressed to the consumer.
func StatusChangedEvent(recipientID int64, orderID int64, from, to order.Status) (Event, error) {
	payload, err := json.Marshal(StatusChangedPayload{
		OrderID:   orderID,
		OldStatus: from.String(),
		NewStatus: to.String(),
	})
	if err != nil {
		return Event{}, err
	}

	return Event{
		ID:          uuid.New(),
		Type:        EventTypeStatusChanged,
		RecipientID: recipientID,
		Payload:     payload,
		CreatedAt:   time.Now(),
	}, nil
}
