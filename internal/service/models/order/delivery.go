package order

import (
	"database/sql/driver"
	"errors"
)

// DeliveryMethod is how the consumer receives the order.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"
)

var ErrInvalidDeliveryMethod = errors.New("invalid delivery method")

func (d DeliveryMethod) String() string {
	return string(d)
}

func (d DeliveryMethod) Value() (driver.Value, error) {
	return d.String(), nil
}

func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch DeliveryMethod(s) {
	case DeliveryMethodPickup, DeliveryMethodDelivery:
		return DeliveryMethod(s), nil
	default:
		return "", ErrInvalidDeliveryMethod
	}
}

// PaymentStatus tracks payment state as reported by the (out of scope)
// payment collaborator. The order core only ever writes "pending".
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var ErrInvalidPaymentStatus = errors.New("invalid payment status")

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) Value() (driver.Value, error) {
	return p.String(), nil
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded:
		return PaymentStatus(s), nil
	default:
		return "", ErrInvalidPaymentStatus
	}
}
