package order

import "time"

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Ids         []int64  `json:"ids,omitempty"`
	ConsumerIds []int64  `json:"consumerIds,omitempty"`
	BusinessIds []int64  `json:"businessIds,omitempty"`
	Statuses    []Status `json:"statuses,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	Offset      int      `json:"offset,omitempty"`
}

// UpdateOrderModel is a typed partial update. Nil fields are left
// untouched; the persistence layer translates set fields into a single
// parameterized UPDATE.
type UpdateOrderModel struct {
	Status        *Status
	PaymentStatus *PaymentStatus
	UpdatedAt     *time.Time
}

// Empty reports whether the update would change nothing.
func (u UpdateOrderModel) Empty() bool {
	return u.Status == nil && u.PaymentStatus == nil && u.UpdatedAt == nil
}
