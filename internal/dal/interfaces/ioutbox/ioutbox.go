package ioutbox

import (
	"context"
	"time"

	"github.com/briansbrian/coshop/order/internal/service/models/outbox"
)

// Repository defines the outbox store for undelivered notifications.
type Repository interface {
	// Insert parks a message for the retry worker.
	Insert(ctx context.Context, msg outbox.Message) error

	// GetPendingMessages retrieves messages that are ready for retry.
	GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error)

	// Delete removes a message after successful delivery.
	Delete(ctx context.Context, id int64) error

	// UpdateRetry records a failed attempt and schedules the next one.
	UpdateRetry(
		ctx context.Context,
		id int64,
		retryCount int,
		lastError string,
		nextRetryAt time.Time,
	) error
}
