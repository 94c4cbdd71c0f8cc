package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/briansbrian/coshop/order/internal/apperr"
	"github.com/briansbrian/coshop/order/internal/service/models/identity"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/transport/http/httperr"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	UpdateStatus(
		ctx context.Context,
		ident identity.Identity,
		orderID int64,
		next order.Status,
	) (*order.Order, error)
}

// updateStatusRequest represents a status transition request.
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Validate validates the status transition request.
func (r *updateStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

// UpdateStatus handles the status transition request.
func UpdateStatus(w http.ResponseWriter, r *http.Request, service service) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)

		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || orderID <= 0 {
		httperr.Write(w, apperr.Validation("order id must be a positive integer"))

		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, apperr.Validation("failed to decode request body"))
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		httperr.Write(w, apperr.Validation(err.Error()))

		return
	}

	next, err := order.ParseStatus(req.Status)
	if err != nil {
		httperr.Write(w, apperr.Validation("unknown order status: "+req.Status))

		return
	}

	updated, err := service.UpdateStatus(r.Context(), ident, orderID, next)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error updating order status", "order_id", orderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(updated); err != nil {
		slog.Error("Error sending response for status update", "error", err)
	}
}
