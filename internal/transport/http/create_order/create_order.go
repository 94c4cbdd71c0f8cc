package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/briansbrian/coshop/order/internal/apperr"
	"github.com/briansbrian/coshop/order/internal/service/models/identity"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/service/services/ordersvc"
	"github.com/briansbrian/coshop/order/internal/transport/http/httperr"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	Checkout(
		ctx context.Context,
		consumerID int64,
		items []ordersvc.CartItem,
		method order.DeliveryMethod,
	) ([]order.Order, error)
}

// itemInCreateOrderRequest represents one cart line.
type itemInCreateOrderRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity"  validate:"gte=1"`
}

// createOrderRequest represents a checkout request.
type createOrderRequest struct {
	Items          []itemInCreateOrderRequest `json:"items"          validate:"required,min=1,dive"`
	DeliveryMethod string                     `json:"deliveryMethod" validate:"required"`
}

// Validate validates the checkout request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// CreateOrder handles the checkout request: one cart in, one order per
// seller out.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)

		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, apperr.Validation("failed to decode request body"))
		slog.Error("Error decoding request body for checkout", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		httperr.Write(w, apperr.Validation(err.Error()))
		slog.Error("Error validating request body for checkout", "error", err)

		return
	}

	method, err := order.ParseDeliveryMethod(req.DeliveryMethod)
	if err != nil {
		httperr.Write(w, apperr.Validation("delivery method must be pickup or delivery"))

		return
	}

	items := make([]ordersvc.CartItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = ordersvc.CartItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	orders, err := service.Checkout(r.Context(), ident.UserID, items, method)
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error performing checkout", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending response for checkout", "error", err)
	}
}
