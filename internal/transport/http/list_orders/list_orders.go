package listorders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/briansbrian/coshop/order/internal/apperr"
	"github.com/briansbrian/coshop/order/internal/service/models/identity"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/transport/http/httperr"
)

// service is an interface for the service layer.
type service interface {
	GetOrders(
		ctx context.Context,
		ident identity.Identity,
		filter *order.QueryOrdersModel,
	) ([]order.Order, error)
}

// parseIntSlice parses a comma-separated query parameter into int64s.
func parseIntSlice(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	result := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}

	return result, nil
}

// parseStatuses parses a comma-separated status filter.
func parseStatuses(s string) ([]order.Status, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	result := make([]order.Status, 0, len(parts))
	for _, part := range parts {
		status, err := order.ParseStatus(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		result = append(result, status)
	}

	return result, nil
}

// ListOrders handles the order listing request.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)

		return
	}

	query := r.URL.Query()

	ids, err := parseIntSlice(query.Get("ids"))
	if err != nil {
		httperr.Write(w, apperr.Validation("ids must be a comma-separated list of integers"))

		return
	}

	businessIds, err := parseIntSlice(query.Get("businessIds"))
	if err != nil {
		httperr.Write(w, apperr.Validation("businessIds must be a comma-separated list of integers"))

		return
	}

	statuses, err := parseStatuses(query.Get("statuses"))
	if err != nil {
		httperr.Write(w, apperr.Validation("statuses contains an unknown order status"))

		return
	}

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	orders, err := service.GetOrders(r.Context(), ident, &order.QueryOrdersModel{
		Ids:         ids,
		BusinessIds: businessIds,
		Statuses:    statuses,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error getting orders", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(orders); err != nil {
		slog.Error("Error sending response", "error", err)
	}
}
