package postgresrepo

import (
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
)

func TestBuildUpdateSetsOnlyProvidedFields(t *testing.T) {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	status := order.StatusConfirmed
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	sql, args, err := buildUpdate(sb, 42, order.UpdateOrderModel{
		Status:    &status,
		UpdatedAt: &now,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql returned error: %v", err)
	}

	if !strings.Contains(sql, "status = $") {
		t.Errorf("missing status assignment: %s", sql)
	}
	if !strings.Contains(sql, "updated_at = $") {
		t.Errorf("missing updated_at assignment: %s", sql)
	}
	if strings.Contains(sql, "payment_status") {
		t.Errorf("unset field leaked into SQL: %s", sql)
	}
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d: %v", len(args), args)
	}
	if args[0] != "confirmed" {
		t.Errorf("first arg = %v, want confirmed", args[0])
	}
	if args[len(args)-1] != int64(42) {
		t.Errorf("last arg = %v, want the order id", args[len(args)-1])
	}
}

func TestBuildUpdatePaymentStatusOnly(t *testing.T) {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	payment := order.PaymentStatusPaid

	sql, args, err := buildUpdate(sb, 7, order.UpdateOrderModel{
		PaymentStatus: &payment,
	}).ToSql()
	if err != nil {
		t.Fatalf("ToSql returned error: %v", err)
	}

	want := "UPDATE orders SET payment_status = $1 WHERE id = $2"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != "paid" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestOrderDalToModelRejectsUnknownEnums(t *testing.T) {
	dal := OrderDal{
		Id:             1,
		Status:         "shipped",
		DeliveryMethod: "pickup",
		PaymentStatus:  "pending",
	}
	if _, err := dal.ToModel(); err == nil {
		t.Error("expected error for unknown status")
	}

	dal.Status = "pending"
	dal.DeliveryMethod = "courier"
	if _, err := dal.ToModel(); err == nil {
		t.Error("expected error for unknown delivery method")
	}

	dal.DeliveryMethod = "delivery"
	dal.PaymentStatus = "chargeback"
	if _, err := dal.ToModel(); err == nil {
		t.Error("expected error for unknown payment status")
	}

	dal.PaymentStatus = "paid"
	model, err := dal.ToModel()
	if err != nil {
		t.Fatalf("ToModel returned error for valid row: %v", err)
	}
	if model.Status != order.StatusPending || model.PaymentStatus != order.PaymentStatusPaid {
		t.Errorf("unexpected model: %+v", model)
	}
}
