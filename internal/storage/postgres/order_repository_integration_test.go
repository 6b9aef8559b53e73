package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

func integrationOrder() domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Order{
		ID:            uuid.NewString(),
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Items: []domain.OrderItem{
			{SKU: "A1", Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
			{SKU: "B2", Name: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
		},
		TotalAmount: decimal.RequireFromString("24.98"),
		Status:      domain.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestOrderRepositoryIntegration_CreateGet(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder()
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if stored.CustomerName != order.CustomerName {
		t.Fatalf("expected customer %s, got %s", order.CustomerName, stored.CustomerName)
	}
	if stored.Status != domain.OrderStatusPending {
		t.Fatalf("expected status PENDING, got %s", stored.Status)
	}
	if !stored.TotalAmount.Equal(order.TotalAmount) {
		t.Fatalf("expected total %s, got %s", order.TotalAmount, stored.TotalAmount)
	}
	// Порядок позиций сохраняется.
	if len(stored.Items) != 2 || stored.Items[0].SKU != "A1" || stored.Items[1].SKU != "B2" {
		t.Fatalf("unexpected items: %+v", stored.Items)
	}
}

func TestOrderRepositoryIntegration_CreateDuplicate(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder()
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(order); !errors.Is(err, domain.ErrOrderAlreadyExists) {
		t.Fatalf("expected ErrOrderAlreadyExists, got %v", err)
	}
}

func TestOrderRepositoryIntegration_Update(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder()
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	order.CustomerName = "John Smith"
	order.Items = []domain.OrderItem{
		{SKU: "C3", Name: "Gizmo", Quantity: 3, UnitPrice: decimal.RequireFromString("1.50")},
	}
	order.TotalAmount = decimal.RequireFromString("4.50")
	order.Status = domain.OrderStatusShipped
	order.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

	if err := repo.Update(order); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.CustomerName != "John Smith" {
		t.Fatalf("expected updated name, got %s", stored.CustomerName)
	}
	if stored.Status != domain.OrderStatusShipped {
		t.Fatalf("expected status SHIPPED, got %s", stored.Status)
	}
	if len(stored.Items) != 1 || stored.Items[0].SKU != "C3" {
		t.Fatalf("expected replaced items, got %+v", stored.Items)
	}
}

func TestOrderRepositoryIntegration_UpdateMissing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder()
	if err := repo.Update(order); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepositoryIntegration_ExistsDelete(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	order := integrationOrder()
	if err := repo.Create(order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	exists, err := repo.Exists(order.ID)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected order to exist")
	}

	if err := repo.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on repeated delete, got %v", err)
	}

	exists, err = repo.Exists(order.ID)
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatal("expected order to be gone")
	}
}

func TestOrderRepositoryIntegration_ListItemsPerOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	first := integrationOrder()
	first.Items = []domain.OrderItem{
		{SKU: "A1", Name: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
		{SKU: "A2", Name: "Widget Pro", Quantity: 1, UnitPrice: decimal.RequireFromString("19.99")},
	}
	second := integrationOrder()
	second.Items = []domain.OrderItem{
		{SKU: "B1", Name: "Gadget", Quantity: 5, UnitPrice: decimal.RequireFromString("2.00")},
	}
	third := integrationOrder()
	third.Items = []domain.OrderItem{}

	for _, order := range []domain.Order{first, second, third} {
		if err := repo.Create(order); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	orders, total, err := repo.List(0, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(orders) != 3 {
		t.Fatalf("expected 3 orders, got total=%d len=%d", total, len(orders))
	}

	// Каждый заказ получает свои позиции в порядке position.
	byID := make(map[string]domain.Order, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
	}
	got := byID[first.ID]
	if len(got.Items) != 2 || got.Items[0].SKU != "A1" || got.Items[1].SKU != "A2" {
		t.Fatalf("unexpected items for first order: %+v", got.Items)
	}
	got = byID[second.ID]
	if len(got.Items) != 1 || got.Items[0].SKU != "B1" {
		t.Fatalf("unexpected items for second order: %+v", got.Items)
	}
	got = byID[third.ID]
	if got.Items == nil || len(got.Items) != 0 {
		t.Fatalf("expected empty item slice for third order, got %+v", got.Items)
	}
}

func TestOrderRepositoryIntegration_ListByStatus(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	statuses := []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusShipped,
		domain.OrderStatusShipped,
		domain.OrderStatusPaid,
	}
	for _, status := range statuses {
		order := integrationOrder()
		order.Status = status
		if err := repo.Create(order); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	shipped, total, err := repo.ListByStatus(domain.OrderStatusShipped, 0, 10)
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 2 || len(shipped) != 2 {
		t.Fatalf("expected 2 shipped orders, got total=%d len=%d", total, len(shipped))
	}
	for _, order := range shipped {
		if order.Status != domain.OrderStatusShipped {
			t.Fatalf("unexpected status %s", order.Status)
		}
	}

	all, total, err := repo.List(0, 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected total 4, got %d", total)
	}
	if len(all) != 2 {
		t.Fatalf("expected page of 2, got %d", len(all))
	}
}
