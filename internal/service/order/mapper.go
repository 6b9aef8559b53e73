package order

import (
	"time"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// newOrder собирает новый агрегат из валидного запроса.
// Статус всегда начальный, обе временные метки совпадают.
func newOrder(req OrderRequest, id string, now time.Time) domain.Order {
	return domain.Order{
		ID:            id,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         toDomainItems(req.Items),
		TotalAmount:   *req.TotalAmount,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// applyRequest полностью заменяет изменяемые поля существующего заказа.
// Идентификатор, статус и момент создания сохраняются.
func applyRequest(order *domain.Order, req OrderRequest, now time.Time) {
	order.CustomerName = req.CustomerName
	order.CustomerEmail = req.CustomerEmail
	order.Items = toDomainItems(req.Items)
	order.TotalAmount = *req.TotalAmount
	order.UpdatedAt = now
}

// toResponse переводит агрегат во внешнее представление без потери полей.
func toResponse(order domain.Order) OrderResponse {
	items := make([]OrderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		price := item.UnitPrice
		items = append(items, OrderItemPayload{
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: &price,
		})
	}

	return OrderResponse{
		ID:            order.ID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Items:         items,
		TotalAmount:   order.TotalAmount,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func toDomainItems(payload []OrderItemPayload) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(payload))
	for _, item := range payload {
		items = append(items, domain.OrderItem{
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: *item.UnitPrice,
		})
	}
	return items
}
