package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает стадию жизненного цикла заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ожидает оплаты.
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPaid — оплата по заказу получена.
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "SHIPPED"
	// OrderStatusDelivered — заказ доставлен покупателю.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled — заказ отменён.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderStatuses — закрытое множество допустимых статусов.
var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPaid:      {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ParseOrderStatus преобразует строку в OrderStatus.
// Неизвестное значение — ошибка: статус всегда принадлежит закрытому множеству.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if _, ok := orderStatuses[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return status, nil
}

// OrderItem представляет одну позицию заказа.
// Позиция не имеет собственной идентичности вне заказа.
type OrderItem struct {
	// SKU — внешний идентификатор товара.
	SKU string
	// Name — отображаемое название товара.
	Name string
	// Quantity — количество единиц, строго больше нуля.
	Quantity int32
	// UnitPrice — цена за единицу, неотрицательная.
	UnitPrice decimal.Decimal
}

// Order — агрегат заказа. Владеет своими позициями целиком.
type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	// Items хранит позиции в том порядке, в котором их передал клиент.
	Items []OrderItem
	// TotalAmount передаётся клиентом как есть и не сверяется с суммой позиций.
	TotalAmount decimal.Decimal
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
