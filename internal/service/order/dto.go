package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemPayload — позиция заказа во внешнем представлении.
// Используется и в запросах, и в ответах.
type OrderItemPayload struct {
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
	// UnitPrice — указатель, чтобы отличать отсутствующую цену от нулевой.
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

// OrderRequest — входной запрос на создание или полную замену заказа.
type OrderRequest struct {
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	Items         []OrderItemPayload `json:"items"`
	// TotalAmount — указатель, чтобы отличать отсутствующее поле от нуля.
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

// StatusUpdateRequest — запрос на частичное изменение: только статус.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderResponse — внешнее представление заказа.
type OrderResponse struct {
	ID            string             `json:"id"`
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	Items         []OrderItemPayload `json:"items"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	Status        string             `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// PageResponse — страница заказов с метаданными пагинации.
type PageResponse struct {
	Content       []OrderResponse `json:"content"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
}
