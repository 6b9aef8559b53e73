package order

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// validateRequest проверяет форму входного запроса до любого обращения к хранилищу.
// Возвращает nil, если замечаний нет.
func validateRequest(req OrderRequest) error {
	ve := domain.NewValidationError()

	if strings.TrimSpace(req.CustomerName) == "" {
		ve.Add("customerName", "must not be blank")
	}

	if email := strings.TrimSpace(req.CustomerEmail); email == "" {
		ve.Add("customerEmail", "must not be blank")
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		// Поле принимает голый адрес; формы с display name отклоняются.
		ve.Add("customerEmail", "must be a valid email address")
	}

	if req.Items == nil {
		ve.Add("items", "must not be null")
	}
	for idx, item := range req.Items {
		if strings.TrimSpace(item.SKU) == "" {
			ve.Add(fmt.Sprintf("items[%d].sku", idx), "must not be blank")
		}
		if strings.TrimSpace(item.Name) == "" {
			ve.Add(fmt.Sprintf("items[%d].name", idx), "must not be blank")
		}
		if item.Quantity <= 0 {
			ve.Add(fmt.Sprintf("items[%d].quantity", idx), "must be greater than 0")
		}
		if item.UnitPrice == nil {
			ve.Add(fmt.Sprintf("items[%d].unitPrice", idx), "must not be null")
		} else if item.UnitPrice.IsNegative() {
			ve.Add(fmt.Sprintf("items[%d].unitPrice", idx), "must be non-negative")
		}
	}

	if req.TotalAmount == nil {
		ve.Add("totalAmount", "must not be null")
	} else if req.TotalAmount.IsNegative() {
		ve.Add("totalAmount", "must be non-negative")
	}

	if ve.Empty() {
		return nil
	}
	return ve
}
