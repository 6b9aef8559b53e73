package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists возвращается при попытке сохранить заказ с занятым идентификатором.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrUnknownStatus возвращается при попытке использовать статус вне закрытого множества.
	ErrUnknownStatus = errors.New("unknown order status")
)

// NotFound оборачивает ErrOrderNotFound, добавляя идентификатор заказа в сообщение.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// ValidationError описывает ошибки валидации входного запроса.
// Fields — отображение "имя поля → сообщение"; именно в таком виде
// ошибка отдаётся клиенту на границе HTTP.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создаёт ошибку с пустым набором полей.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add фиксирует замечание по полю. Первое замечание по полю не перезаписывается.
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}

// Empty сообщает, что замечаний нет.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation извлекает ValidationError из цепочки ошибок.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
