package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

// orderRepositoryInMemory — in-memory реализация OrderRepository
// для локальной разработки и тестов.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает пустой in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет новый заказ, если ID ещё не занят.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.ErrOrderAlreadyExists
	}
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// Exists проверяет наличие заказа.
func (r *orderRepositoryInMemory) Exists(id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[id]
	return ok, nil
}

// Update перезаписывает существующий заказ целиком.
func (r *orderRepositoryInMemory) Update(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[order.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Delete удаляет заказ вместе с позициями.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

// List возвращает страницу всех заказов и общее количество.
func (r *orderRepositoryInMemory) List(page, size int) ([]domain.Order, int64, error) {
	return r.listFiltered(func(domain.Order) bool { return true }, page, size)
}

// ListByStatus возвращает страницу заказов с заданным статусом.
func (r *orderRepositoryInMemory) ListByStatus(status domain.OrderStatus, page, size int) ([]domain.Order, int64, error) {
	return r.listFiltered(func(order domain.Order) bool { return order.Status == status }, page, size)
}

func (r *orderRepositoryInMemory) listFiltered(keep func(domain.Order) bool, page, size int) ([]domain.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if keep(order) {
			matched = append(matched, order)
		}
	}

	// Стабильный порядок: новые заказы первыми, ID как tie-breaker.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))

	start := page * size
	if start >= len(matched) {
		return []domain.Order{}, total, nil
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	result := make([]domain.Order, 0, end-start)
	for _, order := range matched[start:end] {
		result = append(result, cloneOrder(order))
	}
	return result, total, nil
}

// cloneOrder копирует агрегат, чтобы избежать мутаций извне через слайс позиций.
func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
