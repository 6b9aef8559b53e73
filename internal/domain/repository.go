package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Идентификатор должен быть уникален.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// Exists проверяет наличие заказа без загрузки агрегата.
	Exists(id string) (bool, error)
	// Update полностью перезаписывает существующий заказ.
	// Возвращает ErrOrderNotFound, если записи нет.
	Update(order Order) error
	// Delete удаляет заказ вместе с позициями.
	// Возвращает ErrOrderNotFound, если записи нет.
	Delete(id string) error
	// List возвращает страницу заказов и общее количество записей.
	List(page, size int) ([]Order, int64, error)
	// ListByStatus возвращает страницу заказов с заданным статусом и их общее количество.
	ListByStatus(status OrderStatus, page, size int) ([]Order, int64, error)
}
