package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/domain"
	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

const (
	// DefaultPage — номер страницы по умолчанию.
	DefaultPage = 0
	// DefaultPageSize — размер страницы по умолчанию.
	DefaultPageSize = 10
)

// Service владеет инвариантами заказа: валидирует запросы, отображает их
// на агрегат, выполняет переходы статусов и переводит ошибки хранилища
// в типизированные результаты.
type Service struct {
	repo    domain.OrderRepository
	metrics *metrics.OrderMetrics
	logger  *log.Entry
}

// NewService конструирует сервис с явными зависимостями.
// metrics может быть nil — тогда счётчики не ведутся.
func NewService(repo domain.OrderRepository, m *metrics.OrderMetrics, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		repo:    repo,
		metrics: m,
		logger:  logger,
	}
}

// Create валидирует запрос, собирает новый заказ с новым идентификатором
// и начальным статусом и сохраняет его.
func (s *Service) Create(req OrderRequest) (OrderResponse, error) {
	if err := validateRequest(req); err != nil {
		return OrderResponse{}, err
	}

	now := time.Now().UTC()
	order := newOrder(req, uuid.NewString(), now)

	if err := s.repo.Create(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to create order")
		return OrderResponse{}, fmt.Errorf("create order: %w", err)
	}

	s.metrics.RecordOrderCreated()
	return toResponse(order), nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (OrderResponse, error) {
	order, err := s.loadOrder(id, "Get")
	if err != nil {
		return OrderResponse{}, err
	}
	return toResponse(order), nil
}

// List возвращает страницу заказов, опционально отфильтрованную по статусу.
// statusFilter == "" означает отсутствие фильтра. Страница за пределами
// данных — пустой результат, не ошибка.
func (s *Service) List(statusFilter string, page, size int) (PageResponse, error) {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	var (
		orders []domain.Order
		total  int64
		err    error
	)

	if statusFilter == "" {
		orders, total, err = s.repo.List(page, size)
	} else {
		var status domain.OrderStatus
		status, err = domain.ParseOrderStatus(statusFilter)
		if err != nil {
			ve := domain.NewValidationError()
			ve.Add("status", "must be one of PENDING, PAID, SHIPPED, DELIVERED, CANCELLED")
			return PageResponse{}, ve
		}
		orders, total, err = s.repo.ListByStatus(status, page, size)
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders")
		return PageResponse{}, fmt.Errorf("list orders: %w", err)
	}

	content := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		content = append(content, toResponse(order))
	}

	return PageResponse{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages(total, size),
		Page:          page,
		Size:          size,
	}, nil
}

// Update валидирует запрос и полностью заменяет изменяемые поля заказа.
// Идентификатор, момент создания и статус сохраняются.
func (s *Service) Update(id string, req OrderRequest) (OrderResponse, error) {
	if err := validateRequest(req); err != nil {
		return OrderResponse{}, err
	}

	order, err := s.loadOrder(id, "Update")
	if err != nil {
		return OrderResponse{}, err
	}

	applyRequest(&order, req, time.Now().UTC())

	if err := s.saveOrder(order, "Update"); err != nil {
		return OrderResponse{}, err
	}

	s.metrics.RecordOrderUpdated()
	return toResponse(order), nil
}

// UpdateStatus переводит заказ в новый статус. Граф переходов не
// ограничен: любой статус достижим из любого.
func (s *Service) UpdateStatus(id, newStatus string) (OrderResponse, error) {
	status, err := domain.ParseOrderStatus(newStatus)
	if err != nil {
		ve := domain.NewValidationError()
		ve.Add("status", "must be one of PENDING, PAID, SHIPPED, DELIVERED, CANCELLED")
		return OrderResponse{}, ve
	}

	order, err := s.loadOrder(id, "UpdateStatus")
	if err != nil {
		return OrderResponse{}, err
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(order, "UpdateStatus"); err != nil {
		return OrderResponse{}, err
	}

	s.metrics.RecordStatusTransition(string(status))
	return toResponse(order), nil
}

// Delete удаляет заказ. Перед удалением выполняется явная проверка
// существования, чтобы отсутствие записи было ошибкой, а не no-op.
func (s *Service) Delete(id string) error {
	exists, err := s.repo.Exists(id)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to check order existence")
		return fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return domain.NotFound(id)
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.NotFound(id)
		}
		s.logger.WithError(err).WithField("order_id", id).Error("failed to delete order")
		return fmt.Errorf("delete order: %w", err)
	}

	s.metrics.RecordOrderDeleted()
	return nil
}

func (s *Service) loadOrder(id, operation string) (domain.Order, error) {
	order, err := s.repo.Get(id)
	if err == nil {
		return order, nil
	}

	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, domain.NotFound(id)
	}

	s.logger.WithError(err).WithFields(log.Fields{
		"operation": operation,
		"order_id":  id,
	}).Error("failed to load order")
	return domain.Order{}, fmt.Errorf("load order: %w", err)
}

func (s *Service) saveOrder(order domain.Order, operation string) error {
	if err := s.repo.Update(order); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.NotFound(order.ID)
		}
		s.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"order_id":  order.ID,
		}).Error("failed to save order")
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func totalPages(total int64, size int) int {
	if total == 0 {
		return 0
	}
	pages := total / int64(size)
	if total%int64(size) != 0 {
		pages++
	}
	return int(pages)
}
