package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/orders/internal/domain"
)

const opTimeout = 5 * time.Second

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_name, customer_email, total_amount, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		order.ID, order.CustomerName, order.CustomerEmail, order.TotalAmount,
		string(order.Status), order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	if err = insertItemsTx(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Строка заказа и позиции читаются в одной транзакции,
	// чтобы конкурентное обновление не разорвало агрегат.
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin read tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var order domain.Order
	var status string

	err = tx.QueryRowContext(ctx, `
		SELECT id, customer_name, customer_email, total_amount, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerName, &order.CustomerEmail, &order.TotalAmount,
		&status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	itemsByOrder, err := loadItemsTx(ctx, tx, []string{order.ID})
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = itemsByOrder[order.ID]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}

	if err := tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("commit read tx: %w", err)
	}

	return order, nil
}

func (r *orderRepository) Exists(id string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var exists bool
	if err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)
	`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check order exists: %w", err)
	}
	return exists, nil
}

func (r *orderRepository) Update(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET customer_name = $1,
		    customer_email = $2,
		    total_amount = $3,
		    status = $4,
		    updated_at = $5
		WHERE id = $6
	`,
		order.CustomerName, order.CustomerEmail, order.TotalAmount,
		string(order.Status), order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = domain.ErrOrderNotFound
		return err
	}

	// Позиции заменяются целиком вместе с заказом.
	if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if err = insertItemsTx(ctx, tx, order.ID, order.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update order: %w", err)
	}

	return nil
}

func (r *orderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) List(page, size int) ([]domain.Order, int64, error) {
	return r.list(``, nil, page, size)
}

func (r *orderRepository) ListByStatus(status domain.OrderStatus, page, size int) ([]domain.Order, int64, error) {
	return r.list(`WHERE status = $3`, []any{string(status)}, page, size)
}

// list выполняет выборку страницы и подсчёт общего количества.
// Чтение идёт в одной read-only транзакции: счётчик, строки заказов и
// позиции видят один и тот же снимок данных.
// where может ссылаться на args начиная с плейсхолдера $3.
func (r *orderRepository) list(where string, args []any, page, size int) ([]domain.Order, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin read tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	countQuery := `SELECT COUNT(*) FROM orders`
	if where != "" {
		// В COUNT нет limit/offset, поэтому единственный аргумент — статус.
		countQuery = `SELECT COUNT(*) FROM orders WHERE status = $1`
	}

	var total int64
	if err := tx.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, customer_name, customer_email, total_amount, status, created_at, updated_at
		FROM orders
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, where)

	queryArgs := append([]any{size, page * size}, args...)
	rows, err := tx.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, size)
	for rows.Next() {
		var order domain.Order
		var status string
		if err := rows.Scan(
			&order.ID, &order.CustomerName, &order.CustomerEmail, &order.TotalAmount,
			&status, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	if len(orders) > 0 {
		ids := make([]string, 0, len(orders))
		for _, order := range orders {
			ids = append(ids, order.ID)
		}
		itemsByOrder, err := loadItemsTx(ctx, tx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range orders {
			orders[i].Items = itemsByOrder[orders[i].ID]
			if orders[i].Items == nil {
				orders[i].Items = []domain.OrderItem{}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit read tx: %w", err)
	}

	return orders, total, nil
}

// loadItemsTx загружает позиции сразу для всех перечисленных заказов
// одним запросом, сохраняя порядок позиций внутри каждого заказа.
func loadItemsTx(ctx context.Context, tx *sql.Tx, orderIDs []string) (map[string][]domain.OrderItem, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT order_id, sku, name, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position ASC
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	itemsByOrder := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.SKU, &item.Name, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		itemsByOrder[orderID] = append(itemsByOrder[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return itemsByOrder, nil
}

// insertItemsTx вставляет позиции, сохраняя порядок через position.
func insertItemsTx(ctx context.Context, tx *sql.Tx, orderID string, items []domain.OrderItem) error {
	for position, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, sku, name, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6)
		`,
			orderID, position, item.SKU, item.Name, item.Quantity, item.UnitPrice,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
