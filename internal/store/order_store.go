package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/order-tracker/internal/model"
)

type orderRow struct {
	ID           int64  `db:"id"`
	OrderNumber  string `db:"order_number"`
	OrderDate    string `db:"order_date"`
	TotalPrice   string `db:"total_price"`
	Status       string `db:"status"`
	EmailAddress string `db:"email_address"`
}

type productRow struct {
	OrderID  int64  `db:"order_id"`
	Title    string `db:"title"`
	Price    string `db:"price"`
	Quantity string `db:"quantity"`
}

type trackingRow struct {
	OrderID        int64  `db:"order_id"`
	TrackingNumber string `db:"tracking_number"`
}

// SaveOrders upserts a batch of orders in one transaction. Saving the
// same ledger twice leaves the database unchanged.
func (s *SQLiteStore) SaveOrders(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO orders (
			order_number, order_date, total_price, status, email_address, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(order_number) DO UPDATE SET
			order_date    = excluded.order_date,
			total_price   = excluded.total_price,
			status        = excluded.status,
			email_address = excluded.email_address,
			updated_at    = excluded.updated_at`

	now := time.Now().UTC()
	for _, o := range orders {
		status := o.Status
		if status == "" {
			status = model.StatusProcessing
		}

		if _, err := tx.ExecContext(ctx, upsert,
			o.OrderNumber, o.OrderDate, o.TotalPrice, string(status), o.EmailAddress, now,
		); err != nil {
			return fmt.Errorf("upserting order %s: %w", o.OrderNumber, err)
		}

		var id int64
		if err := tx.GetContext(ctx, &id,
			"SELECT id FROM orders WHERE order_number = ?", o.OrderNumber,
		); err != nil {
			return fmt.Errorf("reading id of order %s: %w", o.OrderNumber, err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM products WHERE order_id = ?", id); err != nil {
			return fmt.Errorf("clearing products of %s: %w", o.OrderNumber, err)
		}
		for i, p := range o.Products {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO products (order_id, position, title, price, quantity)
				VALUES (?, ?, ?, ?, ?)`,
				id, i, p.Title, p.Price, p.Quantity,
			); err != nil {
				return fmt.Errorf("inserting product of %s: %w", o.OrderNumber, err)
			}
		}

		if len(o.TrackingNumbers) > 0 {
			if _, err := tx.ExecContext(ctx, "DELETE FROM tracking_numbers WHERE order_id = ?", id); err != nil {
				return fmt.Errorf("clearing tracking numbers of %s: %w", o.OrderNumber, err)
			}
		}
		for _, t := range o.TrackingNumbers {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR IGNORE INTO tracking_numbers (order_id, tracking_number)
				VALUES (?, ?)`,
				id, t,
			); err != nil {
				return fmt.Errorf("inserting tracking number of %s: %w", o.OrderNumber, err)
			}
		}
	}

	return tx.Commit()
}

// GetOrders returns every stored order with its products and tracking
// numbers, in insertion order.
func (s *SQLiteStore) GetOrders(ctx context.Context) ([]model.Order, error) {
	var rows []orderRow
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT id, order_number, order_date, total_price, status, email_address
		FROM orders ORDER BY id`,
	); err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}

	var products []productRow
	if err := s.db.SelectContext(ctx, &products, `
		SELECT order_id, title, price, quantity
		FROM products ORDER BY order_id, position, id`,
	); err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}

	var tracking []trackingRow
	if err := s.db.SelectContext(ctx, &tracking, `
		SELECT order_id, tracking_number
		FROM tracking_numbers ORDER BY order_id, id`,
	); err != nil {
		return nil, fmt.Errorf("querying tracking numbers: %w", err)
	}

	byID := make(map[int64]int, len(rows))
	orders := make([]model.Order, 0, len(rows))
	for i, r := range rows {
		byID[r.ID] = i
		orders = append(orders, model.Order{
			OrderNumber:     r.OrderNumber,
			OrderDate:       r.OrderDate,
			TotalPrice:      r.TotalPrice,
			Status:          model.OrderStatus(r.Status),
			EmailAddress:    r.EmailAddress,
			Products:        []model.Product{},
			TrackingNumbers: []string{},
		})
	}

	for _, p := range products {
		if i, ok := byID[p.OrderID]; ok {
			orders[i].Products = append(orders[i].Products, model.Product{
				Title:    p.Title,
				Price:    p.Price,
				Quantity: p.Quantity,
			})
		}
	}
	for _, t := range tracking {
		if i, ok := byID[t.OrderID]; ok {
			orders[i].TrackingNumbers = append(orders[i].TrackingNumbers, t.TrackingNumber)
		}
	}

	return orders, nil
}

// GetSuccessfulOrders reads the successful_orders view.
func (s *SQLiteStore) GetSuccessfulOrders(ctx context.Context) ([]SuccessfulOrder, error) {
	var out []SuccessfulOrder
	if err := s.db.SelectContext(ctx, &out, `
		SELECT order_number, order_date, total_price, status, email_address,
			titles, quantities, tracking
		FROM successful_orders ORDER BY order_number`,
	); err != nil {
		return nil, fmt.Errorf("querying successful orders: %w", err)
	}
	return out, nil
}

// OrderSummary counts stored orders by outcome.
func (s *SQLiteStore) OrderSummary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.GetContext(ctx, &sum, `
		SELECT
			COUNT(DISTINCT order_number) AS unique_orders,
			COALESCE(SUM(CASE WHEN status = 'Shipped' THEN 1 ELSE 0 END), 0) AS shipped,
			COALESCE(SUM(CASE WHEN status = 'Cancelled' THEN 1 ELSE 0 END), 0) AS cancelled,
			(SELECT COUNT(*) FROM tracking_numbers) AS tracking_numbers
		FROM orders`)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing orders: %w", err)
	}
	return sum, nil
}
