package store

import (
	"context"

	"github.com/nhle/order-tracker/internal/model"
)

// Summary aggregates the stored orders.
type Summary struct {
	UniqueOrders    int `db:"unique_orders"`
	Shipped         int `db:"shipped"`
	Cancelled       int `db:"cancelled"`
	TrackingNumbers int `db:"tracking_numbers"`
}

// SuccessfulOrder is one row of the successful_orders view: a
// non-cancelled order with its products and tracking flattened.
type SuccessfulOrder struct {
	OrderNumber  string `db:"order_number"`
	OrderDate    string `db:"order_date"`
	TotalPrice   string `db:"total_price"`
	Status       string `db:"status"`
	EmailAddress string `db:"email_address"`
	Titles       string `db:"titles"`
	Quantities   string `db:"quantities"`
	Tracking     string `db:"tracking"`
}

// Store defines the persistence interface for reconciled orders,
// collected codes and run history.
type Store interface {
	// SaveOrders upserts orders by order number. Products are replaced.
	// A non-empty tracking set replaces the stored one; an empty set
	// keeps it.
	SaveOrders(ctx context.Context, orders []model.Order) error
	GetOrders(ctx context.Context) ([]model.Order, error)
	GetSuccessfulOrders(ctx context.Context) ([]SuccessfulOrder, error)
	OrderSummary(ctx context.Context) (Summary, error)

	// SaveXboxCodes inserts codes not stored yet and reports how many
	// were new.
	SaveXboxCodes(ctx context.Context, codes []model.XboxCode) (int, error)
	GetXboxCodes(ctx context.Context) ([]model.XboxCode, error)

	RecordRun(ctx context.Context, run model.SyncRun) (string, error)
	RecentRuns(ctx context.Context, limit int) ([]model.SyncRun, error)

	Close() error
}
