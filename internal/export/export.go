// Package export writes reconciled orders and collected codes to flat
// files for spreadsheets.
package export

import (
	"fmt"
	"strings"

	"github.com/nhle/order-tracker/internal/model"
)

// OrderColumns is the header of the orders export.
var OrderColumns = []string{
	"order_number", "order_date", "total_price", "status",
	"email_address", "products", "tracking_numbers",
}

// CodeColumns is the header of the codes export.
var CodeColumns = []string{"code", "date", "order_number"}

// orderRecord flattens an order into one row matching OrderColumns.
func orderRecord(o model.Order) []string {
	return []string{
		o.OrderNumber,
		o.OrderDate,
		o.TotalPrice,
		string(o.Status),
		o.EmailAddress,
		formatProducts(o.Products),
		strings.Join(o.TrackingNumbers, ", "),
	}
}

func codeRecord(c model.XboxCode) []string {
	return []string{c.Code, c.Date, c.OrderNumber}
}

// formatProducts renders "Title (Qty: 1, Price: $10.00)" entries
// separated by "; ".
func formatProducts(products []model.Product) string {
	parts := make([]string, 0, len(products))
	for _, p := range products {
		parts = append(parts, fmt.Sprintf("%s (Qty: %s, Price: %s)", p.Title, p.Quantity, p.Price))
	}
	return strings.Join(parts, "; ")
}
