package model

// OrderStatus is the reconciled lifecycle state of an order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Product is a single line item taken from a confirmation email.
// Price and quantity are kept exactly as they appear in the message.
type Product struct {
	Title    string `json:"title" db:"title"`
	Price    string `json:"price" db:"price"`
	Quantity string `json:"quantity" db:"quantity"`
}

// Order is the ledger's unit of truth for one retail order.
type Order struct {
	// OrderNumber is the primary identity (e.g., BBY01-806612345678).
	// It is only ever assigned from a confirmation email.
	OrderNumber string `json:"order_number"`

	// OrderDate is the confirmation email's date as YYYY-MM-DD.
	OrderDate string `json:"order_date"`

	// TotalPrice is the order total as printed (no normalization).
	TotalPrice string `json:"total_price"`

	Status OrderStatus `json:"status"`

	// EmailAddress is the recipient of the confirmation email.
	EmailAddress string `json:"email_address"`

	Products []Product `json:"products"`

	// TrackingNumbers is the set from the latest shipment notice, in
	// first-seen order without duplicates.
	TrackingNumbers []string `json:"tracking_numbers"`
}

// XboxCode is a bonus code collected from a promotional email.
type XboxCode struct {
	Code        string `json:"code"`
	Date        string `json:"date"`
	OrderNumber string `json:"order_number,omitempty"`
}

// RawMessage is a fetched RFC 822 message. ID is the mailbox UID and is
// only meaningful within the selected folder.
type RawMessage struct {
	ID   uint32
	Body []byte
}
