package extract

import "github.com/nhle/order-tracker/internal/model"

// Kind selects which template family a message is matched against.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindCancellation Kind = "cancellation"
	KindShipment     Kind = "shipment"
	KindXbox         Kind = "xbox"
)

// Result holds the partial facts pulled from one message. Which fields
// are set depends on the Kind it was extracted as.
type Result struct {
	OrderNumber     string
	Date            string
	EmailAddress    string
	TotalPrice      string
	Products        []model.Product
	TrackingNumbers []string
	Code            string
}

// Empty reports whether the message matched no template.
func (r Result) Empty() bool {
	return r.OrderNumber == "" && r.Code == ""
}
