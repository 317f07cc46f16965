package reconcile

import (
	"slices"

	"github.com/nhle/order-tracker/internal/model"
)

// Ledger maps order numbers to their reconciled record, preserving the
// order in which orders were first confirmed.
type Ledger struct {
	index  map[string]int
	orders []model.Order
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Len returns the number of orders.
func (l *Ledger) Len() int { return len(l.orders) }

// Get returns a copy of the record for number.
func (l *Ledger) Get(number string) (model.Order, bool) {
	i, ok := l.index[number]
	if !ok {
		return model.Order{}, false
	}
	return cloneOrder(l.orders[i]), true
}

// Confirm records a confirmed order. A repeated order number replaces
// the earlier facts in place.
func (l *Ledger) Confirm(o model.Order) {
	if o.OrderNumber == "" {
		return
	}
	o.Status = model.StatusProcessing
	if o.Products == nil {
		o.Products = []model.Product{}
	}
	o.TrackingNumbers = []string{}

	if i, ok := l.index[o.OrderNumber]; ok {
		l.orders[i] = cloneOrder(o)
		return
	}
	l.index[o.OrderNumber] = len(l.orders)
	l.orders = append(l.orders, cloneOrder(o))
}

// Cancel marks a known order Cancelled and reports whether it was known.
func (l *Ledger) Cancel(number string) bool {
	i, ok := l.index[number]
	if !ok {
		return false
	}
	l.orders[i].Status = model.StatusCancelled
	return true
}

// Ship replaces the tracking numbers of a known order with the given set
// and marks it Shipped unless it was cancelled. known is false for
// unknown orders, which are left alone; shipped reports whether the
// status is now Shipped.
func (l *Ledger) Ship(number string, tracking []string) (known, shipped bool) {
	i, ok := l.index[number]
	if !ok {
		return false, false
	}

	o := &l.orders[i]
	o.TrackingNumbers = trackingSet(tracking)

	if o.Status == model.StatusCancelled {
		return true, false
	}
	o.Status = model.StatusShipped
	return true, true
}

// Records returns a copy of every order in first-confirmed order.
func (l *Ledger) Records() []model.Order {
	out := make([]model.Order, 0, len(l.orders))
	for _, o := range l.orders {
		out = append(out, cloneOrder(o))
	}
	return out
}

// trackingSet drops blanks and duplicates, keeping first-seen order.
func trackingSet(tracking []string) []string {
	out := make([]string, 0, len(tracking))
	for _, t := range tracking {
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func cloneOrder(o model.Order) model.Order {
	o.Products = slices.Clone(o.Products)
	o.TrackingNumbers = slices.Clone(o.TrackingNumbers)
	return o
}
