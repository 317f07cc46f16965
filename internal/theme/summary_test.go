package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/store"
)

func TestRunSummary(t *testing.T) {
	out := RunSummary("Order Processing Summary", model.PhaseStatistics{
		Processed:     4,
		Successful:    3,
		Failed:        1,
		Confirmations: 2,
		FetchFailures: 1,
		AbortedPhases: []model.Phase{model.PhaseShipment},
	})

	assert.Contains(t, out, "Order Processing Summary")
	assert.Contains(t, out, "Emails processed")
	assert.Contains(t, out, "Confirmations")
	assert.Contains(t, out, "Fetch failures")
	assert.Contains(t, out, "shipment")
	assert.NotContains(t, out, "Xbox codes")
}

func TestRunSummaryAllZero(t *testing.T) {
	out := RunSummary("Summary", model.PhaseStatistics{})
	assert.Contains(t, out, "Emails processed")
	assert.NotContains(t, out, "Skipped phases")
	assert.NotContains(t, out, "Confirmations")
}

func TestStoreSummary(t *testing.T) {
	out := StoreSummary(store.Summary{UniqueOrders: 3, Shipped: 1, Cancelled: 1, TrackingNumbers: 2})
	assert.Contains(t, out, "Unique orders")
	assert.Contains(t, out, "3")
}

func TestOrdersTable(t *testing.T) {
	assert.Contains(t, OrdersTable(nil), "No orders found")

	out := OrdersTable([]model.Order{{
		OrderNumber:     "BBY01-200",
		OrderDate:       "2024-03-02",
		TotalPrice:      "$10.00",
		Status:          model.StatusShipped,
		Products:        []model.Product{{Title: "Widget"}},
		TrackingNumbers: []string{"1Z999"},
	}})
	assert.Contains(t, out, "BBY01-200")
	assert.Contains(t, out, "Shipped")
	assert.Contains(t, out, "1Z999")
}

func TestFolderList(t *testing.T) {
	assert.Contains(t, FolderList(nil), "No folders")
	out := FolderList([]string{"INBOX", "All Mail"})
	assert.Contains(t, out, "All Mail")
}

func TestProfilesTable(t *testing.T) {
	assert.Contains(t, ProfilesTable(nil, func(s string) string { return s }), "No profiles")

	out := ProfilesTable([]model.ProfileConfig{
		{Name: "main", Email: "me@example.com", Service: "gmail"},
	}, func(string) string { return "Gmail" })
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "me@example.com")
	assert.Contains(t, out, "Gmail")
}
