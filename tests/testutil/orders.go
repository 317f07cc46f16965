package testutil

import "github.com/nhle/order-tracker/internal/model"

// SampleOrders returns a small ledger covering every status.
func SampleOrders() []model.Order {
	return []model.Order{
		{
			OrderNumber:  "BBY01-100",
			OrderDate:    "2024-03-01",
			TotalPrice:   "$10.00",
			Status:       model.StatusCancelled,
			EmailAddress: "jane@example.com",
			Products: []model.Product{
				{Title: "Widget", Price: "$10.00", Quantity: "1"},
			},
			TrackingNumbers: []string{},
		},
		{
			OrderNumber:  "BBY01-200",
			OrderDate:    "2024-03-02",
			TotalPrice:   "$619.97",
			Status:       model.StatusShipped,
			EmailAddress: "jane@example.com",
			Products: []model.Product{
				{Title: "Xbox Series X", Price: "$499.99", Quantity: "1"},
				{Title: "Wireless Controller", Price: "$59.99", Quantity: "2"},
			},
			TrackingNumbers: []string{"1Z999", "1Z998"},
		},
		{
			OrderNumber:     "BBY01-300",
			OrderDate:       "2024-03-03",
			TotalPrice:      "N/A",
			Status:          model.StatusProcessing,
			EmailAddress:    "john@example.com",
			Products:        []model.Product{},
			TrackingNumbers: []string{},
		},
	}
}

// SampleCodes returns codes with and without an order number.
func SampleCodes() []model.XboxCode {
	return []model.XboxCode{
		{Code: "AAAA-1111", Date: "2024-01-02", OrderNumber: "BBY01-200"},
		{Code: "BBBB-2222", Date: "2024-01-03"},
	}
}
