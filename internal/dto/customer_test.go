package dto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"freightdesk/internal/models"
)

func TestToCustomerDetailMetrics(t *testing.T) {
	c := models.Customer{
		ID:    1,
		Name:  "Acme Logistics",
		Email: "contact@acmelogistics.com",
		Orders: []models.Order{
			{ID: 1, Status: models.StatusDraft},
			{ID: 2, Status: models.StatusQuoted},
			{ID: 3, Status: models.StatusConfirmed},
		},
	}

	detail := ToCustomerDetail(c)

	require.Equal(t, 3, detail.Metrics.TotalOrders)
	require.Equal(t, 2, detail.Metrics.ActiveOrders)
	require.Equal(t, 4500.0, detail.Metrics.TotalSpend)
	require.Equal(t, 1500.0, detail.Metrics.AverageOrderValue)
}

func TestToCustomerDetailNoOrders(t *testing.T) {
	detail := ToCustomerDetail(models.Customer{ID: 4, Name: "Metro Transport"})

	require.Equal(t, 0, detail.Metrics.TotalOrders)
	require.Equal(t, 0.0, detail.Metrics.TotalSpend)
	require.Equal(t, 0.0, detail.Metrics.AverageOrderValue)
}

func TestToCustomerDetailContactFallback(t *testing.T) {
	c := models.Customer{
		ID:             2,
		Name:           "Global Shipping Co",
		Email:          "info@globalshipping.com",
		Phone:          "555-0201",
		PrimaryContact: models.Contact{"name": "Sarah Johnson"},
		BillingAddress: models.Contact{"street": "200 Harbor Way", "city": "Los Angeles", "state": "CA", "zip": "90001"},
	}

	detail := ToCustomerDetail(c)

	require.Equal(t, "Sarah Johnson", detail.PrimaryContact.Name)
	require.Equal(t, "info@globalshipping.com", detail.PrimaryContact.Email)
	require.Equal(t, "555-0201", detail.PrimaryContact.Phone)
	require.Equal(t, BillingInfo{Street: "200 Harbor Way", City: "Los Angeles", State: "CA", Zip: "90001"}, detail.BillingInfo)
}
