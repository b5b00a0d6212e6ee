package dto

import (
	"time"

	"freightdesk/internal/models"
)

type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BillingInfo struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type CustomerMetrics struct {
	TotalOrders       int     `json:"totalOrders"`
	ActiveOrders      int     `json:"activeOrders"`
	TotalSpend        float64 `json:"totalSpend"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type CustomerDetail struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	PrimaryContact ContactInfo     `json:"primaryContact"`
	BillingInfo    BillingInfo     `json:"billingInfo"`
	Metrics        CustomerMetrics `json:"metrics"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToCustomerDetail derives the customer view with order metrics from a
// customer loaded with its order statuses.
func ToCustomerDetail(c models.Customer) CustomerDetail {
	detail := CustomerDetail{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}

	detail.PrimaryContact = ContactInfo{
		Name:  c.PrimaryContact["name"],
		Email: c.PrimaryContact["email"],
		Phone: c.PrimaryContact["phone"],
	}
	if detail.PrimaryContact.Email == "" {
		detail.PrimaryContact.Email = c.Email
	}
	if detail.PrimaryContact.Phone == "" {
		detail.PrimaryContact.Phone = c.Phone
	}

	detail.BillingInfo = BillingInfo{
		Street: c.BillingAddress["street"],
		City:   c.BillingAddress["city"],
		State:  c.BillingAddress["state"],
		Zip:    c.BillingAddress["zip"],
	}

	total := len(c.Orders)
	active := 0
	for _, o := range c.Orders {
		if o.Status != models.StatusDraft {
			active++
		}
	}
	// Flat per-order figure until real billing data exists.
	spend := float64(total) * 1500
	avg := 0.0
	if total > 0 {
		avg = spend / float64(total)
	}
	detail.Metrics = CustomerMetrics{
		TotalOrders:       total,
		ActiveOrders:      active,
		TotalSpend:        spend,
		AverageOrderValue: avg,
	}
	return detail
}
