package models

import (
	"time"
)

// Customer is referenced by orders but does not own them; customers are
// created by the seed flow and are immutable afterwards.
type Customer struct {
	ID             uint      `json:"id" gorm:"primary_key"`
	Name           string    `json:"name" gorm:"not null"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	PrimaryContact Contact   `json:"primaryContact" gorm:"type:jsonb"`
	BillingAddress Contact   `json:"billingAddress" gorm:"type:jsonb"`
	CreatedAt      time.Time `json:"createdAt"`

	Orders []Order `json:"orders,omitempty" gorm:"foreignkey:CustomerID"`
}
