package models

import (
	"time"
)

// Stop is a single pickup or delivery waypoint within an order.
// Sequence is unique per order; presentation always sorts ascending by it.
type Stop struct {
	ID          uint       `json:"id" gorm:"primary_key"`
	OrderID     uint       `json:"-" gorm:"index;not null"`
	Sequence    int        `json:"sequence" gorm:"not null"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	PlannedTime *time.Time `json:"plannedTime"`
	Address     string     `json:"address" gorm:"not null"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	StopType    StopType   `json:"stopType" gorm:"type:varchar(16)"`
}

// Kind returns the effective stop type. Rows written before the stop_type
// column existed carry an empty value and read back as PICKUP.
func (s Stop) Kind() StopType {
	if s.StopType == "" {
		return StopPickup
	}
	return s.StopType
}
