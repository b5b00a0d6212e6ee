package models

import (
	"time"
)

// Order is a freight shipment request owning an ordered set of stops.
// Stops are wholesale-replaced on update, never patched individually.
type Order struct {
	ID            uint        `json:"id" gorm:"primary_key"`
	CustomerID    uint        `json:"customerId" gorm:"index;not null"`
	Reference     string      `json:"reference"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(16)"`
	Notes         string      `json:"notes"`
	RouteGeometry Polyline    `json:"routeGeometry" gorm:"type:jsonb"`
	EquipmentType string      `json:"equipmentType"`
	Commodity     string      `json:"commodity"`
	WeightLbs     *float64    `json:"weightLbs"`
	Miles         *float64    `json:"miles"`
	Rate          *float64    `json:"rate"`
	Flags         Flags       `json:"flags" gorm:"type:jsonb"`
	CreatedAt     time.Time   `json:"createdAt"`

	Customer *Customer `json:"customer,omitempty" gorm:"foreignkey:CustomerID"`
	Stops    []Stop    `json:"stops,omitempty" gorm:"foreignkey:OrderID"`
}
