package dto

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"freightdesk/internal/models"
)

type Place struct {
	City  string `json:"city"`
	State string `json:"state"`
}

type StopsSummary struct {
	Pickups    int `json:"pickups"`
	Deliveries int `json:"deliveries"`
}

type OrderListItem struct {
	ID            uint         `json:"id"`
	Reference     string       `json:"reference"`
	CustomerName  string       `json:"customerName"`
	Origin        *Place       `json:"origin"`
	Destination   *Place       `json:"destination"`
	PickupDate    *time.Time   `json:"pickupDate"`
	DeliveryDate  *time.Time   `json:"deliveryDate"`
	EquipmentType string       `json:"equipmentType"`
	Commodity     string       `json:"commodity"`
	WeightLbs     *float64     `json:"weightLbs"`
	Miles         *float64     `json:"miles"`
	Rate          *float64     `json:"rate"`
	StopsSummary  StopsSummary `json:"stopsSummary"`
	CreatedAt     time.Time    `json:"createdAt"`
}

type ListMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type OrderPage struct {
	Data []OrderListItem `json:"data"`
	Meta ListMeta        `json:"meta"`
}

type StopView struct {
	ID          uint            `json:"id"`
	Sequence    int             `json:"sequence"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	PlannedTime *time.Time      `json:"plannedTime"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	StopType    models.StopType `json:"stopType"`
}

type OrderDetail struct {
	ID            uint               `json:"id"`
	Reference     string             `json:"reference"`
	CustomerID    uint               `json:"customerId"`
	CustomerName  string             `json:"customerName"`
	Status        models.OrderStatus `json:"status"`
	Notes         string             `json:"notes"`
	RouteGeometry models.Polyline    `json:"routeGeometry"`
	EquipmentType string             `json:"equipmentType"`
	Commodity     string             `json:"commodity"`
	WeightLbs     *float64           `json:"weightLbs"`
	Miles         *float64           `json:"miles"`
	Rate          *float64           `json:"rate"`
	Flags         models.Flags       `json:"flags"`
	CreatedAt     time.Time          `json:"createdAt"`
	Stops         []StopView         `json:"stops"`
}

// Inbound is the total order count, outbound the total number of
// delivery stops.
type OrderCounts struct {
	Inbound  int `json:"inbound"`
	Outbound int `json:"outbound"`
}

// ToOrderListItem derives the list row from an order with its customer
// and stops loaded.
func ToOrderListItem(o models.Order) OrderListItem {
	stops := sortedBySequence(o.Stops)

	item := OrderListItem{
		ID:            o.ID,
		Reference:     reference(o),
		EquipmentType: o.EquipmentType,
		Commodity:     o.Commodity,
		WeightLbs:     o.WeightLbs,
		Miles:         o.Miles,
		Rate:          o.Rate,
		CreatedAt:     o.CreatedAt,
	}
	if o.Customer != nil {
		item.CustomerName = o.Customer.Name
	}
	if item.EquipmentType == "" {
		item.EquipmentType = "Not Specified"
	}
	if item.Commodity == "" {
		item.Commodity = "General Freight"
	}

	if len(stops) > 0 {
		origin := place(stops[0])
		destination := place(stops[len(stops)-1])
		item.Origin = &origin
		item.Destination = &destination
	}

	if fp := firstPickup(stops); fp != nil {
		item.PickupDate = fp.PlannedTime
	}
	if ld := lastDelivery(stops); ld != nil {
		item.DeliveryDate = ld.PlannedTime
	}

	for _, st := range stops {
		if st.Kind() == models.StopDelivery {
			item.StopsSummary.Deliveries++
		} else {
			item.StopsSummary.Pickups++
		}
	}
	return item
}

// ToOrderDetail derives the detail view. Flags default to false for
// the well-known keys; weekendPickup/weekendDelivery are computed from
// the planned times unless explicitly stored.
func ToOrderDetail(o models.Order) OrderDetail {
	stops := sortedBySequence(o.Stops)

	flags := models.Flags{
		"hazmat":          false,
		"weekendPickup":   false,
		"weekendDelivery": false,
	}
	if fp := firstPickup(stops); fp != nil && fp.PlannedTime != nil {
		flags["weekendPickup"] = isWeekend(*fp.PlannedTime)
	}
	if ld := lastDelivery(stops); ld != nil && ld.PlannedTime != nil {
		flags["weekendDelivery"] = isWeekend(*ld.PlannedTime)
	}
	for k, v := range o.Flags {
		flags[k] = v
	}

	detail := OrderDetail{
		ID:            o.ID,
		Reference:     reference(o),
		CustomerID:    o.CustomerID,
		Status:        o.Status,
		Notes:         o.Notes,
		RouteGeometry: o.RouteGeometry,
		EquipmentType: o.EquipmentType,
		Commodity:     o.Commodity,
		WeightLbs:     o.WeightLbs,
		Miles:         o.Miles,
		Rate:          o.Rate,
		Flags:         flags,
		CreatedAt:     o.CreatedAt,
		Stops:         make([]StopView, 0, len(stops)),
	}
	if o.Customer != nil {
		detail.CustomerName = o.Customer.Name
	}

	for _, st := range stops {
		detail.Stops = append(detail.Stops, StopView{
			ID:          st.ID,
			Sequence:    st.Sequence,
			Latitude:    st.Latitude,
			Longitude:   st.Longitude,
			PlannedTime: st.PlannedTime,
			Address:     st.Address,
			City:        st.City,
			State:       st.State,
			StopType:    st.Kind(),
		})
	}
	return detail
}

func reference(o models.Order) string {
	if o.Reference != "" {
		return o.Reference
	}
	return fmt.Sprintf("ORD-%06d", o.ID)
}

func sortedBySequence(stops []models.Stop) []models.Stop {
	out := make([]models.Stop, len(stops))
	copy(out, stops)
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

func firstPickup(stops []models.Stop) *models.Stop {
	for i := range stops {
		if stops[i].Kind() == models.StopPickup {
			return &stops[i]
		}
	}
	return nil
}

func lastDelivery(stops []models.Stop) *models.Stop {
	for i := len(stops) - 1; i >= 0; i-- {
		if stops[i].Kind() == models.StopDelivery {
			return &stops[i]
		}
	}
	return nil
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

func place(s models.Stop) Place {
	city, state := s.City, s.State
	if city == "" || state == "" {
		pc, ps := parseAddress(s.Address)
		if city == "" {
			city = pc
		}
		if state == "" {
			state = ps
		}
	}
	if city == "" {
		city = "Unknown"
	}
	if state == "" {
		state = "Unknown"
	}
	return Place{City: city, State: state}
}

var stateCode = regexp.MustCompile(`^[A-Z]{2,3}`)

// parseAddress pulls city and state out of "Street, City, State ZIP"
// shaped strings. The state is a leading 2-3 letter code of the last
// comma-separated part, the city the part before it.
func parseAddress(address string) (city, state string) {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return "", ""
	}
	return parts[len(parts)-2], stateCode.FindString(parts[len(parts)-1])
}
