package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"

	"freightdesk/internal/dto"
	"freightdesk/internal/geometry"
	"freightdesk/internal/models"
	"freightdesk/internal/repository/cache"
	"freightdesk/internal/repository/postgres"
)

type StopInput struct {
	Sequence    int
	Latitude    float64
	Longitude   float64
	PlannedTime *time.Time
	Address     string
	City        string
	State       string
	StopType    models.StopType
}

type CreateOrderInput struct {
	CustomerID    uint
	Reference     string
	Status        models.OrderStatus
	Notes         string
	RouteGeometry models.Polyline
	EquipmentType string
	Commodity     string
	WeightLbs     *float64
	Miles         *float64
	Rate          *float64
	Flags         models.Flags
	Stops         []StopInput
}

type ListQuery struct {
	Query string
	Page  int
	Limit int
	Sort  string
}

const (
	SortNewest   = "newest"
	SortOldest   = "oldest"
	SortShortest = "shortest"
	SortLongest  = "longest"

	defaultPageSize = 10
)

func normalizeSort(s string) string {
	switch strings.ToLower(s) {
	case SortOldest, SortShortest, SortLongest:
		return strings.ToLower(s)
	default:
		return SortNewest
	}
}

// CreateOrder writes the order and its stops in one transaction. When
// no geometry is supplied it is derived from the stop coordinates in
// input order, not sequence order.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (uint, error) {
	ok, err := s.customers.Exists(input.CustomerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotFound
	}

	line := input.RouteGeometry
	if line == nil {
		line = geometry.Derive(coordinates(input.Stops))
	}

	order := models.Order{
		CustomerID:    input.CustomerID,
		Reference:     input.Reference,
		Status:        input.Status,
		Notes:         input.Notes,
		RouteGeometry: line,
		EquipmentType: input.EquipmentType,
		Commodity:     input.Commodity,
		WeightLbs:     input.WeightLbs,
		Miles:         input.Miles,
		Rate:          input.Rate,
		Flags:         input.Flags,
	}
	if order.Status == "" {
		order.Status = models.StatusDraft
	}

	id, err := s.orders.Create(order, stopRows(input.Stops))
	if err != nil {
		return 0, err
	}

	s.cache.InvalidateLists()
	s.cache.InvalidateCounts()
	s.publish(ctx, "order.created", id)
	return id, nil
}

// GetOrderByID is a read-through: a fresh cached projection is served
// directly, otherwise the store is queried and the result cached.
// Misses for nonexistent ids are not cached.
func (s *Service) GetOrderByID(ctx context.Context, id uint) (dto.OrderDetail, error) {
	if s.cache.Available() {
		if d, ok := s.cache.GetDetail(id); ok {
			return d, nil
		}
	}

	order, err := s.orders.Get(id)
	if gorm.IsRecordNotFoundError(err) {
		return dto.OrderDetail{}, ErrNotFound
	}
	if err != nil {
		return dto.OrderDetail{}, err
	}

	detail := dto.ToOrderDetail(order)
	s.cache.PutDetail(detail)
	return detail, nil
}

func (s *Service) ListOrders(ctx context.Context, q ListQuery) (dto.OrderPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	q.Sort = normalizeSort(q.Sort)

	key := cache.ListKey(q.Query, q.Page, q.Limit, q.Sort)
	if s.cache.Available() {
		if page, ok := s.cache.GetList(key); ok {
			return page, nil
		}
	}

	rows, total, err := s.orders.List(postgres.ListFilter{
		Query:  q.Query,
		Sort:   q.Sort,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	})
	if err != nil {
		return dto.OrderPage{}, err
	}

	page := dto.OrderPage{
		Data: make([]dto.OrderListItem, 0, len(rows)),
		Meta: dto.ListMeta{Page: q.Page, Limit: q.Limit, Total: total},
	}
	for _, row := range rows {
		page.Data = append(page.Data, dto.ToOrderListItem(row))
	}

	s.cache.PutList(key, page)
	return page, nil
}

// UpdateStops wholesale-replaces the order's stops and recomputes its
// geometry in one transaction.
func (s *Service) UpdateStops(ctx context.Context, orderID uint, stops []StopInput) error {
	ok, err := s.orders.Exists(orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	line := geometry.Derive(coordinates(stops))
	if err := s.orders.ReplaceStops(orderID, stopRows(stops), line); err != nil {
		return err
	}

	s.cache.InvalidateOrder(orderID)
	// stop-type composition may have changed
	s.cache.InvalidateCounts()
	s.publish(ctx, "order.stops_updated", orderID)
	return nil
}

func (s *Service) UpdateOrderRate(ctx context.Context, orderID uint, rate float64) error {
	ok, err := s.orders.Exists(orderID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	if err := s.orders.UpdateRate(orderID, rate); err != nil {
		return err
	}

	// rate shows up in list summaries; stop composition is unchanged,
	// so the counts entry stays.
	s.cache.InvalidateOrder(orderID)
	s.publish(ctx, "order.rate_updated", orderID)
	return nil
}

func (s *Service) GetOrderCounts(ctx context.Context) (dto.OrderCounts, error) {
	if s.cache.Available() {
		if counts, ok := s.cache.GetCounts(); ok {
			return counts, nil
		}
	}

	orders, deliveries, err := s.orders.Counts()
	if err != nil {
		return dto.OrderCounts{}, err
	}

	counts := dto.OrderCounts{Inbound: orders, Outbound: deliveries}
	s.cache.PutCounts(counts)
	return counts, nil
}

func coordinates(stops []StopInput) []geometry.Coordinate {
	out := make([]geometry.Coordinate, len(stops))
	for i, st := range stops {
		out[i] = geometry.Coordinate{Latitude: st.Latitude, Longitude: st.Longitude}
	}
	return out
}

func stopRows(stops []StopInput) []models.Stop {
	out := make([]models.Stop, len(stops))
	for i, st := range stops {
		stopType := st.StopType
		if stopType == "" {
			stopType = models.StopPickup
		}
		out[i] = models.Stop{
			Sequence:    st.Sequence,
			Latitude:    st.Latitude,
			Longitude:   st.Longitude,
			PlannedTime: st.PlannedTime,
			Address:     st.Address,
			City:        st.City,
			State:       st.State,
			StopType:    stopType,
		}
	}
	return out
}

type orderEvent struct {
	Event   string    `json:"event"`
	OrderID uint      `json:"orderId"`
	At      time.Time `json:"at"`
}

func (s *Service) publish(ctx context.Context, event string, orderID uint) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(orderEvent{Event: event, OrderID: orderID, At: time.Now().UTC()})
	if err != nil {
		logrus.WithError(err).Warn("marshal order event")
		return
	}
	if err := s.events.Publish(ctx, payload); err != nil {
		logrus.WithError(err).WithField("event", event).Warn("publish order event")
	}
}
