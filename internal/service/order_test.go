package service_test

import (
	"context"
	"errors"
	"testing"

	gorm "github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"

	"freightdesk/internal/models"
	"freightdesk/internal/repository"
	"freightdesk/internal/repository/cache"
	"freightdesk/internal/repository/postgres"
	svc "freightdesk/internal/service"
)

type ordersStub struct {
	createdOrder models.Order
	createdStops []models.Stop
	createID     uint
	createErr    error

	getResp models.Order
	getErr  error
	getCnt  int

	listResp  []models.Order
	listTotal int
	listErr   error
	listCnt   int
	lastList  postgres.ListFilter

	exists    bool
	existsErr error

	replacedID   uint
	replaced     []models.Stop
	replacedGeom models.Polyline
	replaceErr   error

	ratedID   uint
	rated     float64
	rateErr   error
	countsCnt int
}

func (o *ordersStub) Create(ord models.Order, stops []models.Stop) (uint, error) {
	o.createdOrder = ord
	o.createdStops = stops
	return o.createID, o.createErr
}

func (o *ordersStub) Get(uint) (models.Order, error) {
	o.getCnt++
	return o.getResp, o.getErr
}

func (o *ordersStub) List(f postgres.ListFilter) ([]models.Order, int, error) {
	o.listCnt++
	o.lastList = f
	return o.listResp, o.listTotal, o.listErr
}

func (o *ordersStub) Exists(uint) (bool, error) { return o.exists, o.existsErr }

func (o *ordersStub) ReplaceStops(orderID uint, stops []models.Stop, geom models.Polyline) error {
	o.replacedID = orderID
	o.replaced = stops
	o.replacedGeom = geom
	return o.replaceErr
}

func (o *ordersStub) UpdateRate(orderID uint, rate float64) error {
	o.ratedID = orderID
	o.rated = rate
	return o.rateErr
}

func (o *ordersStub) Counts() (int, int, error) {
	o.countsCnt++
	return 4, 9, nil
}

type customersStub struct {
	exists    bool
	existsErr error
	getResp   models.Customer
	getErr    error
	search    []models.Customer
}

func (c *customersStub) Create(*models.Customer) error            { return nil }
func (c *customersStub) Get(uint) (models.Customer, error)        { return c.getResp, c.getErr }
func (c *customersStub) Search(string) ([]models.Customer, error) { return c.search, nil }
func (c *customersStub) Exists(uint) (bool, error)                { return c.exists, c.existsErr }

type eventsStub struct {
	payloads [][]byte
	err      error
}

func (e *eventsStub) Publish(_ context.Context, payload []byte) error {
	e.payloads = append(e.payloads, payload)
	return e.err
}

var _ repository.OrderPostgres = (*ordersStub)(nil)
var _ repository.CustomerPostgres = (*customersStub)(nil)
var _ svc.EventPublisher = (*eventsStub)(nil)

func newService(o *ordersStub, c *customersStub, store cache.Store, events svc.EventPublisher) (*svc.Service, *cache.OrderCache) {
	cch := cache.NewOrderCache(store)
	repo := &repository.Repository{OrderPostgres: o, CustomerPostgres: c}
	return svc.NewService(repo, cch, events), cch
}

func sampleStops() []svc.StopInput {
	return []svc.StopInput{
		{Sequence: 1, Latitude: 40.71, Longitude: -74.00, Address: "123 Main St, New York, NY 10001", StopType: models.StopPickup},
		{Sequence: 2, Latitude: 34.05, Longitude: -118.24, Address: "321 Produce Row, Los Angeles, CA 90021", StopType: models.StopDelivery},
	}
}

func TestCreateOrderDerivesGeometry(t *testing.T) {
	orders := &ordersStub{createID: 5}
	s, _ := newService(orders, &customersStub{exists: true}, cache.NewMemory(cache.WithNoJanitor()), nil)

	id, err := s.CreateOrder(context.Background(), svc.CreateOrderInput{
		CustomerID: 1,
		Stops:      sampleStops(),
	})

	require.NoError(t, err)
	require.Equal(t, uint(5), id)
	require.Equal(t, models.Polyline{{40.71, -74.00}, {34.05, -118.24}}, orders.createdOrder.RouteGeometry)
	require.Equal(t, models.StatusDraft, orders.createdOrder.Status)
	require.Len(t, orders.createdStops, 2)
}

func TestCreateOrderKeepsExplicitGeometry(t *testing.T) {
	orders := &ordersStub{createID: 6}
	s, _ := newService(orders, &customersStub{exists: true}, cache.Noop{}, nil)

	line := models.Polyline{{1, 2}, {3, 4}, {5, 6}}
	_, err := s.CreateOrder(context.Background(), svc.CreateOrderInput{
		CustomerID:    1,
		Status:        models.StatusQuoted,
		RouteGeometry: line,
		Stops:         sampleStops(),
	})

	require.NoError(t, err)
	require.Equal(t, line, orders.createdOrder.RouteGeometry)
	require.Equal(t, models.StatusQuoted, orders.createdOrder.Status)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	s, _ := newService(&ordersStub{}, &customersStub{exists: false}, cache.Noop{}, nil)

	_, err := s.CreateOrder(context.Background(), svc.CreateOrderInput{CustomerID: 99, Stops: sampleStops()})

	require.ErrorIs(t, err, svc.ErrNotFound)
}

func TestCreateOrderDefaultsStopType(t *testing.T) {
	orders := &ordersStub{createID: 7}
	s, _ := newService(orders, &customersStub{exists: true}, cache.Noop{}, nil)

	_, err := s.CreateOrder(context.Background(), svc.CreateOrderInput{
		CustomerID: 1,
		Stops:      []svc.StopInput{{Sequence: 1, Latitude: 1, Longitude: 2}},
	})

	require.NoError(t, err)
	require.Equal(t, models.StopPickup, orders.createdStops[0].StopType)
}

func TestCreateOrderInvalidatesListsAndCounts(t *testing.T) {
	orders := &ordersStub{createID: 8}
	store := cache.NewMemory(cache.WithNoJanitor())
	s, cch := newService(orders, &customersStub{exists: true}, store, nil)

	key := cache.ListKey("", 1, 10, "newest")
	cch.PutList(key, dtoPage())
	cch.PutCounts(dtoCounts())

	_, err := s.CreateOrder(context.Background(), svc.CreateOrderInput{CustomerID: 1, Stops: sampleStops()})
	require.NoError(t, err)

	_, ok := cch.GetList(key)
	require.False(t, ok)
	_, ok = cch.GetCounts()
	require.False(t, ok)
}

func TestGetOrderByIDReadThrough(t *testing.T) {
	orders := &ordersStub{getResp: models.Order{ID: 3, Status: models.StatusConfirmed}}
	s, _ := newService(orders, &customersStub{}, cache.NewMemory(cache.WithNoJanitor()), nil)

	first, err := s.GetOrderByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, uint(3), first.ID)
	require.Equal(t, 1, orders.getCnt)

	second, err := s.GetOrderByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, orders.getCnt, "second read must be served from cache")
}

func TestGetOrderByIDNotFound(t *testing.T) {
	orders := &ordersStub{getErr: gorm.ErrRecordNotFound}
	s, _ := newService(orders, &customersStub{}, cache.NewMemory(cache.WithNoJanitor()), nil)

	_, err := s.GetOrderByID(context.Background(), 44)
	require.ErrorIs(t, err, svc.ErrNotFound)

	// a miss is not cached
	_, err = s.GetOrderByID(context.Background(), 44)
	require.ErrorIs(t, err, svc.ErrNotFound)
	require.Equal(t, 2, orders.getCnt)
}

func TestGetOrderByIDCacheUnavailable(t *testing.T) {
	orders := &ordersStub{getResp: models.Order{ID: 3}}
	s, _ := newService(orders, &customersStub{}, cache.Noop{}, nil)

	_, err := s.GetOrderByID(context.Background(), 3)
	require.NoError(t, err)
	_, err = s.GetOrderByID(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 2, orders.getCnt)
}

func TestListOrdersNormalizesQuery(t *testing.T) {
	orders := &ordersStub{listResp: []models.Order{{ID: 1}}, listTotal: 1}
	s, _ := newService(orders, &customersStub{}, cache.Noop{}, nil)

	page, err := s.ListOrders(context.Background(), svc.ListQuery{Page: 0, Limit: 0, Sort: "bogus"})

	require.NoError(t, err)
	require.Equal(t, postgres.ListFilter{Sort: "newest", Offset: 0, Limit: 10}, orders.lastList)
	require.Equal(t, 1, page.Meta.Page)
	require.Equal(t, 10, page.Meta.Limit)
	require.Equal(t, 1, page.Meta.Total)
	require.Len(t, page.Data, 1)
}

func TestListOrdersOffset(t *testing.T) {
	orders := &ordersStub{}
	s, _ := newService(orders, &customersStub{}, cache.Noop{}, nil)

	_, err := s.ListOrders(context.Background(), svc.ListQuery{Query: "acme", Page: 3, Limit: 20, Sort: "shortest"})

	require.NoError(t, err)
	require.Equal(t, postgres.ListFilter{Query: "acme", Sort: "shortest", Offset: 40, Limit: 20}, orders.lastList)
}

func TestListOrdersCached(t *testing.T) {
	orders := &ordersStub{listResp: []models.Order{{ID: 1}}, listTotal: 1}
	s, _ := newService(orders, &customersStub{}, cache.NewMemory(cache.WithNoJanitor()), nil)

	q := svc.ListQuery{Page: 1, Limit: 10}
	_, err := s.ListOrders(context.Background(), q)
	require.NoError(t, err)
	_, err = s.ListOrders(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 1, orders.listCnt)

	// a different page is a different entry
	q.Page = 2
	_, err = s.ListOrders(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, 2, orders.listCnt)
}

func TestUpdateStopsReplacesAndInvalidates(t *testing.T) {
	orders := &ordersStub{exists: true}
	store := cache.NewMemory(cache.WithNoJanitor())
	s, cch := newService(orders, &customersStub{}, store, nil)

	cch.PutDetail(dtoDetail(9))
	cch.PutList(cache.ListKey("", 1, 10, "newest"), dtoPage())
	cch.PutCounts(dtoCounts())

	err := s.UpdateStops(context.Background(), 9, sampleStops())
	require.NoError(t, err)

	require.Equal(t, uint(9), orders.replacedID)
	require.Len(t, orders.replaced, 2)
	require.Equal(t, models.Polyline{{40.71, -74.00}, {34.05, -118.24}}, orders.replacedGeom)

	_, ok := cch.GetDetail(9)
	require.False(t, ok)
	_, ok = cch.GetList(cache.ListKey("", 1, 10, "newest"))
	require.False(t, ok)
	_, ok = cch.GetCounts()
	require.False(t, ok)
}

func TestUpdateStopsUnknownOrder(t *testing.T) {
	s, _ := newService(&ordersStub{exists: false}, &customersStub{}, cache.Noop{}, nil)

	err := s.UpdateStops(context.Background(), 404, sampleStops())
	require.ErrorIs(t, err, svc.ErrNotFound)
}

func TestUpdateOrderRateKeepsCounts(t *testing.T) {
	orders := &ordersStub{exists: true}
	store := cache.NewMemory(cache.WithNoJanitor())
	s, cch := newService(orders, &customersStub{}, store, nil)

	cch.PutDetail(dtoDetail(9))
	cch.PutCounts(dtoCounts())

	err := s.UpdateOrderRate(context.Background(), 9, 1999.99)
	require.NoError(t, err)
	require.Equal(t, uint(9), orders.ratedID)
	require.Equal(t, 1999.99, orders.rated)

	_, ok := cch.GetDetail(9)
	require.False(t, ok)
	_, ok = cch.GetCounts()
	require.True(t, ok, "rate change must not evict counts")
}

func TestGetOrderCountsCached(t *testing.T) {
	orders := &ordersStub{}
	s, _ := newService(orders, &customersStub{}, cache.NewMemory(cache.WithNoJanitor()), nil)

	counts, err := s.GetOrderCounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, counts.Inbound)
	require.Equal(t, 9, counts.Outbound)

	_, err = s.GetOrderCounts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, orders.countsCnt)
}

func TestPublisherFailureDoesNotFailOperation(t *testing.T) {
	orders := &ordersStub{createID: 10}
	events := &eventsStub{err: errors.New("broker down")}
	s, _ := newService(orders, &customersStub{exists: true}, cache.Noop{}, events)

	id, err := s.CreateOrder(context.Background(), svc.CreateOrderInput{CustomerID: 1, Stops: sampleStops()})

	require.NoError(t, err)
	require.Equal(t, uint(10), id)
	require.Len(t, events.payloads, 1)
	require.Contains(t, string(events.payloads[0]), "order.created")
}

func TestRepositoryErrorPropagates(t *testing.T) {
	boom := errors.New("pg down")
	orders := &ordersStub{exists: true, rateErr: boom}
	s, _ := newService(orders, &customersStub{}, cache.Noop{}, nil)

	err := s.UpdateOrderRate(context.Background(), 1, 500)
	require.ErrorIs(t, err, boom)
}
