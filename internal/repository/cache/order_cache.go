package cache

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"freightdesk/internal/dto"
)

const (
	detailTTL   = 600 * time.Second
	listTTL     = 300 * time.Second
	countsTTL   = 60 * time.Second
	customerTTL = 600 * time.Second

	countsKey  = "orders:counts"
	listPrefix = "orders:list:"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightdesk_cache_hits_total",
		Help: "Cache hits by projection kind.",
	}, []string{"kind"})
	cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "freightdesk_cache_misses_total",
		Help: "Cache misses by projection kind.",
	}, []string{"kind"})
)

// OrderCache owns the cache key scheme and TTL policy for order and
// customer projections. It never returns errors: an unavailable or
// failing store behaves as a permanent miss.
type OrderCache struct {
	store Store
}

func NewOrderCache(store Store) *OrderCache {
	return &OrderCache{store: store}
}

func (c *OrderCache) Available() bool { return c.store.Available() }
func (c *OrderCache) Close()          { c.store.Close() }

func DetailKey(id uint) string   { return fmt.Sprintf("order:%d", id) }
func CustomerKey(id uint) string { return fmt.Sprintf("customer:%d", id) }

// ListKey is parameterized by every input that changes the page
// content; invalidation clears by the shared prefix.
func ListKey(query string, page, limit int, sort string) string {
	return fmt.Sprintf("%sq=%s:page=%d:limit=%d:sort=%s", listPrefix, query, page, limit, sort)
}

func (c *OrderCache) GetDetail(id uint) (dto.OrderDetail, bool) {
	v, ok := c.store.Get(DetailKey(id))
	if !ok {
		cacheMisses.WithLabelValues("order_detail").Inc()
		return dto.OrderDetail{}, false
	}
	d, ok := v.(dto.OrderDetail)
	if !ok {
		return dto.OrderDetail{}, false
	}
	cacheHits.WithLabelValues("order_detail").Inc()
	return d, true
}

func (c *OrderCache) PutDetail(d dto.OrderDetail) {
	c.store.Set(DetailKey(d.ID), d, detailTTL)
}

func (c *OrderCache) GetList(key string) (dto.OrderPage, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		cacheMisses.WithLabelValues("order_list").Inc()
		return dto.OrderPage{}, false
	}
	p, ok := v.(dto.OrderPage)
	if !ok {
		return dto.OrderPage{}, false
	}
	cacheHits.WithLabelValues("order_list").Inc()
	return p, true
}

func (c *OrderCache) PutList(key string, p dto.OrderPage) {
	c.store.Set(key, p, listTTL)
}

func (c *OrderCache) GetCounts() (dto.OrderCounts, bool) {
	v, ok := c.store.Get(countsKey)
	if !ok {
		cacheMisses.WithLabelValues("order_counts").Inc()
		return dto.OrderCounts{}, false
	}
	counts, ok := v.(dto.OrderCounts)
	if !ok {
		return dto.OrderCounts{}, false
	}
	cacheHits.WithLabelValues("order_counts").Inc()
	return counts, true
}

func (c *OrderCache) PutCounts(counts dto.OrderCounts) {
	c.store.Set(countsKey, counts, countsTTL)
}

func (c *OrderCache) GetCustomer(id uint) (dto.CustomerDetail, bool) {
	v, ok := c.store.Get(CustomerKey(id))
	if !ok {
		cacheMisses.WithLabelValues("customer_detail").Inc()
		return dto.CustomerDetail{}, false
	}
	d, ok := v.(dto.CustomerDetail)
	if !ok {
		return dto.CustomerDetail{}, false
	}
	cacheHits.WithLabelValues("customer_detail").Inc()
	return d, true
}

func (c *OrderCache) PutCustomer(d dto.CustomerDetail) {
	c.store.Set(CustomerKey(d.ID), d, customerTTL)
}

// InvalidateOrder clears the order's detail projection and every list
// page; list keys are parameterized by arbitrary query/sort/page
// combinations, so they go by prefix.
func (c *OrderCache) InvalidateOrder(id uint) {
	c.store.Delete(DetailKey(id))
	c.store.DeletePrefix(listPrefix)
}

func (c *OrderCache) InvalidateLists() {
	c.store.DeletePrefix(listPrefix)
}

func (c *OrderCache) InvalidateCounts() {
	c.store.Delete(countsKey)
}

// InvalidateCustomer clears the customer's detail projection and all
// list pages, since list rows include customer fields.
func (c *OrderCache) InvalidateCustomer(id uint) {
	c.store.Delete(CustomerKey(id))
	c.store.DeletePrefix(listPrefix)
}
