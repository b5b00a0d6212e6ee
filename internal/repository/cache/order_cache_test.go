package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"freightdesk/internal/dto"
	"freightdesk/internal/repository/cache"
)

func newOrderCache(t *testing.T) *cache.OrderCache {
	t.Helper()
	m := cache.NewMemory(cache.WithNoJanitor())
	t.Cleanup(m.Close)
	return cache.NewOrderCache(m)
}

func TestListKey_IncludesAllParameters(t *testing.T) {
	k1 := cache.ListKey("acme", 1, 10, "newest")
	k2 := cache.ListKey("acme", 2, 10, "newest")
	k3 := cache.ListKey("acme", 1, 10, "oldest")
	k4 := cache.ListKey("", 1, 10, "newest")

	require.NotEqual(t, k1, k2)
	require.NotEqual(t, k1, k3)
	require.NotEqual(t, k1, k4)
}

func TestOrderCache_DetailRoundTrip(t *testing.T) {
	c := newOrderCache(t)

	_, ok := c.GetDetail(7)
	require.False(t, ok)

	c.PutDetail(dto.OrderDetail{ID: 7, Reference: "ORD-000007"})

	d, ok := c.GetDetail(7)
	require.True(t, ok)
	require.Equal(t, "ORD-000007", d.Reference)
}

func TestOrderCache_InvalidateOrder_ClearsDetailAndLists(t *testing.T) {
	c := newOrderCache(t)

	c.PutDetail(dto.OrderDetail{ID: 7})
	key := cache.ListKey("", 1, 10, "newest")
	c.PutList(key, dto.OrderPage{Meta: dto.ListMeta{Total: 1}})
	c.PutCounts(dto.OrderCounts{Inbound: 1})

	c.InvalidateOrder(7)

	_, ok := c.GetDetail(7)
	require.False(t, ok)
	_, ok = c.GetList(key)
	require.False(t, ok)

	_, ok = c.GetCounts()
	require.True(t, ok, "counts are untouched by order invalidation")
}

func TestOrderCache_InvalidateListsAndCounts(t *testing.T) {
	c := newOrderCache(t)

	c.PutDetail(dto.OrderDetail{ID: 3})
	key := cache.ListKey("q", 2, 25, "shortest")
	c.PutList(key, dto.OrderPage{})
	c.PutCounts(dto.OrderCounts{Inbound: 4, Outbound: 2})

	c.InvalidateLists()
	c.InvalidateCounts()

	_, ok := c.GetList(key)
	require.False(t, ok)
	_, ok = c.GetCounts()
	require.False(t, ok)

	_, ok = c.GetDetail(3)
	require.True(t, ok, "detail projections survive list invalidation")
}

func TestOrderCache_InvalidateCustomer(t *testing.T) {
	c := newOrderCache(t)

	c.PutCustomer(dto.CustomerDetail{ID: 5, Name: "Acme"})
	key := cache.ListKey("", 1, 10, "newest")
	c.PutList(key, dto.OrderPage{})

	c.InvalidateCustomer(5)

	_, ok := c.GetCustomer(5)
	require.False(t, ok)
	_, ok = c.GetList(key)
	require.False(t, ok, "list rows include customer fields")
}

func TestOrderCache_NoopStoreNeverHits(t *testing.T) {
	c := cache.NewOrderCache(cache.Noop{})

	require.False(t, c.Available())
	c.PutDetail(dto.OrderDetail{ID: 1})
	_, ok := c.GetDetail(1)
	require.False(t, ok)
}
