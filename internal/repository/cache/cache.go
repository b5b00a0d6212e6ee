package cache

import (
	"strings"
	"sync"
	"time"
)

// Store is the cache contract. All operations are best-effort: an
// unavailable store treats every Get as a miss and every mutation as a
// no-op, so the cache is never a source of request failure. Callers
// check Available before relying on cache results.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, v interface{}, ttl time.Duration)
	Delete(key string)
	DeletePrefix(prefix string)
	Available() bool
	Close()
}

type expiring struct {
	V interface{}
	E time.Time
}

// Memory is the in-process Store. Entries carry their own TTL; a
// janitor goroutine sweeps expired entries in the background.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]expiring
	avail bool

	interval time.Duration
	ticker   *time.Ticker
	stop     chan struct{}
	now      func() time.Time
}

type Option func(*Memory)

func WithJanitorInterval(d time.Duration) Option { return func(m *Memory) { m.interval = d } }
func WithNoJanitor() Option                      { return func(m *Memory) { m.interval = 0 } }
func WithClock(now func() time.Time) Option      { return func(m *Memory) { m.now = now } }

func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		data:     make(map[string]expiring),
		avail:    true,
		interval: 30 * time.Second,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}

	if m.interval > 0 {
		m.ticker = time.NewTicker(m.interval)
		go func() {
			for {
				select {
				case <-m.ticker.C:
					m.purgeExpired()
				case <-m.stop:
					return
				}
			}
		}()
	}
	return m
}

func (m *Memory) Close() {
	if m.ticker != nil {
		m.ticker.Stop()
	}
	close(m.stop)
}

// SetAvailable flips connection health. While unavailable every read
// is a miss and every write a no-op.
func (m *Memory) SetAvailable(ok bool) {
	m.mu.Lock()
	m.avail = ok
	m.mu.Unlock()
}

func (m *Memory) Available() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.avail
}

func (m *Memory) Set(key string, v interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.avail {
		return
	}
	e := expiring{V: v}
	if ttl > 0 {
		e.E = m.now().Add(ttl)
	}
	m.data[key] = e
}

func (m *Memory) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	avail := m.avail
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !avail || !ok {
		return nil, false
	}
	if !e.E.IsZero() && m.now().After(e.E) {
		m.Delete(key)
		return nil, false
	}
	return e.V, true
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

func (m *Memory) DeletePrefix(prefix string) {
	m.mu.Lock()
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
		}
	}
	m.mu.Unlock()
}

func (m *Memory) purgeExpired() {
	now := m.now()
	m.mu.Lock()
	for k, e := range m.data {
		if !e.E.IsZero() && now.After(e.E) {
			delete(m.data, k)
		}
	}
	m.mu.Unlock()
}

// Noop is the Store used when caching is disabled: never available,
// every read a miss, every write a no-op.
type Noop struct{}

func (Noop) Get(string) (interface{}, bool)         { return nil, false }
func (Noop) Set(string, interface{}, time.Duration) {}
func (Noop) Delete(string)                          {}
func (Noop) DeletePrefix(string)                    {}
func (Noop) Available() bool                        { return false }
func (Noop) Close()                                 {}
