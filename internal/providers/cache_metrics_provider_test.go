package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type cacheMetricsTestMetrics struct {
	hits   int
	misses int
}

func (m *cacheMetricsTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *cacheMetricsTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *cacheMetricsTestMetrics) IncCacheHits()                                    { m.hits++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *cacheMetricsTestMetrics) IncFlushes()                                      {}
func (m *cacheMetricsTestMetrics) IncFlushErrors()                                  {}
func (m *cacheMetricsTestMetrics) IncReconcileMerges()                              {}
func (m *cacheMetricsTestMetrics) IncStoreScans()                                   {}
func (m *cacheMetricsTestMetrics) IncRecordsCreated()                               {}
func (m *cacheMetricsTestMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (m *cacheMetricsTestMetrics) SetTrackedSeconds(_ string, _ float64)            {}

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}

func (c *cacheMetricsTestInner) Del(key string) {
	delete(c.data, key)
}

func TestMeteredCache_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"key1": []byte("val1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := NewMeteredCache(inner, metrics)

	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("val1"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}

func TestMeteredCache_Miss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := NewMeteredCache(inner, metrics)

	_, ok := cache.Get("absent")
	assert.False(t, ok)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestMeteredCache_SetAndDelPassThrough(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := NewMeteredCache(inner, metrics)

	cache.Set("key1", []byte("val1"))
	assert.Equal(t, []byte("val1"), inner.data["key1"])

	cache.Del("key1")
	_, ok := inner.data["key1"]
	assert.False(t, ok)
}
