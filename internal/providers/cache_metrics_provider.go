package providers

import "ptt/internal/structures"

// MeteredCache wraps a cache provider and counts hits/misses.
type MeteredCache struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func NewMeteredCache(inner CacheProviderInterface, metrics MetricsProviderInterface) CacheProviderInterface {
	return &MeteredCache{inner: inner, metrics: metrics}
}

func (mc *MeteredCache) Get(key string) ([]byte, bool) {
	val, ok := mc.inner.Get(key)
	if ok {
		mc.metrics.IncCacheHits()
	} else {
		mc.metrics.IncCacheMisses()
	}
	return val, ok
}

func (mc *MeteredCache) Set(key string, value []byte) {
	mc.inner.Set(key, value)
}

func (mc *MeteredCache) Del(key string) {
	mc.inner.Del(key)
}

// NewApiCache builds the response cache used by the API layer, with hit and
// miss counters attached.
func NewApiCache(conf *structures.Config, logger Logger, metrics MetricsProviderInterface) CacheProviderInterface {
	return NewMeteredCache(NewCacheProvider(conf, logger), metrics)
}
