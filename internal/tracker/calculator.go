package tracker

import (
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"ptt/internal/models"
	"ptt/internal/providers"
	"ptt/internal/structures"
)

// snapshot caches the expensive cross-device aggregation. Today's local
// seconds are deliberately not in here; they are read live from the record
// cache so the displayed number ticks in near-real-time.
type snapshot struct {
	remoteTotal    float64
	remoteToday    float64
	localPastTotal float64
	today          string
	takenAt        time.Time
}

// Calculator derives display totals for the current project across all known
// devices. Remote records are selected with the loose cross-device match and
// cached for a bounded lifetime; a calendar-day change invalidates the
// snapshot regardless of age.
type Calculator struct {
	store    *Store
	state    StateStore
	resolver *Resolver
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	ttl      time.Duration
	now      func() time.Time

	mu   sync.Mutex
	snap *snapshot
}

func NewCalculator(conf *structures.Config, store *Store, state StateStore, resolver *Resolver, logger providers.Logger, metrics providers.MetricsProviderInterface) *Calculator {
	return &Calculator{
		store:    store,
		state:    state,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
		ttl:      conf.Tracker.AggregateTTL,
		now:      time.Now,
	}
}

// TotalSeconds returns the all-time seconds for the current project summed
// over every device.
func (c *Calculator) TotalSeconds() (float64, error) {
	snap, local, err := c.current()
	if err != nil {
		return 0, err
	}
	total := snap.remoteTotal + snap.localPastTotal + local.History.SecondsOn(snap.today)
	c.metrics.SetTrackedSeconds("total", total)
	return total, nil
}

// TodaySeconds returns today's seconds for the current project summed over
// every device.
func (c *Calculator) TodaySeconds() (float64, error) {
	snap, local, err := c.current()
	if err != nil {
		return 0, err
	}
	today := snap.remoteToday + local.History.SecondsOn(snap.today)
	c.metrics.SetTrackedSeconds("today", today)
	return today, nil
}

// Invalidate drops the snapshot so the next query rebuilds it.
func (c *Calculator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}

func (c *Calculator) current() (*snapshot, *models.DeviceProjectData, error) {
	local, err := c.store.Get()
	if err != nil {
		return nil, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	today := models.DateOf(now)
	if c.snap == nil || c.snap.today != today || now.Sub(c.snap.takenAt) > c.ttl {
		snap, err := c.refresh(local, today, now)
		if err != nil {
			return nil, nil, err
		}
		c.snap = snap
	}
	return c.snap, local, nil
}

func (c *Calculator) refresh(local *models.DeviceProjectData, today string, now time.Time) (*snapshot, error) {
	current, ok := c.resolver.Current()
	if !ok {
		return nil, ErrNoProject
	}

	snap := &snapshot{today: today, takenAt: now}

	for date, rec := range local.History {
		if date != today {
			snap.localPastTotal += rec.Seconds
		}
	}

	localPrefix := models.DeviceKeyPrefix(c.store.DeviceID())
	for _, key := range c.state.Keys() {
		if !models.IsV2Key(key) || strings.HasPrefix(key, localPrefix) {
			continue
		}
		raw, ok := c.state.Get(key)
		if !ok {
			continue
		}
		var data models.DeviceProjectData
		if err := json.Unmarshal(raw, &data); err != nil {
			c.logger.Warnf(providers.TypeApp, "Skipping unreadable remote record %s: %s", key, err)
			continue
		}
		if !models.MatchRemote(data.MatchInfo, current) {
			continue
		}
		for date, rec := range data.History {
			snap.remoteTotal += rec.Seconds
			if date == today {
				snap.remoteToday += rec.Seconds
			}
		}
	}

	c.logger.Debugf(providers.TypeApp, "Rebuilt aggregation snapshot: remote=%.0fs localPast=%.0fs",
		snap.remoteTotal, snap.localPastTotal)
	return snap, nil
}
