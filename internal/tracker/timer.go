package tracker

import (
	"errors"
	"strings"
	"sync"
	"time"

	"ptt/internal/models"
	"ptt/internal/providers"
	"ptt/internal/structures"
)

// Timer attributes elapsed wall time to the current project's daily bucket.
// Activity arrives from editor heartbeats and from the filesystem probe; when
// neither reports anything for longer than the idle threshold the timer
// pauses until the next signal.
type Timer struct {
	store  *Store
	probe  ActivityProbe
	logger providers.Logger

	tick          time.Duration
	idleThreshold time.Duration
	now           func() time.Time

	mu           sync.Mutex
	lastUpdate   time.Time
	lastActivity models.Activity
	lastActiveAt time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewTimer(conf *structures.Config, store *Store, probe ActivityProbe, logger providers.Logger) *Timer {
	return &Timer{
		store:         store,
		probe:         probe,
		logger:        logger,
		tick:          conf.Tracker.TickInterval,
		idleThreshold: conf.Tracker.IdleThreshold,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

// Heartbeat registers user activity and resets the idle clock.
func (t *Timer) Heartbeat(a models.Activity) {
	t.mu.Lock()
	t.lastActivity = a
	t.lastActiveAt = t.now()
	t.mu.Unlock()
}

func (t *Timer) Start() {
	go func() {
		ticker := time.NewTicker(t.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				t.update()
			case <-t.stopCh:
				return
			}
		}
	}()
}

func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

func (t *Timer) update() {
	now := t.now()

	t.mu.Lock()
	if t.probe != nil {
		if a, at, ok := t.probe.Probe(); ok {
			if at.After(now) {
				// Clamp mtimes from skewed clocks.
				at = now
			}
			if at.After(t.lastActiveAt) {
				t.lastActivity = a
				t.lastActiveAt = at
			}
		}
	}
	if t.lastActiveAt.IsZero() || now.Sub(t.lastActiveAt) > t.idleThreshold {
		// Idle. Drop the anchor so time away is not attributed on resume.
		t.lastUpdate = time.Time{}
		t.mu.Unlock()
		return
	}
	if t.lastUpdate.IsZero() {
		t.lastUpdate = now
		t.mu.Unlock()
		return
	}
	duration := now.Sub(t.lastUpdate).Seconds()
	t.lastUpdate = now
	activity := t.lastActivity
	t.mu.Unlock()

	err := t.store.Update(func(data *models.DeviceProjectData) {
		date := models.DateOf(now)
		rec, ok := data.History[date]
		if !ok {
			rec = models.NewDailyRecord()
			data.History[date] = rec
		}
		rec.Seconds += duration
		if activity.Language != "" {
			rec.Languages[activity.Language] += duration
		}
		// Absolute paths are not portable across records; track relative only.
		if activity.File != "" && !strings.HasPrefix(activity.File, "/") {
			rec.Files[activity.File] += duration
		}
	})
	if err != nil && !errors.Is(err, ErrNoProject) {
		t.logger.Warnf(providers.TypeApp, "Tick skipped: %s", err)
	}
}
