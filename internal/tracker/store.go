package tracker

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"ptt/internal/models"
	"ptt/internal/providers"
	"ptt/internal/structures"
)

var (
	// ErrNoProject means no folder is open. Tracking is inert; callers
	// return zero values instead of failing.
	ErrNoProject = errors.New("no active project")
	// ErrDeviceMismatch means a write carried a foreign device id.
	// A device must never write another device's record.
	ErrDeviceMismatch = errors.New("device id mismatch")
	// ErrCacheMismatch means the cached record no longer matches the
	// current fingerprint. The folder identity changed without the cache
	// being invalidated, which is an invariant violation, not a user error.
	ErrCacheMismatch = errors.New("cached record does not match current fingerprint")
)

// Store keeps exactly one authoritative record per (device, project) pair.
// It holds a single in-process cache slot for the current record; flushing
// clears the slot so the next Get re-runs the duplicate-reconciliation scan,
// self-healing duplicates introduced by cross-device sync races.
type Store struct {
	state    StateStore
	resolver *Resolver
	device   *structures.DeviceIdentity
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface

	flushInterval time.Duration
	now           func() time.Time
	newUUID       func() string

	mu    sync.Mutex
	cache *models.DeviceProjectData

	lastFlush    *atomic.Int64
	flushPending *atomic.Bool
}

func NewStore(conf *structures.Config, state StateStore, resolver *Resolver, device *structures.DeviceIdentity, logger providers.Logger, metrics providers.MetricsProviderInterface) *Store {
	s := &Store{
		state:         state,
		resolver:      resolver,
		device:        device,
		logger:        logger,
		metrics:       metrics,
		flushInterval: conf.Tracker.FlushInterval,
		now:           time.Now,
		newUUID:       uuid.NewString,
		lastFlush:     atomic.NewInt64(time.Now().UnixNano()),
		flushPending:  atomic.NewBool(false),
	}
	return s
}

// DeviceID returns the id of the owning device.
func (s *Store) DeviceID() string {
	return s.device.ID
}

// Get returns a copy of the record for the current device and project,
// creating it if none exists and reconciling duplicates if several match.
// The copy may be read without synchronization; writes go through Set or
// Update.
func (s *Store) Get() (*models.DeviceProjectData, error) {
	current, ok := s.resolver.Current()
	if !ok {
		return nil, ErrNoProject
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.getLocked(current)
	if err != nil {
		return nil, err
	}
	return data.Clone(), nil
}

// Update applies fn to the live record under the store lock and triggers an
// asynchronous flush once the flush interval has elapsed. This is the
// per-tick write path; a read-modify-write through Get and Set could drop a
// concurrent tick.
func (s *Store) Update(fn func(*models.DeviceProjectData)) error {
	current, ok := s.resolver.Current()
	if !ok {
		return ErrNoProject
	}

	s.mu.Lock()
	data, err := s.getLocked(current)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	fn(data)
	s.cache = data
	s.mu.Unlock()

	s.maybeFlush()
	return nil
}

func (s *Store) getLocked(current models.MatchInfo) (*models.DeviceProjectData, error) {
	if s.cache != nil {
		matched, needsUpdate := models.MatchLocal(s.cache.MatchInfo, current)
		if !matched {
			return nil, fmt.Errorf("%w: cached %q, current %q",
				ErrCacheMismatch, s.cache.MatchInfo.FolderName, current.FolderName)
		}
		if needsUpdate {
			s.cache.MatchInfo = current
			if err := s.putRecord(s.cache); err != nil {
				return nil, err
			}
		}
		return s.cache, nil
	}

	matched, err := s.scanMatching(current)
	if err != nil {
		return nil, err
	}

	switch len(matched) {
	case 0:
		data := &models.DeviceProjectData{
			DeviceID:    s.device.ID,
			ProjectUUID: s.newUUID(),
			DeviceName:  s.device.Name,
			MatchInfo:   current,
			History:     models.History{},
		}
		if err := s.putRecord(data); err != nil {
			return nil, err
		}
		s.metrics.IncRecordsCreated()
		s.logger.Infof(providers.TypeApp, "Created record %s for project %q", data.ProjectUUID, current.FolderName)
		s.cache = data
		return data, nil
	case 1:
		s.cache = matched[0]
		return matched[0], nil
	default:
		return s.reconcile(matched, current)
	}
}

// scanMatching collects every record owned by this device whose stored
// fingerprint strictly matches the current one, refreshing the device name
// and fingerprint opportunistically.
func (s *Store) scanMatching(current models.MatchInfo) ([]*models.DeviceProjectData, error) {
	s.metrics.IncStoreScans()
	prefix := models.DeviceKeyPrefix(s.device.ID)

	var matched []*models.DeviceProjectData
	for _, key := range s.state.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		raw, ok := s.state.Get(key)
		if !ok {
			continue
		}
		var data models.DeviceProjectData
		if err := json.Unmarshal(raw, &data); err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping unreadable record %s: %s", key, err)
			continue
		}
		isMatch, needsUpdate := models.MatchLocal(data.MatchInfo, current)
		if !isMatch {
			continue
		}

		changed := false
		if data.DeviceName != s.device.Name {
			data.DeviceName = s.device.Name
			changed = true
		}
		if needsUpdate {
			data.MatchInfo = current
			changed = true
		}
		if changed {
			if err := s.putRecord(&data); err != nil {
				return nil, err
			}
		}
		matched = append(matched, &data)
	}
	return matched, nil
}

// reconcile merges duplicate matching records into the first one, retires
// the rest, and stamps the survivor with the current fingerprint. Running it
// again on the merged record is a no-op.
func (s *Store) reconcile(matched []*models.DeviceProjectData, current models.MatchInfo) (*models.DeviceProjectData, error) {
	target := matched[0]
	for _, dup := range matched[1:] {
		target.History = models.MergeHistory(target.History, dup.History)
		if err := s.state.Delete(dup.StorageKey()); err != nil {
			return nil, err
		}
		s.metrics.IncReconcileMerges()
	}

	target.MatchInfo = current
	target.DisplayName = current.FolderName
	if err := s.putRecord(target); err != nil {
		return nil, err
	}
	s.logger.Infof(providers.TypeApp, "Reconciled %d duplicate records into %s for project %q",
		len(matched)-1, target.ProjectUUID, current.FolderName)
	s.cache = target
	return target, nil
}

// Set replaces the cached record wholesale and triggers an asynchronous
// flush once the flush interval has elapsed. The record becomes the live
// cache entry; the caller must not mutate it afterwards.
func (s *Store) Set(data *models.DeviceProjectData) error {
	if data.DeviceID != s.device.ID {
		return fmt.Errorf("%w: expected %s, got %s", ErrDeviceMismatch, s.device.ID, data.DeviceID)
	}

	s.mu.Lock()
	s.cache = data
	s.mu.Unlock()

	s.maybeFlush()
	return nil
}

func (s *Store) maybeFlush() {
	if s.now().UnixNano()-s.lastFlush.Load() > s.flushInterval.Nanoseconds() {
		s.asyncFlush()
	}
}

// asyncFlush coalesces repeated triggers into at most one pending flush.
// Failures are logged; the cache stays authoritative until the next
// successful flush, so no update is lost, only delayed.
func (s *Store) asyncFlush() {
	if !s.flushPending.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer s.flushPending.Store(false)
		if err := s.Flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Async flush failed: %s", err)
		}
	}()
}

// Flush durably persists the cached record, refreshes the declared sync key
// set, and clears the cache slot so the next Get re-derives from the store.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if s.cache == nil {
		return nil
	}
	start := s.now()
	if err := s.putRecord(s.cache); err != nil {
		s.metrics.IncFlushErrors()
		return err
	}
	s.lastFlush.Store(s.now().UnixNano())
	s.cache = nil
	s.metrics.IncFlushes()
	s.metrics.ObservePersistenceDuration(s.now().Sub(start))
	s.logger.Debugf(providers.TypeApp, "Flushed record to state store")
	return nil
}

// putRecord persists a record and refreshes the sync key declaration.
func (s *Store) putRecord(data *models.DeviceProjectData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if err := s.state.Set(data.StorageKey(), raw); err != nil {
		return err
	}
	return s.updateSyncKeys()
}

// updateSyncKeys declares every current-schema key for cross-device sync.
func (s *Store) updateSyncKeys() error {
	var keys []string
	for _, key := range s.state.Keys() {
		if models.IsV2Key(key) {
			keys = append(keys, key)
		}
	}
	return s.state.SetSyncKeys(keys)
}

// ProjectName returns the display name of the current project.
func (s *Store) ProjectName() (string, error) {
	data, err := s.Get()
	if err != nil {
		return "", err
	}
	return data.Name(), nil
}

// Rename sets the user-facing name of the current project and flushes.
func (s *Store) Rename(newName string) error {
	if err := s.Update(func(data *models.DeviceProjectData) {
		data.DisplayName = newName
	}); err != nil {
		return err
	}
	return s.Flush()
}

// DeleteAll removes every current-schema record from the store.
func (s *Store) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = nil
	for _, key := range s.state.Keys() {
		if models.IsV2Key(key) {
			if err := s.state.Delete(key); err != nil {
				return err
			}
		}
	}
	return s.updateSyncKeys()
}

// ExportAll flushes, then returns every record in the store keyed by its
// storage key.
func (s *Store) ExportAll() (map[string]*models.DeviceProjectData, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*models.DeviceProjectData)
	for _, key := range s.state.Keys() {
		if !models.IsV2Key(key) {
			continue
		}
		raw, ok := s.state.Get(key)
		if !ok {
			continue
		}
		var data models.DeviceProjectData
		if err := json.Unmarshal(raw, &data); err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping unreadable record %s in export: %s", key, err)
			continue
		}
		out[key] = &data
	}
	return out, nil
}

// ImportAll writes user-supplied records into the store. Current-schema
// entries overwrite unconditionally; legacy entries are migrated on the fly.
// An unrecognized key prefix fails the call, but entries already written in
// the same call stay written; import is best-effort, not transactional.
func (s *Store) ImportAll(payload map[string]json.RawMessage) error {
	if err := s.Flush(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil

	for key, raw := range payload {
		switch {
		case models.IsV2Key(key):
			var data models.DeviceProjectData
			if err := json.Unmarshal(raw, &data); err != nil {
				return fmt.Errorf("malformed record at key %s: %w", key, err)
			}
			if err := s.state.Set(key, raw); err != nil {
				return err
			}
		case models.IsLegacyKey(key):
			var legacy models.ProjectTimeInfo
			if err := json.Unmarshal(raw, &legacy); err != nil {
				return fmt.Errorf("malformed legacy record at key %s: %w", key, err)
			}
			migrated := s.migrateRecord(&legacy)
			if err := s.putRecord(migrated); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected key prefix: %s", key)
		}
	}
	return s.updateSyncKeys()
}

// InvalidateCache drops the in-process record cache. The next Get re-derives
// from the store.
func (s *Store) InvalidateCache() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}
