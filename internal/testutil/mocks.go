package testutil

import (
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"ptt/internal/models"
	"ptt/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockStateStore implements tracker.StateStore in memory, with optional
// error injection and a record of the last declared sync keys.
type MockStateStore struct {
	mu       sync.Mutex
	Entries  map[string][]byte
	SyncKeys []string

	SetErr      error
	DeleteErr   error
	SetSyncErr  error
	SetCalls    int
	DeleteCalls int
}

func NewMockStateStore() *MockStateStore {
	return &MockStateStore{Entries: map[string][]byte{}}
}

func (m *MockStateStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Entries[key]
	return val, ok
}

func (m *MockStateStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Entries[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockStateStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Entries, key)
	return nil
}

func (m *MockStateStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	return keys
}

func (m *MockStateStore) SetSyncKeys(keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetSyncErr != nil {
		return m.SetSyncErr
	}
	m.SyncKeys = append([]string(nil), keys...)
	return nil
}

// PutRecord stores a record under its storage key, bypassing the store.
func (m *MockStateStore) PutRecord(data *models.DeviceProjectData) {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[data.StorageKey()] = raw
}

// GetRecord decodes the record stored under key, nil if absent.
func (m *MockStateStore) GetRecord(key string) *models.DeviceProjectData {
	m.mu.Lock()
	raw, ok := m.Entries[key]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	var data models.DeviceProjectData
	if err := json.Unmarshal(raw, &data); err != nil {
		panic(err)
	}
	return &data
}

// MarshalRecords converts decoded records into a raw import payload.
func MarshalRecords(records map[string]*models.DeviceProjectData) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(records))
	for key, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			panic(err)
		}
		out[key] = raw
	}
	return out
}

// MockWorkspace implements tracker.Workspace with fixed signals.
type MockWorkspace struct {
	Name   string
	Path   string
	Remote string
}

func (m *MockWorkspace) FolderName() (string, bool)   { return m.Name, m.Name != "" }
func (m *MockWorkspace) FolderPath() (string, bool)   { return m.Path, m.Path != "" }
func (m *MockWorkspace) GitRemoteURL() (string, bool) { return m.Remote, m.Remote != "" }

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu              sync.Mutex
	Requests        int
	CacheHits       int
	CacheMisses     int
	Flushes         int
	FlushErrors     int
	ReconcileMerges int
	StoreScans      int
	RecordsCreated  int
	TrackedSeconds  map[string]float64
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{TrackedSeconds: map[string]float64{}}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncFlushes() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushes++
}
func (m *MockMetrics) IncFlushErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FlushErrors++
}
func (m *MockMetrics) IncReconcileMerges() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReconcileMerges++
}
func (m *MockMetrics) IncStoreScans() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoreScans++
}
func (m *MockMetrics) IncRecordsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordsCreated++
}
func (m *MockMetrics) ObservePersistenceDuration(duration time.Duration) {}
func (m *MockMetrics) SetTrackedSeconds(scope string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TrackedSeconds[scope] = seconds
}

// MockTrackerService implements services.TrackerServiceInterface.
type MockTrackerService struct {
	mu sync.Mutex

	ProjectName  string
	TotalSecs    float64
	TodaySecs    float64
	Stats        *models.ProjectStatistics
	StatsErr     error
	RenameErr    error
	DeleteErr    error
	ExportData   map[string]*models.DeviceProjectData
	ExportErr    error
	ImportErr    error
	Activities   []models.Activity
	Renames      []string
	RefreshCalls int
	DeleteCalls  int
	ImportCalls  []map[string]json.RawMessage
}

func (m *MockTrackerService) GetProjectName() string   { return m.ProjectName }
func (m *MockTrackerService) GetTotalSeconds() float64 { return m.TotalSecs }
func (m *MockTrackerService) GetTodaySeconds() float64 { return m.TodaySecs }

func (m *MockTrackerService) GetStatistics() (*models.ProjectStatistics, error) {
	return m.Stats, m.StatsErr
}

func (m *MockTrackerService) RecordActivity(a models.Activity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Activities = append(m.Activities, a)
}

func (m *MockTrackerService) RenameProject(newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Renames = append(m.Renames, newName)
	return m.RenameErr
}

func (m *MockTrackerService) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshCalls++
}

func (m *MockTrackerService) DeleteAllRecords() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	return m.DeleteErr
}

func (m *MockTrackerService) ExportRecords() (map[string]*models.DeviceProjectData, error) {
	return m.ExportData, m.ExportErr
}

func (m *MockTrackerService) ImportRecords(payload map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImportCalls = append(m.ImportCalls, payload)
	return m.ImportErr
}

// MockCompressor implements a pass-through compressor.
type MockCompressor struct{}

func (m *MockCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (m *MockCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
func (m *MockCompressor) Close()                                 {}
