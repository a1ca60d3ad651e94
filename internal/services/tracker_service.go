package services

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"

	"ptt/internal/models"
	"ptt/internal/providers"
	"ptt/internal/tracker"
)

type TrackerServiceInterface interface {
	GetProjectName() string
	GetTotalSeconds() float64
	GetTodaySeconds() float64
	GetStatistics() (*models.ProjectStatistics, error)
	RecordActivity(a models.Activity)
	RenameProject(newName string) error
	Refresh()
	DeleteAllRecords() error
	ExportRecords() (map[string]*models.DeviceProjectData, error)
	ImportRecords(payload map[string]json.RawMessage) error
}

// TrackerService is the API-facing facade over the tracker core. Read
// endpoints treat the no-open-project state as zero values rather than an
// error, matching what a status display wants to render.
type TrackerService struct {
	logger   providers.Logger
	store    *tracker.Store
	calc     *tracker.Calculator
	resolver *tracker.Resolver
	timer    *tracker.Timer
	now      func() time.Time
}

func NewTrackerService(logger providers.Logger, store *tracker.Store, calc *tracker.Calculator, resolver *tracker.Resolver, timer *tracker.Timer) TrackerServiceInterface {
	return &TrackerService{
		logger:   logger,
		store:    store,
		calc:     calc,
		resolver: resolver,
		timer:    timer,
		now:      time.Now,
	}
}

func (ts *TrackerService) GetProjectName() string {
	name, err := ts.store.ProjectName()
	if err != nil {
		if !errors.Is(err, tracker.ErrNoProject) {
			ts.logger.Errorf(providers.TypeApp, "Project name lookup failed: %s", err)
		}
		return ""
	}
	return name
}

func (ts *TrackerService) GetTotalSeconds() float64 {
	total, err := ts.calc.TotalSeconds()
	if err != nil {
		if !errors.Is(err, tracker.ErrNoProject) {
			ts.logger.Errorf(providers.TypeApp, "Total seconds lookup failed: %s", err)
		}
		return 0
	}
	return total
}

func (ts *TrackerService) GetTodaySeconds() float64 {
	today, err := ts.calc.TodaySeconds()
	if err != nil {
		if !errors.Is(err, tracker.ErrNoProject) {
			ts.logger.Errorf(providers.TypeApp, "Today seconds lookup failed: %s", err)
		}
		return 0
	}
	return today
}

func (ts *TrackerService) GetStatistics() (*models.ProjectStatistics, error) {
	data, err := ts.store.Get()
	if err != nil {
		return nil, err
	}
	return models.BuildProjectStatistics(data.Name(), data.History, models.DateOf(ts.now())), nil
}

func (ts *TrackerService) RecordActivity(a models.Activity) {
	ts.timer.Heartbeat(a)
}

func (ts *TrackerService) RenameProject(newName string) error {
	return ts.store.Rename(newName)
}

// Refresh drops the fingerprint and aggregation caches so the next query
// re-reads the workspace. Wired to the editor's folder-change notifications.
func (ts *TrackerService) Refresh() {
	ts.resolver.Invalidate()
	ts.calc.Invalidate()
}

func (ts *TrackerService) DeleteAllRecords() error {
	return ts.store.DeleteAll()
}

func (ts *TrackerService) ExportRecords() (map[string]*models.DeviceProjectData, error) {
	return ts.store.ExportAll()
}

func (ts *TrackerService) ImportRecords(payload map[string]json.RawMessage) error {
	return ts.store.ImportAll(payload)
}
