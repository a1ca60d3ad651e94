package tracker

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"ptt/internal/providers"
	"ptt/internal/structures"
	"ptt/internal/tracker/interfaces"
)

type Scheduler struct {
	config   *structures.Config
	logger   providers.Logger
	store    *Store
	state    *FileState
	resolver *Resolver
	calc     *Calculator
	timer    *Timer

	cron         *gron.Cron
	refreshTimer *time.Timer
	opsMu        sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.store.Flush(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while flushing record: %s", err)
		}
		if err := s.state.Save(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted state to file %s", s.config.Persistence.FilePath)
	})

	s.cron.Start()
	s.timer.Start()

	// Git integrations and the sync transport can deliver late; refresh all
	// caches once shortly after startup.
	s.refreshTimer = time.AfterFunc(s.config.Tracker.ForceRefreshDelay, func() {
		s.resolver.Invalidate()
		s.calc.Invalidate()
		s.logger.Infof(providers.TypeApp, "Forced fingerprint refresh after startup")
	})
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	s.timer.Stop()
	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
	}
}

// Restore loads the state file and runs the legacy-schema migration. Must
// complete before any fingerprint-based logic touches the store.
func (s *Scheduler) Restore() error {
	if err := s.state.Load(); err != nil {
		return err
	}
	if _, err := s.store.MigrateLegacy(); err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting tracker state to file...")
	if err := s.store.Flush(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while flushing record: %s", err)
		return err
	}
	if err := s.state.Save(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store *Store, state *FileState, resolver *Resolver, calc *Calculator, timer *Timer) interfaces.SchedulerInterface {
	return &Scheduler{
		config:   config,
		logger:   logger,
		store:    store,
		state:    state,
		resolver: resolver,
		calc:     calc,
		timer:    timer,
	}
}
