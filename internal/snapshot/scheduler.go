package snapshot

import (
	"context"
	"sync"
	"time"

	"stravaboard/internal/providers"
	"stravaboard/internal/services"
	"stravaboard/internal/snapshot/interfaces"
	"stravaboard/internal/structures"
)

// Scheduler owns the two background loops: periodic snapshot refresh (keeps
// the cache warm so readers rarely pay an aggregation) and periodic
// persistence of the last good snapshot.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	cache       services.SnapshotCacheInterface
	fileManager *FileManager

	opsMu sync.Mutex
	stop  chan struct{}
	wg    sync.WaitGroup
}

func (s *Scheduler) Init() {
	s.stop = make(chan struct{})

	s.runEvery(s.config.Persistence.SaveInterval, func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted snapshot to file %s", s.config.Persistence.FilePath)
	})

	s.runEvery(s.config.Refresh.Interval, func() {
		s.logger.Infof(providers.TypeApp, "Refreshing leaderboard snapshot...")
		if err := s.cache.Refresh(context.Background()); err != nil {
			s.logger.Errorf(providers.TypeApp, "Background refresh failed: %s", err)
			return
		}
		s.logger.Infof(providers.TypeApp, "Leaderboard snapshot refreshed")
	})
}

// runEvery spawns a ticker loop; a non-positive interval disables it.
func (s *Scheduler) runEvery(interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	if s.stop != nil {
		close(s.stop)
		s.wg.Wait()
	}
}

func (s *Scheduler) Restore() error {
	return s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshot to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting snapshot: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, cache services.SnapshotCacheInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		cache:       cache,
		fileManager: fileManager,
	}
}
