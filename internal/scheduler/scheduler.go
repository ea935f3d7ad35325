// Package scheduler keeps a cached attendance snapshot per school so the
// dashboard never hits the attendance tables on every request.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mealprogram-backend/internal/config"
	"mealprogram-backend/internal/database"
	"mealprogram-backend/internal/models"
	"mealprogram-backend/internal/school"
)

// Snapshot: one school's headcount as of the last refresh.
type Snapshot struct {
	SchoolID    uint      `json:"school_id"`
	Date        string    `json:"date"`
	Present     int       `json:"present"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Config
	logger *zap.Logger

	mu        sync.RWMutex
	snapshots map[uint]Snapshot
}

func New(cfg *config.Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(),
		cfg:       cfg,
		logger:    logger,
		snapshots: make(map[uint]Snapshot),
	}
}

// Start refreshes once immediately, then on the configured interval.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.Duration("attendance_refresh", s.cfg.AttendanceRefresh))

	s.refreshAttendance()

	spec := fmt.Sprintf("@every %s", s.cfg.AttendanceRefresh)
	if _, err := s.cron.AddFunc(spec, s.refreshAttendance); err != nil {
		s.logger.Error("failed to schedule attendance refresh", zap.Error(err))
	}

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// Snapshot returns the cached headcount for a school. ok is false until the
// first refresh has covered that school.
func (s *Scheduler) Snapshot(schoolID uint) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[schoolID]
	return snap, ok
}

func (s *Scheduler) refreshAttendance() {
	var schools []models.School
	if err := database.DB.Find(&schools).Error; err != nil {
		s.logger.Error("attendance refresh: could not list schools", zap.Error(err))
		return
	}

	now := time.Now()
	fresh := make(map[uint]Snapshot, len(schools))
	for _, sc := range schools {
		present, err := school.HeadcountForDate(sc.ID, now)
		if err != nil {
			s.logger.Error("attendance refresh failed",
				zap.Uint("school_id", sc.ID), zap.Error(err))
			continue
		}
		fresh[sc.ID] = Snapshot{
			SchoolID:    sc.ID,
			Date:        now.Format("2006-01-02"),
			Present:     present,
			RefreshedAt: now,
		}
	}

	s.mu.Lock()
	s.snapshots = fresh
	s.mu.Unlock()

	s.logger.Debug("attendance snapshots refreshed", zap.Int("schools", len(fresh)))
}
