package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jhennig/stamm/internal/models"
)

// TimerService is the timer transition engine: it owns every write to the
// active_timers table and guarantees that a user has at most one running
// timer and that elapsed time is never lost when timers are switched or
// stopped. All multi-step transitions run inside a single transaction.
type TimerService struct {
	db *gorm.DB

	// now is swapped out in tests for deterministic durations.
	now func() time.Time
}

func NewTimerService(db *gorm.DB) *TimerService {
	return &TimerService{db: db, now: time.Now}
}

// StartResult is returned by Start: the freshly created timer plus the time
// entry materialized from the previous one, if a timer was already running.
type StartResult struct {
	ActiveTimer models.ActiveTimer `json:"active_timer"`
	TimeEntry   *models.TimeEntry  `json:"time_entry"`
}

// Start begins timing taskID for the user. If a timer is already running
// (on any task, including this one) it is first converted into a permanent
// TimeEntry, then replaced. The materialize-then-delete order inside the
// transaction means a failure can never discard elapsed time.
func (s *TimerService) Start(userID, taskID string) (*StartResult, error) {
	var task models.Task
	err := s.db.Select("id", "created_by_id").First(&task, "id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("task not found")
		}
		return nil, Internal("failed to load task", err)
	}
	// TODO: replace with project membership check when collaboration lands
	if task.CreatedByID != userID {
		return nil, Authorization("user does not have access to this task")
	}

	var result StartResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := s.now()

		var existing models.ActiveTimer
		err := tx.First(&existing, "user_id = ?", userID).Error
		switch {
		case err == nil:
			entry := models.TimeEntry{
				TaskID:    existing.TaskID,
				UserID:    userID,
				StartedAt: existing.StartedAt,
				StoppedAt: now,
				Duration:  durationSeconds(existing.StartedAt, now),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.ActiveTimer{}, "user_id = ?", userID).Error; err != nil {
				return err
			}
			result.TimeEntry = &entry
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		result.ActiveTimer = models.ActiveTimer{
			UserID:    userID,
			TaskID:    taskID,
			StartedAt: now,
		}
		return tx.Create(&result.ActiveTimer).Error
	})
	if err != nil {
		return nil, wrapUnexpected(err, "failed to start time entry")
	}
	return &result, nil
}

// Stop ends the user's running timer and returns the materialized entry.
// Having no running timer is reported as not found, never silently ignored.
func (s *TimerService) Stop(userID string) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var timer models.ActiveTimer
		if err := tx.First(&timer, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("no active timer found for user")
			}
			return err
		}

		now := s.now()
		entry = models.TimeEntry{
			TaskID:    timer.TaskID,
			UserID:    userID,
			StartedAt: timer.StartedAt,
			StoppedAt: now,
			Duration:  durationSeconds(timer.StartedAt, now),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ActiveTimer{}, "user_id = ?", userID).Error
	})
	if err != nil {
		return nil, wrapUnexpected(err, "failed to stop time entry")
	}
	return &entry, nil
}

// Active returns the user's running timer, or nil when there is none. The
// absence of a timer is a normal state, not an error.
func (s *TimerService) Active(userID string) (*models.ActiveTimer, error) {
	var timer models.ActiveTimer
	err := s.db.First(&timer, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, Internal("failed to fetch active timer", err)
	}
	return &timer, nil
}

// durationSeconds is floor(stopped - started) in whole seconds. A skewed
// clock can make the interval negative; that is clamped to 0 rather than
// rejected.
func durationSeconds(started, stopped time.Time) int {
	d := stopped.Sub(started)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
