package models

import (
	"time"
)

// ActiveTimer is the single in-progress timing session for a user. The user
// id is the primary key, so the schema itself guarantees at most one running
// timer per user. A running timer never carries a stop time or duration;
// those exist only once the timer is materialized into a TimeEntry.
type ActiveTimer struct {
	UserID    string    `gorm:"primarykey" json:"user_id"`
	TaskID    string    `gorm:"not null;index" json:"task_id"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
}
