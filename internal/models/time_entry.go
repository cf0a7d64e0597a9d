package models

import (
	"time"
)

// TimeEntry is an immutable, closed interval of time spent on a task.
// Entries are only ever created by the timer engine when a running timer is
// stopped or superseded; nothing in the codebase updates one afterwards.
type TimeEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TaskID    string    `gorm:"not null;index" json:"task_id"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	StoppedAt time.Time `gorm:"not null" json:"stopped_at"`
	// Duration is floor(StoppedAt - StartedAt) in whole seconds.
	Duration int `gorm:"not null" json:"duration_seconds"`

	// Relationships
	Task Task `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
