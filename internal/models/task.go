package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a unit of trackable work inside a project. Tasks form a strict
// single-parent tree: ParentID points at another task in the same project
// and is fixed at creation time, so cycles cannot be introduced later.
type Task struct {
	ID        string         `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProjectID   string  `gorm:"not null;index" json:"project_id"`
	CreatedByID string  `gorm:"not null" json:"created_by_id"`
	ParentID    *string `gorm:"index" json:"parent_id"`

	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	// Estimate is in minutes; nil means no estimate was given.
	Estimate    *int       `json:"estimate"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	TimeEntries []TimeEntry `gorm:"foreignKey:TaskID" json:"-"`
	Tags        []Tag       `gorm:"many2many:task_tags;" json:"tags"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// OwnTimeSpent sums the durations of the task's own time entries, without
// any subtree rollup.
func (t *Task) OwnTimeSpent() int {
	total := 0
	for _, e := range t.TimeEntries {
		total += e.Duration
	}
	return total
}

// Tag labels tasks across a project
type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`

	// Relationships
	Tasks []Task `gorm:"many2many:task_tags;" json:"-"`
}

// TaskTag is the join table for the many-to-many relationship
type TaskTag struct {
	TaskID string `gorm:"primaryKey"`
	TagID  uint   `gorm:"primaryKey"`
}
