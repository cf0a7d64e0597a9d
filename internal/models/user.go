package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns projects and at most one active timer at a time.
type User struct {
	ID        string    `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Name  string `json:"name"`

	// APIToken authenticates requests; authentication mechanics beyond
	// the token lookup live outside the core.
	APIToken string `gorm:"uniqueIndex;not null" json:"-"`

	Projects []Project `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.APIToken == "" {
		u.APIToken = uuid.NewString()
	}
	return nil
}
