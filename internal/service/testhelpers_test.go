package service

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/jhennig/stamm/internal/db"
	"github.com/jhennig/stamm/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(filepath.Join(t.TempDir(), "stamm.db"), false)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Email: email, Name: email}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return &user
}

func seedProject(t *testing.T, gdb *gorm.DB, userID string) *models.Project {
	t.Helper()
	project := models.Project{UserID: userID, Name: "test project"}
	if err := gdb.Create(&project).Error; err != nil {
		t.Fatalf("seeding project: %v", err)
	}
	return &project
}

func seedTask(t *testing.T, gdb *gorm.DB, projectID, userID string, parentID *string, title string) *models.Task {
	t.Helper()
	task := models.Task{
		ProjectID:   projectID,
		CreatedByID: userID,
		ParentID:    parentID,
		Title:       title,
	}
	if err := gdb.Create(&task).Error; err != nil {
		t.Fatalf("seeding task %q: %v", title, err)
	}
	return &task
}

func countTimeEntries(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(&models.TimeEntry{}).Count(&n).Error; err != nil {
		t.Fatalf("counting time entries: %v", err)
	}
	return n
}

func countActiveTimers(t *testing.T, gdb *gorm.DB, userID string) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(&models.ActiveTimer{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		t.Fatalf("counting active timers: %v", err)
	}
	return n
}
