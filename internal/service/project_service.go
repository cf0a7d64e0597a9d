package service

import (
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/jhennig/stamm/internal/models"
	"github.com/jhennig/stamm/internal/tree"
)

// ProjectService handles projects and the derived task-tree read path.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProjectParams holds the data needed to create a project
type CreateProjectParams struct {
	Name        string
	Description string
}

func (s *ProjectService) Create(userID string, params CreateProjectParams) (*models.Project, error) {
	if err := validateProjectFields(params.Name, params.Description); err != nil {
		return nil, err
	}

	project := models.Project{
		UserID:      userID,
		Name:        params.Name,
		Description: params.Description,
	}
	if err := s.db.Create(&project).Error; err != nil {
		return nil, Internal("failed to create project", err)
	}
	return &project, nil
}

// List returns the user's projects, newest first.
func (s *ProjectService) List(userID string) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, Internal("failed to list projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(userID, projectID string) (*models.Project, error) {
	return s.ownedProject(userID, projectID)
}

func (s *ProjectService) Update(userID, projectID string, params CreateProjectParams) (*models.Project, error) {
	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return nil, err
	}
	if err := validateProjectFields(params.Name, params.Description); err != nil {
		return nil, err
	}

	project.Name = params.Name
	project.Description = params.Description
	if err := s.db.Save(project).Error; err != nil {
		return nil, Internal("failed to update project", err)
	}
	return project, nil
}

// Delete soft-deletes a project together with all of its tasks. Like the
// task cascade, the whole thing is refused while any timer runs on a task of
// the project, and the guard shares the delete's transaction.
func (s *ProjectService) Delete(userID, projectID string) error {
	project, err := s.ownedProject(userID, projectID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var running int64
		err := tx.Model(&models.ActiveTimer{}).
			Where("task_id IN (?)", tx.Model(&models.Task{}).Select("id").Where("project_id = ?", projectID)).
			Count(&running).Error
		if err != nil {
			return err
		}
		if running > 0 {
			return Conflict("cannot delete a project while a timer is running on one of its tasks")
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
	return wrapUnexpected(err, "failed to delete project")
}

// TaskTree loads the project's non-deleted tasks plus the caller's active
// timer and derives the full task forest. The derivation itself is pure; all
// I/O happens here.
func (s *ProjectService) TaskTree(userID, projectID string) ([]*tree.TaskNode, error) {
	if _, err := s.ownedProject(userID, projectID); err != nil {
		return nil, err
	}

	var tasks []models.Task
	err := s.db.Preload("TimeEntries").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, Internal("failed to load project tasks", err)
	}

	var active *tree.ActivePointer
	var timer models.ActiveTimer
	err = s.db.First(&timer, "user_id = ?", userID).Error
	switch {
	case err == nil:
		active = &tree.ActivePointer{TaskID: timer.TaskID, StartedAt: timer.StartedAt}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, Internal("failed to fetch active timer", err)
	}

	return tree.Build(tasks, active), nil
}

func (s *ProjectService) ownedProject(userID, projectID string) (*models.Project, error) {
	var project models.Project
	err := s.db.First(&project, "id = ?", projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("project not found")
		}
		return nil, Internal("failed to load project", err)
	}
	if project.UserID != userID {
		return nil, Authorization("user does not have access to this project")
	}
	return &project, nil
}

func validateProjectFields(name, description string) error {
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return Validation("name must be between 2 and 100 characters")
	}
	if utf8.RuneCountInString(description) > 1000 {
		return Validation("description must be at most 1000 characters")
	}
	return nil
}
