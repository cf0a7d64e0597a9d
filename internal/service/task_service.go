package service

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/jhennig/stamm/internal/models"
)

// TaskService covers task CRUD plus the invariant-bearing pieces around it:
// the descendant collector and the delete guard that refuses to soft-delete
// a subtree while a timer runs anywhere inside it.
type TaskService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db, now: time.Now}
}

// CreateTaskParams holds the data needed to create a new task
type CreateTaskParams struct {
	ProjectID   string
	ParentID    *string
	Title       string
	Description string
	Estimate    *int
	Tags        []string
}

// UpdateTaskParams carries a partial update; nil fields are left untouched.
type UpdateTaskParams struct {
	ID          string
	Title       *string
	Description *string
	Estimate    *int
	Tags        *[]string
}

// Create adds a task to a project, optionally under a parent task. The
// parent must live in the same project and must not be deleted; re-parenting
// never happens afterwards, which is what keeps the hierarchy acyclic.
func (s *TaskService) Create(userID string, params CreateTaskParams) (*models.Task, error) {
	var project models.Project
	err := s.db.Select("id", "user_id").First(&project, "id = ?", params.ProjectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("project not found")
		}
		return nil, Internal("failed to load project", err)
	}
	if project.UserID != userID {
		return nil, Authorization("user does not have access to this project")
	}

	if err := validateTaskFields(params.Title, params.Description, params.Estimate); err != nil {
		return nil, err
	}

	if params.ParentID != nil {
		var parent models.Task
		err := s.db.Select("id").
			First(&parent, "id = ? AND project_id = ?", *params.ParentID, params.ProjectID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NotFound("parent task not found")
			}
			return nil, Internal("failed to load parent task", err)
		}
	}

	task := models.Task{
		ProjectID:   params.ProjectID,
		CreatedByID: userID,
		ParentID:    params.ParentID,
		Title:       params.Title,
		Description: params.Description,
		Estimate:    params.Estimate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(params.Tags) > 0 {
			tags, err := findOrCreateTags(tx, params.Tags)
			if err != nil {
				return err
			}
			task.Tags = tags
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, wrapUnexpected(err, "failed to create task")
	}
	return &task, nil
}

// Update mutates title/description/estimate/tags of an existing task.
func (s *TaskService) Update(userID string, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.ownedTask(params.ID, userID)
	if err != nil {
		return nil, err
	}

	title := task.Title
	if params.Title != nil {
		title = *params.Title
	}
	description := task.Description
	if params.Description != nil {
		description = *params.Description
	}
	estimate := task.Estimate
	if params.Estimate != nil {
		estimate = params.Estimate
	}
	if err := validateTaskFields(title, description, estimate); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		task.Title = title
		task.Description = description
		task.Estimate = estimate
		if err := tx.Save(task).Error; err != nil {
			return err
		}
		if params.Tags != nil {
			tags, err := findOrCreateTags(tx, *params.Tags)
			if err != nil {
				return err
			}
			return tx.Model(task).Association("Tags").Replace(tags)
		}
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected(err, "failed to update task")
	}
	return task, nil
}

// Complete marks a task as permanently done. If the caller's running timer
// points at this very task it is stopped first, inside the same transaction,
// so the elapsed time ends up in a TimeEntry instead of an orphaned timer on
// a completed task.
func (s *TaskService) Complete(userID, taskID string) (*models.Task, error) {
	task, err := s.ownedTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if task.CompletedAt != nil {
		return nil, Validation("task is already completed")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := s.now()

		var timer models.ActiveTimer
		err := tx.First(&timer, "user_id = ? AND task_id = ?", userID, taskID).Error
		switch {
		case err == nil:
			entry := models.TimeEntry{
				TaskID:    timer.TaskID,
				UserID:    userID,
				StartedAt: timer.StartedAt,
				StoppedAt: now,
				Duration:  durationSeconds(timer.StartedAt, now),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.ActiveTimer{}, "user_id = ?", userID).Error; err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		task.CompletedAt = &now
		return tx.Save(task).Error
	})
	if err != nil {
		return nil, wrapUnexpected(err, "failed to complete task")
	}
	return task, nil
}

// Reopen clears the completion mark of a task.
func (s *TaskService) Reopen(userID, taskID string) (*models.Task, error) {
	task, err := s.ownedTask(taskID, userID)
	if err != nil {
		return nil, err
	}
	if task.CompletedAt == nil {
		return nil, Validation("task is not completed")
	}

	task.CompletedAt = nil
	if err := s.db.Save(task).Error; err != nil {
		return nil, Internal("failed to reopen task", err)
	}
	return task, nil
}

// DeleteResult reports how many tasks a cascade delete removed.
type DeleteResult struct {
	ID           string `json:"id"`
	DeletedCount int64  `json:"deleted_count"`
}

// Delete soft-deletes a task and all of its descendants. The descendant
// collection, the active-timer check and the delete itself share one
// transaction: a timer started on a descendant between check and delete
// would otherwise leave a running timer pointing at a deleted task.
func (s *TaskService) Delete(userID, taskID string) (*DeleteResult, error) {
	task, err := s.ownedTask(taskID, userID)
	if err != nil {
		return nil, err
	}

	result := DeleteResult{ID: taskID}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		ids, err := collectDescendantIDs(tx, taskID, task.ProjectID)
		if err != nil {
			return err
		}

		var running int64
		if err := tx.Model(&models.ActiveTimer{}).Where("task_id IN ?", ids).Count(&running).Error; err != nil {
			return err
		}
		if running > 0 {
			return Conflict("cannot delete a task while a timer is running on it or one of its subtasks")
		}

		res := tx.Where("id IN ?", ids).Delete(&models.Task{})
		if res.Error != nil {
			return res.Error
		}
		result.DeletedCount = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, wrapUnexpected(err, "failed to delete task")
	}
	return &result, nil
}

// HasActiveTimers reports whether the task or any of its descendants has a
// running timer. The UI uses this to disable destructive actions early; the
// delete guard re-checks transactionally, so this read is advisory only.
func (s *TaskService) HasActiveTimers(taskID string) (bool, error) {
	var task models.Task
	err := s.db.Select("id", "project_id").First(&task, "id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, NotFound("task not found")
		}
		return false, Internal("failed to load task", err)
	}

	ids, err := collectDescendantIDs(s.db, taskID, task.ProjectID)
	if err != nil {
		return false, Internal("failed to collect descendants", err)
	}

	var running int64
	if err := s.db.Model(&models.ActiveTimer{}).Where("task_id IN ?", ids).Count(&running).Error; err != nil {
		return false, Internal("failed to check active timers for task", err)
	}
	return running > 0, nil
}

// ownedTask loads a non-deleted task and verifies the caller owns its
// project. Ownership failures come back as a distinct kind so the transport
// layer can decide how much to reveal.
func (s *TaskService) ownedTask(taskID, userID string) (*models.Task, error) {
	var task models.Task
	err := s.db.First(&task, "id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("task not found")
		}
		return nil, Internal("failed to load task", err)
	}

	var project models.Project
	err = s.db.Select("user_id").First(&project, "id = ?", task.ProjectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("task is not associated with a project")
		}
		return nil, Internal("failed to load project", err)
	}
	if project.UserID != userID {
		return nil, Authorization("user does not have access to this task")
	}
	return &task, nil
}

// collectDescendantIDs walks a task's subtree breadth-first over the
// project's non-deleted tasks, returning the task itself plus every
// transitive child. It runs on whatever handle the caller passes, so the
// delete guard can keep it inside its own transaction.
func collectDescendantIDs(tx *gorm.DB, taskID, projectID string) ([]string, error) {
	type link struct {
		ID       string
		ParentID *string
	}
	var rows []link
	err := tx.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Select("id", "parent_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	children := make(map[string][]string)
	for _, r := range rows {
		if r.ParentID != nil {
			children[*r.ParentID] = append(children[*r.ParentID], r.ID)
		}
	}

	all := []string{}
	queue := []string{taskID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		all = append(all, current)
		queue = append(queue, children[current]...)
	}
	return all, nil
}

// findOrCreateTags finds existing tags by name or creates new ones
func findOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		var tag models.Tag
		err := tx.Where("name = ?", name).First(&tag).Error
		if err != nil {
			tag = models.Tag{Name: name}
			if err := tx.Create(&tag).Error; err != nil {
				return nil, err
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// validateTaskFields re-checks the core field invariants. The HTTP boundary
// validates request shape already, but the service defends its own limits
// regardless of the caller.
func validateTaskFields(title, description string, estimate *int) error {
	if n := utf8.RuneCountInString(title); n < 2 || n > 100 {
		return Validation("title must be between 2 and 100 characters")
	}
	if utf8.RuneCountInString(description) > 1000 {
		return Validation("description must be at most 1000 characters")
	}
	if estimate != nil && *estimate < 0 {
		return Validation("estimate must not be negative")
	}
	return nil
}
