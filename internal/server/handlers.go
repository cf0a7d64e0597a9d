package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jhennig/stamm/internal/models"
	"github.com/jhennig/stamm/internal/service"
)

// respond helpers: every endpoint answers with the same envelope,
// {"success":true,"data":...} or {"success":false,"error":{code,message}}.

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, err error) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindNotFound, service.KindAuthorization:
		// Ownership failures are indistinguishable from missing resources
		// on the wire, so nothing leaks about other users' data.
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": string(service.KindNotFound), "message": "not found"},
		})
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": string(kind), "message": userMessage(err)},
		})
	case service.KindConflict:
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   gin.H{"code": string(kind), "message": userMessage(err)},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": string(service.KindInternal), "message": "internal error"},
		})
	}
}

func userMessage(err error) string {
	if se, okErr := err.(*service.Error); okErr {
		return se.Message
	}
	return "internal error"
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   gin.H{"code": string(service.KindValidation), "message": err.Error()},
	})
}

// Projects

type projectRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := s.projects.Create(currentUserID(c), service.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, project)
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.projects.List(currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, projects)
}

func (s *Server) handleGetProject(c *gin.Context) {
	project, err := s.projects.Get(currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := s.projects.Update(currentUserID(c), c.Param("id"), service.CreateProjectParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	if err := s.projects.Delete(currentUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"id": c.Param("id")})
}

func (s *Server) handleProjectTree(c *gin.Context) {
	nodes, err := s.projects.TaskTree(currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"tasks": nodes})
}

// Tasks

type createTaskRequest struct {
	ProjectID   string   `json:"project_id" binding:"required"`
	ParentID    *string  `json:"parent_id"`
	Title       string   `json:"title" binding:"required,min=2,max=100"`
	Description string   `json:"description" binding:"max=1000"`
	Estimate    *int     `json:"estimate" binding:"omitempty,min=0"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.tasks.Create(currentUserID(c), service.CreateTaskParams{
		ProjectID:   req.ProjectID,
		ParentID:    req.ParentID,
		Title:       req.Title,
		Description: req.Description,
		Estimate:    req.Estimate,
		Tags:        req.Tags,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=2,max=100"`
	Description *string   `json:"description" binding:"omitempty,max=1000"`
	Estimate    *int      `json:"estimate" binding:"omitempty,min=0"`
	Tags        *[]string `json:"tags"`
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := s.tasks.Update(currentUserID(c), service.UpdateTaskParams{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Estimate:    req.Estimate,
		Tags:        req.Tags,
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	result, err := s.tasks.Delete(currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	task, err := s.tasks.Complete(currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleReopenTask(c *gin.Context) {
	task, err := s.tasks.Reopen(currentUserID(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleHasActiveTimers(c *gin.Context) {
	active, err := s.tasks.HasActiveTimers(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"has_active_timers": active})
}

// Timer

type startTimerRequest struct {
	TaskID string `json:"task_id" binding:"required"`
}

func (s *Server) handleStartTimer(c *gin.Context) {
	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := s.timers.Start(currentUserID(c), req.TaskID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}

func (s *Server) handleStopTimer(c *gin.Context) {
	entry, err := s.timers.Stop(currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, entry)
}

func (s *Server) handleCurrentTimer(c *gin.Context) {
	timer, err := s.timers.Active(currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	if timer == nil {
		ok(c, http.StatusOK, gin.H{"active_timer": nil, "task": nil})
		return
	}

	var task models.Task
	if err := s.db.Select("id", "title").First(&task, "id = ?", timer.TaskID).Error; err != nil {
		fail(c, service.Internal("failed to load timed task", err))
		return
	}
	ok(c, http.StatusOK, gin.H{
		"active_timer": timer,
		"task":         gin.H{"id": task.ID, "title": task.Title},
	})
}
