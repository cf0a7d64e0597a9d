// Package server exposes the core services over a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jhennig/stamm/internal/service"
)

// Server is the stamm HTTP server
type Server struct {
	db       *gorm.DB
	projects *service.ProjectService
	tasks    *service.TaskService
	timers   *service.TimerService
	router   *gin.Engine
}

// New creates a server wired to the given database handle
func New(db *gorm.DB) *Server {
	router := gin.Default()

	s := &Server{
		db:       db,
		projects: service.NewProjectService(db),
		tasks:    service.NewTaskService(db),
		timers:   service.NewTimerService(db),
		router:   router,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(s.requireUser())
	{
		api.POST("/projects", s.handleCreateProject)
		api.GET("/projects", s.handleListProjects)
		api.GET("/projects/:id", s.handleGetProject)
		api.PATCH("/projects/:id", s.handleUpdateProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)
		api.GET("/projects/:id/tree", s.handleProjectTree)

		api.POST("/tasks", s.handleCreateTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleCompleteTask)
		api.POST("/tasks/:id/reopen", s.handleReopenTask)
		api.GET("/tasks/:id/active-timers", s.handleHasActiveTimers)

		api.POST("/timer/start", s.handleStartTimer)
		api.POST("/timer/stop", s.handleStopTimer)
		api.GET("/timer/current", s.handleCurrentTimer)
	}

	return s
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}
