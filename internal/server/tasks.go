package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/tasks"
)

type createTaskRequest struct {
	Title         string  `json:"title"`
	Priority      *string `json:"priority"`
	EstimateValue *int    `json:"estimate_value"`
	EstimateUnit  *string `json:"estimate_unit"`
}

type toggleTaskRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// handleListTasks returns every task ordered by creation time.
func (s *Server) handleListTasks(c *gin.Context) {
	list, err := s.store.List(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, list)
}

// handleCreateTask appends a new task.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.store.Create(c.Request.Context(), tasks.NewTask{
		Title:         req.Title,
		Priority:      getString(req.Priority),
		EstimateValue: req.EstimateValue,
		EstimateUnit:  req.EstimateUnit,
	})
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, task)
}

// handleToggleTask marks a task completed or pending.
func (s *Server) handleToggleTask(c *gin.Context) {
	var req toggleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.store.Toggle(c.Request.Context(), c.Param("id"), *req.Completed)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusNoContent, nil)
}

// handleInsights returns progress, streak and the next suggested task.
func (s *Server) handleInsights(c *gin.Context) {
	respondSuccess(c, http.StatusOK, s.store.Insights(c.Request.Context()))
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
