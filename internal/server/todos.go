package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"todolist/internal/models"
	"todolist/internal/storage"
)

type todoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// handleListTodos returns the whole collection, newest first.
func (s *Server) handleListTodos(c *gin.Context) {
	todos, err := s.store.ListTodos(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to fetch todos", err)
		return
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

// handleGetTodo fetches a single todo by id.
func (s *Server) handleGetTodo(c *gin.Context) {
	todo, err := s.store.GetTodo(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "Todo not found", nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to fetch todo", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// handleCreateTodo validates the title and inserts a new todo.
func (s *Server) handleCreateTodo(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, "Title is required", nil)
		return
	}

	todo, err := s.store.CreateTodo(c.Request.Context(), *req.Title, deref(req.Description))
	if storage.IsValidation(err) {
		s.respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to create todo", err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// handleUpdateTodo merges the supplied fields over the stored row.
func (s *Server) handleUpdateTodo(c *gin.Context) {
	var req todoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch := models.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}
	todo, err := s.store.UpdateTodo(c.Request.Context(), c.Param("id"), patch)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "Todo not found", nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to update todo", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// handleDeleteTodo removes a todo and echoes the deleted row.
func (s *Server) handleDeleteTodo(c *gin.Context) {
	todo, err := s.store.DeleteTodo(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, "Todo not found", nil)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, "Failed to delete todo", err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// respondError returns a generic JSON error body. Driver detail stays
// in the server log and never reaches the client.
func (s *Server) respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": message})
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
