package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"todolist/internal/models"
)

// TodoStore is the persistence surface the handlers consume. It is an
// interface so tests can substitute a canned or failing store.
type TodoStore interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, title, description string) (models.Todo, error)
	GetTodo(ctx context.Context, id string) (models.Todo, error)
	UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (models.Todo, error)
	DeleteTodo(ctx context.Context, id string) (models.Todo, error)
}

// Server provides the REST surface for the to-do list backend.
type Server struct {
	engine      *gin.Engine
	store       TodoStore
	logger      *slog.Logger
	staticDir   string
	dbConnected bool
}

// New constructs the HTTP server with routes and middleware configured.
// dbConnected records whether the startup probe reached the database;
// when false the server runs degraded and /health reports it.
func New(store TodoStore, logger *slog.Logger, staticDir string, dbConnected bool) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/health"))
	router.Use(cors.Default())

	srv := &Server{
		engine:      router,
		store:       store,
		logger:      logger,
		staticDir:   staticDir,
		dbConnected: dbConnected,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the API, health and static handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	todos := s.engine.Group("/api/todos")
	{
		todos.GET("", s.handleListTodos)
		todos.POST("", s.handleCreateTodo)
		todos.GET(":id", s.handleGetTodo)
		todos.PUT(":id", s.handleUpdateTodo)
		todos.DELETE(":id", s.handleDeleteTodo)
	}

	s.mountStatic()
}

// handleHealth always answers 200; orchestration probes read the
// database field to tell a degraded instance from a healthy one.
func (s *Server) handleHealth(c *gin.Context) {
	status := "ok"
	message := "Server is running"
	database := "connected"
	if !s.dbConnected {
		status = "degraded"
		message = "Server is running without a confirmed database connection"
		database = "disconnected"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"message":  message,
		"database": database,
	})
}
