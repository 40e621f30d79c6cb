package api

import (
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohamed-004/scheduler/pkg/core/model"
	"github.com/Mohamed-004/scheduler/pkg/core/services"
	"github.com/Mohamed-004/scheduler/pkg/core/validation"
	"github.com/Mohamed-004/scheduler/pkg/db"
)

// Handler serves the scheduling services over HTTP
type Handler struct {
	Store   db.Store
	Options validation.Options
	Logger  *zap.Logger
}

// AssignRequest is the body of POST /api/jobs/:id/assignments
type AssignRequest struct {
	Request     model.SchedulingRequest      `json:"request"`
	Assignments []model.WorkerRoleAssignment `json:"assignments"`
}

// NewRouter wires the routes. Validation verdicts are always 200;
// only undecodable bodies and refused or failed writes use error statuses.
func NewRouter(h *Handler) *gin.Engine {
	if h.Logger == nil {
		h.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/validate", h.Validate)
		api.POST("/suggest", h.Suggest)
		api.POST("/jobs", h.CreateJob)
		api.POST("/jobs/:id/assignments", h.AssignWorkers)
	}
	return r
}

// Validate runs the full scheduling check
func (h *Handler) Validate(c *gin.Context) {
	var req model.SchedulingRequest
	if !h.bind(c, &req) {
		return
	}

	result := services.ValidateJob(c.Request.Context(), h.Store, h.Options, h.Logger, req)
	c.JSON(http.StatusOK, result)
}

// Suggest validates and proposes ranked assignments
func (h *Handler) Suggest(c *gin.Context) {
	var req model.SchedulingRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := services.SuggestAssignments(c.Request.Context(), h.Store, h.Options, h.Logger, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateJob persists a job once it validates
func (h *Handler) CreateJob(c *gin.Context) {
	var input services.CreateJobInput
	if !h.bind(c, &input) {
		return
	}

	result, err := services.CreateJob(c.Request.Context(), h.Store, h.Options, h.Logger, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// AssignWorkers adds assignments to an existing job
func (h *Handler) AssignWorkers(c *gin.Context) {
	var body AssignRequest
	if !h.bind(c, &body) {
		return
	}

	assigned, err := services.AssignWorkers(c.Request.Context(), h.Store, h.Options, h.Logger,
		c.Param("id"), body.Request, body.Assignments)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assignments": assigned})
}

func (h *Handler) bind(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// fail maps service errors onto statuses
func (h *Handler) fail(c *gin.Context, err error) {
	var notBookable *services.NotBookableError
	switch {
	case errors.As(err, &notBookable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "validation": notBookable.Validation})
	case errors.Is(err, db.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case db.IsUnavailable(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "hints": errors.GetAllHints(err)})
	default:
		h.Logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.Logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
