package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"xcoderunner/model"
	"xcoderunner/pkg"
	appErr "xcoderunner/pkg/errors"
)

// Executor is the service the handlers delegate to.
type Executor interface {
	Execute(ctx context.Context, req model.ExecutionRequest) (model.ExecutionResponse, error)
}

type ExecutionHandler struct {
	svc    Executor
	logger *zap.Logger
}

func NewExecutionHandler(svc Executor, logger *zap.Logger) *ExecutionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecutionHandler{svc: svc, logger: logger}
}

// NewRouter wires the public API. limiter may be nil to disable rate limiting.
func NewRouter(svc Executor, limiter *pkg.RateLimiter, logger *zap.Logger) *gin.Engine {
	h := NewExecutionHandler(svc, logger)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger), cors())

	r.GET("/health", HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	if limiter != nil {
		api.Use(limiter.Limit())
	}
	api.POST("/", h.HandleExecute)
	api.POST("/execute", h.HandleExecute)
	return r
}

func HandleHealth(c *gin.Context) {
	c.String(http.StatusOK, "Server is running")
}

func (h *ExecutionHandler) HandleExecute(c *gin.Context) {
	var req model.ExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Failure("Invalid request body: "+err.Error(), int(appErr.InvalidFormat)))
		return
	}

	resp, err := h.svc.Execute(c.Request.Context(), req)
	if err != nil {
		e := appErr.GetError(err)
		status := e.Code.HTTPStatus()
		msg := e.Error()
		if status >= http.StatusInternalServerError {
			h.logger.Error("Execution request failed", zap.Error(err), zap.String("stack", e.Stack))
			msg = "Internal server error: " + msg
		}
		c.JSON(status, model.Failure(msg, int(e.Code)))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("client", c.ClientIP()),
			zap.Duration("latency", time.Since(start)))
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
