package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/editorconfig"
	"github.com/GG-O-BP/kirakiraichigo-mendix-manager-sub000/internal/infrastructure/monitoring"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// Service is the evaluation surface the handlers depend on. It is satisfied
// by *editorconfig.Evaluator.
type Service interface {
	Evaluate(ctx context.Context, content string, values editorconfig.Values, def editorconfig.WidgetDefinition) (*editorconfig.EvaluationResult, error)
	VisiblePropertyKeys(ctx context.Context, content string, values editorconfig.Values, def editorconfig.WidgetDefinition) ([]string, bool, error)
	Validate(ctx context.Context, content string, values editorconfig.Values) ([]editorconfig.ValidationError, error)
}

// EvaluateRequest is the body of the evaluate and visible-keys endpoints
type EvaluateRequest struct {
	Content string                        `json:"content"`
	Values  editorconfig.Values           `json:"values"`
	Widget  editorconfig.WidgetDefinition `json:"widget"`
}

// ValidateRequest is the body of the validate endpoint
type ValidateRequest struct {
	Content string              `json:"content"`
	Values  editorconfig.Values `json:"values"`
}

// VisibleKeysResponse distinguishes a config without getProperties
// (HasGetProperties false, Keys null) from one that hides everything.
type VisibleKeysResponse struct {
	HasGetProperties bool     `json:"hasGetProperties"`
	Keys             []string `json:"keys"`
}

// ValidateResponse wraps the validation errors
type ValidateResponse struct {
	Errors []editorconfig.ValidationError `json:"errors"`
}

// Handlers contains all HTTP handlers
type Handlers struct {
	service  Service
	metrics  *monitoring.Metrics
	gatherer prometheus.Gatherer
}

// NewHandlers creates a new handler set. metrics and gatherer may be nil.
func NewHandlers(service Service, metrics *monitoring.Metrics, gatherer prometheus.Gatherer) *Handlers {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handlers{
		service:  service,
		metrics:  metrics,
		gatherer: gatherer,
	}
}

// Register mounts every route on r. The given middleware guards only the
// /editor-config group, which is returned so transports can add to it.
func (h *Handlers) Register(r gin.IRouter, evaluation ...gin.HandlerFunc) *gin.RouterGroup {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics())

	group := r.Group("/editor-config", evaluation...)
	group.POST("/evaluate", h.Evaluate)
	group.POST("/visible-keys", h.VisibleKeys)
	group.POST("/validate", h.Validate)
	return group
}

// Root returns the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Editor Config Evaluation Runtime",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{"status": "healthy"}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Metrics exposes the Prometheus registry
func (h *Handlers) Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}

// Evaluate runs the full pipeline against the posted widget definition
func (h *Handlers) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.service.Evaluate(c.Request.Context(), req.Content, req.Values, req.Widget)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VisibleKeys returns the keys left visible by getProperties
func (h *Handlers) VisibleKeys(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	keys, ok, err := h.service.VisiblePropertyKeys(c.Request.Context(), req.Content, req.Values, req.Widget)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := VisibleKeysResponse{HasGetProperties: ok}
	if ok {
		resp.Keys = keys
		if resp.Keys == nil {
			resp.Keys = []string{}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Validate runs check against the posted values
func (h *Handlers) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	errs, err := h.service.Validate(c.Request.Context(), req.Content, req.Values)
	if err != nil {
		respondError(c, err)
		return
	}
	if errs == nil {
		errs = []editorconfig.ValidationError{}
	}
	c.JSON(http.StatusOK, ValidateResponse{Errors: errs})
}
