package http

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/toolsascode/revmig/internal/api/http/dto"
	"github.com/toolsascode/revmig/internal/auth"
	"github.com/toolsascode/revmig/internal/backends"
	"github.com/toolsascode/revmig/internal/executor"
	"github.com/toolsascode/revmig/internal/registry"
	"github.com/toolsascode/revmig/internal/revision"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// Migrator is the part of the executor the HTTP API drives
type Migrator interface {
	Execute(ctx context.Context, req *executor.Request) (*executor.Report, error)
	Current(ctx context.Context) (string, error)
	History(ctx context.Context) ([]*executor.HistoryEntry, error)
	Verify(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Chain() (*registry.Chain, error)
	SetRegistry(reg registry.Registry)
}

// Reloader rebuilds the revision registry from its sources
type Reloader interface {
	Load() (registry.Registry, error)
}

// Handler handles HTTP API requests
type Handler struct {
	executor Migrator
	reloader Reloader
}

// NewHandler creates a new HTTP handler
func NewHandler(exec Migrator) *Handler {
	return &Handler{
		executor: exec,
	}
}

// SetReloader enables the reload endpoint
func (h *Handler) SetReloader(r Reloader) {
	h.reloader = r
}

// RegisterRoutes registers HTTP routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		// Handle OPTIONS for all routes
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		api.POST("/revisions/upgrade", h.authenticate, h.upgrade)
		api.POST("/revisions/downgrade", h.authenticate, h.downgrade)
		api.GET("/revisions/plan", h.authenticate, h.plan)
		api.GET("/revisions", h.authenticate, h.history)
		api.GET("/revisions/current", h.authenticate, h.current)
		api.GET("/revisions/verify", h.authenticate, h.verify)
		api.POST("/revisions/reload", h.authenticate, h.reload)
		api.GET("/revisions/:id", h.authenticate, h.getRevision)
		api.GET("/health", h.Health)
		api.GET("/openapi.yaml", h.OpenAPISpec)
		api.GET("/openapi.json", h.OpenAPISpecJSON)
	}
}

// authenticate middleware validates API token
func (h *Handler) authenticate(c *gin.Context) {
	if err := auth.Authenticate(c.GetHeader("Authorization")); err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
		c.Abort()
		return
	}
	c.Next()
}

// getExecutionMethod tells browser requests apart from API clients
func (h *Handler) getExecutionMethod(c *gin.Context) string {
	if c.GetHeader("Origin") != "" || c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return "manual"
	}
	return "api"
}

// setExecutionContext sets execution context in the request context
func (h *Handler) setExecutionContext(c *gin.Context) context.Context {
	executedBy := "api_user"
	if by := strings.TrimSpace(c.GetHeader("X-Executed-By")); by != "" {
		executedBy = by
	}

	executionContext := map[string]interface{}{
		"endpoint":  c.Request.URL.Path,
		"method":    c.Request.Method,
		"client_ip": c.ClientIP(),
	}

	return executor.SetExecutionContext(c.Request.Context(), executedBy, h.getExecutionMethod(c), executionContext)
}

// upgrade moves forward, to head unless a target is given
func (h *Handler) upgrade(c *gin.Context) {
	h.migrate(c, executor.DirectionUpgrade, revision.Head)
}

// downgrade moves backward, one revision unless a target is given
func (h *Handler) downgrade(c *gin.Context) {
	h.migrate(c, executor.DirectionDowngrade, "-1")
}

func (h *Handler) migrate(c *gin.Context, direction executor.Direction, defaultTarget string) {
	var req dto.MigrateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: "BAD_REQUEST", Message: err.Error()})
			return
		}
	}
	if req.Target == "" {
		req.Target = defaultTarget
	}

	ctx := h.setExecutionContext(c)
	report, err := h.executor.Execute(ctx, &executor.Request{
		Target:    req.Target,
		Direction: direction,
		DryRun:    req.DryRun,
	})
	h.writeReport(c, report, err)
}

// plan reports what an upgrade or downgrade to target would do
func (h *Handler) plan(c *gin.Context) {
	target := c.DefaultQuery("target", revision.Head)
	report, err := h.executor.Execute(c.Request.Context(), &executor.Request{Target: target, DryRun: true})
	h.writeReport(c, report, err)
}

func (h *Handler) writeReport(c *gin.Context, report *executor.Report, err error) {
	if err != nil && (report == nil || len(report.Processed) == 0 && report.Failed == nil) {
		h.writeError(c, err)
		return
	}

	response := toMigrateResponse(report)
	statusCode := http.StatusOK
	switch {
	case err != nil:
		response.Error = &dto.ErrorResponse{Code: executor.ErrorCode(err), Message: err.Error()}
		statusCode = statusFor(err)
	case report.Queued:
		statusCode = http.StatusAccepted
	}
	c.JSON(statusCode, response)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), dto.ErrorResponse{Code: executor.ErrorCode(err), Message: err.Error()})
}

// statusFor maps engine errors to HTTP status codes
func statusFor(err error) int {
	var (
		graphErr     *registry.GraphIntegrityError
		ambiguousErr *registry.AmbiguousRevisionError
		driftErr     *executor.DriftDetectedError
		directionErr *executor.DirectionError
		timeoutErr   *executor.TimeoutError
	)
	switch {
	case errors.Is(err, backends.ErrMigrationInProgress):
		return http.StatusConflict
	case errors.As(err, &driftErr):
		return http.StatusConflict
	case errors.Is(err, registry.ErrRevisionNotFound):
		return http.StatusNotFound
	case errors.As(err, &ambiguousErr), errors.As(err, &directionErr):
		return http.StatusBadRequest
	case errors.As(err, &graphErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func toMigrateResponse(report *executor.Report) dto.MigrateResponse {
	response := dto.MigrateResponse{
		Success:   report.Success,
		Direction: string(report.Direction),
		Target:    report.Target,
		From:      report.From,
		Tip:       report.Tip,
		Processed: make([]dto.StepResponse, 0, len(report.Processed)),
		DryRun:    report.DryRun,
		Queued:    report.Queued,
		JobID:     report.JobID,
	}
	for _, step := range report.Processed {
		response.Processed = append(response.Processed, toStepResponse(step))
	}
	if report.Failed != nil {
		failed := toStepResponse(*report.Failed)
		response.Failed = &failed
	}
	return response
}

func toStepResponse(step executor.Step) dto.StepResponse {
	return dto.StepResponse{
		Revision:    step.Revision,
		Description: step.Description,
		Phase:       string(step.Phase),
		Status:      string(step.Status),
		DurationMS:  step.Duration.Milliseconds(),
		Error:       step.Error,
	}
}

// history lists the chain newest first
func (h *Handler) history(c *gin.Context) {
	entries, err := h.executor.History(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response := dto.HistoryResponse{Items: make([]dto.RevisionItem, 0, len(entries))}
	for _, entry := range entries {
		item := toRevisionItem(entry)
		if item.IsCurrent {
			response.Current = item.Revision
		}
		if item.IsHead {
			response.Head = item.Revision
		}
		response.Items = append(response.Items, item)
	}
	response.Total = len(response.Items)

	c.JSON(http.StatusOK, response)
}

func toRevisionItem(entry *executor.HistoryEntry) dto.RevisionItem {
	item := dto.RevisionItem{
		Revision:    entry.Revision,
		Parent:      entry.Parent,
		Description: entry.Description,
		Source:      entry.Source,
		Applied:     entry.Applied,
		IsCurrent:   entry.IsCurrent,
		IsHead:      entry.IsHead,
	}
	if entry.AppliedAt != nil {
		item.AppliedAt = entry.AppliedAt.UTC().Format(time.RFC3339Nano)
	}
	return item
}

// getRevision returns one revision by full or partial id
func (h *Handler) getRevision(c *gin.Context) {
	chain, err := h.executor.Chain()
	if err != nil {
		h.writeError(c, err)
		return
	}
	id, err := chain.Resolve(c.Param("id"), "")
	if err != nil {
		h.writeError(c, err)
		return
	}
	if id == "" {
		h.writeError(c, registry.ErrRevisionNotFound)
		return
	}

	entries, err := h.executor.History(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	for _, entry := range entries {
		if entry.Revision == id {
			c.JSON(http.StatusOK, toRevisionItem(entry))
			return
		}
	}
	h.writeError(c, registry.ErrRevisionNotFound)
}

// current reports the current tip
func (h *Handler) current(c *gin.Context) {
	ctx := c.Request.Context()
	current, err := h.executor.Current(ctx)
	if err != nil {
		h.writeError(c, err)
		return
	}
	chain, err := h.executor.Chain()
	if err != nil {
		h.writeError(c, err)
		return
	}

	head := ""
	if rev := chain.Head(); rev != nil {
		head = rev.ID
	}
	c.JSON(http.StatusOK, dto.CurrentResponse{Current: current, Head: head, UpToDate: current == head})
}

// verify runs the drift check
func (h *Handler) verify(c *gin.Context) {
	err := h.executor.Verify(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, dto.VerifyResponse{OK: true})
		return
	}

	var driftErr *executor.DriftDetectedError
	if errors.As(err, &driftErr) {
		c.JSON(http.StatusConflict, dto.VerifyResponse{
			Kind:      driftErr.Kind,
			Revisions: driftErr.Revisions,
			Message:   driftErr.Message,
		})
		return
	}
	h.writeError(c, err)
}

// reload re-reads the revision files and swaps the registry if the result is a valid chain
func (h *Handler) reload(c *gin.Context) {
	if h.reloader == nil {
		c.JSON(http.StatusNotImplemented, dto.ErrorResponse{Code: "NOT_CONFIGURED", Message: "revision reload is not configured"})
		return
	}

	reg, err := h.reloader.Load()
	if err != nil {
		h.writeError(c, err)
		return
	}
	chain, err := reg.Chain()
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.executor.SetRegistry(reg)

	response := dto.ReloadResponse{Total: chain.Len()}
	if head := chain.Head(); head != nil {
		response.Head = head.ID
	}
	c.JSON(http.StatusOK, response)
}

// Health handles health check requests
func (h *Handler) Health(c *gin.Context) {
	healthStatus := gin.H{
		"status": "healthy",
		"checks": gin.H{},
	}

	if err := h.executor.HealthCheck(c.Request.Context()); err != nil {
		healthStatus["status"] = "unhealthy"
		healthStatus["checks"].(gin.H)["database"] = err.Error()
	} else {
		healthStatus["checks"].(gin.H)["database"] = "ok"
	}

	if _, err := h.executor.Chain(); err != nil {
		healthStatus["status"] = "unhealthy"
		healthStatus["checks"].(gin.H)["revisions"] = err.Error()
	} else {
		healthStatus["checks"].(gin.H)["revisions"] = "ok"
	}

	statusCode := http.StatusOK
	if healthStatus["status"] == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, healthStatus)
}

//go:embed openapi.yaml
var openAPISpecYAML []byte

// OpenAPISpec serves the OpenAPI specification in YAML format
func (h *Handler) OpenAPISpec(c *gin.Context) {
	c.Data(http.StatusOK, "application/x-yaml", openAPISpecYAML)
}

// OpenAPISpecJSON serves the OpenAPI specification in JSON format
func (h *Handler) OpenAPISpecJSON(c *gin.Context) {
	var spec map[string]interface{}
	if err := yaml.Unmarshal(openAPISpecYAML, &spec); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "Failed to parse OpenAPI spec"})
		return
	}
	c.JSON(http.StatusOK, spec)
}
