package server

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/joseph-ayodele/pdf-extractor/internal/pipeline"
	"github.com/joseph-ayodele/pdf-extractor/internal/workspace"
)

// Dependencies holds everything the handlers need.
type Dependencies struct {
	Workspace   *workspace.Workspace
	Extractor   pipeline.Extractor
	Development bool
	Version     string
	Logger      *slog.Logger
}

// Handler serves the HTTP API.
type Handler struct {
	ws        *workspace.Workspace
	extractor pipeline.Extractor
	dev       bool
	version   string
	logger    *slog.Logger
}

func NewHandler(deps Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		ws:        deps.Workspace,
		extractor: deps.Extractor,
		dev:       deps.Development,
		version:   deps.Version,
		logger:    logger,
	}
}

// RegisterRoutes mounts every endpoint on e.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HandleHealth)

	api := e.Group("/api")
	api.POST("/parse-resume", h.HandleParseResume)

	schemas := api.Group("/schemas")
	schemas.GET("", h.HandleListSchemas)
	schemas.POST("", h.HandleCreateSchema)
	schemas.GET("/selected", h.HandleSelectedSchema)
	schemas.GET("/:id", h.HandleGetSchema)
	schemas.PUT("/:id", h.HandleUpdateSchema)
	schemas.DELETE("/:id", h.HandleDeleteSchema)
	schemas.POST("/:id/select", h.HandleSelectSchema)
	schemas.POST("/:id/fields", h.HandleAddField)
	schemas.PUT("/:id/fields/:fieldId", h.HandleUpdateField)
	schemas.DELETE("/:id/fields/:fieldId", h.HandleRemoveField)

	queue := api.Group("/queue")
	queue.POST("", h.HandleEnqueue)
	queue.GET("", h.HandleListQueue)
	queue.DELETE("", h.HandleClearQueue)
	queue.DELETE("/:id", h.HandleRemoveQueued)

	api.POST("/process", h.HandleStartPass)
	api.GET("/progress", h.HandleProgress)

	res := api.Group("/results")
	res.GET("", h.HandleResults)
	res.DELETE("", h.HandleClearResults)
	res.GET("/:id/fields/:key", h.HandleCopyField)

	api.GET("/export/:format", h.HandleExport)
	api.GET("/notifications", h.HandleNotifications)
}
