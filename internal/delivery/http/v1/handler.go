package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lambda/internal/delivery/router"
)

type Handler interface {
	HandleRequestIDMiddleware(c *gin.Context)
	HandleAccessLogMiddleware(c *gin.Context)

	HandleTasks(c *gin.Context)
	HandleNoRoute(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	router router.Router
}

func New(
	logger zerolog.Logger,
	taskRouter router.Router,
) Handler {
	return &handlerImpl{
		logger: logger,
		router: taskRouter,
	}
}

// RegisterRoutes mirrors the API Gateway resources: every verb
// reaches the task router, which answers 405 for the ones it
// doesn't support. Unmatched paths get a 404 with the CORS headers
// instead of a trailing slash redirect.
func RegisterRoutes(engine *gin.Engine, h Handler) {
	engine.RedirectTrailingSlash = false
	engine.Use(h.HandleRequestIDMiddleware, h.HandleAccessLogMiddleware)
	engine.NoRoute(h.HandleNoRoute)

	tasks := engine.Group("/tasks")
	tasks.Any("", h.HandleTasks)
	tasks.Any("/", h.HandleTasks)
	tasks.Any("/:id", h.HandleTasks)
}
