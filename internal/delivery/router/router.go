// Package router maps task requests onto the storage gateway and shapes
// the response envelope. It knows nothing about the transport: the Lambda
// and HTTP adapters translate their own request types into a Request.
package router

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lambda/internal/storage"
)

type Request struct {
	Method string
	// ID is the task identifier taken from the path, empty if absent.
	ID   string
	Body string
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

type Router interface {
	// Route handles a single request. It never fails: every
	// outcome, including panics, is turned into a Response
	// carrying the CORS headers.
	Route(ctx context.Context, req Request) Response
}

type routerImpl struct {
	logger   zerolog.Logger
	tasks    storage.TaskStore
	validate *validator.Validate
}

func New(logger zerolog.Logger, tasks storage.TaskStore) Router {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &routerImpl{
		logger:   logger,
		tasks:    tasks,
		validate: validate,
	}
}

func (r *routerImpl) Route(ctx context.Context, req Request) (resp Response) {
	logCtx := r.loggerFrom(ctx).With().
		Str("method", req.Method)
	if req.ID != "" {
		logCtx = logCtx.Str("task_id", req.ID)
	}
	logger := logCtx.Logger()

	if req.Method == http.MethodOptions {
		logger.Debug().Msg("preflight request")
		return newEmptyResponse(http.StatusOK)
	}

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v", p)
			logger.Error().
				Err(err).
				Msg("recovered from panic")
			resp = InternalErrorResponse(err)
		}
	}()

	resp, err := r.dispatch(ctx, logger, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to handle request")
		return InternalErrorResponse(err)
	}

	logger.Info().
		Int("status", resp.StatusCode).
		Msg("handled request")
	return resp
}

// loggerFrom prefers the request-scoped logger put into
// the context by the transport adapters.
func (r *routerImpl) loggerFrom(ctx context.Context) zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		return r.logger
	}
	return *logger
}

func (r *routerImpl) dispatch(ctx context.Context, logger zerolog.Logger, req Request) (Response, error) {
	switch req.Method {
	case http.MethodPost:
		return r.handleCreateTask(ctx, logger, req)
	case http.MethodGet:
		if req.ID == "" {
			return r.handleListTasks(ctx, logger)
		}
		return r.handleGetTask(ctx, req.ID)
	case http.MethodPut:
		return r.handleUpdateTask(ctx, logger, req)
	case http.MethodDelete:
		return r.handleDeleteTask(ctx, logger, req.ID)
	default:
		return newMessageResponse(http.StatusMethodNotAllowed, msgMethodNotAllowed), nil
	}
}
