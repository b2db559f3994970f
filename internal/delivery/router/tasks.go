package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
	"github.com/adanyl0v/go-todo-lambda/internal/storage"
)

type createTaskRequest struct {
	ID        string `json:"id" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

type updateTaskRequest struct {
	Title string `json:"title" validate:"required"`
	// An omitted flag is stored as false.
	Completed bool `json:"completed"`
}

func (r *routerImpl) handleCreateTask(ctx context.Context, logger zerolog.Logger, req Request) (Response, error) {
	var body createTaskRequest
	err := json.Unmarshal([]byte(req.Body), &body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to parse request body: %w", err)
	}

	err = r.validate.Struct(body)
	if err != nil {
		return newValidationResponse(err)
	}

	task := models.Task{
		ID:        body.ID,
		Title:     body.Title,
		Completed: body.Completed,
	}
	err = r.tasks.Create(ctx, task)
	if err != nil {
		return Response{}, err
	}

	logger.Info().
		Str("task_id", task.ID).
		Msg("created task")
	return newJSONResponse(http.StatusCreated, task)
}

func (r *routerImpl) handleListTasks(ctx context.Context, logger zerolog.Logger) (Response, error) {
	tasks, err := r.tasks.ListAll(ctx)
	if err != nil {
		return Response{}, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	logger.Debug().
		Int("count", len(tasks)).
		Msg("listed tasks")
	return newJSONResponse(http.StatusOK, tasks)
}

func (r *routerImpl) handleGetTask(ctx context.Context, id string) (Response, error) {
	task, err := r.tasks.GetOne(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return newMessageResponse(http.StatusNotFound, msgTaskNotFound), nil
		}
		return Response{}, err
	}
	return newJSONResponse(http.StatusOK, task)
}

func (r *routerImpl) handleUpdateTask(ctx context.Context, logger zerolog.Logger, req Request) (Response, error) {
	if req.ID == "" {
		return newMessageResponse(http.StatusBadRequest, msgMissingPathID), nil
	}

	var body updateTaskRequest
	err := json.Unmarshal([]byte(req.Body), &body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to parse request body: %w", err)
	}

	err = r.validate.Struct(body)
	if err != nil {
		return newValidationResponse(err)
	}

	task, err := r.tasks.Update(ctx, req.ID, body.Title, body.Completed)
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			return newMessageResponse(http.StatusNotFound, msgTaskNotFound), nil
		}
		return Response{}, err
	}

	logger.Info().
		Bool("completed", task.Completed).
		Msg("updated task")
	return newJSONResponse(http.StatusOK, task)
}

func (r *routerImpl) handleDeleteTask(ctx context.Context, logger zerolog.Logger, id string) (Response, error) {
	if id == "" {
		return newMessageResponse(http.StatusBadRequest, msgMissingPathID), nil
	}

	err := r.tasks.Delete(ctx, id)
	if err != nil {
		return Response{}, err
	}

	logger.Info().
		Msg("deleted task")
	return newJSONResponse(http.StatusOK, deletedBody{
		Message: msgTaskDeleted,
		ID:      id,
	})
}
