package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTableNotFound = errors.New("table not found")
)

// TaskStore is the gateway between the request router and
// the single table holding the tasks.
type TaskStore interface {
	// Create puts the task at task.ID. An existing
	// record with the same ID is silently overwritten.
	Create(ctx context.Context, task models.Task) error

	// GetOne returns the task with the given ID or
	// ErrTaskNotFound if there is no such record.
	GetOne(ctx context.Context, id string) (*models.Task, error)

	// ListAll returns every task in the table in no particular order.
	ListAll(ctx context.Context) ([]models.Task, error)

	// Update replaces the title and completion flag of an existing
	// task and returns the stored record. It never creates a record:
	// ErrTaskNotFound is returned if the ID doesn't exist.
	Update(ctx context.Context, id, title string, completed bool) (*models.Task, error)

	// Delete removes the task with the given ID. Deleting
	// a missing task is not an error.
	Delete(ctx context.Context, id string) error
}

// Closer is implemented by stores holding a connection
// that should be released on shutdown.
type Closer interface {
	Close(ctx context.Context) error
}
