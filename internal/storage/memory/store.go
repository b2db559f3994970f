// Package memory keeps tasks in a process-local map. It backs the
// local development server and the router tests.
package memory

import (
	"context"
	"sync"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
	"github.com/adanyl0v/go-todo-lambda/internal/storage"
)

type Store struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

func New() *Store {
	return &Store{tasks: make(map[string]models.Task)}
}

func (s *Store) Create(_ context.Context, task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = task
	return nil
}

func (s *Store) GetOne(_ context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, storage.ErrTaskNotFound
	}
	return &task, nil
}

func (s *Store) ListAll(_ context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *Store) Update(_ context.Context, id, title string, completed bool) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, storage.ErrTaskNotFound
	}
	task.Title = title
	task.Completed = completed
	s.tasks[id] = task
	return &task, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tasks, id)
	return nil
}
