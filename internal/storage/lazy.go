package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
)

var errClosedBeforeUse = errors.New("store closed before first use")

// Factory builds the underlying store.
type Factory func(ctx context.Context) (TaskStore, error)

// LazyStore constructs its backend on first use and reuses it
// for the lifetime of the process. A failed construction is
// not retried; every call reports the same error. The backend
// outlives the request that triggered it, so its construction
// doesn't inherit that request's cancellation.
type LazyStore struct {
	once    sync.Once
	factory Factory
	store   TaskStore
	err     error
}

func NewLazy(factory Factory) *LazyStore {
	return &LazyStore{factory: factory}
}

func (s *LazyStore) get(ctx context.Context) (TaskStore, error) {
	s.once.Do(func() {
		s.store, s.err = s.factory(context.WithoutCancel(ctx))
	})
	return s.store, s.err
}

func (s *LazyStore) Create(ctx context.Context, task models.Task) error {
	store, err := s.get(ctx)
	if err != nil {
		return err
	}
	return store.Create(ctx, task)
}

func (s *LazyStore) GetOne(ctx context.Context, id string) (*models.Task, error) {
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.GetOne(ctx, id)
}

func (s *LazyStore) ListAll(ctx context.Context) ([]models.Task, error) {
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.ListAll(ctx)
}

func (s *LazyStore) Update(ctx context.Context, id, title string, completed bool) (*models.Task, error) {
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.Update(ctx, id, title, completed)
}

func (s *LazyStore) Delete(ctx context.Context, id string) error {
	store, err := s.get(ctx)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// Close releases the backend if it has been built. A store
// closed before its first use refuses to build one afterwards.
func (s *LazyStore) Close(ctx context.Context) error {
	s.once.Do(func() {
		s.err = errClosedBeforeUse
	})

	closer, ok := s.store.(Closer)
	if !ok {
		return nil
	}
	return closer.Close(ctx)
}
