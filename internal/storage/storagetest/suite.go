// Package storagetest runs the behaviour every storage.TaskStore backend
// has to share against a concrete implementation.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
	"github.com/adanyl0v/go-todo-lambda/internal/storage"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) storage.TaskStore

func Run(t *testing.T, newStore Factory) {
	t.Run("CreateThenGetOne", func(t *testing.T) { testCreateThenGetOne(t, newStore(t)) })
	t.Run("CreateOverwrites", func(t *testing.T) { testCreateOverwrites(t, newStore(t)) })
	t.Run("GetOneMissing", func(t *testing.T) { testGetOneMissing(t, newStore(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("UpdateMissing", func(t *testing.T) { testUpdateMissing(t, newStore(t)) })
	t.Run("DeleteIsIdempotent", func(t *testing.T) { testDeleteIsIdempotent(t, newStore(t)) })
	t.Run("ListAllEmpty", func(t *testing.T) { testListAllEmpty(t, newStore(t)) })
	t.Run("ListAllCounts", func(t *testing.T) { testListAllCounts(t, newStore(t)) })
}

func testCreateThenGetOne(t *testing.T, s storage.TaskStore) {
	ctx := context.Background()

	want := models.Task{ID: "1", Title: "Buy milk"}
	if err := s.Create(ctx, want); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	got, err := s.GetOne(ctx, "1")
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if *got != want {
		t.Errorf("expected %+v, got %+v", want, *got)
	}
}

func testCreateOverwrites(t *testing.T, s storage.TaskStore) {
	ctx := context.Background()

	if err := s.Create(ctx, models.Task{ID: "1", Title: "first"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	if err := s.Create(ctx, models.Task{ID: "1", Title: "second", Completed: true}); err != nil {
		t.Fatalf("failed to overwrite task: %v", err)
	}

	got, err := s.GetOne(ctx, "1")
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	want := models.Task{ID: "1", Title: "second", Completed: true}
	if *got != want {
		t.Errorf("expected the second write to win, got %+v", *got)
	}

	tasks, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("expected 1 task, got %d", len(tasks))
	}
}

func testGetOneMissing(t *testing.T, s storage.TaskStore) {
	_, err := s.GetOne(context.Background(), "404")
	if !errors.Is(err, storage.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func testUpdate(t *testing.T, s storage.TaskStore) {
	ctx := context.Background()

	if err := s.Create(ctx, models.Task{ID: "1", Title: "Buy milk"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	want := models.Task{ID: "1", Title: "Buy oat milk", Completed: true}
	for i := 0; i < 2; i++ {
		got, err := s.Update(ctx, "1", want.Title, want.Completed)
		if err != nil {
			t.Fatalf("update #%d: %v", i+1, err)
		}
		if *got != want {
			t.Errorf("update #%d: expected %+v, got %+v", i+1, want, *got)
		}
	}

	got, err := s.GetOne(ctx, "1")
	if err != nil {
		t.Fatalf("failed to get task: %v", err)
	}
	if *got != want {
		t.Errorf("expected stored %+v, got %+v", want, *got)
	}
}

func testUpdateMissing(t *testing.T, s storage.TaskStore) {
	ctx := context.Background()

	_, err := s.Update(ctx, "404", "nope", true)
	if !errors.Is(err, storage.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	_, err = s.GetOne(ctx, "404")
	if !errors.Is(err, storage.ErrTaskNotFound) {
		t.Errorf("update must not create a record, got %v", err)
	}
}

func testDeleteIsIdempotent(t *testing.T, s storage.TaskStore) {
	ctx := context.Background()

	if err := s.Create(ctx, models.Task{ID: "1", Title: "Buy milk"}); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	for _, id := range []string{"1", "1", "never-existed"} {
		if err := s.Delete(ctx, id); err != nil {
			t.Fatalf("delete %q: %v", id, err)
		}
		_, err := s.GetOne(ctx, id)
		if !errors.Is(err, storage.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound after deleting %q, got %v", id, err)
		}
	}
}

func testListAllEmpty(t *testing.T, s storage.TaskStore) {
	tasks, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected an empty non-nil slice, got %#v", tasks)
	}
}

func testListAllCounts(t *testing.T, s storage.TaskStore) {
	ctx := context.Background()

	const created, deleted = 10, 4
	for i := 0; i < created; i++ {
		if err := s.Create(ctx, models.Task{ID: fmt.Sprint(i), Title: "task"}); err != nil {
			t.Fatalf("failed to create task %d: %v", i, err)
		}
	}
	for i := 0; i < deleted; i++ {
		if err := s.Delete(ctx, fmt.Sprint(i)); err != nil {
			t.Fatalf("failed to delete task %d: %v", i, err)
		}
	}

	tasks, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("failed to list tasks: %v", err)
	}
	if len(tasks) != created-deleted {
		t.Fatalf("expected %d tasks, got %d", created-deleted, len(tasks))
	}

	seen := make(map[string]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate task %q", task.ID)
		}
		seen[task.ID] = true
	}
}
