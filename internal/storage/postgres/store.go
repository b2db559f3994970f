// Package postgres implements the task store on a single Postgres table.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
	"github.com/adanyl0v/go-todo-lambda/internal/storage"
)

// DB is the subset of *pgxpool.Pool used by the store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

type Store struct {
	logger zerolog.Logger
	db     DB
	table  string
	ident  string
}

func New(logger zerolog.Logger, db DB, table string) *Store {
	return &Store{
		logger: logger,
		db:     db,
		table:  table,
		ident:  pgx.Identifier{table}.Sanitize(),
	}
}

// Migrate creates the table if it doesn't exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	createTableQuery := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id        TEXT PRIMARY KEY,
    title     TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE
)
`, s.ident)
	_, err := s.db.Exec(ctx, createTableQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("table", s.table).
			Msg("failed to create table")
		return err
	}
	s.logger.Info().
		Str("table", s.table).
		Msg("ensured table exists")
	return nil
}

func (s *Store) Create(ctx context.Context, task models.Task) error {
	insertTaskQuery := fmt.Sprintf(`
INSERT INTO %s (id,
                title,
                completed)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    completed = EXCLUDED.completed
`, s.ident)
	_, err := s.db.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.Title,
		task.Completed,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to insert task")
		return s.wrap(err)
	}

	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *Store) GetOne(ctx context.Context, id string) (*models.Task, error) {
	selectTaskQuery := fmt.Sprintf(`
SELECT title,
       completed
FROM %s
WHERE id = $1
`, s.ident)
	task := &models.Task{ID: id}
	err := s.db.QueryRow(
		ctx,
		selectTaskQuery,
		id,
	).Scan(
		&task.Title,
		&task.Completed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("task_id", id).
				Msg("task not found")
			return nil, storage.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, s.wrap(err)
	}
	return task, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.Task, error) {
	selectTasksQuery := fmt.Sprintf(`
SELECT id,
       title,
       completed
FROM %s
`, s.ident)
	rows, err := s.db.Query(ctx, selectTasksQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, s.wrap(err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Completed,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, s.wrap(err)
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *Store) Update(ctx context.Context, id, title string, completed bool) (*models.Task, error) {
	updateTaskQuery := fmt.Sprintf(`
UPDATE %s
SET title = $1,
    completed = $2
WHERE id = $3
RETURNING id, title, completed
`, s.ident)
	task := new(models.Task)
	err := s.db.QueryRow(
		ctx,
		updateTaskQuery,
		title,
		completed,
		id,
	).Scan(
		&task.ID,
		&task.Title,
		&task.Completed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("task_id", id).
				Msg("task not found")
			return nil, storage.ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to update task")
		return nil, s.wrap(err)
	}

	s.logger.Debug().
		Str("task_id", id).
		Msg("updated task")
	return task, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	deleteTaskQuery := fmt.Sprintf(`
DELETE FROM %s
WHERE id = $1
`, s.ident)
	tag, err := s.db.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return s.wrap(err)
	}

	s.logger.Debug().
		Str("task_id", id).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted task")
	return nil
}

func (s *Store) Close(context.Context) error {
	s.db.Close()
	s.logger.Info().Msg("disconnected from postgres")
	return nil
}

func (s *Store) wrap(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s: %s", storage.ErrTableNotFound, s.table, pgErr.Message)
	}
	return err
}
