package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/go-todo-lambda/internal/models"
)

// fakeDB executes the statements issued by the store against a map,
// telling them apart by their leading keywords.
type fakeDB struct {
	mu     sync.Mutex
	tasks  map[string]models.Task
	err    error
	closed bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{tasks: make(map[string]models.Task)}
}

func statementOf(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) < 2 {
		return strings.Join(fields, " ")
	}
	return fields[0] + " " + strings.TrimSuffix(fields[1], ",")
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return pgconn.CommandTag{}, db.err
	}

	switch statementOf(sql) {
	case "CREATE TABLE":
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case "INSERT INTO":
		task := models.Task{
			ID:        args[0].(string),
			Title:     args[1].(string),
			Completed: args[2].(bool),
		}
		db.tasks[task.ID] = task
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case "DELETE FROM":
		id := args[0].(string)
		var n int
		if _, ok := db.tasks[id]; ok {
			delete(db.tasks, id)
			n = 1
		}
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", n)), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("unexpected statement: %s", sql)
}

func (db *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return nil, db.err
	}
	if statementOf(sql) != "SELECT id" {
		return nil, fmt.Errorf("unexpected query: %s", sql)
	}

	ids := make([]string, 0, len(db.tasks))
	for id := range db.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := &fakeRows{}
	for _, id := range ids {
		task := db.tasks[id]
		rows.values = append(rows.values, []any{task.ID, task.Title, task.Completed})
	}
	return rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.err != nil {
		return fakeRow{err: db.err}
	}

	statement := statementOf(sql)
	switch {
	case statement == "SELECT title":
		task, ok := db.tasks[args[0].(string)]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{values: []any{task.Title, task.Completed}}
	case strings.HasPrefix(statement, "UPDATE "):
		id := args[2].(string)
		task, ok := db.tasks[id]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		task.Title = args[0].(string)
		task.Completed = args[1].(bool)
		db.tasks[id] = task
		return fakeRow{values: []any{task.ID, task.Title, task.Completed}}
	}
	return fakeRow{err: fmt.Errorf("unexpected query: %s", sql)}
}

func (db *fakeDB) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.closed = true
}

func scanValues(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("expected %d destinations, got %d", len(values), len(dest))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *bool:
			*d = v.(bool)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanValues(r.values, dest)
}

type fakeRows struct {
	values [][]any
	pos    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanValues(r.values[r.pos-1], dest)
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.pos-1], nil
}
