// Copyright (c) 2026 Khaled Abbas
//
// This source code is licensed under the Business Source License 1.1.
//
// Change Date: 4 years after the first public release of this version.
// Change License: MIT
//
// On the Change Date, this version of the code automatically converts
// to the MIT License. Prior to that date, use is subject to the
// Additional Use Grant. See the LICENSE file for details.

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"eisenhower/src/config"
	"eisenhower/src/logging"
	"eisenhower/src/model"
)

//go:embed schema.sql
var schema string

const taskColumns = "id, text, x, y, quadrant"

// SQLStore keeps tasks in a single table on PostgreSQL or SQLite.
type SQLStore struct {
	db *sqlx.DB

	mu        sync.Mutex
	lastStamp int64
}

// Open connects to the database and creates the schema when missing.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}
	if driver == config.DriverSQLite {
		// In-memory databases are per connection.
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// nextStamp hands out strictly increasing insertion stamps so list order
// matches creation order even when the clock does not advance.
func (s *SQLStore) nextStamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := time.Now().UnixNano()
	if n <= s.lastStamp {
		n = s.lastStamp + 1
	}
	s.lastStamp = n
	return n
}

func (s *SQLStore) List(ctx context.Context) (tasks []model.Task, err error) {
	ctx, end := logging.StartSpan(ctx, "store.List")
	defer end(&err)

	tasks = []model.Task{}
	query := "SELECT " + taskColumns + " FROM tasks ORDER BY created_at, id"
	if err := s.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (task model.Task, err error) {
	ctx, end := logging.StartSpan(ctx, "store.Get", attribute.String("task.id", id))
	defer end(&err)

	query := s.db.Rebind("SELECT " + taskColumns + " FROM tasks WHERE id = ?")
	if err := s.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("getting task %s: %w", id, err)
	}
	return task, nil
}

func (s *SQLStore) Create(ctx context.Context, nt model.NewTask) (task model.Task, err error) {
	ctx, end := logging.StartSpan(ctx, "store.Create")
	defer end(&err)

	nt, err = nt.Normalize()
	if err != nil {
		return model.Task{}, err
	}

	task = model.Task{
		ID:       uuid.NewString(),
		Text:     nt.Text,
		X:        nt.X,
		Y:        nt.Y,
		Quadrant: nt.Quadrant,
	}
	query := s.db.Rebind("INSERT INTO tasks (" + taskColumns + ", created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if _, err := s.db.ExecContext(ctx, query,
		task.ID, task.Text, task.X, task.Y, string(task.Quadrant), s.nextStamp()); err != nil {
		return model.Task{}, fmt.Errorf("inserting task: %w", err)
	}
	return task, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, patch model.TaskPatch) (task model.Task, err error) {
	ctx, end := logging.StartSpan(ctx, "store.Update", attribute.String("task.id", id))
	defer end(&err)

	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	var (
		sets []string
		args []any
	)
	if patch.Text != nil {
		sets = append(sets, "text = ?")
		args = append(args, *patch.Text)
	}
	if patch.X != nil {
		sets = append(sets, "x = ?")
		args = append(args, *patch.X)
	}
	if patch.Y != nil {
		sets = append(sets, "y = ?")
		args = append(args, *patch.Y)
	}
	if patch.Quadrant != nil {
		sets = append(sets, "quadrant = ?")
		args = append(args, string(*patch.Quadrant))
	}
	args = append(args, id)

	query := s.db.Rebind("UPDATE tasks SET " + strings.Join(sets, ", ") +
		" WHERE id = ? RETURNING " + taskColumns)
	if err := s.db.GetContext(ctx, &task, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("updating task %s: %w", id, err)
	}
	return task, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (err error) {
	ctx, end := logging.StartSpan(ctx, "store.Delete", attribute.String("task.id", id))
	defer end(&err)

	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM tasks WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Counts(ctx context.Context) (stats model.MatrixStats, err error) {
	ctx, end := logging.StartSpan(ctx, "store.Counts")
	defer end(&err)

	var rows []struct {
		Quadrant model.Quadrant `db:"quadrant"`
		N        int            `db:"n"`
	}
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT quadrant, COUNT(*) AS n FROM tasks GROUP BY quadrant"); err != nil {
		return model.MatrixStats{}, fmt.Errorf("counting tasks: %w", err)
	}

	stats.ByQuadrant = make(map[model.Quadrant]int, 4)
	for _, info := range model.Quadrants() {
		stats.ByQuadrant[info.ID] = 0
	}
	for _, row := range rows {
		stats.ByQuadrant[row.Quadrant] = row.N
		stats.TotalTasks += row.N
	}
	return stats, nil
}

func (s *SQLStore) Reset(ctx context.Context) (err error) {
	ctx, end := logging.StartSpan(ctx, "store.Reset")
	defer end(&err)

	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	return nil
}
