package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"todolist/internal/models"
)

const todoColumns = `id, title, description, completed, priority, createdAt`

// ListTodos returns every todo, newest first. There is no pagination;
// the collection is assumed to stay small.
func (s *Store) ListTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY createdAt DESC`)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	var todos []models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// CreateTodo inserts a new todo and returns the freshly read row, so
// the caller sees the timestamp the database assigned rather than a
// locally constructed one.
func (s *Store) CreateTodo(ctx context.Context, title, description string) (models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Todo{}, &ValidationError{Reason: "Title is required"}
	}

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, description, completed) VALUES (?, ?, ?, ?)`,
		id, title, description, false)
	if err != nil {
		return models.Todo{}, fmt.Errorf("insert todo: %w", err)
	}
	return s.GetTodo(ctx, id)
}

// GetTodo fetches a single todo by id. ErrNotFound signals an absent row.
func (s *Store) GetTodo(ctx context.Context, id string) (models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Todo{}, ErrNotFound
	}
	if err != nil {
		return models.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	return t, nil
}

// UpdateTodo merges the patch over the current row, writes the result
// back and returns the re-read row. The read-modify-write sequence is
// not locked: concurrent writers race with last-write-wins.
func (s *Store) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) (models.Todo, error) {
	current, err := s.GetTodo(ctx, id)
	if err != nil {
		return models.Todo{}, err
	}

	title := current.Title
	description := current.Description
	completed := current.Completed

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.Completed != nil {
		completed = *patch.Completed
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, description = ?, completed = ? WHERE id = ?`,
		title, description, completed, id)
	if err != nil {
		return models.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return s.GetTodo(ctx, id)
}

// DeleteTodo removes a todo and returns its pre-delete snapshot, so the
// caller can echo what was removed without a second round trip.
func (s *Store) DeleteTodo(ctx context.Context, id string) (models.Todo, error) {
	current, err := s.GetTodo(ctx, id)
	if err != nil {
		return models.Todo{}, err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return models.Todo{}, fmt.Errorf("delete todo: %w", err)
	}
	return current, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (models.Todo, error) {
	var (
		t           models.Todo
		description sql.NullString
		priority    sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Title, &description, &t.Completed, &priority, &t.CreatedAt); err != nil {
		return models.Todo{}, err
	}
	t.Description = description.String
	t.Priority = priority.String
	if _, ok := models.ValidPriorities[t.Priority]; !ok {
		t.Priority = models.PriorityMedium
	}
	return t, nil
}
