package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/config"
	"todolist/internal/migrate"
	"todolist/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.DriverSQLite, ":memory:", 1, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = migrate.NewRunner(s.DB(), config.DriverSQLite, nil).Up(context.Background())
	require.NoError(t, err)
	return s
}

func TestCreateTodo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todo, err := s.CreateTodo(ctx, "Buy milk", "2%")
	require.NoError(t, err)

	_, err = uuid.Parse(todo.ID)
	assert.NoError(t, err, "id must be a generated uuid")
	assert.Equal(t, "Buy milk", todo.Title)
	assert.Equal(t, "2%", todo.Description)
	assert.False(t, todo.Completed)
	assert.Equal(t, models.PriorityMedium, todo.Priority)
	assert.False(t, todo.CreatedAt.IsZero(), "createdAt must be stamped by the database")
}

func TestCreateTodoEmptyTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"", "   "} {
		_, err := s.CreateTodo(ctx, title, "")
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	}

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos, "rejected creates must not persist rows")
}

func TestListTodosNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateTodo(ctx, "first", "")
	require.NoError(t, err)
	second, err := s.CreateTodo(ctx, "second", "")
	require.NoError(t, err)

	// CURRENT_TIMESTAMP has one-second resolution, so spread the rows
	// out explicitly to make the ordering observable.
	_, err = s.db.ExecContext(ctx,
		`UPDATE todos SET createdAt = '2024-01-01 10:00:00' WHERE id = ?`, first.ID)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx,
		`UPDATE todos SET createdAt = '2024-01-02 10:00:00' WHERE id = ?`, second.ID)
	require.NoError(t, err)

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, second.ID, todos[0].ID)
	assert.Equal(t, first.ID, todos[1].ID)
}

func TestGetTodoAbsent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTodo(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTodoPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todo, err := s.CreateTodo(ctx, "Buy milk", "2%")
	require.NoError(t, err)

	done := true
	updated, err := s.UpdateTodo(ctx, todo.ID, models.TodoPatch{Completed: &done})
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title, "untouched fields keep their value")
	assert.Equal(t, "2%", updated.Description)
	assert.Equal(t, todo.CreatedAt, updated.CreatedAt, "createdAt is never mutated")
}

func TestUpdateTodoIgnoresEmptyTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todo, err := s.CreateTodo(ctx, "Buy milk", "")
	require.NoError(t, err)

	empty := "  "
	updated, err := s.UpdateTodo(ctx, todo.ID, models.TodoPatch{Title: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Title)
}

func TestUpdateTodoAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	title := "anything"
	_, err := s.UpdateTodo(ctx, "no-such-id", models.TodoPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos, "update of an absent id must have no side effect")
}

func TestDeleteTodo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	todo, err := s.CreateTodo(ctx, "Buy milk", "2%")
	require.NoError(t, err)

	snapshot, err := s.DeleteTodo(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo, snapshot, "delete returns the pre-delete row")

	_, err = s.GetTodo(ctx, todo.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	todos, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestDeleteTodoAbsent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DeleteTodo(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
