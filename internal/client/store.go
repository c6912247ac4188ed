package client

import (
	"context"
	"sync"

	"todolist/internal/models"
)

// Filter selects which part of the collection Visible returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Store keeps the local copy of the task collection and a user-selected
// filter. Every mutation goes to the server first and local state is
// reconciled from the response, never from the submitted values, so the
// authoritative shape of a task always originates server-side. Failures
// are kept as a dismissible banner message; nothing retries on its own.
type Store struct {
	mu     sync.Mutex
	api    *Client
	todos  []models.Todo
	filter Filter
	banner string
}

// NewStore builds an empty store talking to the given API client.
func NewStore(api *Client) *Store {
	return &Store{api: api, filter: FilterAll}
}

// Load replaces the collection with the server's.
func (s *Store) Load(ctx context.Context) error {
	todos, err := s.api.List(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = todos
	return nil
}

// Add creates a todo and appends the server's row to the collection.
func (s *Store) Add(ctx context.Context, title, description string) error {
	todo, err := s.api.Create(ctx, title, description)
	if err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append(s.todos, todo)
	return nil
}

// Toggle flips the completed flag of one todo.
func (s *Store) Toggle(ctx context.Context, id string, completed bool) error {
	todo, err := s.api.Update(ctx, id, models.TodoPatch{Completed: &completed})
	if err != nil {
		return s.fail(err)
	}
	s.replace(todo)
	return nil
}

// Edit updates title and description of one todo.
func (s *Store) Edit(ctx context.Context, id, title, description string) error {
	todo, err := s.api.Update(ctx, id, models.TodoPatch{
		Title:       &title,
		Description: &description,
	})
	if err != nil {
		return s.fail(err)
	}
	s.replace(todo)
	return nil
}

// Remove deletes a todo and drops it from the collection.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.api.Delete(ctx, id); err != nil {
		return s.fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.todos[:0]
	for _, t := range s.todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.todos = kept
	return nil
}

// SetFilter selects which todos Visible returns.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Visible derives the filtered view. It is a pure projection of the
// collection, recomputed on every call.
func (s *Store) Visible() []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		switch s.filter {
		case FilterActive:
			if !t.Completed {
				out = append(out, t)
			}
		case FilterCompleted:
			if t.Completed {
				out = append(out, t)
			}
		default:
			out = append(out, t)
		}
	}
	return out
}

// Banner returns the last failure message, empty when there is none.
func (s *Store) Banner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banner
}

// Dismiss clears the banner.
func (s *Store) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = ""
}

func (s *Store) replace(todo models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.todos {
		if t.ID == todo.ID {
			s.todos[i] = todo
			return
		}
	}
}

func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.banner = err.Error()
	return err
}
