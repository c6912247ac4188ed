// Package client is a programmatic consumer of the todos REST surface:
// a thin HTTP wrapper plus an in-memory state store with a filtered
// view, mirroring what the browser client keeps.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"todolist/internal/models"
)

// Client calls the /api/todos endpoints of a running server.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a client for the server at baseURL (scheme://host[:port]).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   http.DefaultClient,
	}
}

type updateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos)
	return todos, err
}

// Create adds a todo and returns the server's row.
func (c *Client) Create(ctx context.Context, title, description string) (models.Todo, error) {
	body := map[string]string{"title": title, "description": description}
	var todo models.Todo
	err := c.do(ctx, http.MethodPost, "/api/todos", body, &todo)
	return todo, err
}

// Update applies a partial update and returns the server's merged row.
func (c *Client) Update(ctx context.Context, id string, patch models.TodoPatch) (models.Todo, error) {
	body := updateRequest{
		Title:       patch.Title,
		Description: patch.Description,
		Completed:   patch.Completed,
	}
	var todo models.Todo
	err := c.do(ctx, http.MethodPut, "/api/todos/"+id, body, &todo)
	return todo, err
}

// Delete removes a todo and returns the server's pre-delete snapshot.
func (c *Client) Delete(ctx context.Context, id string) (models.Todo, error) {
	var todo models.Todo
	err := c.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, &todo)
	return todo, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}
