// Package api implements the HTTP client used by the todoctl command line
// tool to talk to the todo server.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// User mirrors the server's user response.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Token mirrors the server's token response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Todo mirrors the server's todo response.
type Todo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client is a thin wrapper over resty bound to one server.
type Client struct {
	http *resty.Client
}

func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
	}
}

// SetToken attaches the bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// apiError converts a non-2xx response into an error carrying the server's
// message when one was provided.
func apiError(resp *resty.Response) error {
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		return fmt.Errorf("server: %s (%s)", body.Error, resp.Status())
	}
	return fmt.Errorf("server: %s", resp.Status())
}

func (c *Client) Register(ctx context.Context, username, firstName, lastName, password string) (*User, error) {
	var user User
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"username":  username,
			"firstName": firstName,
			"lastName":  lastName,
			"password":  password,
		}).
		SetResult(&user).
		SetError(&errorBody{}).
		Post("/api/auth/register")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*Token, error) {
	var token Token
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&token).
		SetError(&errorBody{}).
		Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &token, nil
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		Post("/api/auth/logout")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Client) ListTodos(ctx context.Context) ([]Todo, error) {
	var list []Todo
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&list).
		SetError(&errorBody{}).
		Get("/api/todos/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return list, nil
}

func (c *Client) AddTodo(ctx context.Context, title, description string) (*Todo, error) {
	var todo Todo
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"title": title, "description": description}).
		SetResult(&todo).
		SetError(&errorBody{}).
		Post("/api/todos/")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &todo, nil
}

func (c *Client) MarkDone(ctx context.Context, todoID string) (*Todo, error) {
	var todo Todo
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"done": true}).
		SetResult(&todo).
		SetError(&errorBody{}).
		Patch("/api/todos/" + todoID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &todo, nil
}

func (c *Client) DeleteTodo(ctx context.Context, todoID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		Delete("/api/todos/" + todoID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}
