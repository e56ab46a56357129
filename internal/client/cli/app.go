// Package cli implements the todoctl command dispatch. Each subcommand maps
// onto one server endpoint; the bearer token is carried between invocations
// in the TODO_TOKEN environment variable.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/todoserver/internal/client/api"
)

// Usage describes the available subcommands.
const Usage = `usage: todoctl [-server URL] <command> [args]

commands:
  register <username> [first] [last]   create an account (prompts for password)
  login <username>                     obtain a token (prompts for password)
  list                                 list your todos
  add <title> [description]            add a todo
  done <id>                            mark a todo as done
  rm <id>                              delete a todo
  logout                               revoke the current token
`

// App dispatches todoctl subcommands against one API client.
type App struct {
	client *api.Client
	out    io.Writer

	// password prompt, replaceable in tests
	promptPassword func(io.Writer) (string, error)
}

func NewApp(client *api.Client, out io.Writer) *App {
	return &App{client: client, out: out, promptPassword: GetPassword}
}

// Run executes a single subcommand. The token argument may be empty for
// commands that do not need authentication.
func (a *App) Run(ctx context.Context, token string, args []string) error {
	if len(args) == 0 {
		return errors.New(Usage)
	}

	if token != "" {
		a.client.SetToken(token)
	}

	command, rest := args[0], args[1:]

	switch command {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "list":
		return a.list(ctx)
	case "add":
		return a.add(ctx, rest)
	case "done":
		return a.done(ctx, rest)
	case "rm":
		return a.remove(ctx, rest)
	case "logout":
		return a.client.Logout(ctx)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, Usage)
	}
}

func (a *App) register(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("register: username required")
	}
	username := args[0]
	var first, last string
	if len(args) > 1 {
		first = args[1]
	}
	if len(args) > 2 {
		last = args[2]
	}

	password, err := a.promptPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.client.Register(ctx, username, first, last, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "registered %s (id %s)\n", user.Username, user.ID)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("login: username required")
	}

	password, err := a.promptPassword(a.out)
	if err != nil {
		return err
	}

	token, err := a.client.Login(ctx, args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "export TODO_TOKEN=%s\n", token.AccessToken)
	return nil
}

func (a *App) list(ctx context.Context) error {
	todos, err := a.client.ListTodos(ctx)
	if err != nil {
		return err
	}

	if len(todos) == 0 {
		fmt.Fprintln(a.out, "no todos")
		return nil
	}

	for _, todo := range todos {
		mark := " "
		if todo.Done {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  %s", mark, todo.ID, todo.Title)
		if todo.Description != "" {
			line += "  " + todo.Description
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) add(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("add: title required")
	}
	description := strings.Join(args[1:], " ")

	todo, err := a.client.AddTodo(ctx, args[0], description)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "added %s\n", todo.ID)
	return nil
}

func (a *App) done(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("done: todo id required")
	}

	todo, err := a.client.MarkDone(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "done %s\n", todo.ID)
	return nil
}

func (a *App) remove(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("rm: todo id required")
	}

	if err := a.client.DeleteTodo(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "removed %s\n", args[0])
	return nil
}
