package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/todoserver/internal/client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServerStub fakes just enough of the server API for command dispatch
// tests. It records "command authorization-header" pairs.
func newServerStub(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	calls := &[]string{}
	mux := http.NewServeMux()

	record := func(name string, status int, body any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			*calls = append(*calls, name+" "+r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			if body != nil {
				_ = json.NewEncoder(w).Encode(body)
			}
		}
	}

	mux.HandleFunc("POST /api/auth/register", record("register", http.StatusCreated,
		map[string]string{"id": "01HXAMPLEUSERID0000000000A", "username": "alice"}))
	mux.HandleFunc("POST /api/auth/login", record("login", http.StatusOK,
		map[string]string{"access_token": "tok-123", "token_type": "bearer"}))
	mux.HandleFunc("POST /api/auth/logout", record("logout", http.StatusOK,
		map[string]string{"status": "logged out"}))
	mux.HandleFunc("GET /api/todos/", record("list", http.StatusOK,
		[]map[string]any{{"id": "t1", "title": "buy milk", "done": false}}))
	mux.HandleFunc("POST /api/todos/", record("add", http.StatusCreated,
		map[string]any{"id": "t2", "title": "new"}))
	mux.HandleFunc("PATCH /api/todos/t1", record("done", http.StatusOK,
		map[string]any{"id": "t1", "done": true}))
	mux.HandleFunc("DELETE /api/todos/t1", record("rm", http.StatusNoContent, nil))

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, calls
}

func newTestApp(t *testing.T, serverURL, password string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(api.New(serverURL), &out)
	app.promptPassword = func(io.Writer) (string, error) { return password, nil }
	return app, &out
}

func TestRun_NoArgs(t *testing.T) {
	app, _ := newTestApp(t, "http://unused", "")
	err := app.Run(context.Background(), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage:")
}

func TestRun_UnknownCommand(t *testing.T) {
	app, _ := newTestApp(t, "http://unused", "")
	err := app.Run(context.Background(), "", []string{"frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRegisterCommand(t *testing.T) {
	ts, calls := newServerStub(t)
	app, out := newTestApp(t, ts.URL, "wonderland")

	err := app.Run(context.Background(), "", []string{"register", "alice", "Alice", "Liddell"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "registered alice")
	require.Len(t, *calls, 1)
}

func TestLoginCommand_PrintsToken(t *testing.T) {
	ts, _ := newServerStub(t)
	app, out := newTestApp(t, ts.URL, "wonderland")

	err := app.Run(context.Background(), "", []string{"login", "alice"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "TODO_TOKEN=tok-123")
}

func TestAuthenticatedCommands_CarryBearerToken(t *testing.T) {
	ts, calls := newServerStub(t)
	app, out := newTestApp(t, ts.URL, "")

	err := app.Run(context.Background(), "tok-123", []string{"list"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "buy milk")
	require.Equal(t, []string{"list Bearer tok-123"}, *calls)
}

func TestAddDoneRemoveLogout(t *testing.T) {
	ts, calls := newServerStub(t)
	app, out := newTestApp(t, ts.URL, "")

	require.NoError(t, app.Run(context.Background(), "tok-123", []string{"add", "new", "some", "details"}))
	assert.Contains(t, out.String(), "added t2")

	require.NoError(t, app.Run(context.Background(), "tok-123", []string{"done", "t1"}))
	require.NoError(t, app.Run(context.Background(), "tok-123", []string{"rm", "t1"}))
	require.NoError(t, app.Run(context.Background(), "tok-123", []string{"logout"}))

	require.Len(t, *calls, 4)
}

func TestCommands_RequireArguments(t *testing.T) {
	app, _ := newTestApp(t, "http://unused", "")

	for _, args := range [][]string{{"register"}, {"login"}, {"add"}, {"done"}, {"rm"}} {
		err := app.Run(context.Background(), "", args)
		require.Error(t, err, "args %v", args)
	}
}
