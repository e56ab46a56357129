package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todoserver/internal/common"
	"github.com/dmitrijs2005/todoserver/internal/server/models"
	"github.com/dmitrijs2005/todoserver/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password" validate:"required,min=6"`
}

// userResponse is the external shape of a user. It deliberately has no
// field for the password hash.
type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type todoRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Done        bool   `json:"done"`
}

type todoPatchRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Done        *bool   `json:"done"`
}

type todoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toTodoResponse(t *models.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Done:        t.Done,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// decodeAndValidate unmarshals the request body into v and runs the
// validator over it.
func (s *HTTPServer) decodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return s.validate.Struct(v)
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors onto HTTP status codes. The core never
// carries status codes itself; this is the single translation point.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, common.ErrorDuplicateUsername):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorInvalidCredentials), errors.Is(err, common.ErrorUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	default:
		s.logger.Error(r.Context(), "internal error", "error", err.Error())
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
		return
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *HTTPServer) writeBadRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.FirstName, req.LastName, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "registered", "username", user.Username)
	s.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, err := s.auth.RefreshToken(r.Context(), bearerToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *HTTPServer) handleVerify(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.VerifyToken(r.Context(), bearerToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context(), bearerToken(r))
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *HTTPServer) handleListTodos(w http.ResponseWriter, r *http.Request) {
	list, err := s.todos.List(r.Context(), ownerID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]todoResponse, 0, len(list))
	for _, item := range list {
		result = append(result, toTodoResponse(item))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req todoRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	todo, err := s.todos.Create(r.Context(), ownerID(r), req.Title, req.Description, req.Done)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toTodoResponse(todo))
}

func (s *HTTPServer) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := s.todos.Get(r.Context(), ownerID(r), chi.URLParam(r, "todoID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTodoResponse(todo))
}

func (s *HTTPServer) handlePatchTodo(w http.ResponseWriter, r *http.Request) {
	var req todoPatchRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.writeBadRequest(w, err)
		return
	}

	todo, err := s.todos.Update(r.Context(), ownerID(r), chi.URLParam(r, "todoID"), services.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toTodoResponse(todo))
}

func (s *HTTPServer) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := s.todos.Delete(r.Context(), ownerID(r), chi.URLParam(r, "todoID")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
