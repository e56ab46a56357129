package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/todoserver/internal/dbx"
	"github.com/dmitrijs2005/todoserver/internal/server/id"
	"github.com/dmitrijs2005/todoserver/internal/server/models"
	"github.com/dmitrijs2005/todoserver/internal/server/repositories/repomanager"
)

// TodoPatch carries the fields of a partial update. Nil fields are left
// unchanged.
type TodoPatch struct {
	Title       *string
	Description *string
	Done        *bool
}

// TodoService implements todo CRUD scoped to a verified owner. Every
// operation on a specific todo passes through the ownership guard, and the
// only list operation filters by owner.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	guard       *OwnershipGuard
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager, guard *OwnershipGuard) *TodoService {
	return &TodoService{
		db:          db,
		repomanager: m,
		guard:       guard,
	}
}

// Create stores a new todo owned by ownerID.
func (s *TodoService) Create(ctx context.Context, ownerID, title, description string, done bool) (*models.Todo, error) {
	todo := &models.Todo{
		ID:          id.New(),
		Title:       title,
		Description: description,
		Done:        done,
		OwnerID:     ownerID,
	}

	repo := s.repomanager.Todos(s.db)
	todo, err := repo.Create(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %w", err)
	}

	return todo, nil
}

// Get returns the todo with the given id if it belongs to ownerID.
func (s *TodoService) Get(ctx context.Context, ownerID, todoID string) (*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)
	todo, err := repo.GetByID(ctx, todoID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.AuthorizeTodoAccess(ownerID, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// List returns all todos owned by ownerID.
func (s *TodoService) List(ctx context.Context, ownerID string) ([]*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)
	return repo.ListByOwner(ctx, ownerID)
}

// Update applies a partial update to the todo with the given id after the
// ownership check. The read-modify-write runs in a transaction so a
// concurrent update cannot be lost.
func (s *TodoService) Update(ctx context.Context, ownerID, todoID string, patch TodoPatch) (*models.Todo, error) {
	var updated *models.Todo

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Todos(tx)

		todo, err := repo.GetByID(ctx, todoID)
		if err != nil {
			return err
		}
		if err := s.guard.AuthorizeTodoAccess(ownerID, todo); err != nil {
			return err
		}

		if patch.Title != nil {
			todo.Title = *patch.Title
		}
		if patch.Description != nil {
			todo.Description = *patch.Description
		}
		if patch.Done != nil {
			todo.Done = *patch.Done
		}

		if err := repo.Update(ctx, todo); err != nil {
			return err
		}
		updated = todo
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the todo with the given id after the ownership check.
func (s *TodoService) Delete(ctx context.Context, ownerID, todoID string) error {
	repo := s.repomanager.Todos(s.db)

	todo, err := repo.GetByID(ctx, todoID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeTodoAccess(ownerID, todo); err != nil {
		return err
	}

	return repo.Delete(ctx, todo.ID)
}
