package services

import (
	"github.com/dmitrijs2005/todoserver/internal/common"
	"github.com/dmitrijs2005/todoserver/internal/server/models"
)

// OwnershipGuard decides whether a verified identity may access a todo.
type OwnershipGuard struct{}

func NewOwnershipGuard() *OwnershipGuard {
	return &OwnershipGuard{}
}

// AuthorizeTodoAccess allows access iff the todo belongs to ownerID;
// otherwise it returns common.ErrorForbidden.
func (g *OwnershipGuard) AuthorizeTodoAccess(ownerID string, todo *models.Todo) error {
	if todo.OwnerID != ownerID {
		return common.ErrorForbidden
	}
	return nil
}
