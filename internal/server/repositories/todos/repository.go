package todos

import (
	"context"

	"github.com/dmitrijs2005/todoserver/internal/server/models"
)

// Repository is the persistence contract for todo records. ListByOwner is
// the only list operation: an unscoped listing would leak other users' data.
type Repository interface {
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)
	GetByID(ctx context.Context, id string) (*models.Todo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id string) error
}
