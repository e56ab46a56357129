package users

import (
	"context"

	"github.com/dmitrijs2005/todoserver/internal/server/models"
)

// Repository is the persistence contract for user records. Usernames are
// unique; Create surfaces a conflicting insert as
// common.ErrorDuplicateUsername, lookups surface absence as
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
