package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/todoserver/internal/dbx"
	"github.com/dmitrijs2005/todoserver/internal/server/repositories/todos"
	"github.com/dmitrijs2005/todoserver/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Todos(db dbx.DBTX) todos.Repository
}
