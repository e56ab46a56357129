// Package todos provides the PostgreSQL-backed repository for todo items.
package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoserver/internal/common"
	"github.com/dmitrijs2005/todoserver/internal/dbx"
	"github.com/dmitrijs2005/todoserver/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {

	query :=
		`INSERT INTO todos (id, title, description, done, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		todo.ID, todo.Title, todo.Description, todo.Done, todo.OwnerID).
		Scan(&todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	query :=
		`SELECT id, title, description, done, owner_id, created_at, updated_at FROM todos
		 WHERE id = $1
		 `

	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&todo.ID, &todo.Title, &todo.Description,
		&todo.Done, &todo.OwnerID, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return todo, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Todo, error) {
	query :=
		`SELECT id, title, description, done, owner_id, created_at, updated_at FROM todos
		 WHERE owner_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Todo
	for rows.Next() {
		var item models.Todo
		if err := rows.Scan(&item.ID, &item.Title, &item.Description,
			&item.Done, &item.OwnerID, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) error {
	query :=
		`UPDATE todos SET title = $2, description = $3, done = $4, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, todo.ID, todo.Title, todo.Description, todo.Done)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query :=
		`DELETE FROM todos
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
