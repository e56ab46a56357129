package models

import "time"

// Todo is a single todo item owned by exactly one user. OwnerID references
// users.id; every scoped read/update/delete must check it against the
// caller's verified identity.
type Todo struct {
	ID          string
	Title       string
	Description string
	Done        bool
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
