package accounts

import (
	"context"
	"time"

	"github.com/inkpress/inkpress/internal/shared"
)

// User represents a user account. PasswordHash never leaves the service layer.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         shared.Role
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RepositoryPort defines data access methods for user accounts.
type RepositoryPort interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
