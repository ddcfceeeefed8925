package posts

import (
	"context"
	"time"
)

// Post is an article owned by exactly one author at creation time. Author
// and category references are cleared, not cascaded, when the referenced
// row is deleted.
type Post struct {
	ID         int64
	Title      string
	Content    string
	AuthorID   *int64
	CategoryID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RepositoryPort defines data access methods for posts. Listings are
// ordered by id descending.
type RepositoryPort interface {
	FindByID(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context, offset, limit int) ([]Post, error)
	Count(ctx context.Context) (int, error)
	ListByTitle(ctx context.Context, query string, offset, limit int) ([]Post, error)
	CountByTitle(ctx context.Context, query string) (int, error)
	ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]Post, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
	Create(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
}

// UserDirectory checks author existence without pulling in the accounts
// package.
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

// CategoryResolver maps a category name to its id, nil when unknown.
type CategoryResolver interface {
	ResolveIDByName(ctx context.Context, name string) (*int64, error)
}
