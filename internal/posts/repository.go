package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/inkpress/internal/shared"
)

// Repository provides PostgreSQL backed persistence for posts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const postColumns = `id, title, content, author_id, category_id, created_at, updated_at`

// FindByID returns the post with the given id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	err := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id).
		Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CategoryID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.Newf(shared.KindNotFound, "Post %d not found", id)
		}
		return nil, fmt.Errorf("posts: find by id: %w", err)
	}
	return &post, nil
}

// List returns a page of posts, newest first.
func (r *Repository) List(ctx context.Context, offset, limit int) ([]Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY id DESC OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("posts: list: %w", err)
	}
	return collectPosts(rows)
}

// Count returns the total number of posts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&total); err != nil {
		return 0, fmt.Errorf("posts: count: %w", err)
	}
	return total, nil
}

// ListByTitle returns a page of posts whose title contains the query,
// case-insensitively, newest first.
func (r *Repository) ListByTitle(ctx context.Context, query string, offset, limit int) ([]Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE title ILIKE '%' || $1 || '%' ORDER BY id DESC OFFSET $2 LIMIT $3`,
		query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("posts: list by title: %w", err)
	}
	return collectPosts(rows)
}

// CountByTitle returns the number of posts matching a title query.
func (r *Repository) CountByTitle(ctx context.Context, query string) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts WHERE title ILIKE '%' || $1 || '%'`, query).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("posts: count by title: %w", err)
	}
	return total, nil
}

// ListByCategory returns a page of posts in a category, newest first.
func (r *Repository) ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts WHERE category_id = $1 ORDER BY id DESC OFFSET $2 LIMIT $3`,
		categoryID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("posts: list by category: %w", err)
	}
	return collectPosts(rows)
}

// CountByCategory returns the number of posts in a category.
func (r *Repository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts WHERE category_id = $1`, categoryID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("posts: count by category: %w", err)
	}
	return total, nil
}

// Create persists a new post and fills in generated fields.
func (r *Repository) Create(ctx context.Context, post *Post) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO posts (title, content, author_id, category_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		post.Title, post.Content, post.AuthorID, post.CategoryID,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("posts: create: %w", err)
	}
	return nil
}

// Update persists changes to an existing post.
func (r *Repository) Update(ctx context.Context, post *Post) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET title = $2, content = $3, category_id = $4, updated_at = now() WHERE id = $1`,
		post.ID, post.Title, post.Content, post.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("posts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.Newf(shared.KindNotFound, "Post %d not found", post.ID)
	}
	return nil
}

// Delete removes a post by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("posts: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.Newf(shared.KindNotFound, "Post %d not found", id)
	}
	return nil
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()
	var result []Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CategoryID, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("posts: scan: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("posts: rows: %w", err)
	}
	return result, nil
}
