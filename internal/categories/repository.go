package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkpress/inkpress/internal/shared"
)

// Repository provides PostgreSQL backed persistence for categories.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanCategory(row pgx.Row) (*Category, error) {
	var category Category
	if err := row.Scan(&category.ID, &category.Name, &category.CreatedAt, &category.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("categories: scan: %w", err)
	}
	return &category, nil
}

// FindByID returns the category with the given id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

// FindByName returns the category matching the name case-insensitively.
func (r *Repository) FindByName(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, created_at, updated_at FROM categories WHERE lower(name) = lower($1)`, name)
	return scanCategory(row)
}

// List returns all categories ordered by name.
func (r *Repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("categories: list: %w", err)
	}
	defer rows.Close()
	var result []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("categories: list scan: %w", err)
		}
		result = append(result, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("categories: list rows: %w", err)
	}
	return result, nil
}

// Create persists a new category. A lost uniqueness race surfaces as the
// same conflict error as the service pre-check.
func (r *Repository) Create(ctx context.Context, category *Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at, updated_at`,
		category.Name,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return mapCategoryConstraint(err, "categories: create")
	}
	return nil
}

// Update renames an existing category.
func (r *Repository) Update(ctx context.Context, category *Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, updated_at = now() WHERE id = $1`,
		category.ID, category.Name,
	)
	if err != nil {
		return mapCategoryConstraint(err, "categories: update")
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category. Posts referencing it get their category
// reference cleared by the ON DELETE SET NULL policy, not by this method.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("categories: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrCategoryNotFound
	}
	return nil
}

func mapCategoryConstraint(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_categories_name" {
		return shared.ErrCategoryNameTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
