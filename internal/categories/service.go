package categories

import (
	"context"
	"errors"

	"golang.org/x/text/unicode/norm"

	"github.com/inkpress/inkpress/internal/shared"
)

// Service wraps category business rules.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// normalizeName puts a category name into NFC form so that visually
// identical names cannot bypass the case-insensitive uniqueness check.
func normalizeName(name string) string {
	return norm.NFC.String(name)
}

// Create adds a new category, enforcing case-insensitive name uniqueness.
func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	name = normalizeName(name)
	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, shared.ErrCategoryNameTaken
	} else if !errors.Is(err, shared.ErrCategoryNotFound) {
		return nil, err
	}
	category := &Category{Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// FindAll returns every category; the listing is not paginated.
func (s *Service) FindAll(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

// Edit renames a category, rejecting names already held by another category.
func (s *Service) Edit(ctx context.Context, id int64, name string) error {
	name = normalizeName(name)
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing, err := s.repo.FindByName(ctx, name); err == nil {
		if existing.ID != id {
			return shared.ErrCategoryNameTaken
		}
	} else if !errors.Is(err, shared.ErrCategoryNotFound) {
		return err
	}
	category.Name = name
	return s.repo.Update(ctx, category)
}

// Delete removes a category by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ResolveIDByName maps a category name to its id, returning nil for unknown
// names rather than an error. createPost relies on this to proceed without a
// category when the supplied name matches nothing.
func (s *Service) ResolveIDByName(ctx context.Context, name string) (*int64, error) {
	category, err := s.repo.FindByName(ctx, normalizeName(name))
	if err != nil {
		if errors.Is(err, shared.ErrCategoryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category.ID, nil
}
