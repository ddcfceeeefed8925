package posts

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/inkpress/inkpress/internal/shared"
)

// Service wraps post business rules: ownership enforcement and paginated
// lookups.
type Service struct {
	repo       RepositoryPort
	users      UserDirectory
	categories CategoryResolver
}

// NewService constructs a new Service.
func NewService(repo RepositoryPort, users UserDirectory, categories CategoryResolver) *Service {
	return &Service{repo: repo, users: users, categories: categories}
}

// CreatePostParams carries validated input for Create.
type CreatePostParams struct {
	Title    string
	Content  string
	Category *string
}

// Create persists a new post owned by the given author. A category name
// that matches no existing category is ignored and the post is created
// without one; categories are never created implicitly.
func (s *Service) Create(ctx context.Context, authorID int64, params CreatePostParams) (*Post, error) {
	exists, err := s.users.UserExists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrUserNotFound
	}
	var categoryID *int64
	if params.Category != nil && *params.Category != "" {
		categoryID, err = s.categories.ResolveIDByName(ctx, *params.Category)
		if err != nil {
			return nil, err
		}
	}
	post := &Post{
		Title:      params.Title,
		Content:    params.Content,
		AuthorID:   &authorID,
		CategoryID: categoryID,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Page is one page of posts plus pagination metadata. An empty page is a
// valid result, not an error.
type Page struct {
	Posts []Post
	shared.Pagination
}

// FindAll returns one page of all posts.
func (s *Service) FindAll(ctx context.Context, page int) (*Page, error) {
	return s.paginate(ctx, page,
		func(ctx context.Context, offset, limit int) ([]Post, error) {
			return s.repo.List(ctx, offset, limit)
		},
		s.repo.Count,
	)
}

// FindByTitle returns one page of posts whose title matches the query.
func (s *Service) FindByTitle(ctx context.Context, query string, page int) (*Page, error) {
	return s.paginate(ctx, page,
		func(ctx context.Context, offset, limit int) ([]Post, error) {
			return s.repo.ListByTitle(ctx, query, offset, limit)
		},
		func(ctx context.Context) (int, error) {
			return s.repo.CountByTitle(ctx, query)
		},
	)
}

// FindByCategory returns one page of posts in a category.
func (s *Service) FindByCategory(ctx context.Context, categoryID int64, page int) (*Page, error) {
	return s.paginate(ctx, page,
		func(ctx context.Context, offset, limit int) ([]Post, error) {
			return s.repo.ListByCategory(ctx, categoryID, offset, limit)
		},
		func(ctx context.Context) (int, error) {
			return s.repo.CountByCategory(ctx, categoryID)
		},
	)
}

// FindByID returns a single post.
func (s *Service) FindByID(ctx context.Context, id int64) (*Post, error) {
	return s.repo.FindByID(ctx, id)
}

// EditPostParams carries the optional fields of a post edit. Nil fields are
// left untouched.
type EditPostParams struct {
	Title      *string
	Content    *string
	CategoryID *int64
}

// Edit applies a partial update after the existence and ownership checks.
func (s *Service) Edit(ctx context.Context, callerID, postID int64, params EditPostParams) error {
	post, err := s.ownedPost(ctx, callerID, postID)
	if err != nil {
		return err
	}
	if params.Title != nil {
		post.Title = *params.Title
	}
	if params.Content != nil {
		post.Content = *params.Content
	}
	if params.CategoryID != nil {
		post.CategoryID = params.CategoryID
	}
	return s.repo.Update(ctx, post)
}

// Delete removes a post after the existence and ownership checks.
func (s *Service) Delete(ctx context.Context, callerID, postID int64) error {
	if _, err := s.ownedPost(ctx, callerID, postID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, postID)
}

// ownedPost fetches a post and verifies the caller is its author. A post
// whose author was deleted has no owner and cannot be mutated.
func (s *Service) ownedPost(ctx context.Context, callerID, postID int64) (*Post, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID == nil || *post.AuthorID != callerID {
		return nil, shared.ErrPermissionDenied
	}
	return post, nil
}

// paginate runs the page and count queries concurrently.
func (s *Service) paginate(
	ctx context.Context,
	page int,
	list func(ctx context.Context, offset, limit int) ([]Post, error),
	count func(ctx context.Context) (int, error),
) (*Page, error) {
	var (
		rows  []Post
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = list(gctx, shared.PageOffset(page), shared.PageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []Post{}
	}
	return &Page{Posts: rows, Pagination: shared.NewPagination(total)}, nil
}
