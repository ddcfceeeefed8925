package posts_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/internal/posts"
	"github.com/inkpress/inkpress/internal/shared"
	_ "github.com/inkpress/inkpress/testing"
)

type mockRepository struct {
	posts  map[int64]*posts.Post
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{posts: make(map[int64]*posts.Post), nextID: 1}
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*posts.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, shared.Newf(shared.KindNotFound, "Post %d not found", id)
	}
	clone := *post
	return &clone, nil
}

func (m *mockRepository) matching(filter func(*posts.Post) bool) []posts.Post {
	var rows []posts.Post
	for _, post := range m.posts {
		if filter(post) {
			rows = append(rows, *post)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows
}

func page(rows []posts.Post, offset, limit int) []posts.Post {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (m *mockRepository) List(ctx context.Context, offset, limit int) ([]posts.Post, error) {
	return page(m.matching(func(*posts.Post) bool { return true }), offset, limit), nil
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	return len(m.posts), nil
}

func (m *mockRepository) ListByTitle(ctx context.Context, query string, offset, limit int) ([]posts.Post, error) {
	rows := m.matching(func(p *posts.Post) bool { return p.Title == query })
	return page(rows, offset, limit), nil
}

func (m *mockRepository) CountByTitle(ctx context.Context, query string) (int, error) {
	return len(m.matching(func(p *posts.Post) bool { return p.Title == query })), nil
}

func (m *mockRepository) ListByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]posts.Post, error) {
	rows := m.matching(func(p *posts.Post) bool { return p.CategoryID != nil && *p.CategoryID == categoryID })
	return page(rows, offset, limit), nil
}

func (m *mockRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	return len(m.matching(func(p *posts.Post) bool { return p.CategoryID != nil && *p.CategoryID == categoryID })), nil
}

func (m *mockRepository) Create(ctx context.Context, post *posts.Post) error {
	post.ID = m.nextID
	m.nextID++
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *mockRepository) Update(ctx context.Context, post *posts.Post) error {
	if _, ok := m.posts[post.ID]; !ok {
		return shared.Newf(shared.KindNotFound, "Post %d not found", post.ID)
	}
	clone := *post
	m.posts[post.ID] = &clone
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return shared.Newf(shared.KindNotFound, "Post %d not found", id)
	}
	delete(m.posts, id)
	return nil
}

type stubUserDirectory struct {
	existing map[int64]bool
}

func (s *stubUserDirectory) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.existing[id], nil
}

type stubCategoryResolver struct {
	byName map[string]int64
}

func (s *stubCategoryResolver) ResolveIDByName(ctx context.Context, name string) (*int64, error) {
	id, ok := s.byName[name]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func newService(repo *mockRepository) *posts.Service {
	users := &stubUserDirectory{existing: map[int64]bool{1: true, 2: true}}
	categories := &stubCategoryResolver{byName: map[string]int64{"General": 10}}
	return posts.NewService(repo, users, categories)
}

func strptr(s string) *string { return &s }

func TestCreatePost(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo)

	post, err := service.Create(context.Background(), 1, posts.CreatePostParams{
		Title:    "Hello",
		Content:  "World",
		Category: strptr("General"),
	})
	require.NoError(t, err)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, int64(1), *post.AuthorID)
	require.NotNil(t, post.CategoryID)
	assert.Equal(t, int64(10), *post.CategoryID)
}

// An unknown category name is ignored: the post is created without a
// category, and no category is created implicitly.
func TestCreatePostUnknownCategory(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo)

	post, err := service.Create(context.Background(), 1, posts.CreatePostParams{
		Title:    "Hello",
		Content:  "World",
		Category: strptr("NoSuchCategory"),
	})
	require.NoError(t, err)
	assert.Nil(t, post.CategoryID)
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	service := newService(newMockRepository())

	_, err := service.Create(context.Background(), 99, posts.CreatePostParams{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestFindAllPostsEmptyStore(t *testing.T) {
	service := newService(newMockRepository())

	page, err := service.FindAll(context.Background(), 1)
	require.NoError(t, err, "an empty store is a success, not an error")
	assert.Empty(t, page.Posts)
	assert.NotNil(t, page.Posts)
	assert.Zero(t, page.TotalResults)
	assert.Zero(t, page.TotalPages)
}

func TestFindAllPostsPaginates(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo)
	for i := 0; i < 25; i++ {
		_, err := service.Create(context.Background(), 1, posts.CreatePostParams{Title: "t", Content: "c"})
		require.NoError(t, err)
	}

	first, err := service.FindAll(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, first.Posts, shared.PageSize)
	assert.Equal(t, 25, first.TotalResults)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, int64(25), first.Posts[0].ID, "newest first")

	last, err := service.FindAll(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 5)
}

func TestFindPostByIDNotFound(t *testing.T) {
	service := newService(newMockRepository())

	_, err := service.FindByID(context.Background(), 123)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestEditPostOwnership(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo)

	mine, err := service.Create(context.Background(), 1, posts.CreatePostParams{Title: "Mine", Content: "a"})
	require.NoError(t, err)
	theirs, err := service.Create(context.Background(), 2, posts.CreatePostParams{Title: "Theirs", Content: "b"})
	require.NoError(t, err)

	// Editing someone else's post is denied and leaves it untouched.
	err = service.Edit(context.Background(), 1, theirs.ID, posts.EditPostParams{Title: strptr("Hijacked")})
	assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	unchanged, err := service.FindByID(context.Background(), theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, "Theirs", unchanged.Title)

	// The owner can edit, and partial updates leave other fields alone.
	err = service.Edit(context.Background(), 1, mine.ID, posts.EditPostParams{Title: strptr("Renamed")})
	require.NoError(t, err)
	edited, err := service.FindByID(context.Background(), mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", edited.Title)
	assert.Equal(t, "a", edited.Content)
}

func TestEditPostNotFound(t *testing.T) {
	service := newService(newMockRepository())

	err := service.Edit(context.Background(), 1, 42, posts.EditPostParams{Title: strptr("x")})
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

func TestDeletePostOwnership(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo)

	post, err := service.Create(context.Background(), 1, posts.CreatePostParams{Title: "Keep", Content: "c"})
	require.NoError(t, err)

	err = service.Delete(context.Background(), 2, post.ID)
	assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	kept, err := service.FindByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep", kept.Title)

	require.NoError(t, service.Delete(context.Background(), 1, post.ID))
	_, err = service.FindByID(context.Background(), post.ID)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
}

// A post whose author was deleted has a nil author and no owner; nobody can
// mutate it.
func TestOrphanedPostCannotBeEdited(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo)

	post, err := service.Create(context.Background(), 1, posts.CreatePostParams{Title: "Orphan", Content: "c"})
	require.NoError(t, err)
	repo.posts[post.ID].AuthorID = nil

	err = service.Edit(context.Background(), 1, post.ID, posts.EditPostParams{Title: strptr("x")})
	assert.ErrorIs(t, err, shared.ErrPermissionDenied)
}

func TestFindByCategory(t *testing.T) {
	repo := newMockRepository()
	service := newService(repo)

	_, err := service.Create(context.Background(), 1, posts.CreatePostParams{Title: "In", Content: "c", Category: strptr("General")})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), 1, posts.CreatePostParams{Title: "Out", Content: "c"})
	require.NoError(t, err)

	page, err := service.FindByCategory(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "In", page.Posts[0].Title)
	assert.Equal(t, 1, page.TotalResults)
}
