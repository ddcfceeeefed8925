package rpc

import (
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/posts"
	"github.com/inkpress/inkpress/internal/shared"
)

type postsHandler struct {
	d       *Dispatcher
	service *posts.Service
}

// RegisterPosts wires the post operations onto the dispatcher.
func RegisterPosts(d *Dispatcher, service *posts.Service) {
	h := &postsHandler{d: d, service: service}
	writerRoles := []shared.Role{shared.RoleUser, shared.RoleAdmin}
	d.Register("createPost", &auth.Descriptor{Name: "createPost", Roles: writerRoles, RequiresAuth: true}, h.createPost)
	d.Register("editPost", &auth.Descriptor{Name: "editPost", Roles: writerRoles, RequiresAuth: true}, h.editPost)
	d.Register("deletePost", &auth.Descriptor{Name: "deletePost", Roles: []shared.Role{auth.RoleAny}, RequiresAuth: true}, h.deletePost)
	d.Register("findAllPosts", nil, h.findAllPosts)
	d.Register("findPostById", nil, h.findPostByID)
	d.Register("findPostByTitle", nil, h.findPostByTitle)
	d.Register("findPostByCategory", nil, h.findPostByCategory)
}

type createPostInput struct {
	Title    string  `json:"title" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	Category *string `json:"category"`
}

type createPostOutput struct {
	shared.Envelope
	PostID int64 `json:"postId,omitempty"`
}

func (h *postsHandler) createPost(call *Call) any {
	var in createPostInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("createPost", err)
	}
	post, err := h.service.Create(call.Request.Context(), call.Principal.ID, posts.CreatePostParams{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
	})
	if err != nil {
		return h.d.failure("createPost", err)
	}
	return createPostOutput{Envelope: shared.OK(), PostID: post.ID}
}

type pageInput struct {
	Page int `json:"page" validate:"omitempty,min=1"`
}

type postsPageOutput struct {
	shared.Envelope
	Posts        []postView `json:"posts"`
	TotalPages   int        `json:"totalPages"`
	TotalResults int        `json:"totalResults"`
}

func newPostsPageOutput(page *posts.Page) postsPageOutput {
	return postsPageOutput{
		Envelope:     shared.OK(),
		Posts:        newPostViews(page.Posts),
		TotalPages:   page.TotalPages,
		TotalResults: page.TotalResults,
	}
}

func (h *postsHandler) findAllPosts(call *Call) any {
	var in pageInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("findAllPosts", err)
	}
	page, err := h.service.FindAll(call.Request.Context(), in.Page)
	if err != nil {
		return h.d.failure("findAllPosts", err)
	}
	return newPostsPageOutput(page)
}

type findPostByTitleInput struct {
	Query string `json:"query" validate:"required"`
	Page  int    `json:"page" validate:"omitempty,min=1"`
}

func (h *postsHandler) findPostByTitle(call *Call) any {
	var in findPostByTitleInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("findPostByTitle", err)
	}
	page, err := h.service.FindByTitle(call.Request.Context(), in.Query, in.Page)
	if err != nil {
		return h.d.failure("findPostByTitle", err)
	}
	return newPostsPageOutput(page)
}

type findPostByCategoryInput struct {
	CategoryID int64 `json:"categoryId" validate:"required"`
	Page       int   `json:"page" validate:"omitempty,min=1"`
}

func (h *postsHandler) findPostByCategory(call *Call) any {
	var in findPostByCategoryInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("findPostByCategory", err)
	}
	page, err := h.service.FindByCategory(call.Request.Context(), in.CategoryID, in.Page)
	if err != nil {
		return h.d.failure("findPostByCategory", err)
	}
	return newPostsPageOutput(page)
}

type findPostByIDInput struct {
	ID int64 `json:"id" validate:"required"`
}

type postOutput struct {
	shared.Envelope
	Post *postView `json:"post,omitempty"`
}

func (h *postsHandler) findPostByID(call *Call) any {
	var in findPostByIDInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("findPostById", err)
	}
	post, err := h.service.FindByID(call.Request.Context(), in.ID)
	if err != nil {
		return h.d.failure("findPostById", err)
	}
	return postOutput{Envelope: shared.OK(), Post: newPostView(post)}
}

type editPostInput struct {
	PostID     int64   `json:"postId" validate:"required"`
	Title      *string `json:"title" validate:"omitempty,min=1"`
	Content    *string `json:"content" validate:"omitempty,min=1"`
	CategoryID *int64  `json:"categoryId"`
}

func (h *postsHandler) editPost(call *Call) any {
	var in editPostInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("editPost", err)
	}
	err := h.service.Edit(call.Request.Context(), call.Principal.ID, in.PostID, posts.EditPostParams{
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
	})
	if err != nil {
		return h.d.failure("editPost", err)
	}
	return shared.OK()
}

type deletePostInput struct {
	PostID int64 `json:"postId" validate:"required"`
}

func (h *postsHandler) deletePost(call *Call) any {
	var in deletePostInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("deletePost", err)
	}
	if err := h.service.Delete(call.Request.Context(), call.Principal.ID, in.PostID); err != nil {
		return h.d.failure("deletePost", err)
	}
	return shared.OK()
}
