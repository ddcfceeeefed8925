package rpc

import (
	"time"

	"github.com/inkpress/inkpress/internal/accounts"
	"github.com/inkpress/inkpress/internal/categories"
	"github.com/inkpress/inkpress/internal/posts"
	"github.com/inkpress/inkpress/internal/shared"
)

// userView is the caller-facing shape of a user. The password hash is never
// part of it.
type userView struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      shared.Role `json:"role"`
	Verified  bool        `json:"verified"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func newUserView(user *accounts.User) *userView {
	return &userView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type postView struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	AuthorID   *int64    `json:"authorId"`
	CategoryID *int64    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func newPostView(post *posts.Post) *postView {
	return &postView{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		AuthorID:   post.AuthorID,
		CategoryID: post.CategoryID,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}
}

func newPostViews(rows []posts.Post) []postView {
	views := make([]postView, len(rows))
	for i := range rows {
		views[i] = *newPostView(&rows[i])
	}
	return views
}

type categoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newCategoryViews(rows []categories.Category) []categoryView {
	views := make([]categoryView, len(rows))
	for i, category := range rows {
		views[i] = categoryView{ID: category.ID, Name: category.Name}
	}
	return views
}
