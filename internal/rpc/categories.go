package rpc

import (
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/categories"
	"github.com/inkpress/inkpress/internal/shared"
)

type categoriesHandler struct {
	d       *Dispatcher
	service *categories.Service
}

// RegisterCategories wires the category operations onto the dispatcher.
func RegisterCategories(d *Dispatcher, service *categories.Service) {
	h := &categoriesHandler{d: d, service: service}
	d.Register("createCategory", &auth.Descriptor{
		Name:         "createCategory",
		Roles:        []shared.Role{shared.RoleAdmin, shared.RoleUser},
		RequiresAuth: true,
	}, h.createCategory)
	d.Register("editCategory", &auth.Descriptor{
		Name:         "editCategory",
		Roles:        []shared.Role{shared.RoleAdmin},
		RequiresAuth: true,
	}, h.editCategory)
	d.Register("deleteCategory", &auth.Descriptor{
		Name:         "deleteCategory",
		Roles:        []shared.Role{shared.RoleAdmin},
		RequiresAuth: true,
	}, h.deleteCategory)
	d.Register("findAllCategories", nil, h.findAllCategories)
}

type createCategoryInput struct {
	Name string `json:"name" validate:"required,min=1"`
}

func (h *categoriesHandler) createCategory(call *Call) any {
	var in createCategoryInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("createCategory", err)
	}
	if _, err := h.service.Create(call.Request.Context(), in.Name); err != nil {
		return h.d.failure("createCategory", err)
	}
	return shared.OK()
}

type findAllCategoriesOutput struct {
	shared.Envelope
	Categories []categoryView `json:"categories"`
}

func (h *categoriesHandler) findAllCategories(call *Call) any {
	rows, err := h.service.FindAll(call.Request.Context())
	if err != nil {
		return h.d.failure("findAllCategories", err)
	}
	return findAllCategoriesOutput{Envelope: shared.OK(), Categories: newCategoryViews(rows)}
}

type editCategoryInput struct {
	ID   int64  `json:"id" validate:"required"`
	Name string `json:"name" validate:"required,min=1"`
}

func (h *categoriesHandler) editCategory(call *Call) any {
	var in editCategoryInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("editCategory", err)
	}
	if err := h.service.Edit(call.Request.Context(), in.ID, in.Name); err != nil {
		return h.d.failure("editCategory", err)
	}
	return shared.OK()
}

type deleteCategoryInput struct {
	ID int64 `json:"id" validate:"required"`
}

func (h *categoriesHandler) deleteCategory(call *Call) any {
	var in deleteCategoryInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("deleteCategory", err)
	}
	if err := h.service.Delete(call.Request.Context(), in.ID); err != nil {
		return h.d.failure("deleteCategory", err)
	}
	return shared.OK()
}
