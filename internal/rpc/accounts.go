package rpc

import (
	"github.com/inkpress/inkpress/internal/accounts"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/shared"
)

type accountsHandler struct {
	d       *Dispatcher
	service *accounts.Service
}

// RegisterAccounts wires the account operations onto the dispatcher.
func RegisterAccounts(d *Dispatcher, service *accounts.Service) {
	h := &accountsHandler{d: d, service: service}
	anyAuthenticated := []shared.Role{auth.RoleAny}
	d.Register("createAccount", nil, h.createAccount)
	d.Register("login", nil, h.login)
	d.Register("findUserById", nil, h.findUserByID)
	d.Register("myData", &auth.Descriptor{Name: "myData", Roles: anyAuthenticated, RequiresAuth: true}, h.myData)
	d.Register("editAccount", &auth.Descriptor{Name: "editAccount", Roles: anyAuthenticated, RequiresAuth: true}, h.editAccount)
	d.Register("deleteAccount", &auth.Descriptor{Name: "deleteAccount", Roles: anyAuthenticated, RequiresAuth: true}, h.deleteAccount)
	d.Register("changeRole", &auth.Descriptor{Name: "changeRole", Roles: anyAuthenticated, RequiresAuth: true}, h.changeRole)
}

type createAccountInput struct {
	Username string `json:"username" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *accountsHandler) createAccount(call *Call) any {
	var in createAccountInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("createAccount", err)
	}
	err := h.service.CreateAccount(call.Request.Context(), accounts.CreateAccountParams{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return h.d.failure("createAccount", err)
	}
	return shared.OK()
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginOutput struct {
	shared.Envelope
	Token string `json:"token,omitempty"`
}

func (h *accountsHandler) login(call *Call) any {
	var in loginInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("login", err)
	}
	signed, err := h.service.Login(call.Request.Context(), in.Email, in.Password)
	if err != nil {
		return h.d.failure("login", err)
	}
	return loginOutput{Envelope: shared.OK(), Token: signed}
}

type userOutput struct {
	shared.Envelope
	User *userView `json:"user,omitempty"`
}

func (h *accountsHandler) myData(call *Call) any {
	user, err := h.service.FindByID(call.Request.Context(), call.Principal.ID)
	if err != nil {
		return h.d.failure("myData", err)
	}
	return userOutput{Envelope: shared.OK(), User: newUserView(user)}
}

type findUserByIDInput struct {
	ID int64 `json:"id" validate:"required"`
}

func (h *accountsHandler) findUserByID(call *Call) any {
	var in findUserByIDInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("findUserById", err)
	}
	user, err := h.service.FindByID(call.Request.Context(), in.ID)
	if err != nil {
		return h.d.failure("findUserById", err)
	}
	return userOutput{Envelope: shared.OK(), User: newUserView(user)}
}

type editAccountInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=6"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

func (h *accountsHandler) editAccount(call *Call) any {
	var in editAccountInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("editAccount", err)
	}
	err := h.service.EditAccount(call.Request.Context(), call.Principal.ID, accounts.EditAccountParams{
		Email:    in.Email,
		Username: in.Username,
		Password: in.Password,
	})
	if err != nil {
		return h.d.failure("editAccount", err)
	}
	return shared.OK()
}

func (h *accountsHandler) deleteAccount(call *Call) any {
	if err := h.service.DeleteAccount(call.Request.Context(), call.Principal.ID); err != nil {
		return h.d.failure("deleteAccount", err)
	}
	return shared.OK()
}

type changeRoleInput struct {
	Role string `json:"role" validate:"required,oneof=Admin User Guest"`
}

func (h *accountsHandler) changeRole(call *Call) any {
	var in changeRoleInput
	if err := h.d.bind(call, &in); err != nil {
		return h.d.failure("changeRole", err)
	}
	role, _ := shared.ParseRole(in.Role)
	if err := h.service.ChangeRole(call.Request.Context(), call.Principal.ID, role); err != nil {
		return h.d.failure("changeRole", err)
	}
	return shared.OK()
}
