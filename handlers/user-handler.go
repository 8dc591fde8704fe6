package handlers

import (
	"context"
	"io"
	"net/http"

	"registration-service/middleware"
	"registration-service/models"
	"registration-service/registration"
)

// RegistrationService is the slice of the registration service the handlers
// depend on.
type RegistrationService interface {
	Register(ctx context.Context, form registration.Form) registration.Outcome
	ListAll(ctx context.Context) ([]models.User, error)
}

// Renderer produces a named view with an optional parameter bag.
type Renderer interface {
	Render(w io.Writer, name string, params any) error
}

type UserHandler struct {
	service RegistrationService
	views   Renderer
}

func NewUserHandler(service RegistrationService, views Renderer) *UserHandler {
	return &UserHandler{service: service, views: views}
}

// Index renders the list of all users.
func (h *UserHandler) Index(w http.ResponseWriter, r *http.Request) error {
	users, err := h.service.ListAll(r.Context())
	if err != nil {
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	return h.render(w, "index", map[string]any{"Users": users})
}

// SignupForm renders the empty sign-up form.
func (h *UserHandler) SignupForm(w http.ResponseWriter, r *http.Request) error {
	return h.render(w, "signup", nil)
}

// Signup runs the registration flow. A created user lands on the index view
// with the fresh list; a rejected submission lands back on the sign-up form
// with the ordered error messages, storage failures included.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return middleware.NewAppError(http.StatusBadRequest, "Invalid form payload", err)
	}

	form := registration.Form{
		FullName: r.FormValue("full_name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}

	outcome := h.service.Register(r.Context(), form)
	if !outcome.OK() {
		return h.render(w, "signup", map[string]any{"Errors": outcome.Messages()})
	}

	users, err := h.service.ListAll(r.Context())
	if err != nil {
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	return h.render(w, "index", map[string]any{"Users": users})
}

func (h *UserHandler) render(w http.ResponseWriter, name string, params any) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Render(w, name, params); err != nil {
		return middleware.NewAppError(http.StatusInternalServerError, "Internal server error", err)
	}
	return nil
}
