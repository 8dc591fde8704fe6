package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"registration-service/config"
	"registration-service/handlers"
	"registration-service/models"
	"registration-service/registration"
	"registration-service/routes"
	"registration-service/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type memoryUserStore struct {
	users []models.User
}

func (m *memoryUserStore) Insert(_ context.Context, user models.User) error {
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

func (m *memoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			return &m.users[i], nil
		}
	}
	return nil, nil
}

func (m *memoryUserStore) ListAll(_ context.Context) ([]models.User, error) {
	return m.users, nil
}

func newTestRouter(t *testing.T) (*mux.Router, *memoryUserStore) {
	t.Helper()

	renderer, err := views.NewRenderer("../templates")
	assert.NoError(t, err)

	userStore := &memoryUserStore{}
	service := registration.NewService(userStore, config.RegistrationConfig{MinPasswordLength: 6, DefaultRole: "User"})
	return routes.SetupRoutes(handlers.NewUserHandler(service, renderer)), userStore
}

func postForm(router *mux.Router, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *mux.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func TestSetupRoutes(t *testing.T) {
	router, _ := newTestRouter(t)
	assert.IsType(t, &mux.Router{}, router)

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/"},
		{"GET", "/signup"},
		{"POST", "/signup"},
		{"GET", "/health"},
	}

	for _, tt := range tests {
		req, _ := http.NewRequest(tt.method, tt.path, nil)
		match := &mux.RouteMatch{}
		assert.True(t, router.Match(req, match), "Route %s %s not registered", tt.method, tt.path)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404 not found", rec.Body.String())
}

func TestWrongMethodIs404(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postForm(router, "/", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "404 not found", rec.Body.String())
}

func TestQueryStringIsIgnoredForDispatch(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := get(router, "/signup?next=%2F")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupFlow(t *testing.T) {
	router, userStore := newTestRouter(t)

	rec := postForm(router, "/signup", url.Values{
		"full_name": {"A B"},
		"email":     {"a@b.com"},
		"password":  {"abcdef"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@b.com")
	assert.Len(t, userStore.users, 1)
	assert.NotEqual(t, "abcdef", userStore.users[0].PasswordHash)

	rec = get(router, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@b.com")
	assert.Contains(t, rec.Body.String(), "A B")
}

func TestSignupFlowRejection(t *testing.T) {
	router, userStore := newTestRouter(t)

	rec := postForm(router, "/signup", url.Values{
		"full_name": {"A"},
		"email":     {""},
		"password":  {"x"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email is required")
	assert.Contains(t, rec.Body.String(), "Password must be at least 6 characters")
	assert.Empty(t, userStore.users)
}

func TestSignupFlowDuplicate(t *testing.T) {
	router, userStore := newTestRouter(t)

	form := url.Values{
		"full_name": {"A B"},
		"email":     {"a@b.com"},
		"password":  {"abcdef"},
	}
	assert.Equal(t, http.StatusOK, postForm(router, "/signup", form).Code)

	form.Set("full_name", "C D")
	rec := postForm(router, "/signup", form)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
	assert.Len(t, userStore.users, 1)
}
