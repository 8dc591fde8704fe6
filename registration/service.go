package registration

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"registration-service/config"
	"registration-service/models"
	"registration-service/store"

	"golang.org/x/crypto/bcrypt"
)

var generateFromPassword = bcrypt.GenerateFromPassword

// Form carries the raw submitted sign-up fields.
type Form struct {
	FullName string
	Email    string
	Password string
	Role     string
}

// Service turns submitted sign-up fields into either a persisted user or an
// ordered list of rejection reasons.
type Service struct {
	users             store.UserStore
	minPasswordLength int
	defaultRole       string
	now               func() time.Time
}

func NewService(users store.UserStore, cfg config.RegistrationConfig) *Service {
	minLength := cfg.MinPasswordLength
	if minLength < 1 {
		minLength = 6
	}
	role := cfg.DefaultRole
	if role == "" {
		role = "User"
	}
	return &Service{
		users:             users,
		minPasswordLength: minLength,
		defaultRole:       role,
		now:               time.Now,
	}
}

// Register validates the form, checks email uniqueness, and persists a new
// user. Field checks never touch the store; the duplicate check and insert
// run only when every field check passed. Creation either fully succeeds or
// contributes zero rows.
func (s *Service) Register(ctx context.Context, form Form) Outcome {
	if outcome := s.validate(form); !outcome.OK() {
		return outcome
	}

	email := strings.TrimSpace(form.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return Outcome{storageFailure(err)}
	}
	if existing != nil {
		return Outcome{{Kind: DuplicateEmail, Message: "User already exists"}}
	}

	hash, err := generateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return Outcome{storageFailure(err)}
	}

	user := models.User{
		FullName:     strings.TrimSpace(form.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         s.role(form),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return Outcome{storageFailure(err)}
	}

	return nil
}

// validate collects every failing field rule in order: email, password,
// full name. A field contributes at most one error per pass.
func (s *Service) validate(form Form) Outcome {
	var outcome Outcome

	email := strings.TrimSpace(form.Email)
	if email == "" {
		outcome = append(outcome, FieldError{Kind: MissingField, Message: "Email is required"})
	} else if !validEmail(email) {
		outcome = append(outcome, FieldError{Kind: InvalidFormat, Message: "Invalid email format"})
	}

	if form.Password == "" {
		outcome = append(outcome, FieldError{Kind: MissingField, Message: "Password is required"})
	} else if len(form.Password) < s.minPasswordLength {
		outcome = append(outcome, FieldError{
			Kind:    TooShort,
			Message: fmt.Sprintf("Password must be at least %d characters", s.minPasswordLength),
		})
	}

	if strings.TrimSpace(form.FullName) == "" {
		outcome = append(outcome, FieldError{Kind: MissingField, Message: "Full name is required"})
	}

	return outcome
}

func (s *Service) role(form Form) string {
	if role := strings.TrimSpace(form.Role); role != "" {
		return role
	}
	return s.defaultRole
}

// ListAll returns every registered user in storage iteration order.
func (s *Service) ListAll(ctx context.Context) ([]models.User, error) {
	return s.users.ListAll(ctx)
}

// FindByEmail returns the user with the given email, or nil when absent.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
