package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"registration-service/models"
)

// UserStore is the storage gateway for registered users. Implementations
// execute parametrized statements against the injected handle; each call is
// its own unit of work.
type UserStore interface {
	Insert(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
}

type SQLUserStore struct {
	db     *sql.DB
	engine string
}

func NewSQLUserStore(db *sql.DB, engine string) *SQLUserStore {
	return &SQLUserStore{db: db, engine: engine}
}

const (
	insertUserQuery = "INSERT INTO users (full_name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)"
	selectUserQuery = "SELECT id, full_name, email, password_hash, role, created_at FROM users WHERE email = ?"
	listUsersQuery  = "SELECT id, full_name, email, password_hash, role, created_at FROM users"
)

func (s *SQLUserStore) Insert(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, s.bind(insertUserQuery),
		user.FullName, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// FindByEmail returns the user with the given email, or nil when no user
// matches. The match is exact and case-sensitive.
func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, s.bind(selectUserQuery), email).
		Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &user, nil
}

func (s *SQLUserStore) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, listUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// bind rewrites ? placeholders into the $n style for the postgres engine.
func (s *SQLUserStore) bind(query string) string {
	if s.engine != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
