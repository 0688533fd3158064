package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vplcricket/registry/internal/api/authz"
	"github.com/vplcricket/registry/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrProtectedAccount   = errors.New("account is protected")
	ErrUserNotFound       = errors.New("user not found")
)

// Service resolves identities and manages committee accounts. The super-admin
// is a sentinel checked against a fixed credential pair; it never exists as a
// users row and its username is reserved.
type Service struct {
	queries       *store.Queries
	adminUsername string
	adminPassword string
}

func NewService(queries *store.Queries, adminUsername, adminPassword string) *Service {
	return &Service{
		queries:       queries,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// Authenticate resolves the super-admin sentinel first, then falls back to a
// stored committee account with a bcrypt hash check.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*authz.Identity, error) {
	if s.isAdminLogin(username, password) {
		return &authz.Identity{Username: s.adminUsername, Role: authz.RoleSuperAdmin}, nil
	}

	user, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &authz.Identity{Username: user.Username, Role: user.Role}, nil
}

func (s *Service) isAdminLogin(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	return userOK && passOK
}

// CreateUser adds a committee account. Only the super-admin may call it. The
// reserved super-admin username is rejected here, not just at deletion, so a
// row can never shadow the sentinel.
func (s *Service) CreateUser(ctx context.Context, actor *authz.Identity, username, password, role string) (int64, error) {
	if !actor.IsSuperAdmin() {
		return 0, authz.ErrForbidden
	}
	if username == s.adminUsername {
		return 0, ErrProtectedAccount
	}
	if role == "" {
		role = authz.RoleEditor
	}

	exists, err := s.queries.UserExists(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return 0, ErrDuplicateUsername
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	id, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// DeleteUser removes a committee account. The reserved username check is a
// name guard; the sentinel never exists as a row.
func (s *Service) DeleteUser(ctx context.Context, actor *authz.Identity, id int64) (string, error) {
	if !actor.IsSuperAdmin() {
		return "", authz.ErrForbidden
	}

	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("error looking up user: %w", err)
	}

	if user.Username == s.adminUsername {
		return "", ErrProtectedAccount
	}

	if err := s.queries.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("error deleting user: %w", err)
	}
	return user.Username, nil
}

// ListUsers returns all committee accounts. Only the super-admin may call it.
func (s *Service) ListUsers(ctx context.Context, actor *authz.Identity) ([]store.User, error) {
	if !actor.IsSuperAdmin() {
		return nil, authz.ErrForbidden
	}
	users, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}
