package service

import (
	"context"
	"strings"

	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// UserService handles account management and login
type UserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, in *models.NewUser) (string, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateUserSites(ctx context.Context, id string, siteIDs []string) ([]string, error)
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	ResolveUser(ctx context.Context, id string) (*models.User, error)
}

var _ UserService = (*Service)(nil)

// LoginResult is a signed token plus the account it was issued for.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		return nil, s.storageFailed("list_users", err)
	}
	return users, nil
}

func (s *Service) CreateUser(ctx context.Context, in *models.NewUser) (string, error) {
	id, err := s.Store.CreateUser(ctx, in)
	if err != nil {
		return "", s.storageFailed("create_user", err)
	}
	nuts.L.Infof("[UserService] Created user %s (%s)", in.Username, id)
	return id, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	deleted, err := s.Store.DeleteUser(ctx, id)
	if err != nil {
		return s.storageFailed("delete_user", err)
	}
	if !deleted {
		return errors.NewNotFoundError("user not found", nil)
	}
	nuts.L.Infof("[UserService] Deleted user %s", id)
	return nil
}

// UpdateUserSites replaces the user's site list wholesale.
func (s *Service) UpdateUserSites(ctx context.Context, id string, siteIDs []string) ([]string, error) {
	ids, ok, err := s.Store.UpdateUserSites(ctx, id, siteIDs)
	if err != nil {
		return nil, s.storageFailed("update_user_sites", err)
	}
	if !ok {
		return nil, errors.NewNotFoundError("user not found", nil)
	}
	return ids, nil
}

// Login checks credentials by username or email and issues a token.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, errors.NewValidationError("username or email and password are required", nil)
	}

	user, err := s.Store.FindUserByCredentials(ctx, identifier, password)
	if err != nil {
		return nil, s.storageFailed("find_user", err)
	}
	if user == nil {
		nuts.L.Warnf("[UserService] Failed login for %q", identifier)
		return nil, errors.NewAuthError("invalid credentials", nil)
	}

	token, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, errors.NewInternalError("failed to issue token", err)
	}
	return &LoginResult{Token: token, User: user.Sanitized()}, nil
}

// ResolveUser loads the current state of an authenticated account, so site
// assignment changes apply without a fresh login.
func (s *Service) ResolveUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Store.GetUser(ctx, id)
	if err != nil {
		return nil, s.storageFailed("get_user", err)
	}
	if user == nil {
		return nil, errors.NewAuthError("account no longer exists", nil)
	}
	return user, nil
}
