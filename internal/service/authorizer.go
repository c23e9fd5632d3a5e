package service

import (
	"context"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

// Authorizer answers role and permission questions about a user.
type Authorizer interface {
	HasRole(ctx context.Context, user domain.User, role string) (bool, error)
	HasAnyRole(ctx context.Context, user domain.User, roles []string) (bool, error)
	Can(ctx context.Context, user domain.User, permission string) (bool, error)
	CanAny(ctx context.Context, user domain.User, permissions []string) (bool, error)
}

// GrantAuthorizer checks the roles and permissions loaded on the user record.
type GrantAuthorizer struct{}

func NewGrantAuthorizer() GrantAuthorizer {
	return GrantAuthorizer{}
}

func (GrantAuthorizer) HasRole(_ context.Context, user domain.User, role string) (bool, error) {
	return user.HasRole(role), nil
}

func (GrantAuthorizer) HasAnyRole(_ context.Context, user domain.User, roles []string) (bool, error) {
	for _, role := range roles {
		if user.HasRole(role) {
			return true, nil
		}
	}
	return false, nil
}

func (GrantAuthorizer) Can(_ context.Context, user domain.User, permission string) (bool, error) {
	return user.HasPermission(permission), nil
}

func (GrantAuthorizer) CanAny(_ context.Context, user domain.User, permissions []string) (bool, error) {
	for _, permission := range permissions {
		if user.HasPermission(permission) {
			return true, nil
		}
	}
	return false, nil
}
