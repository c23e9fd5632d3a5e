package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User, roleNames []string) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	SyncRolePermissions(ctx context.Context, grants map[string][]string) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Email:    user.Email,
		Password: user.Password,
		Name:     user.Name,
	}, user.Roles)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", domainErr(err))
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", domainErr(err))
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", domainErr(err))
	}

	return r.daoToDomain(found), nil
}

// SyncRoleGrants stores the configured role to permission mapping.
func (r *UserRepository) SyncRoleGrants(ctx context.Context, grants map[string][]string) error {
	if err := r.dao.SyncRolePermissions(ctx, grants); err != nil {
		return fmt.Errorf("r.dao.SyncRolePermissions -> %w", err)
	}
	return nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	user := domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	seen := make(map[string]bool)
	for _, role := range u.Roles {
		user.Roles = append(user.Roles, role.Name)
		for _, p := range role.Permissions {
			if !seen[p.Name] {
				seen[p.Name] = true
				user.Permissions = append(user.Permissions, p.Name)
			}
		}
	}
	return user
}
