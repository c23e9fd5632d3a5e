package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`

	Roles []Role `gorm:"many2many:user_roles;"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Role grants its permissions to every user holding it.
type Role struct {
	ID          uint         `gorm:"primaryKey"`
	Name        string       `gorm:"unique;not null"`
	Permissions []Permission `gorm:"many2many:role_permissions;"`
}

type Permission struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

// Insert creates the user and attaches the named roles, creating missing ones.
func (d *UserDAO) Insert(ctx context.Context, user User, roleNames []string) (User, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles, err := ensureRoles(tx, roleNames)
		if err != nil {
			return err
		}
		user.Roles = roles

		if err := tx.Omit("Roles.*").Create(&user).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, `unique constraint "uni_users_email"`) {
				return ErrUserEmailExists
			}

			return err
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Preload("Roles.Permissions").First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).Preload("Roles.Permissions").First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

// SyncRolePermissions makes each role carry exactly the given permissions.
func (d *UserDAO) SyncRolePermissions(ctx context.Context, grants map[string][]string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, permissionNames := range grants {
			roles, err := ensureRoles(tx, []string{name})
			if err != nil {
				return err
			}

			permissions := make([]Permission, 0, len(permissionNames))
			for _, p := range permissionNames {
				permission := Permission{Name: p}
				if err := tx.Where(Permission{Name: p}).FirstOrCreate(&permission).Error; err != nil {
					return err
				}
				permissions = append(permissions, permission)
			}

			if err := tx.Model(&roles[0]).Association("Permissions").Replace(permissions); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureRoles(tx *gorm.DB, names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		role := Role{Name: name}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&role)
		if result.Error != nil {
			return nil, result.Error
		}
		if role.ID == 0 {
			if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
				return nil, err
			}
		}
		roles = append(roles, role)
	}
	return roles, nil
}
