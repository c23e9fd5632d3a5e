package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Membership struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	StartedAt time.Time `gorm:"not null"`
	ExpiresAt *time.Time
	CreatedAt time.Time
}

type MembershipDAO struct {
	db *gorm.DB
}

func NewMembershipDAO(db *gorm.DB) *MembershipDAO {
	return &MembershipDAO{
		db: db,
	}
}

func (d *MembershipDAO) Insert(ctx context.Context, m Membership) (Membership, error) {
	result := d.db.WithContext(ctx).Omit("User").Create(&m)
	if result.Error != nil {
		return Membership{}, result.Error
	}

	return m, nil
}

func (d *MembershipDAO) FindActive(ctx context.Context, at time.Time) ([]Membership, error) {
	var memberships []Membership

	result := d.db.WithContext(ctx).
		Where("started_at <= ? AND (expires_at IS NULL OR expires_at > ?)", at, at).
		Find(&memberships)
	if result.Error != nil {
		return nil, result.Error
	}

	return memberships, nil
}
