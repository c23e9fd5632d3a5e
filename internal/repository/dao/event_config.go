package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventConfigNotFound = errors.New("event config not found")
)

type TimeSlot struct {
	Label     string    `json:"label"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	MaxTables *int      `json:"max_tables,omitempty"`
}

type AccessOverride struct {
	AccessLevel        string   `json:"access_level"`
	AllowedRoles       []string `json:"allowed_roles,omitempty"`
	RequiredPermission string   `json:"required_permission,omitempty"`
}

type EarlyAccess struct {
	Type               string   `json:"type"`
	AllowedRoles       []string `json:"allowed_roles,omitempty"`
	RequiredPermission string   `json:"required_permission,omitempty"`
	DaysBeforeOpening  int      `json:"days_before_opening"`
}

type EventGameTableConfig struct {
	EventID        string     `gorm:"primaryKey"`
	TablesEnabled  bool       `gorm:"not null;default:true"`
	SchedulingMode string     `gorm:"not null"`
	TimeSlots      []TimeSlot `gorm:"serializer:json"`
	LocationMode   string     `gorm:"not null"`
	FixedLocation  string

	EligibilityOverride *AccessOverride `gorm:"serializer:json"`

	EarlyAccessEnabled bool `gorm:"not null;default:false"`
	CreationOpensAt    *time.Time
	EarlyAccessTier    *EarlyAccess `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventConfigDAO struct {
	db *gorm.DB
}

func NewEventConfigDAO(db *gorm.DB) *EventConfigDAO {
	return &EventConfigDAO{
		db: db,
	}
}

func (d *EventConfigDAO) FindByEventID(ctx context.Context, eventID string) (EventGameTableConfig, error) {
	var config EventGameTableConfig

	result := d.db.WithContext(ctx).First(&config, "event_id = ?", eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return EventGameTableConfig{}, ErrEventConfigNotFound
		}

		return EventGameTableConfig{}, result.Error
	}

	return config, nil
}

func (d *EventConfigDAO) Upsert(ctx context.Context, config EventGameTableConfig) (EventGameTableConfig, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		UpdateAll: true,
	}).Create(&config)
	if result.Error != nil {
		return EventGameTableConfig{}, result.Error
	}

	return config, nil
}
