package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
)

type EventConfigDAO interface {
	FindByEventID(ctx context.Context, eventID string) (dao.EventGameTableConfig, error)
	Upsert(ctx context.Context, config dao.EventGameTableConfig) (dao.EventGameTableConfig, error)
}

type EventConfigRepository struct {
	dao EventConfigDAO
}

func NewEventConfigRepository(dao EventConfigDAO) *EventConfigRepository {
	return &EventConfigRepository{
		dao: dao,
	}
}

func (r *EventConfigRepository) FindByEvent(ctx context.Context, eventID string) (domain.EventGameTableConfig, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return domain.EventGameTableConfig{}, fmt.Errorf("r.dao.FindByEventID -> %w", domainErr(err))
	}

	return eventConfigDaoToDomain(found), nil
}

func (r *EventConfigRepository) Save(ctx context.Context, config domain.EventGameTableConfig) (domain.EventGameTableConfig, error) {
	saved, err := r.dao.Upsert(ctx, eventConfigDomainToDao(config))
	if err != nil {
		return domain.EventGameTableConfig{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return eventConfigDaoToDomain(saved), nil
}

func eventConfigDomainToDao(c domain.EventGameTableConfig) dao.EventGameTableConfig {
	out := dao.EventGameTableConfig{
		EventID:            c.EventID,
		TablesEnabled:      c.TablesEnabled,
		SchedulingMode:     string(c.SchedulingMode),
		LocationMode:       string(c.LocationMode),
		FixedLocation:      c.FixedLocation,
		EarlyAccessEnabled: c.EarlyAccessEnabled,
		CreationOpensAt:    c.CreationOpensAt,
	}
	for _, slot := range c.TimeSlots {
		out.TimeSlots = append(out.TimeSlots, dao.TimeSlot{
			Label:     slot.Label,
			StartsAt:  slot.StartsAt,
			EndsAt:    slot.EndsAt,
			MaxTables: slot.MaxTables,
		})
	}
	if o := c.EligibilityOverride; o != nil {
		out.EligibilityOverride = &dao.AccessOverride{
			AccessLevel:        string(o.AccessLevel),
			AllowedRoles:       o.AllowedRoles,
			RequiredPermission: o.RequiredPermission,
		}
	}
	if t := c.EarlyAccessTier; t != nil {
		out.EarlyAccessTier = &dao.EarlyAccess{
			Type:               string(t.Type),
			AllowedRoles:       t.AllowedRoles,
			RequiredPermission: t.RequiredPermission,
			DaysBeforeOpening:  t.DaysBeforeOpening,
		}
	}
	return out
}

func eventConfigDaoToDomain(c dao.EventGameTableConfig) domain.EventGameTableConfig {
	out := domain.EventGameTableConfig{
		EventID:            c.EventID,
		TablesEnabled:      c.TablesEnabled,
		SchedulingMode:     domain.SchedulingMode(c.SchedulingMode),
		LocationMode:       domain.LocationMode(c.LocationMode),
		FixedLocation:      c.FixedLocation,
		EarlyAccessEnabled: c.EarlyAccessEnabled,
		CreationOpensAt:    c.CreationOpensAt,
	}
	for _, slot := range c.TimeSlots {
		out.TimeSlots = append(out.TimeSlots, domain.TimeSlotDefinition{
			Label:     slot.Label,
			StartsAt:  slot.StartsAt,
			EndsAt:    slot.EndsAt,
			MaxTables: slot.MaxTables,
		})
	}
	if o := c.EligibilityOverride; o != nil {
		out.EligibilityOverride = &domain.EligibilityOverride{
			AccessLevel:        domain.CreationAccessLevel(o.AccessLevel),
			AllowedRoles:       o.AllowedRoles,
			RequiredPermission: o.RequiredPermission,
		}
	}
	if t := c.EarlyAccessTier; t != nil {
		out.EarlyAccessTier = &domain.EarlyAccessTier{
			Type:               domain.TierType(t.Type),
			AllowedRoles:       t.AllowedRoles,
			RequiredPermission: t.RequiredPermission,
			DaysBeforeOpening:  t.DaysBeforeOpening,
		}
	}
	return out
}
