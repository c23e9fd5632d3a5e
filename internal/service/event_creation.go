package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type EventConfigRepository interface {
	FindByEvent(ctx context.Context, eventID string) (domain.EventGameTableConfig, error)
}

type EventTableCounter interface {
	CountEventTablesStartingBetween(ctx context.Context, eventID string, from, to time.Time) (int, error)
}

// EventCreationService layers an event's table configuration over the global
// creation policy.
type EventCreationService struct {
	configs    EventConfigRepository
	tables     EventTableCounter
	global     *CreationService
	translator Translator
	now        func() time.Time
}

func NewEventCreationService(configs EventConfigRepository, tables EventTableCounter, global *CreationService) *EventCreationService {
	return &EventCreationService{
		configs:    configs,
		tables:     tables,
		global:     global,
		translator: global.translator,
		now:        time.Now,
	}
}

func (s *EventCreationService) WithClock(now func() time.Time) *EventCreationService {
	s.now = now
	return s
}

// CanCreateTableForEvent falls back to the global policy when the event has no
// configuration of its own.
func (s *EventCreationService) CanCreateTableForEvent(ctx context.Context, settings domain.CreationSettings, eventID string, userID *uint) (domain.CreationEligibility, error) {
	config, err := s.configs.FindByEvent(ctx, eventID)
	if errors.Is(err, domain.ErrEventConfigNotFound) {
		return s.global.CanCreateTable(ctx, settings, userID)
	}
	if err != nil {
		return domain.CreationEligibility{}, fmt.Errorf("s.configs.FindByEvent -> %w", err)
	}

	if !config.TablesEnabled {
		return s.global.deny(domain.ReasonTablesNotEnabledForEvent), nil
	}

	if config.HasEarlyAccess() {
		opensAt, err := s.effectiveOpenDate(ctx, config, userID)
		if err != nil {
			return domain.CreationEligibility{}, err
		}
		if s.now().Before(opensAt) {
			result := s.global.deny(domain.ReasonCreationNotOpen)
			result.CanCreateAt = &opensAt
			return result, nil
		}
	}

	if override := config.EligibilityOverride; override != nil {
		access, err := s.global.evaluateAccess(ctx, override.AccessLevel, override.AllowedRoles, override.RequiredPermission, userID)
		if err != nil {
			return domain.CreationEligibility{}, err
		}
		if access.reason != domain.ReasonNone {
			return s.global.deny(access.reason), nil
		}
		return domain.CreationEligibility{Eligible: true}, nil
	}

	if userID == nil {
		return s.global.deny(domain.ReasonAuthenticationRequired), nil
	}
	return domain.CreationEligibility{Eligible: true}, nil
}

// EffectiveOpenDate returns when the user may start creating tables for the
// event, or false when the event has no early access window.
func (s *EventCreationService) EffectiveOpenDate(ctx context.Context, eventID string, userID *uint) (time.Time, bool, error) {
	config, err := s.configs.FindByEvent(ctx, eventID)
	if errors.Is(err, domain.ErrEventConfigNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("s.configs.FindByEvent -> %w", err)
	}
	if !config.HasEarlyAccess() {
		return time.Time{}, false, nil
	}
	opensAt, err := s.effectiveOpenDate(ctx, config, userID)
	if err != nil {
		return time.Time{}, false, err
	}
	return opensAt, true, nil
}

func (s *EventCreationService) effectiveOpenDate(ctx context.Context, config domain.EventGameTableConfig, userID *uint) (time.Time, error) {
	general := *config.CreationOpensAt
	tier := config.EarlyAccessTier
	if tier == nil || userID == nil {
		return general, nil
	}

	user, err := s.global.users.FindByID(ctx, *userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return general, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("s.global.users.FindByID -> %w", err)
	}

	var matches bool
	switch tier.Type {
	case domain.TierRole:
		matches, err = s.global.authz.HasAnyRole(ctx, user, tier.AllowedRoles)
	case domain.TierPermission:
		matches, err = s.global.authz.Can(ctx, user, tier.RequiredPermission)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("match early access tier -> %w", err)
	}
	if !matches {
		return general, nil
	}
	return tier.OpensAt(general), nil
}

// CheckSlotPlacement verifies that a table starting in window fits the event's
// slot schedule. Free scheduling accepts any window.
func (s *EventCreationService) CheckSlotPlacement(ctx context.Context, eventID string, window domain.TimeWindow) error {
	config, err := s.configs.FindByEvent(ctx, eventID)
	if errors.Is(err, domain.ErrEventConfigNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("s.configs.FindByEvent -> %w", err)
	}
	if !config.IsSlotBased() {
		return nil
	}

	slot, ok := config.SlotFor(window.StartsAt())
	if !ok {
		return domain.Deny(domain.ErrNotEligibleToCreate, domain.ReasonSlotRequired)
	}
	if slot.IsUnbounded() {
		return nil
	}

	placed, err := s.tables.CountEventTablesStartingBetween(ctx, eventID, slot.StartsAt, slot.EndsAt)
	if err != nil {
		return fmt.Errorf("s.tables.CountEventTablesStartingBetween -> %w", err)
	}
	if !slot.HasRoomFor(placed) {
		return domain.Deny(domain.ErrNotEligibleToCreate, domain.ReasonSlotFull)
	}
	return nil
}
