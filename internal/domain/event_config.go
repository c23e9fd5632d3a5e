package domain

import (
	"errors"
	"strings"
	"time"
)

type SchedulingMode string

const (
	SchedulingFree      SchedulingMode = "free"
	SchedulingSlotBased SchedulingMode = "slot_based"
)

type LocationMode string

const (
	LocationFreeChoice    LocationMode = "free_choice"
	LocationFixedLocation LocationMode = "fixed_location"
	LocationEventLocation LocationMode = "event_location"
)

var (
	ErrEmptyEventID        = errors.New("event id is required")
	ErrSlotsRequired       = errors.New("slot based scheduling needs at least one time slot")
	ErrFixedLocationNeeded = errors.New("fixed location mode needs a location")
)

// EventGameTableConfig is the per-event table policy layered over global settings.
type EventGameTableConfig struct {
	EventID        string
	TablesEnabled  bool
	SchedulingMode SchedulingMode
	TimeSlots      []TimeSlotDefinition
	LocationMode   LocationMode
	FixedLocation  string

	EligibilityOverride *EligibilityOverride

	EarlyAccessEnabled bool
	CreationOpensAt    *time.Time
	EarlyAccessTier    *EarlyAccessTier
}

func (c EventGameTableConfig) Validate() error {
	if strings.TrimSpace(c.EventID) == "" {
		return ErrEmptyEventID
	}
	if c.SchedulingMode == SchedulingSlotBased && len(c.TimeSlots) == 0 {
		return ErrSlotsRequired
	}
	if c.LocationMode == LocationFixedLocation && strings.TrimSpace(c.FixedLocation) == "" {
		return ErrFixedLocationNeeded
	}
	return nil
}

// HasEarlyAccess requires both the flag and an opening date.
func (c EventGameTableConfig) HasEarlyAccess() bool {
	return c.EarlyAccessEnabled && c.CreationOpensAt != nil
}

func (c EventGameTableConfig) IsSlotBased() bool {
	return c.SchedulingMode == SchedulingSlotBased
}

// SlotFor returns the first slot, in configured order, containing instant.
func (c EventGameTableConfig) SlotFor(instant time.Time) (TimeSlotDefinition, bool) {
	for _, slot := range c.TimeSlots {
		if slot.Contains(instant) {
			return slot, true
		}
	}
	return TimeSlotDefinition{}, false
}
