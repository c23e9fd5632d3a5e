package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidDuration     = errors.New("duration must be positive")
	ErrInvalidSlotLabel    = errors.New("time slot label is required")
	ErrInvalidSlotRange    = errors.New("time slot must end after it starts")
	ErrInvalidSlotCapacity = errors.New("time slot max tables must be at least 1")
)

// TimeWindow is the scheduled span of a table: a start instant and a positive duration.
type TimeWindow struct {
	startsAt        time.Time
	durationMinutes int
}

func NewTimeWindow(startsAt time.Time, durationMinutes int) (TimeWindow, error) {
	if durationMinutes <= 0 {
		return TimeWindow{}, ErrInvalidDuration
	}

	return TimeWindow{
		startsAt:        startsAt,
		durationMinutes: durationMinutes,
	}, nil
}

func (w TimeWindow) StartsAt() time.Time {
	return w.startsAt
}

func (w TimeWindow) DurationMinutes() int {
	return w.durationMinutes
}

func (w TimeWindow) EndsAt() time.Time {
	return w.startsAt.Add(time.Duration(w.durationMinutes) * time.Minute)
}

func (w TimeWindow) DurationHours() float64 {
	return float64(w.durationMinutes) / 60
}

func (w TimeWindow) HasStarted(now time.Time) bool {
	return !now.Before(w.startsAt)
}

func (w TimeWindow) HasEnded(now time.Time) bool {
	return !now.Before(w.EndsAt())
}

// IsInProgress reports start <= now < end.
func (w TimeWindow) IsInProgress(now time.Time) bool {
	return w.HasStarted(now) && !w.HasEnded(now)
}

// Overlaps uses half-open intervals, so adjacent windows do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.startsAt.Before(other.EndsAt()) && other.startsAt.Before(w.EndsAt())
}

func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.startsAt.Equal(other.startsAt) && w.durationMinutes == other.durationMinutes
}

// TimeSlotDefinition is a named slot of an event's schedule.
type TimeSlotDefinition struct {
	Label    string
	StartsAt time.Time
	EndsAt   time.Time
	// MaxTables is nil when the slot is unbounded.
	MaxTables *int
}

func NewTimeSlotDefinition(label string, startsAt, endsAt time.Time, maxTables *int) (TimeSlotDefinition, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return TimeSlotDefinition{}, ErrInvalidSlotLabel
	}
	if !endsAt.After(startsAt) {
		return TimeSlotDefinition{}, ErrInvalidSlotRange
	}
	if maxTables != nil && *maxTables < 1 {
		return TimeSlotDefinition{}, ErrInvalidSlotCapacity
	}

	return TimeSlotDefinition{
		Label:     label,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		MaxTables: maxTables,
	}, nil
}

// Contains checks instant against [StartsAt, EndsAt).
func (s TimeSlotDefinition) Contains(instant time.Time) bool {
	return !instant.Before(s.StartsAt) && instant.Before(s.EndsAt)
}

func (s TimeSlotDefinition) IsUnbounded() bool {
	return s.MaxTables == nil
}

// HasRoomFor reports whether one more table fits next to the given number already placed.
func (s TimeSlotDefinition) HasRoomFor(existingTables int) bool {
	if s.MaxTables == nil {
		return true
	}
	return existingTables < *s.MaxTables
}
