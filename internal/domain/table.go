package domain

import (
	"errors"
	"strings"
	"time"
)

type TableStatus string

const (
	TableDraft      TableStatus = "draft"
	TableScheduled  TableStatus = "scheduled"
	TableFull       TableStatus = "full"
	TableInProgress TableStatus = "in_progress"
	TableCompleted  TableStatus = "completed"
	TableCancelled  TableStatus = "cancelled"
)

var tableTransitions = map[TableStatus][]TableStatus{
	TableDraft:      {TableScheduled, TableCancelled},
	TableScheduled:  {TableFull, TableInProgress, TableCancelled},
	TableFull:       {TableScheduled, TableInProgress, TableCancelled},
	TableInProgress: {TableCompleted, TableCancelled},
	TableCompleted:  {},
	TableCancelled:  {},
}

func TableStatuses() []TableStatus {
	return []TableStatus{TableDraft, TableScheduled, TableFull, TableInProgress, TableCompleted, TableCancelled}
}

func (s TableStatus) IsValid() bool {
	_, ok := tableTransitions[s]
	return ok
}

func (s TableStatus) CanTransitionTo(target TableStatus) bool {
	for _, allowed := range tableTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s TableStatus) IsTerminal() bool {
	return s == TableCompleted || s == TableCancelled
}

// IsRegistrable is true only while the table is scheduled or full.
func (s TableStatus) IsRegistrable() bool {
	return s == TableScheduled || s == TableFull
}

type TableType string

const (
	TableTypeOneShot  TableType = "one_shot"
	TableTypeCampaign TableType = "campaign"
	TableTypeDemo     TableType = "demo"
)

type TableFormat string

const (
	TableFormatInPerson TableFormat = "in_person"
	TableFormatOnline   TableFormat = "online"
	TableFormatHybrid   TableFormat = "hybrid"
)

type RegistrationType string

const (
	RegistrationEveryone    RegistrationType = "everyone"
	RegistrationMembersOnly RegistrationType = "members_only"
	RegistrationInvite      RegistrationType = "invite"
)

var (
	ErrEmptyTitle             = errors.New("table title is required")
	ErrInvalidPlayerRange     = errors.New("min players must be between 0 and max players")
	ErrInvalidSpectators      = errors.New("max spectators cannot be negative")
	ErrInvalidEarlyAccessDays = errors.New("members early access days cannot be negative")
	ErrInvalidRegistrationWin = errors.New("registration must open before it closes")
)

// Table is a single scheduled game session.
type Table struct {
	ID           uint
	GameSystemID uint
	CampaignID   *uint
	EventID      *string
	Title        string
	Synopsis     string
	Window       TimeWindow
	Type         TableType
	Format       TableFormat
	Status       TableStatus

	MinPlayers    int
	MaxPlayers    int
	MaxSpectators int

	RegistrationType               RegistrationType
	MembersEarlyAccessDays         int
	RegistrationOpensAt            *time.Time
	RegistrationClosesAt           *time.Time
	AutoConfirm                    bool
	AcceptsRegistrationsInProgress bool

	IsPublished bool
	PublishedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTable validates invariants and returns a draft table.
func NewTable(t Table) (Table, error) {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return Table{}, ErrEmptyTitle
	}
	if t.Window.DurationMinutes() <= 0 {
		return Table{}, ErrInvalidDuration
	}
	if t.MinPlayers < 0 || t.MinPlayers > t.MaxPlayers {
		return Table{}, ErrInvalidPlayerRange
	}
	if t.MaxSpectators < 0 {
		return Table{}, ErrInvalidSpectators
	}
	if t.MembersEarlyAccessDays < 0 {
		return Table{}, ErrInvalidEarlyAccessDays
	}
	if t.RegistrationOpensAt != nil && t.RegistrationClosesAt != nil && !t.RegistrationClosesAt.After(*t.RegistrationOpensAt) {
		return Table{}, ErrInvalidRegistrationWin
	}
	if t.RegistrationType == "" {
		t.RegistrationType = RegistrationEveryone
	}
	t.Status = TableDraft
	t.IsPublished = false
	t.PublishedAt = nil
	return t, nil
}

// TransitionTo returns the table moved to target, or a *TransitionError.
func (t Table) TransitionTo(target TableStatus, now time.Time) (Table, error) {
	if !t.Status.CanTransitionTo(target) {
		return t, &TransitionError{From: string(t.Status), To: string(target)}
	}
	t.Status = target
	t.UpdatedAt = now
	return t, nil
}

// Publish schedules a draft table and stamps the publication time.
func (t Table) Publish(now time.Time) (Table, error) {
	published, err := t.TransitionTo(TableScheduled, now)
	if err != nil {
		return t, err
	}
	published.IsPublished = true
	published.PublishedAt = &now
	return published, nil
}

// CanRegister reports whether the lifecycle allows new registrations. An in
// progress table only accepts them when AcceptsRegistrationsInProgress is set.
func (t Table) CanRegister() bool {
	if t.Status.IsTerminal() {
		return false
	}
	if t.Status == TableInProgress {
		return t.AcceptsRegistrationsInProgress
	}
	return t.Status.IsRegistrable()
}

func (t Table) RequiresMembership() bool {
	return t.RegistrationType == RegistrationMembersOnly
}

// AllowsGuests is false for members only and invite tables.
func (t Table) AllowsGuests() bool {
	return t.RegistrationType == RegistrationEveryone
}

// MembersOpenAt is when members may register, or nil when registration has no opening instant.
func (t Table) MembersOpenAt() *time.Time {
	if t.RegistrationOpensAt == nil {
		return nil
	}
	opens := t.RegistrationOpensAt.AddDate(0, 0, -t.MembersEarlyAccessDays)
	return &opens
}

// CapacityFor returns the seat limit applying to role and whether the role is capacity gated.
func (t Table) CapacityFor(role ParticipantRole) (int, bool) {
	switch role {
	case RolePlayer:
		return t.MaxPlayers, true
	case RoleSpectator:
		return t.MaxSpectators, true
	default:
		return 0, false
	}
}
