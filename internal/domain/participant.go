package domain

import (
	"errors"
	"strings"
	"time"
)

type ParticipantRole string

const (
	RoleGameMaster ParticipantRole = "game_master"
	RoleCoGM       ParticipantRole = "co_gm"
	RolePlayer     ParticipantRole = "player"
	RoleSpectator  ParticipantRole = "spectator"
)

func (r ParticipantRole) IsValid() bool {
	switch r {
	case RoleGameMaster, RoleCoGM, RolePlayer, RoleSpectator:
		return true
	}
	return false
}

// IsSelfRegistrable reports whether the role can be taken through a public
// registration. Game masters are assigned by organizers.
func (r ParticipantRole) IsSelfRegistrable() bool {
	return r == RolePlayer || r == RoleSpectator
}

type ParticipantStatus string

const (
	ParticipantPending     ParticipantStatus = "pending"
	ParticipantConfirmed   ParticipantStatus = "confirmed"
	ParticipantWaitingList ParticipantStatus = "waiting_list"
	ParticipantCancelled   ParticipantStatus = "cancelled"
	ParticipantRejected    ParticipantStatus = "rejected"
	ParticipantNoShow      ParticipantStatus = "no_show"
)

func ParticipantStatuses() []ParticipantStatus {
	return []ParticipantStatus{
		ParticipantPending, ParticipantConfirmed, ParticipantWaitingList,
		ParticipantCancelled, ParticipantRejected, ParticipantNoShow,
	}
}

// IsActive is true for pending, confirmed and waiting list participants.
func (s ParticipantStatus) IsActive() bool {
	return s == ParticipantPending || s == ParticipantConfirmed || s == ParticipantWaitingList
}

var (
	ErrInvalidIdentity        = errors.New("participant needs exactly one of user id or guest email")
	ErrInvalidGuest           = errors.New("guest first name and email are required")
	ErrInvalidWaitingPosition = errors.New("waiting list position must be at least 1")
	ErrInvalidRole            = errors.New("invalid participant role")
)

// Identity names a registrant: a registered user or a guest email, never both.
type Identity struct {
	UserID *uint
	Email  string
}

func UserIdentity(userID uint) Identity {
	return Identity{UserID: &userID}
}

func GuestIdentity(email string) Identity {
	return Identity{Email: NormalizeEmail(email)}
}

func (i Identity) IsGuest() bool {
	return i.UserID == nil
}

func (i Identity) Validate() error {
	hasUser := i.UserID != nil
	hasEmail := i.Email != ""
	if hasUser == hasEmail {
		return ErrInvalidIdentity
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Guest holds the details of an unauthenticated registrant.
type Guest struct {
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	CancellationToken string
}

type Participant struct {
	ID      uint
	TableID uint
	UserID  *uint
	Guest   *Guest
	Role    ParticipantRole
	Status  ParticipantStatus
	Notes   string

	// WaitingListPosition is set iff Status is ParticipantWaitingList.
	WaitingListPosition *int

	ConfirmedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewParticipant builds a pending registration for identity.
func NewParticipant(tableID uint, identity Identity, guest *Guest, role ParticipantRole, notes string, now time.Time) (Participant, error) {
	if err := identity.Validate(); err != nil {
		return Participant{}, err
	}
	if !role.IsValid() {
		return Participant{}, ErrInvalidRole
	}

	p := Participant{
		TableID:   tableID,
		Role:      role,
		Status:    ParticipantPending,
		Notes:     strings.TrimSpace(notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if identity.IsGuest() {
		if guest == nil || strings.TrimSpace(guest.FirstName) == "" {
			return Participant{}, ErrInvalidGuest
		}
		g := *guest
		g.FirstName = strings.TrimSpace(g.FirstName)
		g.LastName = strings.TrimSpace(g.LastName)
		g.Phone = strings.TrimSpace(g.Phone)
		g.Email = identity.Email
		p.Guest = &g
	} else {
		id := *identity.UserID
		p.UserID = &id
	}

	return p, nil
}

func (p Participant) Identity() Identity {
	if p.UserID != nil {
		return UserIdentity(*p.UserID)
	}
	if p.Guest != nil {
		return GuestIdentity(p.Guest.Email)
	}
	return Identity{}
}

func (p Participant) IsGuest() bool {
	return p.UserID == nil && p.Guest != nil
}

func (p Participant) IsActive() bool {
	return p.Status.IsActive()
}

func (p Participant) CanBeCancelled() bool {
	return p.IsActive()
}

func (p Participant) transitionError(to ParticipantStatus) error {
	return &TransitionError{From: string(p.Status), To: string(to)}
}

// Confirm moves any non-terminal participant to confirmed.
func (p Participant) Confirm(now time.Time) (Participant, error) {
	if !p.Status.IsActive() {
		return p, p.transitionError(ParticipantConfirmed)
	}
	if p.Status == ParticipantConfirmed {
		return p, nil
	}
	p.Status = ParticipantConfirmed
	p.ConfirmedAt = &now
	p.WaitingListPosition = nil
	p.UpdatedAt = now
	return p, nil
}

// AddToWaitingList queues a pending participant at position.
func (p Participant) AddToWaitingList(position int, now time.Time) (Participant, error) {
	if position < 1 {
		return p, ErrInvalidWaitingPosition
	}
	if p.Status != ParticipantPending {
		return p, p.transitionError(ParticipantWaitingList)
	}
	p.Status = ParticipantWaitingList
	p.WaitingListPosition = &position
	p.UpdatedAt = now
	return p, nil
}

func (p Participant) PromoteFromWaitingList(now time.Time) (Participant, error) {
	if p.Status != ParticipantWaitingList {
		return p, ErrNotOnWaitingList
	}
	p.Status = ParticipantConfirmed
	p.ConfirmedAt = &now
	p.WaitingListPosition = nil
	p.UpdatedAt = now
	return p, nil
}

func (p Participant) Cancel(now time.Time) (Participant, error) {
	if !p.CanBeCancelled() {
		return p, ErrCannotCancel
	}
	p.Status = ParticipantCancelled
	p.CancelledAt = &now
	p.UpdatedAt = now
	return p, nil
}

func (p Participant) Reject(now time.Time) (Participant, error) {
	if p.Status != ParticipantPending {
		return p, p.transitionError(ParticipantRejected)
	}
	p.Status = ParticipantRejected
	p.UpdatedAt = now
	return p, nil
}

func (p Participant) MarkAsNoShow(now time.Time) (Participant, error) {
	if p.Status != ParticipantConfirmed {
		return p, p.transitionError(ParticipantNoShow)
	}
	p.Status = ParticipantNoShow
	p.UpdatedAt = now
	return p, nil
}

// Reopen resets an inactive record for a new registration of the same identity.
// The record keeps its id and history; guests get a fresh cancellation token.
func (p Participant) Reopen(role ParticipantRole, notes string, guest *Guest, newToken string, now time.Time) (Participant, error) {
	if p.IsActive() {
		return p, ErrAlreadyRegistered
	}
	if !role.IsValid() {
		return p, ErrInvalidRole
	}
	p.Status = ParticipantPending
	p.Role = role
	p.Notes = strings.TrimSpace(notes)
	p.CancelledAt = nil
	p.ConfirmedAt = nil
	p.WaitingListPosition = nil
	p.UpdatedAt = now

	if p.Guest != nil {
		g := *p.Guest
		if guest != nil {
			if first := strings.TrimSpace(guest.FirstName); first != "" {
				g.FirstName = first
			}
			g.LastName = strings.TrimSpace(guest.LastName)
			if phone := strings.TrimSpace(guest.Phone); phone != "" {
				g.Phone = phone
			}
		}
		g.CancellationToken = newToken
		p.Guest = &g
	}

	return p, nil
}
