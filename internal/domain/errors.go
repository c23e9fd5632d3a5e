package domain

import (
	"errors"
	"fmt"
)

// Reason is a stable token describing why an eligibility check failed.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonRegistrationClosed     Reason = "registration_closed"
	ReasonRegistrationNotOpen    Reason = "registration_not_open"
	ReasonMembersOnly            Reason = "members_only"
	ReasonAlreadyRegistered      Reason = "already_registered"
	ReasonGuestAlreadyRegistered Reason = "guest_already_registered"
	ReasonTableFull              Reason = "table_full"
	ReasonSpectatorsFull         Reason = "spectators_full"
	ReasonNotFound               Reason = "not_found"
	ReasonGuestsNotAllowed       Reason = "guests_not_allowed"

	ReasonFrontendCreationDisabled Reason = "frontend_creation_disabled"
	ReasonTablesNotAllowed         Reason = "tables_not_allowed"
	ReasonCampaignsNotAllowed      Reason = "campaigns_not_allowed"
	ReasonAuthenticationRequired   Reason = "authentication_required"
	ReasonUserNotFound             Reason = "user_not_found"
	ReasonRoleNotAllowed           Reason = "role_not_allowed"
	ReasonNoRolesConfigured        Reason = "no_roles_configured"
	ReasonPermissionDenied         Reason = "permission_denied"
	ReasonNoPermissionConfigured   Reason = "no_permission_configured"
	ReasonTablesNotEnabledForEvent Reason = "tables_not_enabled_for_event"
	ReasonCreationNotOpen          Reason = "creation_not_open"
	ReasonSlotRequired             Reason = "slot_required"
	ReasonSlotFull                 Reason = "slot_full"
)

var (
	ErrRegistrationClosed  = errors.New("registration closed")
	ErrMembersOnly         = errors.New("table is reserved to members")
	ErrAlreadyRegistered   = errors.New("already registered")
	ErrTableFull           = errors.New("table is full")
	ErrSpectatorsFull      = errors.New("no spectator seat left")
	ErrGuestsNotAllowed    = errors.New("guests are not allowed on this table")
	ErrNotEligibleToCreate = errors.New("not eligible to create")

	ErrTableNotFound       = errors.New("table not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrEventConfigNotFound = errors.New("event configuration not found")

	ErrCannotCancel      = errors.New("participant cannot be cancelled")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOnWaitingList  = errors.New("participant is not on the waiting list")
)

// DenialError is an expected policy outcome. It unwraps to one of the sentinel
// errors above so callers can match the class with errors.Is.
type DenialError struct {
	Reason Reason
	Err    error
}

func (e *DenialError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Err, e.Reason)
}

func (e *DenialError) Unwrap() error {
	return e.Err
}

func Deny(err error, reason Reason) *DenialError {
	return &DenialError{Reason: reason, Err: err}
}

// ReasonOf extracts the denial reason from err, or ReasonNone.
func ReasonOf(err error) Reason {
	var denial *DenialError
	if errors.As(err, &denial) {
		return denial.Reason
	}
	return ReasonNone
}

// TransitionError carries the offending edge of a rejected state change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
