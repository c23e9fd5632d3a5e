package domain

import "time"

// Event is a domain event emitted after a registration change is persisted.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

const (
	EventParticipantRegistered = "participant.registered"
	EventGuestRegistered       = "participant.guest_registered"
	EventParticipantConfirmed  = "participant.confirmed"
	EventParticipantCancelled  = "participant.cancelled"
	EventParticipantPromoted   = "participant.promoted_from_waiting_list"
)

type ParticipantRegistered struct {
	ParticipantID uint              `json:"participant_id"`
	TableID       uint              `json:"table_id"`
	UserID        uint              `json:"user_id"`
	Role          ParticipantRole   `json:"role"`
	Status        ParticipantStatus `json:"status"`
	At            time.Time         `json:"occurred_at"`
}

func (e ParticipantRegistered) EventName() string     { return EventParticipantRegistered }
func (e ParticipantRegistered) OccurredAt() time.Time { return e.At }

type GuestRegistered struct {
	ParticipantID     uint              `json:"participant_id"`
	TableID           uint              `json:"table_id"`
	Email             string            `json:"email"`
	FirstName         string            `json:"first_name"`
	CancellationToken string            `json:"cancellation_token"`
	Role              ParticipantRole   `json:"role"`
	Status            ParticipantStatus `json:"status"`
	At                time.Time         `json:"occurred_at"`
}

func (e GuestRegistered) EventName() string     { return EventGuestRegistered }
func (e GuestRegistered) OccurredAt() time.Time { return e.At }

type ParticipantConfirmedEvent struct {
	ParticipantID uint      `json:"participant_id"`
	TableID       uint      `json:"table_id"`
	At            time.Time `json:"occurred_at"`
}

func (e ParticipantConfirmedEvent) EventName() string     { return EventParticipantConfirmed }
func (e ParticipantConfirmedEvent) OccurredAt() time.Time { return e.At }

type ParticipantCancelledEvent struct {
	ParticipantID uint      `json:"participant_id"`
	TableID       uint      `json:"table_id"`
	WasConfirmed  bool      `json:"was_confirmed"`
	At            time.Time `json:"occurred_at"`
}

func (e ParticipantCancelledEvent) EventName() string     { return EventParticipantCancelled }
func (e ParticipantCancelledEvent) OccurredAt() time.Time { return e.At }

type ParticipantPromotedFromWaitingList struct {
	ParticipantID  uint      `json:"participant_id"`
	TableID        uint      `json:"table_id"`
	FormerPosition int       `json:"former_position"`
	At             time.Time `json:"occurred_at"`
}

func (e ParticipantPromotedFromWaitingList) EventName() string     { return EventParticipantPromoted }
func (e ParticipantPromotedFromWaitingList) OccurredAt() time.Time { return e.At }
