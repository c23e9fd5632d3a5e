package response

import (
	"time"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type Table struct {
	ID                   uint       `json:"id"`
	Title                string     `json:"title"`
	Synopsis             string     `json:"synopsis,omitempty"`
	EventID              *string    `json:"event_id,omitempty"`
	StartsAt             time.Time  `json:"starts_at"`
	EndsAt               time.Time  `json:"ends_at"`
	DurationMinutes      int        `json:"duration_minutes"`
	Status               string     `json:"status"`
	Type                 string     `json:"type"`
	Format               string     `json:"format"`
	MinPlayers           int        `json:"min_players"`
	MaxPlayers           int        `json:"max_players"`
	MaxSpectators        int        `json:"max_spectators"`
	RegistrationType     string     `json:"registration_type"`
	RegistrationOpensAt  *time.Time `json:"registration_opens_at,omitempty"`
	RegistrationClosesAt *time.Time `json:"registration_closes_at,omitempty"`
	IsPublished          bool       `json:"is_published"`
	PublishedAt          *time.Time `json:"published_at,omitempty"`
}

func NewTable(t domain.Table) Table {
	return Table{
		ID:                   t.ID,
		Title:                t.Title,
		Synopsis:             t.Synopsis,
		EventID:              t.EventID,
		StartsAt:             t.Window.StartsAt(),
		EndsAt:               t.Window.EndsAt(),
		DurationMinutes:      t.Window.DurationMinutes(),
		Status:               string(t.Status),
		Type:                 string(t.Type),
		Format:               string(t.Format),
		MinPlayers:           t.MinPlayers,
		MaxPlayers:           t.MaxPlayers,
		MaxSpectators:        t.MaxSpectators,
		RegistrationType:     string(t.RegistrationType),
		RegistrationOpensAt:  t.RegistrationOpensAt,
		RegistrationClosesAt: t.RegistrationClosesAt,
		IsPublished:          t.IsPublished,
		PublishedAt:          t.PublishedAt,
	}
}

type Participant struct {
	ID                  uint       `json:"id"`
	TableID             uint       `json:"table_id"`
	UserID              *uint      `json:"user_id,omitempty"`
	GuestEmail          string     `json:"guest_email,omitempty"`
	Role                string     `json:"role"`
	Status              string     `json:"status"`
	WaitingListPosition *int       `json:"waiting_list_position,omitempty"`
	ConfirmedAt         *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func NewParticipant(p domain.Participant) Participant {
	out := Participant{
		ID:                  p.ID,
		TableID:             p.TableID,
		UserID:              p.UserID,
		Role:                string(p.Role),
		Status:              string(p.Status),
		WaitingListPosition: p.WaitingListPosition,
		ConfirmedAt:         p.ConfirmedAt,
		CancelledAt:         p.CancelledAt,
		CreatedAt:           p.CreatedAt,
	}
	if p.Guest != nil {
		out.GuestEmail = p.Guest.Email
	}
	return out
}

// GuestRegistration is returned once, to the guest who registered. It is the
// only place the cancellation token is exposed.
type GuestRegistration struct {
	Participant
	CancellationToken string `json:"cancellation_token"`
}

type CreationEligibility struct {
	Eligible    bool       `json:"eligible"`
	Reason      string     `json:"reason,omitempty"`
	Message     string     `json:"message,omitempty"`
	Tier        *Tier      `json:"tier,omitempty"`
	CanCreateAt *time.Time `json:"can_create_at,omitempty"`
}

type Tier struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	DaysBefore int    `json:"days_before"`
}

func NewCreationEligibility(e domain.CreationEligibility) CreationEligibility {
	out := CreationEligibility{
		Eligible:    e.Eligible,
		Reason:      string(e.Reason),
		Message:     e.Message,
		CanCreateAt: e.CanCreateAt,
	}
	if e.Tier != nil {
		out.Tier = &Tier{Type: string(e.Tier.Type), Value: e.Tier.Value, DaysBefore: e.Tier.DaysBefore}
	}
	return out
}
