package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

var (
	errInvalidName  = errors.New("must contain letters, spaces, apostrophes or hyphens only")
	errInvalidPhone = errors.New("must be a phone number with 6 to 15 digits")
)

var registrableRoles = []interface{}{
	string(domain.RolePlayer),
	string(domain.RoleSpectator),
}

type RegisterRequest struct {
	Role  string `json:"role"`
	Notes string `json:"notes"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.In(registrableRoles...)),
		validation.Field(&req.Notes, validation.Length(0, 500)),
	)
}

type GuestRegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Notes     string `json:"notes"`
}

func (req *GuestRegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FirstName, validation.Required, matches(personNamePattern, errInvalidName)),
		validation.Field(&req.LastName, matches(personNamePattern, errInvalidName)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Phone, matches(phonePattern, errInvalidPhone)),
		validation.Field(&req.Role, validation.In(registrableRoles...)),
		validation.Field(&req.Notes, validation.Length(0, 500)),
	)
}

type TransitionRequest struct {
	Status string `json:"status"`
}

func (req *TransitionRequest) Validate() error {
	statuses := make([]interface{}, 0, len(domain.TableStatuses()))
	for _, s := range domain.TableStatuses() {
		statuses = append(statuses, string(s))
	}
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(statuses...)),
	)
}

type CreateTableRequest struct {
	GameSystemID                   uint       `json:"game_system_id"`
	CampaignID                     *uint      `json:"campaign_id"`
	EventID                        *string    `json:"event_id"`
	Title                          string     `json:"title"`
	Synopsis                       string     `json:"synopsis"`
	StartsAt                       time.Time  `json:"starts_at"`
	DurationMinutes                int        `json:"duration_minutes"`
	Type                           string     `json:"type"`
	Format                         string     `json:"format"`
	MinPlayers                     int        `json:"min_players"`
	MaxPlayers                     int        `json:"max_players"`
	MaxSpectators                  int        `json:"max_spectators"`
	RegistrationType               string     `json:"registration_type"`
	MembersEarlyAccessDays         int        `json:"members_early_access_days"`
	RegistrationOpensAt            *time.Time `json:"registration_opens_at"`
	RegistrationClosesAt           *time.Time `json:"registration_closes_at"`
	AutoConfirm                    bool       `json:"auto_confirm"`
	AcceptsRegistrationsInProgress bool       `json:"accepts_registrations_in_progress"`
}

func (req *CreateTableRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.GameSystemID, validation.Required),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 150)),
		validation.Field(&req.Synopsis, validation.Length(0, 5000)),
		validation.Field(&req.StartsAt, validation.Required),
		validation.Field(&req.DurationMinutes, validation.Required, validation.Min(1)),
		validation.Field(&req.Type, validation.In(
			string(domain.TableTypeOneShot),
			string(domain.TableTypeCampaign),
			string(domain.TableTypeDemo),
		)),
		validation.Field(&req.Format, validation.In(
			string(domain.TableFormatInPerson),
			string(domain.TableFormatOnline),
			string(domain.TableFormatHybrid),
		)),
		validation.Field(&req.MaxPlayers, validation.Required, validation.Min(1)),
		validation.Field(&req.MinPlayers, validation.Min(0)),
		validation.Field(&req.MaxSpectators, validation.Min(0)),
		validation.Field(&req.MembersEarlyAccessDays, validation.Min(0)),
		validation.Field(&req.RegistrationType, validation.In(
			string(domain.RegistrationEveryone),
			string(domain.RegistrationMembersOnly),
			string(domain.RegistrationInvite),
		)),
	)
}

// ToDomain builds the draft; domain.NewTable still enforces the invariants.
func (req *CreateTableRequest) ToDomain() (domain.Table, error) {
	window, err := domain.NewTimeWindow(req.StartsAt, req.DurationMinutes)
	if err != nil {
		return domain.Table{}, err
	}

	tableType := domain.TableType(req.Type)
	if tableType == "" {
		tableType = domain.TableTypeOneShot
	}
	format := domain.TableFormat(req.Format)
	if format == "" {
		format = domain.TableFormatInPerson
	}

	return domain.Table{
		GameSystemID:                   req.GameSystemID,
		CampaignID:                     req.CampaignID,
		EventID:                        req.EventID,
		Title:                          req.Title,
		Synopsis:                       req.Synopsis,
		Window:                         window,
		Type:                           tableType,
		Format:                         format,
		MinPlayers:                     req.MinPlayers,
		MaxPlayers:                     req.MaxPlayers,
		MaxSpectators:                  req.MaxSpectators,
		RegistrationType:               domain.RegistrationType(req.RegistrationType),
		MembersEarlyAccessDays:         req.MembersEarlyAccessDays,
		RegistrationOpensAt:            req.RegistrationOpensAt,
		RegistrationClosesAt:           req.RegistrationClosesAt,
		AutoConfirm:                    req.AutoConfirm,
		AcceptsRegistrationsInProgress: req.AcceptsRegistrationsInProgress,
	}, nil
}
