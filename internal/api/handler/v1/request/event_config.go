package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type TimeSlotRequest struct {
	Label     string    `json:"label"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	MaxTables *int      `json:"max_tables"`
}

type AccessOverrideRequest struct {
	AccessLevel        string   `json:"access_level"`
	AllowedRoles       []string `json:"allowed_roles"`
	RequiredPermission string   `json:"required_permission"`
}

type EarlyAccessTierRequest struct {
	Type               string   `json:"type"`
	AllowedRoles       []string `json:"allowed_roles"`
	RequiredPermission string   `json:"required_permission"`
	DaysBeforeOpening  int      `json:"days_before_opening"`
}

type EventConfigRequest struct {
	TablesEnabled       bool                    `json:"tables_enabled"`
	SchedulingMode      string                  `json:"scheduling_mode"`
	TimeSlots           []TimeSlotRequest       `json:"time_slots"`
	LocationMode        string                  `json:"location_mode"`
	FixedLocation       string                  `json:"fixed_location"`
	EligibilityOverride *AccessOverrideRequest  `json:"eligibility_override"`
	EarlyAccessEnabled  bool                    `json:"early_access_enabled"`
	CreationOpensAt     *time.Time              `json:"creation_opens_at"`
	EarlyAccessTier     *EarlyAccessTierRequest `json:"early_access_tier"`
}

func (req *EventConfigRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.SchedulingMode, validation.Required, validation.In(
			string(domain.SchedulingFree),
			string(domain.SchedulingSlotBased),
		)),
		validation.Field(&req.LocationMode, validation.Required, validation.In(
			string(domain.LocationFreeChoice),
			string(domain.LocationFixedLocation),
			string(domain.LocationEventLocation),
		)),
	)
}

// ToDomain runs the domain constructors so invalid slots and tiers are
// rejected before anything is stored.
func (req *EventConfigRequest) ToDomain(eventID string) (domain.EventGameTableConfig, error) {
	config := domain.EventGameTableConfig{
		EventID:            eventID,
		TablesEnabled:      req.TablesEnabled,
		SchedulingMode:     domain.SchedulingMode(req.SchedulingMode),
		LocationMode:       domain.LocationMode(req.LocationMode),
		FixedLocation:      req.FixedLocation,
		EarlyAccessEnabled: req.EarlyAccessEnabled,
		CreationOpensAt:    req.CreationOpensAt,
	}

	for _, s := range req.TimeSlots {
		slot, err := domain.NewTimeSlotDefinition(s.Label, s.StartsAt, s.EndsAt, s.MaxTables)
		if err != nil {
			return domain.EventGameTableConfig{}, err
		}
		config.TimeSlots = append(config.TimeSlots, slot)
	}

	if o := req.EligibilityOverride; o != nil {
		override, err := domain.NewEligibilityOverride(domain.CreationAccessLevel(o.AccessLevel), o.AllowedRoles, o.RequiredPermission)
		if err != nil {
			return domain.EventGameTableConfig{}, err
		}
		config.EligibilityOverride = &override
	}

	if t := req.EarlyAccessTier; t != nil {
		tier, err := domain.NewEarlyAccessTier(domain.TierType(t.Type), t.AllowedRoles, t.RequiredPermission, t.DaysBeforeOpening)
		if err != nil {
			return domain.EventGameTableConfig{}, err
		}
		config.EarlyAccessTier = &tier
	}

	return config, config.Validate()
}
