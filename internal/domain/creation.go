package domain

import (
	"errors"
	"strings"
	"time"
)

// CreationAccessLevel states who may create tables or campaigns.
type CreationAccessLevel string

const (
	AccessEveryone   CreationAccessLevel = "everyone"
	AccessRegistered CreationAccessLevel = "registered"
	AccessRole       CreationAccessLevel = "role"
	AccessPermission CreationAccessLevel = "permission"
)

func (l CreationAccessLevel) IsValid() bool {
	switch l {
	case AccessEveryone, AccessRegistered, AccessRole, AccessPermission:
		return true
	}
	return false
}

type ContentType string

const (
	ContentTables    ContentType = "tables"
	ContentCampaigns ContentType = "campaigns"
)

// TierType selects how a priority or early access tier matches a user.
type TierType string

const (
	TierRole       TierType = "role"
	TierPermission TierType = "permission"
)

var (
	ErrInvalidTier        = errors.New("invalid tier configuration")
	ErrInvalidAccessLevel = errors.New("invalid access level")
)

// CreationPriorityTier lets matching users create content DaysBefore days ahead of the base date.
type CreationPriorityTier struct {
	Type       TierType
	Value      string
	DaysBefore int
}

func NewCreationPriorityTier(tierType TierType, value string, daysBefore int) (CreationPriorityTier, error) {
	value = strings.TrimSpace(value)
	if tierType != TierRole && tierType != TierPermission {
		return CreationPriorityTier{}, ErrInvalidTier
	}
	if value == "" || daysBefore < 0 {
		return CreationPriorityTier{}, ErrInvalidTier
	}
	return CreationPriorityTier{Type: tierType, Value: value, DaysBefore: daysBefore}, nil
}

// OpensAt shifts base back by the tier's head start.
func (t CreationPriorityTier) OpensAt(base time.Time) time.Time {
	return base.AddDate(0, 0, -t.DaysBefore)
}

// EarlyAccessTier grants a group early creation access for an event.
type EarlyAccessTier struct {
	Type               TierType
	AllowedRoles       []string
	RequiredPermission string
	DaysBeforeOpening  int
}

func NewEarlyAccessTier(tierType TierType, roles []string, permission string, daysBeforeOpening int) (EarlyAccessTier, error) {
	if daysBeforeOpening < 1 {
		return EarlyAccessTier{}, ErrInvalidTier
	}
	tier := EarlyAccessTier{Type: tierType, DaysBeforeOpening: daysBeforeOpening}
	switch tierType {
	case TierRole:
		tier.AllowedRoles = cleanList(roles)
		if len(tier.AllowedRoles) == 0 {
			return EarlyAccessTier{}, ErrInvalidTier
		}
	case TierPermission:
		tier.RequiredPermission = strings.TrimSpace(permission)
		if tier.RequiredPermission == "" {
			return EarlyAccessTier{}, ErrInvalidTier
		}
	default:
		return EarlyAccessTier{}, ErrInvalidTier
	}
	return tier, nil
}

func (t EarlyAccessTier) OpensAt(general time.Time) time.Time {
	return general.AddDate(0, 0, -t.DaysBeforeOpening)
}

// EligibilityOverride replaces the global access level for one event.
type EligibilityOverride struct {
	AccessLevel        CreationAccessLevel
	AllowedRoles       []string
	RequiredPermission string
}

func NewEligibilityOverride(level CreationAccessLevel, roles []string, permission string) (EligibilityOverride, error) {
	override := EligibilityOverride{AccessLevel: level}
	switch level {
	case AccessEveryone, AccessRegistered:
	case AccessRole:
		override.AllowedRoles = cleanList(roles)
		if len(override.AllowedRoles) == 0 {
			return EligibilityOverride{}, ErrInvalidTier
		}
	case AccessPermission:
		override.RequiredPermission = strings.TrimSpace(permission)
		if override.RequiredPermission == "" {
			return EligibilityOverride{}, ErrInvalidTier
		}
	default:
		return EligibilityOverride{}, ErrInvalidAccessLevel
	}
	return override, nil
}

// CreationSettings is the resolved global creation policy for one operation.
type CreationSettings struct {
	FrontendCreationEnabled bool
	AllowedContent          []ContentType
	AccessLevel             CreationAccessLevel
	AllowedRoles            []string
	RequiredPermission      string
	PriorityTiers           []CreationPriorityTier
}

func (s CreationSettings) Allows(content ContentType) bool {
	for _, c := range s.AllowedContent {
		if c == content {
			return true
		}
	}
	return false
}

// CreationEligibility is the outcome of a creation check. CanCreateAt is set
// when the user is not eligible yet but will be at that instant.
type CreationEligibility struct {
	Eligible    bool
	Reason      Reason
	Message     string
	Tier        *CreationPriorityTier
	CanCreateAt *time.Time
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
