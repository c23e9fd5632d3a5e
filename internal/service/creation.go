package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// CreationService decides whether a user may create tables or campaigns under
// the global creation settings.
type CreationService struct {
	users      UserFinder
	authz      Authorizer
	translator Translator
}

func NewCreationService(users UserFinder, authz Authorizer, translator Translator) *CreationService {
	if translator == nil {
		translator = reasonTokens{}
	}
	return &CreationService{
		users:      users,
		authz:      authz,
		translator: translator,
	}
}

func (s *CreationService) CanCreateTable(ctx context.Context, settings domain.CreationSettings, userID *uint) (domain.CreationEligibility, error) {
	return s.canCreate(ctx, settings, domain.ContentTables, userID)
}

func (s *CreationService) CanCreateCampaign(ctx context.Context, settings domain.CreationSettings, userID *uint) (domain.CreationEligibility, error) {
	return s.canCreate(ctx, settings, domain.ContentCampaigns, userID)
}

func (s *CreationService) canCreate(ctx context.Context, settings domain.CreationSettings, content domain.ContentType, userID *uint) (domain.CreationEligibility, error) {
	if !settings.FrontendCreationEnabled {
		return s.deny(domain.ReasonFrontendCreationDisabled), nil
	}
	if !settings.Allows(content) {
		if content == domain.ContentCampaigns {
			return s.deny(domain.ReasonCampaignsNotAllowed), nil
		}
		return s.deny(domain.ReasonTablesNotAllowed), nil
	}

	access, err := s.evaluateAccess(ctx, settings.AccessLevel, settings.AllowedRoles, settings.RequiredPermission, userID)
	if err != nil {
		return domain.CreationEligibility{}, err
	}
	if access.reason != domain.ReasonNone {
		return s.deny(access.reason), nil
	}

	result := domain.CreationEligibility{Eligible: true}
	if access.user != nil {
		tier, err := s.matchTier(ctx, settings.PriorityTiers, *access.user)
		if err != nil {
			return domain.CreationEligibility{}, err
		}
		result.Tier = tier
	}
	return result, nil
}

// GetCreationOpenDate is eventStart shifted back by the user's priority tier, if any.
func (s *CreationService) GetCreationOpenDate(ctx context.Context, settings domain.CreationSettings, userID *uint, eventStart time.Time) (time.Time, error) {
	tier, err := s.UserTier(ctx, settings, userID)
	if err != nil {
		return time.Time{}, err
	}
	if tier == nil {
		return eventStart, nil
	}
	return tier.OpensAt(eventStart), nil
}

// UserTier returns the first configured priority tier matching the user.
func (s *CreationService) UserTier(ctx context.Context, settings domain.CreationSettings, userID *uint) (*domain.CreationPriorityTier, error) {
	if userID == nil || len(settings.PriorityTiers) == 0 {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, *userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	return s.matchTier(ctx, settings.PriorityTiers, user)
}

func (s *CreationService) matchTier(ctx context.Context, tiers []domain.CreationPriorityTier, user domain.User) (*domain.CreationPriorityTier, error) {
	for _, tier := range tiers {
		var (
			ok  bool
			err error
		)
		switch tier.Type {
		case domain.TierRole:
			ok, err = s.authz.HasRole(ctx, user, tier.Value)
		case domain.TierPermission:
			ok, err = s.authz.Can(ctx, user, tier.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("match tier %s:%s -> %w", tier.Type, tier.Value, err)
		}
		if ok {
			matched := tier
			return &matched, nil
		}
	}
	return nil, nil
}

type accessOutcome struct {
	reason domain.Reason
	user   *domain.User
}

// evaluateAccess applies an access level. A ReasonNone outcome means eligible;
// user is set whenever the user had to be loaded.
func (s *CreationService) evaluateAccess(ctx context.Context, level domain.CreationAccessLevel, roles []string, permission string, userID *uint) (accessOutcome, error) {
	if level == domain.AccessEveryone {
		return accessOutcome{}, nil
	}
	if !level.IsValid() {
		return accessOutcome{}, fmt.Errorf("access level %q -> %w", level, domain.ErrInvalidAccessLevel)
	}
	if userID == nil {
		return accessOutcome{reason: domain.ReasonAuthenticationRequired}, nil
	}

	user, err := s.users.FindByID(ctx, *userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return accessOutcome{reason: domain.ReasonUserNotFound}, nil
	}
	if err != nil {
		return accessOutcome{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}
	outcome := accessOutcome{user: &user}

	switch level {
	case domain.AccessRole:
		if len(roles) == 0 {
			outcome.reason = domain.ReasonNoRolesConfigured
			return outcome, nil
		}
		ok, err := s.authz.HasAnyRole(ctx, user, roles)
		if err != nil {
			return accessOutcome{}, fmt.Errorf("s.authz.HasAnyRole -> %w", err)
		}
		if !ok {
			outcome.reason = domain.ReasonRoleNotAllowed
		}
	case domain.AccessPermission:
		if permission == "" {
			outcome.reason = domain.ReasonNoPermissionConfigured
			return outcome, nil
		}
		ok, err := s.authz.Can(ctx, user, permission)
		if err != nil {
			return accessOutcome{}, fmt.Errorf("s.authz.Can -> %w", err)
		}
		if !ok {
			outcome.reason = domain.ReasonPermissionDenied
		}
	}
	return outcome, nil
}

func (s *CreationService) deny(reason domain.Reason) domain.CreationEligibility {
	return domain.CreationEligibility{
		Eligible: false,
		Reason:   reason,
		Message:  s.translator.Translate(reason),
	}
}
