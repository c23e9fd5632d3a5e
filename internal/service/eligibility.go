package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type ParticipantReader interface {
	FindActiveByIdentity(ctx context.Context, tableID uint, identity domain.Identity) (domain.Participant, error)
	CountConfirmed(ctx context.Context, tableID uint, role domain.ParticipantRole) (int, error)
}

type MembershipProvider interface {
	GetActiveMembers(ctx context.Context) ([]domain.Member, error)
}

type Translator interface {
	Translate(reason domain.Reason) string
}

// noMembers stands in when no membership provider is configured: nobody is a member.
type noMembers struct{}

func (noMembers) GetActiveMembers(context.Context) ([]domain.Member, error) {
	return nil, nil
}

type reasonTokens struct{}

func (reasonTokens) Translate(reason domain.Reason) string {
	return string(reason)
}

type EligibilityOption func(*EligibilityService)

func WithMembershipProvider(p MembershipProvider) EligibilityOption {
	return func(s *EligibilityService) {
		if p != nil {
			s.members = p
		}
	}
}

func WithTranslator(t Translator) EligibilityOption {
	return func(s *EligibilityService) {
		if t != nil {
			s.translator = t
		}
	}
}

// EligibilityService decides whether a participant may join a given table.
type EligibilityService struct {
	participants ParticipantReader
	members      MembershipProvider
	translator   Translator
}

func NewEligibilityService(participants ParticipantReader, opts ...EligibilityOption) *EligibilityService {
	s := &EligibilityService{
		participants: participants,
		members:      noMembers{},
		translator:   reasonTokens{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Using returns a copy reading participants through reader, typically bound to
// the transaction holding the table lock.
func (s *EligibilityService) Using(reader ParticipantReader) *EligibilityService {
	clone := *s
	clone.participants = reader
	return &clone
}

// EligibilityCheck describes one registration attempt.
type EligibilityCheck struct {
	Table    domain.Table
	Identity domain.Identity
	Role     domain.ParticipantRole
	IsMember bool
	Now      time.Time
	// SkipCapacity leaves seat limits to the registration flow, which waitlists instead of rejecting.
	SkipCapacity bool
}

// IsMember looks the identity up in the active memberships. Guests are never members.
func (s *EligibilityService) IsMember(ctx context.Context, identity domain.Identity, now time.Time) (bool, error) {
	if identity.IsGuest() {
		return false, nil
	}
	members, err := s.members.GetActiveMembers(ctx)
	if err != nil {
		return false, fmt.Errorf("s.members.GetActiveMembers -> %w", err)
	}
	for _, m := range members {
		if m.UserID == *identity.UserID && m.IsActiveAt(now) {
			return true, nil
		}
	}
	return false, nil
}

// CheckEligibility runs the registration checks in order and returns the first
// failure as a *domain.DenialError. Any other error comes from a collaborator.
func (s *EligibilityService) CheckEligibility(ctx context.Context, check EligibilityCheck) error {
	if err := check.Identity.Validate(); err != nil {
		return err
	}
	if check.Role == "" {
		check.Role = domain.RolePlayer
	}
	table := check.Table
	guest := check.Identity.IsGuest()

	if guest && !table.AllowsGuests() {
		return domain.Deny(domain.ErrGuestsNotAllowed, domain.ReasonGuestsNotAllowed)
	}

	if !table.CanRegister() {
		return domain.Deny(domain.ErrRegistrationClosed, domain.ReasonRegistrationClosed)
	}

	if err := s.checkTiming(table, check.Identity, check.IsMember, check.Now); err != nil {
		return err
	}

	if err := s.checkDuplicate(ctx, table.ID, check.Identity); err != nil {
		return err
	}

	if check.SkipCapacity {
		return nil
	}
	return s.checkCapacity(ctx, table, check.Role)
}

// CanGuestRegister is the guest flavour of CheckEligibility. Members only and
// invite tables are refused before any timing or capacity work.
func (s *EligibilityService) CanGuestRegister(ctx context.Context, table domain.Table, email string, now time.Time) error {
	return s.CheckEligibility(ctx, EligibilityCheck{
		Table:    table,
		Identity: domain.GuestIdentity(email),
		Role:     domain.RolePlayer,
		Now:      now,
	})
}

// Evaluate turns CheckEligibility into a structured result. Only denials are
// translated; collaborator failures are returned as errors.
func (s *EligibilityService) Evaluate(ctx context.Context, check EligibilityCheck) (domain.EligibilityResult, error) {
	err := s.CheckEligibility(ctx, check)
	if err == nil {
		return domain.Eligible(), nil
	}

	var denial *domain.DenialError
	if errors.As(err, &denial) {
		zap.L().Debug("registration denied",
			zap.Uint("table_id", check.Table.ID),
			zap.String("reason", string(denial.Reason)),
		)
		return domain.Ineligible(denial.Reason, s.translator.Translate(denial.Reason)), nil
	}
	return domain.EligibilityResult{}, err
}

func (s *EligibilityService) checkTiming(table domain.Table, identity domain.Identity, isMember bool, now time.Time) error {
	if table.RegistrationClosesAt != nil && !now.Before(*table.RegistrationClosesAt) {
		return domain.Deny(domain.ErrRegistrationClosed, domain.ReasonRegistrationClosed)
	}

	if table.RegistrationOpensAt != nil && now.Before(*table.RegistrationOpensAt) {
		earlyAccess := !identity.IsGuest() && isMember && table.MembersEarlyAccessDays > 0
		if !earlyAccess || now.Before(*table.MembersOpenAt()) {
			return domain.Deny(domain.ErrRegistrationClosed, domain.ReasonRegistrationNotOpen)
		}
	}

	if table.RequiresMembership() && !isMember {
		return domain.Deny(domain.ErrMembersOnly, domain.ReasonMembersOnly)
	}
	return nil
}

func (s *EligibilityService) checkDuplicate(ctx context.Context, tableID uint, identity domain.Identity) error {
	_, err := s.participants.FindActiveByIdentity(ctx, tableID, identity)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("s.participants.FindActiveByIdentity -> %w", err)
	}
	return alreadyRegistered(identity)
}

func (s *EligibilityService) checkCapacity(ctx context.Context, table domain.Table, role domain.ParticipantRole) error {
	limit, gated := table.CapacityFor(role)
	if !gated {
		return nil
	}
	confirmed, err := s.participants.CountConfirmed(ctx, table.ID, role)
	if err != nil {
		return fmt.Errorf("s.participants.CountConfirmed -> %w", err)
	}
	if confirmed < limit {
		return nil
	}
	if role == domain.RoleSpectator {
		return domain.Deny(domain.ErrSpectatorsFull, domain.ReasonSpectatorsFull)
	}
	return domain.Deny(domain.ErrTableFull, domain.ReasonTableFull)
}

func alreadyRegistered(identity domain.Identity) error {
	if identity.IsGuest() {
		return domain.Deny(domain.ErrAlreadyRegistered, domain.ReasonGuestAlreadyRegistered)
	}
	return domain.Deny(domain.ErrAlreadyRegistered, domain.ReasonAlreadyRegistered)
}
