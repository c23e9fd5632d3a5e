package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type ParticipantRepository interface {
	ParticipantReader
	FindByID(ctx context.Context, id uint) (domain.Participant, error)
	FindByIdentity(ctx context.Context, tableID uint, identity domain.Identity) (domain.Participant, error)
	FindByCancellationToken(ctx context.Context, token string) (domain.Participant, error)
	NextWaitingListPosition(ctx context.Context, tableID uint) (int, error)
	FirstWaitingListEntry(ctx context.Context, tableID uint, role domain.ParticipantRole) (domain.Participant, error)
	Save(ctx context.Context, participant domain.Participant) (domain.Participant, error)
}

type TableRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Table, error)
	Save(ctx context.Context, table domain.Table) (domain.Table, error)
}

// RegistrationTx exposes repositories bound to a transaction that holds the table lock.
type RegistrationTx struct {
	Participants ParticipantRepository
	Tables       TableRepository
}

// RegistrationStore provides the critical section registrations rely on. All
// counts, waiting list positions and writes made through the RegistrationTx
// passed to fn are serialized against every other call for the same table, and
// are committed only when fn returns nil. Without this guarantee concurrent
// registrations could book more than MaxPlayers seats.
type RegistrationStore interface {
	WithinTableLock(ctx context.Context, tableID uint, fn func(tx RegistrationTx) error) error
	Participants() ParticipantRepository
	Tables() TableRepository
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...domain.Event)
}

type RegistrationService struct {
	store       RegistrationStore
	eligibility *EligibilityService
	events      EventDispatcher
	now         func() time.Time
	newToken    func() string
}

func NewRegistrationService(store RegistrationStore, eligibility *EligibilityService, events EventDispatcher) *RegistrationService {
	return &RegistrationService{
		store:       store,
		eligibility: eligibility,
		events:      events,
		now:         time.Now,
		newToken:    uuid.NewString,
	}
}

// WithClock replaces the time source, mostly for tests.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// WithTokenGenerator replaces the guest cancellation token generator.
func (s *RegistrationService) WithTokenGenerator(gen func() string) *RegistrationService {
	s.newToken = gen
	return s
}

type RegisterInput struct {
	TableID  uint
	Identity domain.Identity
	// Guest carries the guest's name and phone; its email comes from Identity.
	Guest *domain.Guest
	Role  domain.ParticipantRole
	Notes string
}

// Register places identity on the table: confirmed, pending or on the waiting list.
// A previously cancelled or rejected record of the same identity is reused.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (domain.Participant, error) {
	if err := in.Identity.Validate(); err != nil {
		return domain.Participant{}, err
	}
	if in.Role == "" {
		in.Role = domain.RolePlayer
	}
	if !in.Role.IsSelfRegistrable() {
		return domain.Participant{}, domain.ErrInvalidRole
	}

	now := s.now()
	isMember, err := s.eligibility.IsMember(ctx, in.Identity, now)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.eligibility.IsMember -> %w", err)
	}

	var (
		registered domain.Participant
		events     []domain.Event
	)
	err = s.store.WithinTableLock(ctx, in.TableID, func(tx RegistrationTx) error {
		existing, err := tx.Participants.FindByIdentity(ctx, in.TableID, in.Identity)
		found := err == nil
		if err != nil && !errors.Is(err, domain.ErrParticipantNotFound) {
			return fmt.Errorf("tx.Participants.FindByIdentity -> %w", err)
		}
		if found && existing.IsActive() {
			return alreadyRegistered(in.Identity)
		}

		table, err := tx.Tables.FindByID(ctx, in.TableID)
		if err != nil {
			return fmt.Errorf("tx.Tables.FindByID -> %w", err)
		}

		err = s.eligibility.Using(tx.Participants).CheckEligibility(ctx, EligibilityCheck{
			Table:        table,
			Identity:     in.Identity,
			Role:         in.Role,
			IsMember:     isMember,
			Now:          now,
			SkipCapacity: true,
		})
		if err != nil {
			return err
		}

		participant, err := s.prepare(existing, found, in, now)
		if err != nil {
			return err
		}

		participant, filledLastSeat, err := s.place(ctx, tx, table, participant, now)
		if err != nil {
			return err
		}

		registered, err = tx.Participants.Save(ctx, participant)
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return alreadyRegistered(in.Identity)
		}
		if err != nil {
			return fmt.Errorf("tx.Participants.Save -> %w", err)
		}

		if filledLastSeat {
			if err := s.markFull(ctx, tx, table, now); err != nil {
				return err
			}
		}

		events = registrationEvents(registered, now)
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}

	zap.L().Info("participant registered",
		zap.Uint("table_id", registered.TableID),
		zap.Uint("participant_id", registered.ID),
		zap.String("status", string(registered.Status)),
		zap.Bool("guest", registered.IsGuest()),
	)
	s.events.Dispatch(ctx, events...)

	return registered, nil
}

// CheckEligibility answers whether identity could register on the table right
// now, without registering. Unlike Register it reports a full table.
func (s *RegistrationService) CheckEligibility(ctx context.Context, tableID uint, identity domain.Identity, role domain.ParticipantRole) (domain.EligibilityResult, error) {
	if err := identity.Validate(); err != nil {
		return domain.EligibilityResult{}, err
	}
	if role == "" {
		role = domain.RolePlayer
	}
	if !role.IsSelfRegistrable() {
		return domain.EligibilityResult{}, domain.ErrInvalidRole
	}

	table, err := s.store.Tables().FindByID(ctx, tableID)
	if err != nil {
		return domain.EligibilityResult{}, fmt.Errorf("s.store.Tables().FindByID -> %w", err)
	}

	now := s.now()
	isMember, err := s.eligibility.IsMember(ctx, identity, now)
	if err != nil {
		return domain.EligibilityResult{}, fmt.Errorf("s.eligibility.IsMember -> %w", err)
	}

	return s.eligibility.Evaluate(ctx, EligibilityCheck{
		Table:    table,
		Identity: identity,
		Role:     role,
		IsMember: isMember,
		Now:      now,
	})
}

func (s *RegistrationService) prepare(existing domain.Participant, found bool, in RegisterInput, now time.Time) (domain.Participant, error) {
	token := ""
	if in.Identity.IsGuest() {
		token = s.newToken()
	}

	if found {
		return existing.Reopen(in.Role, in.Notes, in.Guest, token, now)
	}

	participant, err := domain.NewParticipant(in.TableID, in.Identity, in.Guest, in.Role, in.Notes, now)
	if err != nil {
		return domain.Participant{}, err
	}
	if participant.Guest != nil {
		participant.Guest.CancellationToken = token
	}
	return participant, nil
}

// place decides between waiting list, immediate confirmation and pending. It
// reports whether the participant took the last player seat.
func (s *RegistrationService) place(ctx context.Context, tx RegistrationTx, table domain.Table, p domain.Participant, now time.Time) (domain.Participant, bool, error) {
	limit, gated := table.CapacityFor(p.Role)
	confirmed := 0
	if gated {
		var err error
		confirmed, err = tx.Participants.CountConfirmed(ctx, table.ID, p.Role)
		if err != nil {
			return p, false, fmt.Errorf("tx.Participants.CountConfirmed -> %w", err)
		}

		if confirmed >= limit {
			position, err := tx.Participants.NextWaitingListPosition(ctx, table.ID)
			if err != nil {
				return p, false, fmt.Errorf("tx.Participants.NextWaitingListPosition -> %w", err)
			}
			p, err = p.AddToWaitingList(position, now)
			return p, false, err
		}
	}

	if !table.AutoConfirm {
		return p, false, nil
	}

	p, err := p.Confirm(now)
	if err != nil {
		return p, false, err
	}
	return p, p.Role == domain.RolePlayer && confirmed+1 >= limit, nil
}

// Cancel cancels a participant by id and promotes the head of the waiting list
// when a confirmed player or spectator seat frees up.
func (s *RegistrationService) Cancel(ctx context.Context, participantID uint) (domain.Participant, error) {
	p, err := s.store.Participants().FindByID(ctx, participantID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.store.Participants().FindByID -> %w", err)
	}
	return s.cancel(ctx, p.TableID, func(tx RegistrationTx) (domain.Participant, error) {
		return tx.Participants.FindByID(ctx, participantID)
	})
}

// CancelByToken cancels a guest registration using its cancellation token.
func (s *RegistrationService) CancelByToken(ctx context.Context, token string) (domain.Participant, error) {
	if token == "" {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	p, err := s.store.Participants().FindByCancellationToken(ctx, token)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.store.Participants().FindByCancellationToken -> %w", err)
	}
	return s.cancel(ctx, p.TableID, func(tx RegistrationTx) (domain.Participant, error) {
		return tx.Participants.FindByCancellationToken(ctx, token)
	})
}

func (s *RegistrationService) cancel(ctx context.Context, tableID uint, load func(tx RegistrationTx) (domain.Participant, error)) (domain.Participant, error) {
	now := s.now()

	var (
		cancelled domain.Participant
		events    []domain.Event
	)
	err := s.store.WithinTableLock(ctx, tableID, func(tx RegistrationTx) error {
		p, err := load(tx)
		if err != nil {
			return fmt.Errorf("load participant -> %w", err)
		}

		wasConfirmed := p.Status == domain.ParticipantConfirmed
		p, err = p.Cancel(now)
		if err != nil {
			return err
		}
		cancelled, err = tx.Participants.Save(ctx, p)
		if err != nil {
			return fmt.Errorf("tx.Participants.Save -> %w", err)
		}
		events = append(events, domain.ParticipantCancelledEvent{
			ParticipantID: cancelled.ID,
			TableID:       cancelled.TableID,
			WasConfirmed:  wasConfirmed,
			At:            now,
		})

		if !wasConfirmed || !cancelled.Role.IsSelfRegistrable() {
			return nil
		}

		// A freed seat goes to the head of the same role's waiting list.
		_, promotedEvents, err := s.promoteNext(ctx, tx, tableID, cancelled.Role, now)
		if err != nil {
			return err
		}
		if len(promotedEvents) == 0 && cancelled.Role == domain.RolePlayer {
			if err := s.reopenSeats(ctx, tx, tableID, now); err != nil {
				return err
			}
		}
		events = append(events, promotedEvents...)
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}

	zap.L().Info("participant cancelled",
		zap.Uint("table_id", cancelled.TableID),
		zap.Uint("participant_id", cancelled.ID),
	)
	s.events.Dispatch(ctx, events...)

	return cancelled, nil
}

// PromoteFromWaitingList confirms the lowest waiting list position among the
// table's players. It returns false when the waiting list is empty.
func (s *RegistrationService) PromoteFromWaitingList(ctx context.Context, tableID uint) (domain.Participant, bool, error) {
	now := s.now()

	var (
		promoted domain.Participant
		events   []domain.Event
	)
	err := s.store.WithinTableLock(ctx, tableID, func(tx RegistrationTx) error {
		var err error
		promoted, events, err = s.promoteNext(ctx, tx, tableID, domain.RolePlayer, now)
		return err
	})
	if err != nil {
		return domain.Participant{}, false, err
	}
	if len(events) == 0 {
		return domain.Participant{}, false, nil
	}

	s.events.Dispatch(ctx, events...)
	return promoted, true, nil
}

func (s *RegistrationService) promoteNext(ctx context.Context, tx RegistrationTx, tableID uint, role domain.ParticipantRole, now time.Time) (domain.Participant, []domain.Event, error) {
	next, err := tx.Participants.FirstWaitingListEntry(ctx, tableID, role)
	if errors.Is(err, domain.ErrParticipantNotFound) {
		return domain.Participant{}, nil, nil
	}
	if err != nil {
		return domain.Participant{}, nil, fmt.Errorf("tx.Participants.FirstWaitingListEntry -> %w", err)
	}

	position := 0
	if next.WaitingListPosition != nil {
		position = *next.WaitingListPosition
	}
	next, err = next.PromoteFromWaitingList(now)
	if err != nil {
		return domain.Participant{}, nil, err
	}
	promoted, err := tx.Participants.Save(ctx, next)
	if err != nil {
		return domain.Participant{}, nil, fmt.Errorf("tx.Participants.Save -> %w", err)
	}

	zap.L().Info("participant promoted from waiting list",
		zap.Uint("table_id", tableID),
		zap.Uint("participant_id", promoted.ID),
		zap.Int("former_position", position),
	)

	return promoted, []domain.Event{
		domain.ParticipantPromotedFromWaitingList{
			ParticipantID:  promoted.ID,
			TableID:        tableID,
			FormerPosition: position,
			At:             now,
		},
		domain.ParticipantConfirmedEvent{ParticipantID: promoted.ID, TableID: tableID, At: now},
	}, nil
}

// GetParticipant returns a participant by id.
func (s *RegistrationService) GetParticipant(ctx context.Context, participantID uint) (domain.Participant, error) {
	p, err := s.store.Participants().FindByID(ctx, participantID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.store.Participants().FindByID -> %w", err)
	}
	return p, nil
}

// ConfirmParticipant is the moderator confirmation of a pending registration.
func (s *RegistrationService) ConfirmParticipant(ctx context.Context, participantID uint) (domain.Participant, error) {
	now := s.now()
	p, err := s.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.Participant{}, err
	}

	var confirmed domain.Participant
	err = s.store.WithinTableLock(ctx, p.TableID, func(tx RegistrationTx) error {
		p, err := tx.Participants.FindByID(ctx, participantID)
		if err != nil {
			return fmt.Errorf("tx.Participants.FindByID -> %w", err)
		}
		if p.Status != domain.ParticipantPending {
			return &domain.TransitionError{From: string(p.Status), To: string(domain.ParticipantConfirmed)}
		}

		table, err := tx.Tables.FindByID(ctx, p.TableID)
		if err != nil {
			return fmt.Errorf("tx.Tables.FindByID -> %w", err)
		}
		if err := s.eligibility.Using(tx.Participants).checkCapacity(ctx, table, p.Role); err != nil {
			return err
		}

		p, err = p.Confirm(now)
		if err != nil {
			return err
		}
		confirmed, err = tx.Participants.Save(ctx, p)
		if err != nil {
			return fmt.Errorf("tx.Participants.Save -> %w", err)
		}

		if confirmed.Role == domain.RolePlayer {
			count, err := tx.Participants.CountConfirmed(ctx, table.ID, domain.RolePlayer)
			if err != nil {
				return fmt.Errorf("tx.Participants.CountConfirmed -> %w", err)
			}
			if count >= table.MaxPlayers {
				return s.markFull(ctx, tx, table, now)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}

	s.events.Dispatch(ctx, domain.ParticipantConfirmedEvent{ParticipantID: confirmed.ID, TableID: confirmed.TableID, At: now})
	return confirmed, nil
}

// RejectParticipant refuses a pending registration.
func (s *RegistrationService) RejectParticipant(ctx context.Context, participantID uint) (domain.Participant, error) {
	return s.moderate(ctx, participantID, domain.Participant.Reject)
}

// MarkNoShow flags a confirmed participant who did not attend.
func (s *RegistrationService) MarkNoShow(ctx context.Context, participantID uint) (domain.Participant, error) {
	return s.moderate(ctx, participantID, domain.Participant.MarkAsNoShow)
}

func (s *RegistrationService) moderate(ctx context.Context, participantID uint, apply func(domain.Participant, time.Time) (domain.Participant, error)) (domain.Participant, error) {
	now := s.now()
	p, err := s.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.Participant{}, err
	}

	var updated domain.Participant
	err = s.store.WithinTableLock(ctx, p.TableID, func(tx RegistrationTx) error {
		p, err := tx.Participants.FindByID(ctx, participantID)
		if err != nil {
			return fmt.Errorf("tx.Participants.FindByID -> %w", err)
		}
		p, err = apply(p, now)
		if err != nil {
			return err
		}
		updated, err = tx.Participants.Save(ctx, p)
		if err != nil {
			return fmt.Errorf("tx.Participants.Save -> %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Participant{}, err
	}
	return updated, nil
}

func (s *RegistrationService) markFull(ctx context.Context, tx RegistrationTx, table domain.Table, now time.Time) error {
	if table.Status != domain.TableScheduled {
		return nil
	}
	full, err := table.TransitionTo(domain.TableFull, now)
	if err != nil {
		return err
	}
	if _, err := tx.Tables.Save(ctx, full); err != nil {
		return fmt.Errorf("tx.Tables.Save -> %w", err)
	}
	zap.L().Info("table is full", zap.Uint("table_id", table.ID))
	return nil
}

func (s *RegistrationService) reopenSeats(ctx context.Context, tx RegistrationTx, tableID uint, now time.Time) error {
	table, err := tx.Tables.FindByID(ctx, tableID)
	if err != nil {
		return fmt.Errorf("tx.Tables.FindByID -> %w", err)
	}
	if table.Status != domain.TableFull {
		return nil
	}
	scheduled, err := table.TransitionTo(domain.TableScheduled, now)
	if err != nil {
		return err
	}
	if _, err := tx.Tables.Save(ctx, scheduled); err != nil {
		return fmt.Errorf("tx.Tables.Save -> %w", err)
	}
	return nil
}

func registrationEvents(p domain.Participant, now time.Time) []domain.Event {
	var events []domain.Event
	if p.IsGuest() {
		events = append(events, domain.GuestRegistered{
			ParticipantID:     p.ID,
			TableID:           p.TableID,
			Email:             p.Guest.Email,
			FirstName:         p.Guest.FirstName,
			CancellationToken: p.Guest.CancellationToken,
			Role:              p.Role,
			Status:            p.Status,
			At:                now,
		})
	} else {
		events = append(events, domain.ParticipantRegistered{
			ParticipantID: p.ID,
			TableID:       p.TableID,
			UserID:        *p.UserID,
			Role:          p.Role,
			Status:        p.Status,
			At:            now,
		})
	}
	if p.Status == domain.ParticipantConfirmed {
		events = append(events, domain.ParticipantConfirmedEvent{ParticipantID: p.ID, TableID: p.TableID, At: now})
	}
	return events
}
