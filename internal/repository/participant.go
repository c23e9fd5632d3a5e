package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
)

type ParticipantDAO interface {
	Save(ctx context.Context, p dao.Participant) (dao.Participant, error)
	FindByID(ctx context.Context, id uint) (dao.Participant, error)
	FindByCancellationToken(ctx context.Context, token string) (dao.Participant, error)
	FindByUser(ctx context.Context, tableID, userID uint, statuses []string) (dao.Participant, error)
	FindByGuestEmail(ctx context.Context, tableID uint, email string, statuses []string) (dao.Participant, error)
	CountByRoleAndStatus(ctx context.Context, tableID uint, role, status string) (int64, error)
	FirstWaiting(ctx context.Context, tableID uint, role, status string) (dao.Participant, error)
}

type WaitingListCounter interface {
	NextWaitingListPosition(ctx context.Context, tableID uint) (int, error)
}

type ParticipantRepository struct {
	dao     ParticipantDAO
	counter WaitingListCounter
}

func NewParticipantRepository(dao ParticipantDAO, counter WaitingListCounter) *ParticipantRepository {
	return &ParticipantRepository{
		dao:     dao,
		counter: counter,
	}
}

func (r *ParticipantRepository) FindByID(ctx context.Context, id uint) (domain.Participant, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByID -> %w", domainErr(err))
	}

	return participantDaoToDomain(found), nil
}

func (r *ParticipantRepository) FindByCancellationToken(ctx context.Context, token string) (domain.Participant, error) {
	found, err := r.dao.FindByCancellationToken(ctx, token)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByCancellationToken -> %w", domainErr(err))
	}

	return participantDaoToDomain(found), nil
}

// FindByIdentity returns the identity's row on the table whatever its status.
func (r *ParticipantRepository) FindByIdentity(ctx context.Context, tableID uint, identity domain.Identity) (domain.Participant, error) {
	return r.findByIdentity(ctx, tableID, identity, nil)
}

func (r *ParticipantRepository) FindActiveByIdentity(ctx context.Context, tableID uint, identity domain.Identity) (domain.Participant, error) {
	var active []string
	for _, s := range domain.ParticipantStatuses() {
		if s.IsActive() {
			active = append(active, string(s))
		}
	}
	return r.findByIdentity(ctx, tableID, identity, active)
}

func (r *ParticipantRepository) findByIdentity(ctx context.Context, tableID uint, identity domain.Identity, statuses []string) (domain.Participant, error) {
	var (
		found dao.Participant
		err   error
	)
	if identity.IsGuest() {
		found, err = r.dao.FindByGuestEmail(ctx, tableID, domain.NormalizeEmail(identity.Email), statuses)
	} else {
		found, err = r.dao.FindByUser(ctx, tableID, *identity.UserID, statuses)
	}
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.findByIdentity -> %w", domainErr(err))
	}

	return participantDaoToDomain(found), nil
}

func (r *ParticipantRepository) CountConfirmed(ctx context.Context, tableID uint, role domain.ParticipantRole) (int, error) {
	count, err := r.dao.CountByRoleAndStatus(ctx, tableID, string(role), string(domain.ParticipantConfirmed))
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByRoleAndStatus -> %w", err)
	}

	return int(count), nil
}

func (r *ParticipantRepository) NextWaitingListPosition(ctx context.Context, tableID uint) (int, error) {
	position, err := r.counter.NextWaitingListPosition(ctx, tableID)
	if err != nil {
		return 0, fmt.Errorf("r.counter.NextWaitingListPosition -> %w", domainErr(err))
	}

	return position, nil
}

func (r *ParticipantRepository) FirstWaitingListEntry(ctx context.Context, tableID uint, role domain.ParticipantRole) (domain.Participant, error) {
	found, err := r.dao.FirstWaiting(ctx, tableID, string(role), string(domain.ParticipantWaitingList))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FirstWaiting -> %w", domainErr(err))
	}

	return participantDaoToDomain(found), nil
}

func (r *ParticipantRepository) Save(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	saved, err := r.dao.Save(ctx, participantDomainToDao(p))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.Save -> %w", domainErr(err))
	}

	return participantDaoToDomain(saved), nil
}

func participantDomainToDao(p domain.Participant) dao.Participant {
	out := dao.Participant{
		ID:                  p.ID,
		TableID:             p.TableID,
		UserID:              p.UserID,
		Role:                string(p.Role),
		Status:              string(p.Status),
		Notes:               p.Notes,
		WaitingListPosition: p.WaitingListPosition,
		ConfirmedAt:         p.ConfirmedAt,
		CancelledAt:         p.CancelledAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if g := p.Guest; g != nil {
		out.GuestFirstName = &g.FirstName
		out.GuestLastName = &g.LastName
		out.GuestEmail = &g.Email
		out.GuestPhone = &g.Phone
		out.GuestCancellationToken = &g.CancellationToken
	}
	return out
}

func participantDaoToDomain(p dao.Participant) domain.Participant {
	out := domain.Participant{
		ID:                  p.ID,
		TableID:             p.TableID,
		UserID:              p.UserID,
		Role:                domain.ParticipantRole(p.Role),
		Status:              domain.ParticipantStatus(p.Status),
		Notes:               p.Notes,
		WaitingListPosition: p.WaitingListPosition,
		ConfirmedAt:         p.ConfirmedAt,
		CancelledAt:         p.CancelledAt,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.GuestEmail != nil {
		out.Guest = &domain.Guest{
			FirstName:         deref(p.GuestFirstName),
			LastName:          deref(p.GuestLastName),
			Email:             *p.GuestEmail,
			Phone:             deref(p.GuestPhone),
			CancellationToken: deref(p.GuestCancellationToken),
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
