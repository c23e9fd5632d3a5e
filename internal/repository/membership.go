package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
)

type MembershipDAO interface {
	Insert(ctx context.Context, m dao.Membership) (dao.Membership, error)
	FindActive(ctx context.Context, at time.Time) ([]dao.Membership, error)
}

// MembershipRepository backs the optional membership collaborator of the
// eligibility engine.
type MembershipRepository struct {
	dao MembershipDAO
	now func() time.Time
}

func NewMembershipRepository(dao MembershipDAO) *MembershipRepository {
	return &MembershipRepository{
		dao: dao,
		now: time.Now,
	}
}

func (r *MembershipRepository) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	created, err := r.dao.Insert(ctx, dao.Membership{
		UserID:    m.UserID,
		StartedAt: m.StartedAt,
		ExpiresAt: m.ExpiresAt,
	})
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return domain.Member{UserID: created.UserID, StartedAt: created.StartedAt, ExpiresAt: created.ExpiresAt}, nil
}

func (r *MembershipRepository) GetActiveMembers(ctx context.Context) ([]domain.Member, error) {
	found, err := r.dao.FindActive(ctx, r.now())
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	members := make([]domain.Member, 0, len(found))
	for _, m := range found {
		members = append(members, domain.Member{UserID: m.UserID, StartedAt: m.StartedAt, ExpiresAt: m.ExpiresAt})
	}
	return members, nil
}
