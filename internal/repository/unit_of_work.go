package repository

import (
	"context"
	"errors"

	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
	"github.com/vietanh2810/gametables-api/internal/service"
)

type TableLocker interface {
	Run(ctx context.Context, tableID uint, fn func(daos dao.LockedDAOs) error) error
}

// RegistrationStore implements service.RegistrationStore on top of a
// Postgres row lock taken on the table.
type RegistrationStore struct {
	lock         TableLocker
	participants *ParticipantRepository
	tables       *TableRepository
}

func NewRegistrationStore(lock TableLocker, participants *ParticipantRepository, tables *TableRepository) *RegistrationStore {
	return &RegistrationStore{
		lock:         lock,
		participants: participants,
		tables:       tables,
	}
}

func (s *RegistrationStore) WithinTableLock(ctx context.Context, tableID uint, fn func(tx service.RegistrationTx) error) error {
	err := s.lock.Run(ctx, tableID, func(daos dao.LockedDAOs) error {
		return fn(service.RegistrationTx{
			Participants: NewParticipantRepository(daos.Participants, daos.Tables),
			Tables:       NewTableRepository(daos.Tables),
		})
	})
	if errors.Is(err, dao.ErrTableNotFound) {
		return domain.ErrTableNotFound
	}
	return err
}

func (s *RegistrationStore) Participants() service.ParticipantRepository {
	return s.participants
}

func (s *RegistrationStore) Tables() service.TableRepository {
	return s.tables
}

var _ service.RegistrationStore = (*RegistrationStore)(nil)
