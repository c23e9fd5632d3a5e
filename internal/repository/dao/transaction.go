package dao

import (
	"context"

	"gorm.io/gorm"
)

// TableLock runs work in one database transaction after taking the row lock of
// a table. Every statement issued through the DAOs handed to fn is serialized
// against other holders of the same lock until the transaction ends.
type TableLock struct {
	db *gorm.DB
}

func NewTableLock(db *gorm.DB) *TableLock {
	return &TableLock{
		db: db,
	}
}

type LockedDAOs struct {
	Tables       *TableDAO
	Participants *ParticipantDAO
}

func (l *TableLock) Run(ctx context.Context, tableID uint, fn func(daos LockedDAOs) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tables := NewTableDAO(tx)
		if _, err := tables.LockByID(ctx, tableID); err != nil {
			return err
		}

		return fn(LockedDAOs{
			Tables:       tables,
			Participants: NewParticipantDAO(tx),
		})
	})
}
