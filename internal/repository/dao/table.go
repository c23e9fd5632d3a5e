package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTableNotFound = errors.New("table not found")
)

type Table struct {
	ID           uint    `gorm:"primaryKey"`
	GameSystemID uint    `gorm:"not null"`
	CampaignID   *uint   `gorm:"index"`
	EventID      *string `gorm:"index"`
	Title        string  `gorm:"not null"`
	Synopsis     string

	StartsAt        time.Time `gorm:"not null;index"`
	DurationMinutes int       `gorm:"not null"`
	EndsAt          time.Time `gorm:"not null"`

	Type   string `gorm:"not null"`
	Format string `gorm:"not null"`
	Status string `gorm:"not null;index"`

	MinPlayers    int `gorm:"not null"`
	MaxPlayers    int `gorm:"not null"`
	MaxSpectators int `gorm:"not null;default:0"`

	RegistrationType               string `gorm:"not null"`
	MembersEarlyAccessDays         int    `gorm:"not null;default:0"`
	RegistrationOpensAt            *time.Time
	RegistrationClosesAt           *time.Time
	AutoConfirm                    bool `gorm:"not null;default:false"`
	AcceptsRegistrationsInProgress bool `gorm:"not null;default:false"`

	IsPublished bool `gorm:"not null;default:false"`
	PublishedAt *time.Time

	// WaitingListSeq only grows, so waiting list positions are never reused.
	WaitingListSeq int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type TableDAO struct {
	db *gorm.DB
}

func NewTableDAO(db *gorm.DB) *TableDAO {
	return &TableDAO{
		db: db,
	}
}

func (d *TableDAO) Insert(ctx context.Context, table Table) (Table, error) {
	result := d.db.WithContext(ctx).Create(&table)
	if result.Error != nil {
		return Table{}, result.Error
	}

	return table, nil
}

func (d *TableDAO) FindByID(ctx context.Context, id uint) (Table, error) {
	var table Table

	result := d.db.WithContext(ctx).First(&table, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Table{}, ErrTableNotFound
		}

		return Table{}, result.Error
	}

	return table, nil
}

// LockByID takes a row lock on the table. It must run inside a transaction.
func (d *TableDAO) LockByID(ctx context.Context, id uint) (Table, error) {
	var table Table

	result := d.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&table, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Table{}, ErrTableNotFound
		}

		return Table{}, result.Error
	}

	return table, nil
}

// Update writes every column except the waiting list counter, which is owned
// by NextWaitingListPosition.
func (d *TableDAO) Update(ctx context.Context, table Table) (Table, error) {
	result := d.db.WithContext(ctx).Model(&table).Select("*").Omit("waiting_list_seq", "created_at").Updates(&table)
	if result.Error != nil {
		return Table{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Table{}, ErrTableNotFound
	}

	return table, nil
}

func (d *TableDAO) NextWaitingListPosition(ctx context.Context, id uint) (int, error) {
	var table Table

	result := d.db.WithContext(ctx).Model(&table).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "waiting_list_seq"}}}).
		Where("id = ?", id).
		UpdateColumn("waiting_list_seq", gorm.Expr("waiting_list_seq + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrTableNotFound
	}

	return table.WaitingListSeq, nil
}

func (d *TableDAO) FindByStatuses(ctx context.Context, statuses []string, startsBefore time.Time) ([]Table, error) {
	var tables []Table

	result := d.db.WithContext(ctx).
		Where("status IN ? AND starts_at <= ?", statuses, startsBefore).
		Order("starts_at").
		Find(&tables)
	if result.Error != nil {
		return nil, result.Error
	}

	return tables, nil
}

func (d *TableDAO) CountByEventStartingBetween(ctx context.Context, eventID string, from, to time.Time, excludedStatuses []string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Table{}).
		Where("event_id = ? AND starts_at >= ? AND starts_at < ?", eventID, from, to).
		Where("status NOT IN ?", excludedStatuses).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
