package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrParticipantDuplicate = errors.New("participant already registered")
)

// Participant holds one row per identity and table. A registered user has
// UserID set, a guest has GuestEmail set.
type Participant struct {
	ID      uint  `gorm:"primaryKey"`
	TableID uint  `gorm:"not null;uniqueIndex:idx_participants_table_user;uniqueIndex:idx_participants_table_guest;index:idx_participants_table_status"`
	Table   Table `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE"`
	UserID  *uint `gorm:"uniqueIndex:idx_participants_table_user"`

	GuestFirstName         *string
	GuestLastName          *string
	GuestEmail             *string `gorm:"uniqueIndex:idx_participants_table_guest"`
	GuestPhone             *string
	GuestCancellationToken *string `gorm:"uniqueIndex"`

	Role                string `gorm:"not null"`
	Status              string `gorm:"not null;index:idx_participants_table_status"`
	Notes               string
	WaitingListPosition *int

	ConfirmedAt *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) Save(ctx context.Context, p Participant) (Participant, error) {
	var result *gorm.DB
	if p.ID == 0 {
		result = d.db.WithContext(ctx).Omit("Table").Create(&p)
	} else {
		result = d.db.WithContext(ctx).Omit("Table").Save(&p)
	}
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Participant{}, ErrParticipantDuplicate
		}

		return Participant{}, result.Error
	}

	return p, nil
}

func (d *ParticipantDAO) FindByID(ctx context.Context, id uint) (Participant, error) {
	return d.first(d.db.WithContext(ctx).Where("id = ?", id))
}

func (d *ParticipantDAO) FindByCancellationToken(ctx context.Context, token string) (Participant, error) {
	return d.first(d.db.WithContext(ctx).Where("guest_cancellation_token = ?", token))
}

func (d *ParticipantDAO) FindByUser(ctx context.Context, tableID, userID uint, statuses []string) (Participant, error) {
	query := d.db.WithContext(ctx).Where("table_id = ? AND user_id = ?", tableID, userID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	return d.first(query)
}

func (d *ParticipantDAO) FindByGuestEmail(ctx context.Context, tableID uint, email string, statuses []string) (Participant, error) {
	query := d.db.WithContext(ctx).Where("table_id = ? AND guest_email = ?", tableID, email)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	return d.first(query)
}

func (d *ParticipantDAO) CountByRoleAndStatus(ctx context.Context, tableID uint, role, status string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Participant{}).
		Where("table_id = ? AND role = ? AND status = ?", tableID, role, status).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *ParticipantDAO) FirstWaiting(ctx context.Context, tableID uint, role, status string) (Participant, error) {
	return d.first(d.db.WithContext(ctx).
		Where("table_id = ? AND role = ? AND status = ?", tableID, role, status).
		Order("waiting_list_position ASC"))
}

func (d *ParticipantDAO) first(query *gorm.DB) (Participant, error) {
	var p Participant

	result := query.First(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return p, nil
}
