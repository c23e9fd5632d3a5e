package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
)

type TableDAO interface {
	Insert(ctx context.Context, table dao.Table) (dao.Table, error)
	FindByID(ctx context.Context, id uint) (dao.Table, error)
	Update(ctx context.Context, table dao.Table) (dao.Table, error)
	FindByStatuses(ctx context.Context, statuses []string, startsBefore time.Time) ([]dao.Table, error)
	CountByEventStartingBetween(ctx context.Context, eventID string, from, to time.Time, excludedStatuses []string) (int64, error)
}

type TableRepository struct {
	dao TableDAO
}

func NewTableRepository(dao TableDAO) *TableRepository {
	return &TableRepository{
		dao: dao,
	}
}

func (r *TableRepository) Create(ctx context.Context, table domain.Table) (domain.Table, error) {
	created, err := r.dao.Insert(ctx, tableDomainToDao(table))
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.Insert -> %w", domainErr(err))
	}

	return tableDaoToDomain(created)
}

func (r *TableRepository) FindByID(ctx context.Context, id uint) (domain.Table, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.FindByID -> %w", domainErr(err))
	}

	return tableDaoToDomain(found)
}

func (r *TableRepository) Save(ctx context.Context, table domain.Table) (domain.Table, error) {
	updated, err := r.dao.Update(ctx, tableDomainToDao(table))
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.Update -> %w", domainErr(err))
	}

	return tableDaoToDomain(updated)
}

func (r *TableRepository) ListByStatus(ctx context.Context, statuses []domain.TableStatus, startsBefore time.Time) ([]domain.Table, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	found, err := r.dao.FindByStatuses(ctx, names, startsBefore)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatuses -> %w", err)
	}

	tables := make([]domain.Table, 0, len(found))
	for _, t := range found {
		table, err := tableDaoToDomain(t)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// CountEventTablesStartingBetween counts the event's tables starting in [from, to),
// ignoring cancelled ones.
func (r *TableRepository) CountEventTablesStartingBetween(ctx context.Context, eventID string, from, to time.Time) (int, error) {
	count, err := r.dao.CountByEventStartingBetween(ctx, eventID, from, to, []string{string(domain.TableCancelled)})
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByEventStartingBetween -> %w", err)
	}

	return int(count), nil
}

func tableDomainToDao(t domain.Table) dao.Table {
	return dao.Table{
		ID:                             t.ID,
		GameSystemID:                   t.GameSystemID,
		CampaignID:                     t.CampaignID,
		EventID:                        t.EventID,
		Title:                          t.Title,
		Synopsis:                       t.Synopsis,
		StartsAt:                       t.Window.StartsAt(),
		DurationMinutes:                t.Window.DurationMinutes(),
		EndsAt:                         t.Window.EndsAt(),
		Type:                           string(t.Type),
		Format:                         string(t.Format),
		Status:                         string(t.Status),
		MinPlayers:                     t.MinPlayers,
		MaxPlayers:                     t.MaxPlayers,
		MaxSpectators:                  t.MaxSpectators,
		RegistrationType:               string(t.RegistrationType),
		MembersEarlyAccessDays:         t.MembersEarlyAccessDays,
		RegistrationOpensAt:            t.RegistrationOpensAt,
		RegistrationClosesAt:           t.RegistrationClosesAt,
		AutoConfirm:                    t.AutoConfirm,
		AcceptsRegistrationsInProgress: t.AcceptsRegistrationsInProgress,
		IsPublished:                    t.IsPublished,
		PublishedAt:                    t.PublishedAt,
		CreatedAt:                      t.CreatedAt,
		UpdatedAt:                      t.UpdatedAt,
	}
}

func tableDaoToDomain(t dao.Table) (domain.Table, error) {
	window, err := domain.NewTimeWindow(t.StartsAt, t.DurationMinutes)
	if err != nil {
		return domain.Table{}, fmt.Errorf("table %d window -> %w", t.ID, err)
	}

	return domain.Table{
		ID:                             t.ID,
		GameSystemID:                   t.GameSystemID,
		CampaignID:                     t.CampaignID,
		EventID:                        t.EventID,
		Title:                          t.Title,
		Synopsis:                       t.Synopsis,
		Window:                         window,
		Type:                           domain.TableType(t.Type),
		Format:                         domain.TableFormat(t.Format),
		Status:                         domain.TableStatus(t.Status),
		MinPlayers:                     t.MinPlayers,
		MaxPlayers:                     t.MaxPlayers,
		MaxSpectators:                  t.MaxSpectators,
		RegistrationType:               domain.RegistrationType(t.RegistrationType),
		MembersEarlyAccessDays:         t.MembersEarlyAccessDays,
		RegistrationOpensAt:            t.RegistrationOpensAt,
		RegistrationClosesAt:           t.RegistrationClosesAt,
		AutoConfirm:                    t.AutoConfirm,
		AcceptsRegistrationsInProgress: t.AcceptsRegistrationsInProgress,
		IsPublished:                    t.IsPublished,
		PublishedAt:                    t.PublishedAt,
		CreatedAt:                      t.CreatedAt,
		UpdatedAt:                      t.UpdatedAt,
	}, nil
}
