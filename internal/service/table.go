package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

type TableStore interface {
	Create(ctx context.Context, table domain.Table) (domain.Table, error)
	ListByStatus(ctx context.Context, statuses []domain.TableStatus, startsBefore time.Time) ([]domain.Table, error)
}

// TableService drives a table through its lifecycle. Transitions run under the
// same table lock as registrations so Full/Scheduled syncing never races them.
type TableService struct {
	store         RegistrationStore
	tables        TableStore
	creation      *CreationService
	eventCreation *EventCreationService
	now           func() time.Time
}

func NewTableService(store RegistrationStore, tables TableStore, creation *CreationService, eventCreation *EventCreationService) *TableService {
	return &TableService{
		store:         store,
		tables:        tables,
		creation:      creation,
		eventCreation: eventCreation,
		now:           time.Now,
	}
}

func (s *TableService) WithClock(now func() time.Time) *TableService {
	s.now = now
	return s
}

// Create stores a draft table once the creator passes the creation policy of
// its event, or the global one, and the table fits the event's slots.
func (s *TableService) Create(ctx context.Context, settings domain.CreationSettings, creatorID *uint, draft domain.Table) (domain.Table, error) {
	var (
		eligibility domain.CreationEligibility
		err         error
	)
	if draft.EventID != nil {
		eligibility, err = s.eventCreation.CanCreateTableForEvent(ctx, settings, *draft.EventID, creatorID)
	} else {
		eligibility, err = s.creation.CanCreateTable(ctx, settings, creatorID)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("check creation eligibility -> %w", err)
	}
	if !eligibility.Eligible {
		return domain.Table{}, domain.Deny(domain.ErrNotEligibleToCreate, eligibility.Reason)
	}

	table, err := domain.NewTable(draft)
	if err != nil {
		return domain.Table{}, err
	}

	if table.EventID != nil {
		if err := s.eventCreation.CheckSlotPlacement(ctx, *table.EventID, table.Window); err != nil {
			return domain.Table{}, err
		}
	}

	now := s.now()
	table.CreatedAt = now
	table.UpdatedAt = now
	created, err := s.tables.Create(ctx, table)
	if err != nil {
		return domain.Table{}, fmt.Errorf("s.tables.Create -> %w", err)
	}

	zap.L().Info("table created", zap.Uint("table_id", created.ID), zap.Bool("event", created.EventID != nil))
	return created, nil
}

func (s *TableService) Publish(ctx context.Context, tableID uint) (domain.Table, error) {
	return s.apply(ctx, tableID, func(t domain.Table, now time.Time) (domain.Table, error) {
		return t.Publish(now)
	})
}

func (s *TableService) Transition(ctx context.Context, tableID uint, target domain.TableStatus) (domain.Table, error) {
	if !target.IsValid() {
		return domain.Table{}, &domain.TransitionError{To: string(target)}
	}
	return s.apply(ctx, tableID, func(t domain.Table, now time.Time) (domain.Table, error) {
		return t.TransitionTo(target, now)
	})
}

// StartDueTables moves scheduled and full tables whose window has started to
// in progress. A table whose window already ended, because a tick was missed,
// goes straight on to completed so it stops taking registrations.
func (s *TableService) StartDueTables(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.tables.ListByStatus(ctx, []domain.TableStatus{domain.TableScheduled, domain.TableFull}, now)
	if err != nil {
		return 0, fmt.Errorf("s.tables.ListByStatus -> %w", err)
	}
	return s.advance(ctx, due, func(t domain.Table) bool {
		return t.Window.HasStarted(now)
	}, func(t domain.Table, at time.Time) (domain.Table, error) {
		t, err := t.TransitionTo(domain.TableInProgress, at)
		if err != nil || !t.Window.HasEnded(at) {
			return t, err
		}
		return t.TransitionTo(domain.TableCompleted, at)
	})
}

// CompleteEndedTables moves in progress tables whose window has ended to completed.
func (s *TableService) CompleteEndedTables(ctx context.Context) (int, error) {
	now := s.now()
	running, err := s.tables.ListByStatus(ctx, []domain.TableStatus{domain.TableInProgress}, now)
	if err != nil {
		return 0, fmt.Errorf("s.tables.ListByStatus -> %w", err)
	}
	return s.advance(ctx, running, func(t domain.Table) bool {
		return t.Window.HasEnded(now)
	}, func(t domain.Table, at time.Time) (domain.Table, error) {
		return t.TransitionTo(domain.TableCompleted, at)
	})
}

func (s *TableService) advance(ctx context.Context, tables []domain.Table, due func(domain.Table) bool, change func(domain.Table, time.Time) (domain.Table, error)) (int, error) {
	moved := 0
	for _, t := range tables {
		if !due(t) {
			continue
		}
		if _, err := s.apply(ctx, t.ID, change); err != nil {
			return moved, fmt.Errorf("s.apply(%d) -> %w", t.ID, err)
		}
		moved++
	}
	return moved, nil
}

func (s *TableService) apply(ctx context.Context, tableID uint, change func(domain.Table, time.Time) (domain.Table, error)) (domain.Table, error) {
	now := s.now()
	var updated domain.Table
	err := s.store.WithinTableLock(ctx, tableID, func(tx RegistrationTx) error {
		table, err := tx.Tables.FindByID(ctx, tableID)
		if err != nil {
			return fmt.Errorf("tx.Tables.FindByID -> %w", err)
		}
		from := table.Status
		table, err = change(table, now)
		if err != nil {
			return err
		}
		updated, err = tx.Tables.Save(ctx, table)
		if err != nil {
			return fmt.Errorf("tx.Tables.Save -> %w", err)
		}
		zap.L().Info("table transitioned",
			zap.Uint("table_id", tableID),
			zap.String("from", string(from)),
			zap.String("to", string(updated.Status)),
		)
		return nil
	})
	if err != nil {
		return domain.Table{}, err
	}
	return updated, nil
}
