package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

var now = time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

type registrationFixture struct {
	store  *memStore
	events *recorder
	svc    *RegistrationService
}

func newRegistrationFixture(members ...domain.Member) *registrationFixture {
	store := newMemStore()
	events := &recorder{}
	eligibility := NewEligibilityService(store.Participants(),
		WithMembershipProvider(memMembers(members)),
		WithTranslator(prefixTranslator{}),
	)
	tokens := 0
	svc := NewRegistrationService(store, eligibility, events).
		WithClock(fixedClock(now)).
		WithTokenGenerator(func() string {
			tokens++
			return fmt.Sprintf("tok-%d", tokens)
		})
	return &registrationFixture{store: store, events: events, svc: svc}
}

// scheduled adds a published table starting in a week, with two player seats
// and auto confirmation, then applies edit.
func (f *registrationFixture) scheduled(edit func(*domain.Table)) domain.Table {
	w, _ := domain.NewTimeWindow(now.AddDate(0, 0, 7), 240)
	table := domain.Table{
		Title:            "Blades in the Dark",
		Window:           w,
		Status:           domain.TableScheduled,
		MaxPlayers:       2,
		MaxSpectators:    1,
		RegistrationType: domain.RegistrationEveryone,
		AutoConfirm:      true,
		IsPublished:      true,
	}
	if edit != nil {
		edit(&table)
	}
	return f.store.addTable(table)
}

func (f *registrationFixture) register(t *testing.T, tableID, userID uint) domain.Participant {
	t.Helper()
	p, err := f.svc.Register(context.Background(), RegisterInput{
		TableID:  tableID,
		Identity: domain.UserIdentity(userID),
	})
	require.NoError(t, err)
	return p
}

func (f *registrationFixture) registerGuest(tableID uint, email string) (domain.Participant, error) {
	return f.svc.Register(context.Background(), RegisterInput{
		TableID:  tableID,
		Identity: domain.GuestIdentity(email),
		Guest:    &domain.Guest{FirstName: "Lea", LastName: "Martin"},
	})
}

func assertDenied(t *testing.T, err error, class error, reason domain.Reason) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, class)
	assert.Equal(t, reason, domain.ReasonOf(err))
}

func TestRegisterFillsTableThenWaitlists(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	first := f.register(t, table.ID, 1)
	assert.Equal(t, domain.ParticipantConfirmed, first.Status)
	assert.Equal(t, domain.TableScheduled, f.store.table(table.ID).Status)

	second := f.register(t, table.ID, 2)
	assert.Equal(t, domain.ParticipantConfirmed, second.Status)
	assert.Equal(t, domain.TableFull, f.store.table(table.ID).Status)

	third := f.register(t, table.ID, 3)
	assert.Equal(t, domain.ParticipantWaitingList, third.Status)
	require.NotNil(t, third.WaitingListPosition)
	assert.Equal(t, 1, *third.WaitingListPosition)

	fourth := f.register(t, table.ID, 4)
	assert.Equal(t, 2, *fourth.WaitingListPosition)

	assert.Equal(t, []string{
		domain.EventParticipantRegistered, domain.EventParticipantConfirmed,
		domain.EventParticipantRegistered, domain.EventParticipantConfirmed,
		domain.EventParticipantRegistered,
		domain.EventParticipantRegistered,
	}, f.events.names())
}

func TestRegisterWithoutAutoConfirmStaysPending(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.AutoConfirm = false })

	p := f.register(t, table.ID, 1)
	assert.Equal(t, domain.ParticipantPending, p.Status)
	assert.Nil(t, p.ConfirmedAt)
	assert.Equal(t, domain.TableScheduled, f.store.table(table.ID).Status)
}

func TestRegisterSpectatorDoesNotFillTable(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.MaxPlayers = 1 })

	p, err := f.svc.Register(context.Background(), RegisterInput{
		TableID:  table.ID,
		Identity: domain.UserIdentity(9),
		Role:     domain.RoleSpectator,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantConfirmed, p.Status)
	assert.Equal(t, domain.TableScheduled, f.store.table(table.ID).Status)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	f.register(t, table.ID, 1)
	_, err := f.svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(1)})
	assertDenied(t, err, domain.ErrAlreadyRegistered, domain.ReasonAlreadyRegistered)

	_, err = f.registerGuest(table.ID, "lea@example.com")
	require.NoError(t, err)
	_, err = f.registerGuest(table.ID, "  LEA@example.com ")
	assertDenied(t, err, domain.ErrAlreadyRegistered, domain.ReasonGuestAlreadyRegistered)
}

func TestRegisterReusesCancelledRecord(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	first := f.register(t, table.ID, 1)
	_, err := f.svc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)

	again := f.register(t, table.ID, 1)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, domain.ParticipantConfirmed, again.Status)
	assert.Nil(t, again.CancelledAt)
}

func TestRegisterGuest(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	p, err := f.registerGuest(table.ID, " Lea@Example.com")
	require.NoError(t, err)
	require.NotNil(t, p.Guest)
	assert.Nil(t, p.UserID)
	assert.Equal(t, "lea@example.com", p.Guest.Email)
	assert.Equal(t, "tok-1", p.Guest.CancellationToken)
	assert.Equal(t, []string{domain.EventGuestRegistered, domain.EventParticipantConfirmed}, f.events.names())

	members := f.scheduled(func(t *domain.Table) { t.RegistrationType = domain.RegistrationMembersOnly })
	_, err = f.registerGuest(members.ID, "other@example.com")
	assertDenied(t, err, domain.ErrGuestsNotAllowed, domain.ReasonGuestsNotAllowed)

	invite := f.scheduled(func(t *domain.Table) { t.RegistrationType = domain.RegistrationInvite })
	_, err = f.registerGuest(invite.ID, "other@example.com")
	assertDenied(t, err, domain.ErrGuestsNotAllowed, domain.ReasonGuestsNotAllowed)
}

func TestRegisterGuestNeedsFirstName(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		TableID:  table.ID,
		Identity: domain.GuestIdentity("lea@example.com"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidGuest)
	assert.Empty(t, f.store.byStatus(table.ID, domain.ParticipantPending))
}

func TestRegisterInvalidInput(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{TableID: table.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)

	_, err = f.svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(1), Role: "bard"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = f.svc.Register(context.Background(), RegisterInput{TableID: 404, Identity: domain.UserIdentity(1)})
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestRegisterRefusesGameMasterRoles(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)
	f.register(t, table.ID, 1)
	f.register(t, table.ID, 2)

	for i, role := range []domain.ParticipantRole{domain.RoleGameMaster, domain.RoleCoGM} {
		_, err := f.svc.Register(context.Background(), RegisterInput{
			TableID:  table.ID,
			Identity: domain.UserIdentity(uint(10 + i)),
			Role:     role,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidRole, role)

		_, err = f.svc.CheckEligibility(context.Background(), table.ID, domain.UserIdentity(uint(10+i)), role)
		assert.ErrorIs(t, err, domain.ErrInvalidRole, role)
	}
	assert.Len(t, f.store.byStatus(table.ID, domain.ParticipantConfirmed), 2)
}

func TestRegisterLifecycleGate(t *testing.T) {
	tests := []struct {
		name   string
		status domain.TableStatus
		inProg bool
		ok     bool
	}{
		{"draft", domain.TableDraft, false, false},
		{"scheduled", domain.TableScheduled, false, true},
		{"full", domain.TableFull, false, true},
		{"in progress", domain.TableInProgress, false, false},
		{"in progress accepting", domain.TableInProgress, true, true},
		{"completed", domain.TableCompleted, true, false},
		{"cancelled", domain.TableCancelled, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistrationFixture()
			table := f.scheduled(func(tbl *domain.Table) {
				tbl.Status = tt.status
				tbl.AcceptsRegistrationsInProgress = tt.inProg
			})
			_, err := f.svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(1)})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assertDenied(t, err, domain.ErrRegistrationClosed, domain.ReasonRegistrationClosed)
		})
	}
}

func TestRegisterTimingAndMembership(t *testing.T) {
	active := domain.Member{UserID: 1, StartedAt: now.AddDate(-1, 0, 0)}
	opensIn2Days := now.AddDate(0, 0, 2)
	closedNow := now
	// now is one second before opening, exactly at opening, exactly three
	// days before opening, and three days plus one second before opening.
	opensInASecond := now.Add(time.Second)
	opensNow := now
	opensIn3Days := now.AddDate(0, 0, 3)
	opensIn3DaysAndASecond := now.AddDate(0, 0, 3).Add(time.Second)

	tests := []struct {
		name   string
		edit   func(*domain.Table)
		userID uint
		class  error
		reason domain.Reason
	}{
		{
			name:   "closes exactly now",
			edit:   func(t *domain.Table) { t.RegistrationClosesAt = &closedNow },
			userID: 1,
			class:  domain.ErrRegistrationClosed,
			reason: domain.ReasonRegistrationClosed,
		},
		{
			name:   "not open for non members",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensIn2Days; t.MembersEarlyAccessDays = 3 },
			userID: 2,
			class:  domain.ErrRegistrationClosed,
			reason: domain.ReasonRegistrationNotOpen,
		},
		{
			name:   "member early access open",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensIn2Days; t.MembersEarlyAccessDays = 3 },
			userID: 1,
		},
		{
			name:   "member early access too short",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensIn2Days; t.MembersEarlyAccessDays = 1 },
			userID: 1,
			class:  domain.ErrRegistrationClosed,
			reason: domain.ReasonRegistrationNotOpen,
		},
		{
			name:   "non member one second before opening",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensInASecond },
			userID: 2,
			class:  domain.ErrRegistrationClosed,
			reason: domain.ReasonRegistrationNotOpen,
		},
		{
			name:   "non member exactly at opening",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensNow },
			userID: 2,
		},
		{
			name:   "member exactly at early access opening",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensIn3Days; t.MembersEarlyAccessDays = 3 },
			userID: 1,
		},
		{
			name:   "member one second before early access opening",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensIn3DaysAndASecond; t.MembersEarlyAccessDays = 3 },
			userID: 1,
			class:  domain.ErrRegistrationClosed,
			reason: domain.ReasonRegistrationNotOpen,
		},
		{
			name:   "non member at early access opening",
			edit:   func(t *domain.Table) { t.RegistrationOpensAt = &opensIn3Days; t.MembersEarlyAccessDays = 3 },
			userID: 2,
			class:  domain.ErrRegistrationClosed,
			reason: domain.ReasonRegistrationNotOpen,
		},
		{
			name:   "members only refuses non members",
			edit:   func(t *domain.Table) { t.RegistrationType = domain.RegistrationMembersOnly },
			userID: 2,
			class:  domain.ErrMembersOnly,
			reason: domain.ReasonMembersOnly,
		},
		{
			name:   "members only accepts members",
			edit:   func(t *domain.Table) { t.RegistrationType = domain.RegistrationMembersOnly },
			userID: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistrationFixture(active)
			table := f.scheduled(tt.edit)
			_, err := f.svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(tt.userID)})
			if tt.class == nil {
				assert.NoError(t, err)
				return
			}
			assertDenied(t, err, tt.class, tt.reason)
		})
	}
}

func TestCheckEligibilityReportsCapacity(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	result, err := f.svc.CheckEligibility(context.Background(), table.ID, domain.UserIdentity(1), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Eligible(), result)

	f.register(t, table.ID, 1)
	f.register(t, table.ID, 2)

	result, err = f.svc.CheckEligibility(context.Background(), table.ID, domain.UserIdentity(3), domain.RolePlayer)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Equal(t, domain.ReasonTableFull, result.Reason)
	assert.Equal(t, "msg:table_full", result.Message)

	result, err = f.svc.CheckEligibility(context.Background(), table.ID, domain.UserIdentity(1), domain.RolePlayer)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonAlreadyRegistered, result.Reason)

	_, err = f.svc.CheckEligibility(context.Background(), 404, domain.UserIdentity(3), domain.RolePlayer)
	assert.ErrorIs(t, err, domain.ErrTableNotFound)
}

func TestCheckEligibilitySpectatorsFull(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	_, err := f.svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(5), Role: domain.RoleSpectator})
	require.NoError(t, err)

	result, err := f.svc.CheckEligibility(context.Background(), table.ID, domain.GuestIdentity("x@y.z"), domain.RoleSpectator)
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonSpectatorsFull, result.Reason)
}

func TestCancelSpectatorPromotesWaitingSpectator(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.MaxPlayers = 1 })
	spectate := func(userID uint) domain.Participant {
		p, err := f.svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(userID), Role: domain.RoleSpectator})
		require.NoError(t, err)
		return p
	}

	f.register(t, table.ID, 1)
	waitingPlayer := f.register(t, table.ID, 2)
	seated := spectate(3)
	waiting := spectate(4)
	require.Equal(t, domain.ParticipantWaitingList, waiting.Status)

	_, err := f.svc.Cancel(context.Background(), seated.ID)
	require.NoError(t, err)

	promoted := f.store.participant(waiting.ID)
	assert.Equal(t, domain.ParticipantConfirmed, promoted.Status)
	assert.Nil(t, promoted.WaitingListPosition)
	assert.Equal(t, domain.ParticipantWaitingList, f.store.participant(waitingPlayer.ID).Status)
	assert.Equal(t, domain.TableFull, f.store.table(table.ID).Status)
}

func TestCancelPromotesWaitingListInOrder(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.MaxPlayers = 1 })

	a := f.register(t, table.ID, 1)
	b := f.register(t, table.ID, 2)
	c := f.register(t, table.ID, 3)
	require.Equal(t, domain.TableFull, f.store.table(table.ID).Status)
	f.events.reset()

	cancelled, err := f.svc.Cancel(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantCancelled, cancelled.Status)
	assert.Equal(t, domain.ParticipantConfirmed, f.store.participant(b.ID).Status)
	assert.Nil(t, f.store.participant(b.ID).WaitingListPosition)
	assert.Equal(t, domain.ParticipantWaitingList, f.store.participant(c.ID).Status)
	assert.Equal(t, domain.TableFull, f.store.table(table.ID).Status)
	assert.Equal(t, []string{
		domain.EventParticipantCancelled,
		domain.EventParticipantPromoted,
		domain.EventParticipantConfirmed,
	}, f.events.names())

	_, err = f.svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantConfirmed, f.store.participant(c.ID).Status)

	_, err = f.svc.Cancel(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableScheduled, f.store.table(table.ID).Status)
}

func TestCancelWaitingEntryDoesNotPromote(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.MaxPlayers = 1 })

	f.register(t, table.ID, 1)
	b := f.register(t, table.ID, 2)
	c := f.register(t, table.ID, 3)

	_, err := f.svc.Cancel(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantWaitingList, f.store.participant(c.ID).Status)
	assert.Equal(t, 2, *f.store.participant(c.ID).WaitingListPosition)
	assert.Equal(t, domain.TableFull, f.store.table(table.ID).Status)

	_, err = f.svc.Cancel(context.Background(), b.ID)
	assert.ErrorIs(t, err, domain.ErrCannotCancel)
}

func TestCancelByToken(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)

	guest, err := f.registerGuest(table.ID, "lea@example.com")
	require.NoError(t, err)

	_, err = f.svc.CancelByToken(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
	_, err = f.svc.CancelByToken(context.Background(), "tok-404")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)

	cancelled, err := f.svc.CancelByToken(context.Background(), guest.Guest.CancellationToken)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, cancelled.ID)
	assert.Equal(t, domain.ParticipantCancelled, cancelled.Status)

	again, err := f.registerGuest(table.ID, "lea@example.com")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, again.ID)
	assert.Equal(t, "tok-2", again.Guest.CancellationToken)

	_, err = f.svc.CancelByToken(context.Background(), "tok-1")
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestPromoteFromWaitingList(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.MaxPlayers = 1 })

	_, ok, err := f.svc.PromoteFromWaitingList(context.Background(), table.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	f.register(t, table.ID, 1)
	waiting := f.register(t, table.ID, 2)

	promoted, ok, err := f.svc.PromoteFromWaitingList(context.Background(), table.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, waiting.ID, promoted.ID)
	assert.Equal(t, domain.ParticipantConfirmed, promoted.Status)
}

func TestModeration(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.AutoConfirm = false; t.MaxPlayers = 1 })

	a := f.register(t, table.ID, 1)
	b := f.register(t, table.ID, 2)
	c := f.register(t, table.ID, 3)

	confirmed, err := f.svc.ConfirmParticipant(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantConfirmed, confirmed.Status)
	assert.Equal(t, domain.TableFull, f.store.table(table.ID).Status)

	_, err = f.svc.ConfirmParticipant(context.Background(), a.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.ConfirmParticipant(context.Background(), b.ID)
	assertDenied(t, err, domain.ErrTableFull, domain.ReasonTableFull)
	assert.Equal(t, domain.ParticipantPending, f.store.participant(b.ID).Status)

	rejected, err := f.svc.RejectParticipant(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantRejected, rejected.Status)

	_, err = f.svc.MarkNoShow(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	noShow, err := f.svc.MarkNoShow(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantNoShow, noShow.Status)

	_, err = f.svc.RejectParticipant(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrParticipantNotFound)
}

func TestConcurrentRegistrationsNeverOverbook(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(func(t *domain.Table) { t.MaxPlayers = 3 })

	const users = 20
	var (
		wg   sync.WaitGroup
		errs = make(chan error, users)
	)
	for i := 1; i <= users; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := f.svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(userID)})
			errs <- err
		}(uint(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, f.store.byStatus(table.ID, domain.ParticipantConfirmed), 3)
	waiting := f.store.byStatus(table.ID, domain.ParticipantWaitingList)
	require.Len(t, waiting, users-3)

	positions := make(map[int]bool)
	for _, p := range waiting {
		positions[*p.WaitingListPosition] = true
	}
	for i := 1; i <= users-3; i++ {
		assert.True(t, positions[i], "position %d missing", i)
	}
	assert.Equal(t, domain.TableFull, f.store.table(table.ID).Status)
}

func TestRegisterRollsBackOnSaveFailure(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)
	boom := errors.New("boom")

	err := f.store.WithinTableLock(context.Background(), table.ID, func(tx RegistrationTx) error {
		_, err := tx.Participants.NextWaitingListPosition(context.Background(), table.ID)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	f.register(t, table.ID, 1)
	f.register(t, table.ID, 2)
	third := f.register(t, table.ID, 3)
	assert.Equal(t, 1, *third.WaitingListPosition)
}

// blindStore hides existing rows from the duplicate lookups, as a concurrent
// insert committed after the check would.
type blindStore struct {
	*memStore
}

type blindParticipants struct {
	ParticipantRepository
}

func (blindParticipants) FindByIdentity(context.Context, uint, domain.Identity) (domain.Participant, error) {
	return domain.Participant{}, domain.ErrParticipantNotFound
}

func (blindParticipants) FindActiveByIdentity(context.Context, uint, domain.Identity) (domain.Participant, error) {
	return domain.Participant{}, domain.ErrParticipantNotFound
}

func (s blindStore) WithinTableLock(ctx context.Context, tableID uint, fn func(tx RegistrationTx) error) error {
	return s.memStore.WithinTableLock(ctx, tableID, func(tx RegistrationTx) error {
		tx.Participants = blindParticipants{tx.Participants}
		return fn(tx)
	})
}

func TestRegisterMapsUniqueViolationToDenial(t *testing.T) {
	f := newRegistrationFixture()
	table := f.scheduled(nil)
	f.register(t, table.ID, 1)

	svc := NewRegistrationService(blindStore{f.store}, NewEligibilityService(f.store.Participants()), f.events).
		WithClock(fixedClock(now))
	_, err := svc.Register(context.Background(), RegisterInput{TableID: table.ID, Identity: domain.UserIdentity(1)})
	assertDenied(t, err, domain.ErrAlreadyRegistered, domain.ReasonAlreadyRegistered)
	assert.Len(t, f.store.byStatus(table.ID, domain.ParticipantConfirmed), 1)
}
