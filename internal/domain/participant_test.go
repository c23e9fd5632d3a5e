package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityValidate(t *testing.T) {
	assert.NoError(t, UserIdentity(3).Validate())
	assert.NoError(t, GuestIdentity("a@b.c").Validate())
	assert.ErrorIs(t, Identity{}.Validate(), ErrInvalidIdentity)

	id := uint(3)
	assert.ErrorIs(t, Identity{UserID: &id, Email: "a@b.c"}.Validate(), ErrInvalidIdentity)

	assert.Equal(t, "alice@example.com", GuestIdentity("  Alice@Example.COM ").Email)
}

func TestNewParticipant(t *testing.T) {
	_, err := NewParticipant(1, UserIdentity(7), nil, ParticipantRole("bard"), "", base)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = NewParticipant(1, GuestIdentity("g@x.io"), nil, RolePlayer, "", base)
	assert.ErrorIs(t, err, ErrInvalidGuest)

	_, err = NewParticipant(1, GuestIdentity("g@x.io"), &Guest{FirstName: "  "}, RolePlayer, "", base)
	assert.ErrorIs(t, err, ErrInvalidGuest)

	user, err := NewParticipant(1, UserIdentity(7), nil, RolePlayer, "  vegetarian ", base)
	require.NoError(t, err)
	assert.Equal(t, ParticipantPending, user.Status)
	assert.Equal(t, "vegetarian", user.Notes)
	assert.False(t, user.IsGuest())
	assert.Nil(t, user.Guest)

	guest, err := NewParticipant(1, GuestIdentity("G@X.io"), &Guest{FirstName: " Lea ", Email: "ignored@x.io"}, RolePlayer, "", base)
	require.NoError(t, err)
	assert.True(t, guest.IsGuest())
	assert.Nil(t, guest.UserID)
	assert.Equal(t, "Lea", guest.Guest.FirstName)
	assert.Equal(t, "g@x.io", guest.Guest.Email)
	assert.Equal(t, GuestIdentity("g@x.io"), guest.Identity())
}

func TestParticipantLifecycle(t *testing.T) {
	p, err := NewParticipant(1, UserIdentity(7), nil, RolePlayer, "", base)
	require.NoError(t, err)

	_, err = p.AddToWaitingList(0, base)
	assert.ErrorIs(t, err, ErrInvalidWaitingPosition)

	waiting, err := p.AddToWaitingList(3, base)
	require.NoError(t, err)
	assert.Equal(t, ParticipantWaitingList, waiting.Status)
	require.NotNil(t, waiting.WaitingListPosition)
	assert.Equal(t, 3, *waiting.WaitingListPosition)

	_, err = waiting.AddToWaitingList(4, base)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	later := base.Add(time.Hour)
	promoted, err := waiting.PromoteFromWaitingList(later)
	require.NoError(t, err)
	assert.Equal(t, ParticipantConfirmed, promoted.Status)
	assert.Nil(t, promoted.WaitingListPosition)
	assert.Equal(t, later, *promoted.ConfirmedAt)

	_, err = promoted.PromoteFromWaitingList(later)
	assert.ErrorIs(t, err, ErrNotOnWaitingList)

	again, err := promoted.Confirm(later.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, later, *again.ConfirmedAt)

	noShow, err := promoted.MarkAsNoShow(later)
	require.NoError(t, err)
	assert.Equal(t, ParticipantNoShow, noShow.Status)

	_, err = noShow.Cancel(later)
	assert.ErrorIs(t, err, ErrCannotCancel)
	_, err = noShow.Confirm(later)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestParticipantRejectAndCancel(t *testing.T) {
	p, err := NewParticipant(1, UserIdentity(7), nil, RolePlayer, "", base)
	require.NoError(t, err)

	_, err = p.MarkAsNoShow(base)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	rejected, err := p.Reject(base)
	require.NoError(t, err)
	assert.Equal(t, ParticipantRejected, rejected.Status)
	assert.False(t, rejected.CanBeCancelled())

	confirmed, err := p.Confirm(base)
	require.NoError(t, err)
	_, err = confirmed.Reject(base)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled, err := confirmed.Cancel(base)
	require.NoError(t, err)
	assert.Equal(t, ParticipantCancelled, cancelled.Status)
	assert.Equal(t, base, *cancelled.CancelledAt)
}

func TestParticipantReopen(t *testing.T) {
	p, err := NewParticipant(1, GuestIdentity("g@x.io"), &Guest{FirstName: "Lea", Phone: "0600000000", CancellationToken: "old"}, RolePlayer, "", base)
	require.NoError(t, err)
	p.ID = 42

	_, err = p.Reopen(RolePlayer, "", nil, "new", base)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	cancelled, err := p.Cancel(base)
	require.NoError(t, err)

	later := base.Add(time.Hour)
	reopened, err := cancelled.Reopen(RoleSpectator, " back ", &Guest{FirstName: "Léa", LastName: " M "}, "new", later)
	require.NoError(t, err)
	assert.Equal(t, uint(42), reopened.ID)
	assert.Equal(t, ParticipantPending, reopened.Status)
	assert.Equal(t, RoleSpectator, reopened.Role)
	assert.Equal(t, "back", reopened.Notes)
	assert.Nil(t, reopened.CancelledAt)
	assert.Equal(t, "Léa", reopened.Guest.FirstName)
	assert.Equal(t, "M", reopened.Guest.LastName)
	assert.Equal(t, "0600000000", reopened.Guest.Phone)
	assert.Equal(t, "new", reopened.Guest.CancellationToken)
	assert.Equal(t, "old", cancelled.Guest.CancellationToken)
}

func TestParticipantStatusIsActive(t *testing.T) {
	active := map[ParticipantStatus]bool{
		ParticipantPending:     true,
		ParticipantConfirmed:   true,
		ParticipantWaitingList: true,
	}
	for _, s := range ParticipantStatuses() {
		assert.Equal(t, active[s], s.IsActive(), string(s))
	}
}
