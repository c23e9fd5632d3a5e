package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/gametables-api/internal/domain"
)

var (
	organizer  = domain.User{ID: 1, Roles: []string{"organizer"}, Permissions: []string{"tables.create", "tables.moderate"}}
	gameMaster = domain.User{ID: 2, Roles: []string{"game_master"}, Permissions: []string{"tables.create"}}
	member     = domain.User{ID: 3, Roles: []string{"member"}}
)

func uintPtr(v uint) *uint {
	return &v
}

func newCreationService() *CreationService {
	return NewCreationService(newMemUsers(organizer, gameMaster, member), NewGrantAuthorizer(), prefixTranslator{})
}

func openSettings() domain.CreationSettings {
	return domain.CreationSettings{
		FrontendCreationEnabled: true,
		AllowedContent:          []domain.ContentType{domain.ContentTables, domain.ContentCampaigns},
		AccessLevel:             domain.AccessRegistered,
	}
}

func TestCanCreateGlobalPolicy(t *testing.T) {
	tests := []struct {
		name   string
		edit   func(*domain.CreationSettings)
		userID *uint
		reason domain.Reason
	}{
		{
			name:   "frontend creation disabled",
			edit:   func(s *domain.CreationSettings) { s.FrontendCreationEnabled = false },
			userID: uintPtr(1),
			reason: domain.ReasonFrontendCreationDisabled,
		},
		{
			name:   "tables not allowed",
			edit:   func(s *domain.CreationSettings) { s.AllowedContent = []domain.ContentType{domain.ContentCampaigns} },
			userID: uintPtr(1),
			reason: domain.ReasonTablesNotAllowed,
		},
		{
			name:   "everyone lets anonymous users in",
			edit:   func(s *domain.CreationSettings) { s.AccessLevel = domain.AccessEveryone },
			userID: nil,
		},
		{
			name:   "registered needs a user",
			userID: nil,
			reason: domain.ReasonAuthenticationRequired,
		},
		{
			name:   "registered with unknown user",
			userID: uintPtr(99),
			reason: domain.ReasonUserNotFound,
		},
		{
			name:   "registered user",
			userID: uintPtr(3),
		},
		{
			name:   "role without configured roles",
			edit:   func(s *domain.CreationSettings) { s.AccessLevel = domain.AccessRole },
			userID: uintPtr(1),
			reason: domain.ReasonNoRolesConfigured,
		},
		{
			name:   "role not allowed",
			edit:   func(s *domain.CreationSettings) { s.AccessLevel = domain.AccessRole; s.AllowedRoles = []string{"organizer"} },
			userID: uintPtr(3),
			reason: domain.ReasonRoleNotAllowed,
		},
		{
			name:   "role allowed",
			edit:   func(s *domain.CreationSettings) { s.AccessLevel = domain.AccessRole; s.AllowedRoles = []string{"organizer", "game_master"} },
			userID: uintPtr(2),
		},
		{
			name:   "permission not configured",
			edit:   func(s *domain.CreationSettings) { s.AccessLevel = domain.AccessPermission },
			userID: uintPtr(1),
			reason: domain.ReasonNoPermissionConfigured,
		},
		{
			name:   "permission denied",
			edit:   func(s *domain.CreationSettings) { s.AccessLevel = domain.AccessPermission; s.RequiredPermission = "tables.create" },
			userID: uintPtr(3),
			reason: domain.ReasonPermissionDenied,
		},
		{
			name:   "permission granted",
			edit:   func(s *domain.CreationSettings) { s.AccessLevel = domain.AccessPermission; s.RequiredPermission = "tables.create" },
			userID: uintPtr(2),
		},
	}
	svc := newCreationService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := openSettings()
			if tt.edit != nil {
				tt.edit(&settings)
			}
			result, err := svc.CanCreateTable(context.Background(), settings, tt.userID)
			require.NoError(t, err)
			if tt.reason == domain.ReasonNone {
				assert.True(t, result.Eligible)
				assert.Empty(t, result.Message)
				return
			}
			assert.False(t, result.Eligible)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Equal(t, "msg:"+string(tt.reason), result.Message)
		})
	}
}

func TestCanCreateCampaign(t *testing.T) {
	svc := newCreationService()
	settings := openSettings()
	settings.AllowedContent = []domain.ContentType{domain.ContentTables}

	result, err := svc.CanCreateCampaign(context.Background(), settings, uintPtr(1))
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonCampaignsNotAllowed, result.Reason)

	settings.AllowedContent = nil
	result, err = svc.CanCreateTable(context.Background(), settings, uintPtr(1))
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonTablesNotAllowed, result.Reason)
}

func TestCanCreateInvalidAccessLevel(t *testing.T) {
	settings := openSettings()
	settings.AccessLevel = "staff"

	_, err := newCreationService().CanCreateTable(context.Background(), settings, uintPtr(1))
	assert.ErrorIs(t, err, domain.ErrInvalidAccessLevel)
}

func TestPriorityTiers(t *testing.T) {
	svc := newCreationService()
	settings := openSettings()
	settings.PriorityTiers = []domain.CreationPriorityTier{
		{Type: domain.TierRole, Value: "organizer", DaysBefore: 14},
		{Type: domain.TierPermission, Value: "tables.create", DaysBefore: 7},
	}
	eventStart := now.AddDate(0, 1, 0)

	result, err := svc.CanCreateTable(context.Background(), settings, uintPtr(1))
	require.NoError(t, err)
	require.NotNil(t, result.Tier)
	assert.Equal(t, 14, result.Tier.DaysBefore)

	tier, err := svc.UserTier(context.Background(), settings, uintPtr(2))
	require.NoError(t, err)
	require.NotNil(t, tier)
	assert.Equal(t, "tables.create", tier.Value)

	tier, err = svc.UserTier(context.Background(), settings, uintPtr(3))
	require.NoError(t, err)
	assert.Nil(t, tier)

	tier, err = svc.UserTier(context.Background(), settings, nil)
	require.NoError(t, err)
	assert.Nil(t, tier)

	opens, err := svc.GetCreationOpenDate(context.Background(), settings, uintPtr(1), eventStart)
	require.NoError(t, err)
	assert.Equal(t, eventStart.AddDate(0, 0, -14), opens)

	opens, err = svc.GetCreationOpenDate(context.Background(), settings, uintPtr(3), eventStart)
	require.NoError(t, err)
	assert.Equal(t, eventStart, opens)

	opens, err = svc.GetCreationOpenDate(context.Background(), settings, uintPtr(99), eventStart)
	require.NoError(t, err)
	assert.Equal(t, eventStart, opens)
}

func TestEventConfigService(t *testing.T) {
	svc := NewEventConfigService(newMemConfigs())

	_, err := svc.Get(context.Background(), "evt-1")
	assert.ErrorIs(t, err, domain.ErrEventConfigNotFound)

	_, err = svc.Save(context.Background(), domain.EventGameTableConfig{EventID: "evt-1", SchedulingMode: domain.SchedulingSlotBased})
	assert.ErrorIs(t, err, domain.ErrSlotsRequired)

	saved, err := svc.Save(context.Background(), domain.EventGameTableConfig{EventID: "evt-1", TablesEnabled: true})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}
