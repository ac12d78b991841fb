package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/events"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
)

func seedAdminTables(t *testing.T) *memoryTables {
	t.Helper()
	ctx := context.Background()
	tables := newMemoryTables()
	users := []schema.User{
		{ID: "p1", Sub: "sub-1", Email: "alice@example.com", Username: "alice", FirstName: "Alice", CreatedAt: "2025-01-01T00:00:00Z"},
		{ID: "p2", Sub: "stale-sub", Email: "Bob@Example.com", Username: "bob", Country: "FR", CreatedAt: "2025-03-01T00:00:00Z"},
		{ID: "p3", Email: "carol@example.com", Username: "carol", CreatedAt: "2025-02-01T00:00:00Z"},
	}
	for _, u := range users {
		_, err := tables.users.Create(ctx, u)
		require.NoError(t, err)
	}
	for _, owner := range []string{"p1", "p1", "sub-1", "p3"} {
		_, err := tables.sounds.Create(ctx, schema.Sound{UserID: owner, Title: "x", Status: "public"})
		require.NoError(t, err)
	}
	return tables
}

func identityStatuses() []entities.IdentityUser {
	return []entities.IdentityUser{
		{Username: "alice-google", Sub: "sub-1", Email: "alice@example.com", Enabled: true, Status: "EXTERNAL_PROVIDER", Groups: []string{"ADMIN"}, Provider: "Google"},
		{Username: "bob", Sub: "sub-2", Email: "bob@example.com", Enabled: false, Status: "CONFIRMED"},
	}
}

func TestListAdminUsers_JoinsIdentityAndCounts(t *testing.T) {
	tables := seedAdminTables(t)
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return(identityStatuses(), nil)
	svc := NewAdminUserService(&tables.Tables, identity, nil, nil, zap.NewNop())

	users, err := svc.ListAdminUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "bob", users[0].Username)
	assert.Equal(t, "carol", users[1].Username)
	assert.Equal(t, "alice", users[2].Username)

	alice := users[2]
	assert.Equal(t, "alice-google", alice.LoginName())
	assert.True(t, alice.IsAdmin)
	assert.Equal(t, "Google", alice.Provider)
	assert.Equal(t, 3, alice.SoundCount)

	bob := users[0]
	assert.Equal(t, "bob", bob.IdentityUsername)
	assert.False(t, bob.Enabled)
	assert.False(t, bob.IsAdmin)

	carol := users[1]
	assert.Empty(t, carol.IdentityUsername)
	assert.Equal(t, 1, carol.SoundCount)
	identity.AssertExpectations(t)
}

func TestListAdminUsers_IdentityUnavailable(t *testing.T) {
	tables := seedAdminTables(t)
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return(nil, errors.New("throttled"))
	svc := NewAdminUserService(&tables.Tables, identity, nil, nil, zap.NewNop())

	users, err := svc.ListAdminUsers(context.Background())

	require.NoError(t, err)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.False(t, u.IsAdmin)
	}
}

func TestListAdminUsers_SoundCountsUnavailable(t *testing.T) {
	tables := seedAdminTables(t)
	tables.sounds.FailNext(1, errors.New("scan failed"))
	svc := NewAdminUserService(&tables.Tables, nil, nil, nil, zap.NewNop())

	users, err := svc.ListAdminUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		assert.Zero(t, u.SoundCount)
	}
}

func TestListAdminUsers_ProfilesUnavailable(t *testing.T) {
	tables := seedAdminTables(t)
	tables.users.FailNext(1, errors.New("scan failed"))
	svc := NewAdminUserService(&tables.Tables, nil, nil, nil, zap.NewNop())

	_, err := svc.ListAdminUsers(context.Background())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeOperationFailed))
}

func TestAddToAdminGroup_ThenFilterByRole(t *testing.T) {
	tables := seedAdminTables(t)
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return(identityStatuses(), nil)
	identity.On("AddUserToGroup", mock.Anything, "bob", "ADMIN").Return(nil).Once()
	pub := &recordingPublisher{}
	svc := NewAdminUserService(&tables.Tables, identity, pub, nil, zap.NewNop())
	ctx := context.Background()

	users, err := svc.ListAdminUsers(ctx)
	require.NoError(t, err)
	bob := users[0]
	require.Equal(t, "bob", bob.Username)

	require.NoError(t, svc.AddToAdminGroup(ctx, bob))

	admins := FilterByRole(users, entities.RoleAdmin)
	assert.Contains(t, admins, bob)
	assert.Len(t, admins, 2)
	assert.Contains(t, bob.Groups, "ADMIN")
	assert.NotContains(t, FilterByRole(users, entities.RoleUser), bob)
	assert.Len(t, FilterByRole(users, entities.RoleAll), 3)
	assert.Equal(t, []string{events.EventTypeUserAdminChanged}, pub.types())
	identity.AssertExpectations(t)
}

func TestRemoveFromAdminGroup(t *testing.T) {
	identity := new(MockIdentityAdmin)
	identity.On("RemoveUserFromGroup", mock.Anything, "alice-google", "ADMIN").Return(nil)
	svc := NewAdminUserService(&newMemoryTables().Tables, identity, nil, nil, zap.NewNop())
	user := &entities.AdminUser{IdentityUsername: "alice-google", Groups: []string{"editors", "ADMIN"}, IsAdmin: true}

	require.NoError(t, svc.RemoveFromAdminGroup(context.Background(), user))

	assert.False(t, user.IsAdmin)
	assert.Equal(t, []string{"editors"}, user.Groups)
}

func TestDisableEnableUser(t *testing.T) {
	identity := new(MockIdentityAdmin)
	identity.On("DisableUser", mock.Anything, "bob").Return(nil)
	identity.On("EnableUser", mock.Anything, "bob").Return(errors.New("user pool gone"))
	svc := NewAdminUserService(&newMemoryTables().Tables, identity, nil, nil, zap.NewNop())
	user := &entities.AdminUser{User: entities.User{Username: "bob"}, Enabled: true}
	ctx := context.Background()

	require.NoError(t, svc.DisableUser(ctx, user))
	assert.False(t, user.Enabled)

	err := svc.EnableUser(ctx, user)
	assert.True(t, pkgerrors.IsOperationFailed(err))
	assert.False(t, user.Enabled)
}

func TestDeleteUser_RemovesProfile(t *testing.T) {
	tables := seedAdminTables(t)
	identity := new(MockIdentityAdmin)
	identity.On("DeleteUser", mock.Anything, "carol").Return(nil)
	svc := NewAdminUserService(&tables.Tables, identity, nil, nil, zap.NewNop())
	user := &entities.AdminUser{User: entities.User{ID: "p3", Username: "carol"}}

	require.NoError(t, svc.DeleteUser(context.Background(), user))

	assert.Equal(t, 2, tables.users.Len())
	assert.Equal(t, 4, tables.sounds.Len())
}

func TestFindAdminUser_UnknownYieldsBareRow(t *testing.T) {
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return(nil, nil)
	svc := NewAdminUserService(&newMemoryTables().Tables, identity, nil, nil, zap.NewNop())

	user, err := svc.FindAdminUser(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Equal(t, "ghost", user.LoginName())
	assert.Empty(t, user.ID)
}

func TestFindAdminUser_MatchesListedRow(t *testing.T) {
	tables := seedAdminTables(t)
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return(identityStatuses(), nil)
	svc := NewAdminUserService(&tables.Tables, identity, nil, nil, zap.NewNop())
	ctx := context.Background()

	listed, err := svc.ListAdminUsers(ctx)
	require.NoError(t, err)

	for _, want := range listed {
		t.Run(want.LoginName(), func(t *testing.T) {
			got, err := svc.FindAdminUser(ctx, want.LoginName())

			require.NoError(t, err)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.IsAdmin, got.IsAdmin)
			assert.Equal(t, want.Enabled, got.Enabled)
			assert.Equal(t, want.SoundCount, got.SoundCount)
		})
	}
}

func TestFindAdminUser_CountsThroughUserIndex(t *testing.T) {
	tables := seedAdminTables(t)
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return(identityStatuses(), nil)
	svc := NewAdminUserService(&tables.Tables, identity, nil, nil, zap.NewNop())

	user, err := svc.FindAdminUser(context.Background(), "alice-google")

	require.NoError(t, err)
	assert.Equal(t, "p1", user.ID)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, 3, user.SoundCount)
}

func TestAccountActions_WithoutIdentityProvider(t *testing.T) {
	svc := NewAdminUserService(&newMemoryTables().Tables, nil, nil, nil, zap.NewNop())
	ctx := context.Background()
	user := &entities.AdminUser{IdentityUsername: "alice"}

	actions := map[string]func(context.Context, *entities.AdminUser) error{
		"add":     svc.AddToAdminGroup,
		"remove":  svc.RemoveFromAdminGroup,
		"disable": svc.DisableUser,
		"enable":  svc.EnableUser,
		"delete":  svc.DeleteUser,
	}
	for name, action := range actions {
		t.Run(name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() { err = action(ctx, user) })
			assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal))
		})
	}
}

func TestFilterBySearch(t *testing.T) {
	users := []*entities.AdminUser{
		{User: entities.User{Username: "alice", Email: "alice@example.com"}},
		{User: entities.User{Username: "bob", Country: "France"}},
	}

	assert.Len(t, FilterBySearch(users, ""), 2)
	assert.Len(t, FilterBySearch(users, "FRANCE"), 1)
	assert.Empty(t, FilterBySearch(users, "zed"))
}

func TestExportCSV(t *testing.T) {
	users := []*entities.AdminUser{
		{User: entities.User{Username: "alice", Email: "alice@example.com", FirstName: "Alice, Jr."}, IsAdmin: true, Enabled: true, SoundCount: 3},
	}
	var buf bytes.Buffer

	require.NoError(t, ExportCSV(&buf, users))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, utf8BOM))
	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "username", records[0][0])
	assert.Len(t, records[0], 12)
	assert.Equal(t, []string{"alice", "alice@example.com", "Alice, Jr.", "", "", "", "admin", "true", "", "", "3", ""}, records[1])
}
