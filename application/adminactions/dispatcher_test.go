package adminactions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cmdbus "ecnelisfly/application/commands/bus"
	cmdhandlers "ecnelisfly/application/commands/handlers"
	"ecnelisfly/application/queries"
	querybus "ecnelisfly/application/queries/bus"
	queryhandlers "ecnelisfly/application/queries/handlers"
	"ecnelisfly/domain/core/entities"
	pkgerrors "ecnelisfly/pkg/errors"
)

type MockIdentityAdmin struct {
	mock.Mock
}

func (m *MockIdentityAdmin) DisableUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockIdentityAdmin) EnableUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockIdentityAdmin) AddUserToGroup(ctx context.Context, username, group string) error {
	return m.Called(ctx, username, group).Error(0)
}

func (m *MockIdentityAdmin) RemoveUserFromGroup(ctx context.Context, username, group string) error {
	return m.Called(ctx, username, group).Error(0)
}

func (m *MockIdentityAdmin) DeleteUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockIdentityAdmin) ListUserStatuses(ctx context.Context) ([]entities.IdentityUser, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entities.IdentityUser)
	return users, args.Error(1)
}

func newDispatcher(t *testing.T, identity *MockIdentityAdmin) *Dispatcher {
	t.Helper()
	logger := zap.NewNop()

	commands := cmdbus.NewCommandBus(cmdbus.LoggingMiddleware(logger))
	require.NoError(t, cmdhandlers.NewUserAdminHandler(identity, logger).Register(commands))

	qs := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.NewListUserStatusesHandler(identity, logger).Register(qs))

	return NewDispatcher(commands, qs, "ADMIN", logger)
}

func TestDispatch_Mutations(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		setup func(m *MockIdentityAdmin)
	}{
		{
			name:  "disable",
			req:   Request{Action: ActionDisableUser, Username: "alice"},
			setup: func(m *MockIdentityAdmin) { m.On("DisableUser", mock.Anything, "alice").Return(nil) },
		},
		{
			name:  "enable",
			req:   Request{Action: ActionEnableUser, Username: "alice"},
			setup: func(m *MockIdentityAdmin) { m.On("EnableUser", mock.Anything, "alice").Return(nil) },
		},
		{
			name:  "add to default group",
			req:   Request{Action: ActionAddToGroup, Username: "alice"},
			setup: func(m *MockIdentityAdmin) { m.On("AddUserToGroup", mock.Anything, "alice", "ADMIN").Return(nil) },
		},
		{
			name:  "remove from named group",
			req:   Request{Action: ActionRemoveFromGroup, Username: "alice", Group: "EDITORS"},
			setup: func(m *MockIdentityAdmin) { m.On("RemoveUserFromGroup", mock.Anything, "alice", "EDITORS").Return(nil) },
		},
		{
			name:  "delete",
			req:   Request{Action: ActionDeleteUser, Username: "alice"},
			setup: func(m *MockIdentityAdmin) { m.On("DeleteUser", mock.Anything, "alice").Return(nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := new(MockIdentityAdmin)
			tt.setup(identity)
			d := newDispatcher(t, identity)

			resp, err := d.Dispatch(context.Background(), tt.req)

			require.NoError(t, err)
			assert.True(t, resp.Success)
			assert.Equal(t, tt.req.Action, resp.Action)
			identity.AssertExpectations(t)
		})
	}
}

func TestDispatch_ListUserStatuses(t *testing.T) {
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return([]entities.IdentityUser{
		{Username: "alice", Enabled: true, Status: "CONFIRMED"},
		{Username: "bob", Enabled: false, Status: "CONFIRMED"},
	}, nil)
	d := newDispatcher(t, identity)

	resp, err := d.Dispatch(context.Background(), Request{Action: ActionListUserStatuses})

	require.NoError(t, err)
	result, ok := resp.Data.(*queries.ListUserStatusesResult)
	require.True(t, ok)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "bob", result.Users[1].Username)
}

func TestDispatch_ListUserStatusesEmpty(t *testing.T) {
	identity := new(MockIdentityAdmin)
	identity.On("ListUserStatuses", mock.Anything).Return(nil, nil)
	d := newDispatcher(t, identity)

	resp, err := d.Dispatch(context.Background(), Request{Action: ActionListUserStatuses})

	require.NoError(t, err)
	result := resp.Data.(*queries.ListUserStatusesResult)
	assert.NotNil(t, result.Users)
	assert.Zero(t, result.Count)
}

func TestDispatch_MissingUsername(t *testing.T) {
	identity := new(MockIdentityAdmin)
	d := newDispatcher(t, identity)

	_, err := d.Dispatch(context.Background(), Request{Action: ActionDisableUser, Username: "  "})

	assert.True(t, pkgerrors.IsValidation(err))
	identity.AssertNotCalled(t, "DisableUser", mock.Anything, mock.Anything)
}

func TestDispatch_UnknownAction(t *testing.T) {
	d := newDispatcher(t, new(MockIdentityAdmin))

	_, err := d.Dispatch(context.Background(), Request{Action: "promote", Username: "alice"})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestDispatch_IdentityFailureIsExternal(t *testing.T) {
	identity := new(MockIdentityAdmin)
	identity.On("DeleteUser", mock.Anything, "alice").Return(errors.New("throttled"))
	d := newDispatcher(t, identity)

	_, err := d.Dispatch(context.Background(), Request{Action: ActionDeleteUser, Username: "alice"})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
}
