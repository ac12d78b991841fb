package cognito

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "ecnelisfly/pkg/errors"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) AdminDisableUser(ctx context.Context, in *cip.AdminDisableUserInput, _ ...func(*cip.Options)) (*cip.AdminDisableUserOutput, error) {
	args := m.Called(ctx, in)
	return &cip.AdminDisableUserOutput{}, args.Error(0)
}

func (m *MockAPI) AdminEnableUser(ctx context.Context, in *cip.AdminEnableUserInput, _ ...func(*cip.Options)) (*cip.AdminEnableUserOutput, error) {
	args := m.Called(ctx, in)
	return &cip.AdminEnableUserOutput{}, args.Error(0)
}

func (m *MockAPI) AdminAddUserToGroup(ctx context.Context, in *cip.AdminAddUserToGroupInput, _ ...func(*cip.Options)) (*cip.AdminAddUserToGroupOutput, error) {
	args := m.Called(ctx, in)
	return &cip.AdminAddUserToGroupOutput{}, args.Error(0)
}

func (m *MockAPI) AdminRemoveUserFromGroup(ctx context.Context, in *cip.AdminRemoveUserFromGroupInput, _ ...func(*cip.Options)) (*cip.AdminRemoveUserFromGroupOutput, error) {
	args := m.Called(ctx, in)
	return &cip.AdminRemoveUserFromGroupOutput{}, args.Error(0)
}

func (m *MockAPI) AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, _ ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	args := m.Called(ctx, in)
	return &cip.AdminDeleteUserOutput{}, args.Error(0)
}

func (m *MockAPI) ListUsers(ctx context.Context, in *cip.ListUsersInput, _ ...func(*cip.Options)) (*cip.ListUsersOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ListUsersOutput)
	return out, args.Error(1)
}

func (m *MockAPI) ListUsersInGroup(ctx context.Context, in *cip.ListUsersInGroupInput, _ ...func(*cip.Options)) (*cip.ListUsersInGroupOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ListUsersInGroupOutput)
	return out, args.Error(1)
}

func cognitoUser(username, sub, email string, enabled bool, attrs ...types.AttributeType) types.UserType {
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	base := []types.AttributeType{
		{Name: aws.String("sub"), Value: aws.String(sub)},
		{Name: aws.String("email"), Value: aws.String(email)},
	}
	return types.UserType{
		Username:       aws.String(username),
		Enabled:        enabled,
		UserStatus:     types.UserStatusTypeConfirmed,
		UserCreateDate: &created,
		Attributes:     append(base, attrs...),
	}
}

func TestAdminCalls_TargetPool(t *testing.T) {
	api := new(MockAPI)
	api.On("AdminDisableUser", mock.Anything, mock.MatchedBy(func(in *cip.AdminDisableUserInput) bool {
		return aws.ToString(in.UserPoolId) == "pool-1" && aws.ToString(in.Username) == "alice"
	})).Return(nil)
	api.On("AdminAddUserToGroup", mock.Anything, mock.MatchedBy(func(in *cip.AdminAddUserToGroupInput) bool {
		return aws.ToString(in.GroupName) == "ADMIN"
	})).Return(nil)
	c := NewClient(api, "pool-1", "ADMIN", zap.NewNop())

	require.NoError(t, c.DisableUser(context.Background(), "alice"))
	require.NoError(t, c.AddUserToGroup(context.Background(), "alice", "ADMIN"))
	api.AssertExpectations(t)
}

func TestAdminCalls_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		assert func(t *testing.T, err error)
	}{
		{
			name: "missing user",
			err:  &smithy.GenericAPIError{Code: "UserNotFoundException", Fault: smithy.FaultClient},
			assert: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.IsNotFound(err))
			},
		},
		{
			name: "bad parameter",
			err:  &smithy.GenericAPIError{Code: "InvalidParameterException", Message: "bad", Fault: smithy.FaultClient},
			assert: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.IsValidation(err))
			},
		},
		{
			name: "transport failure",
			err:  errors.New("connection reset"),
			assert: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := new(MockAPI)
			api.On("AdminDeleteUser", mock.Anything, mock.Anything).Return(tt.err)
			c := NewClient(api, "pool-1", "ADMIN", zap.NewNop())

			err := c.DeleteUser(context.Background(), "alice")

			require.Error(t, err)
			tt.assert(t, err)
		})
	}
}

func TestListUsers_MapsAttributes(t *testing.T) {
	api := new(MockAPI)
	api.On("ListUsers", mock.Anything, mock.MatchedBy(func(in *cip.ListUsersInput) bool {
		return aws.ToString(in.PaginationToken) == "p1" && aws.ToInt32(in.Limit) == 60
	})).Return(&cip.ListUsersOutput{
		Users: []types.UserType{
			cognitoUser("alice", "sub-a", "alice@example.com", true),
			cognitoUser("google_42", "sub-g", "g@example.com", false, types.AttributeType{
				Name:  aws.String("identities"),
				Value: aws.String(`[{"providerName":"Google","userId":"42"}]`),
			}),
		},
		PaginationToken: aws.String("p2"),
	}, nil)
	c := NewClient(api, "pool-1", "ADMIN", zap.NewNop())

	users, next, err := c.ListUsers(context.Background(), "p1", 500)

	require.NoError(t, err)
	assert.Equal(t, "p2", next)
	require.Len(t, users, 2)
	assert.Equal(t, "sub-a", users[0].Sub)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "email", users[0].Provider)
	assert.Equal(t, "CONFIRMED", users[0].Status)
	assert.Equal(t, "Google", users[1].Provider)
	assert.False(t, users[1].Enabled)
}

func TestListUserStatuses_WalksPagesAndMarksAdmins(t *testing.T) {
	api := new(MockAPI)
	api.On("ListUsersInGroup", mock.Anything, mock.Anything).Return(&cip.ListUsersInGroupOutput{
		Users: []types.UserType{{Username: aws.String("bob")}},
	}, nil)
	api.On("ListUsers", mock.Anything, mock.MatchedBy(func(in *cip.ListUsersInput) bool {
		return in.PaginationToken == nil
	})).Return(&cip.ListUsersOutput{
		Users:           []types.UserType{cognitoUser("alice", "sub-a", "a@example.com", true)},
		PaginationToken: aws.String("next"),
	}, nil)
	api.On("ListUsers", mock.Anything, mock.MatchedBy(func(in *cip.ListUsersInput) bool {
		return aws.ToString(in.PaginationToken) == "next"
	})).Return(&cip.ListUsersOutput{
		Users: []types.UserType{cognitoUser("bob", "sub-b", "b@example.com", true)},
	}, nil)
	c := NewClient(api, "pool-1", "ADMIN", zap.NewNop())

	users, err := c.ListUserStatuses(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Empty(t, users[0].Groups)
	assert.Equal(t, []string{"ADMIN"}, users[1].Groups)
}
