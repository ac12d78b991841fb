// Package cognito implements the identity ports on a Cognito user pool.
package cognito

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/resilience"
)

// listPageSize is the ListUsers maximum.
const listPageSize = 60

// API is the subset of the Cognito client the adapter uses.
type API interface {
	AdminDisableUser(ctx context.Context, params *cip.AdminDisableUserInput, optFns ...func(*cip.Options)) (*cip.AdminDisableUserOutput, error)
	AdminEnableUser(ctx context.Context, params *cip.AdminEnableUserInput, optFns ...func(*cip.Options)) (*cip.AdminEnableUserOutput, error)
	AdminAddUserToGroup(ctx context.Context, params *cip.AdminAddUserToGroupInput, optFns ...func(*cip.Options)) (*cip.AdminAddUserToGroupOutput, error)
	AdminRemoveUserFromGroup(ctx context.Context, params *cip.AdminRemoveUserFromGroupInput, optFns ...func(*cip.Options)) (*cip.AdminRemoveUserFromGroupOutput, error)
	AdminDeleteUser(ctx context.Context, params *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
	ListUsers(ctx context.Context, params *cip.ListUsersInput, optFns ...func(*cip.Options)) (*cip.ListUsersOutput, error)
	ListUsersInGroup(ctx context.Context, params *cip.ListUsersInGroupInput, optFns ...func(*cip.Options)) (*cip.ListUsersInGroupOutput, error)
}

// Client implements ports.IdentityAdmin and ports.IdentityDirectory.
type Client struct {
	api        API
	userPoolID string
	adminGroup string
	breaker    *resilience.Breaker
	logger     *zap.Logger
}

var (
	_ ports.IdentityAdmin     = (*Client)(nil)
	_ ports.IdentityDirectory = (*Client)(nil)
)

// NewClient creates a Cognito adapter for one user pool. Members of
// adminGroup are reported with that group by ListUserStatuses.
func NewClient(api API, userPoolID, adminGroup string, logger *zap.Logger) *Client {
	config := resilience.DefaultBreakerConfig("cognito")
	config.IsClientError = isClientError
	return &Client{
		api:        api,
		userPoolID: userPoolID,
		adminGroup: adminGroup,
		breaker:    resilience.NewBreaker(config, logger),
		logger:     logger,
	}
}

// DisableUser blocks sign-in for username
func (c *Client) DisableUser(ctx context.Context, username string) error {
	return c.run("AdminDisableUser", username, func() error {
		_, err := c.api.AdminDisableUser(ctx, &cip.AdminDisableUserInput{
			UserPoolId: aws.String(c.userPoolID),
			Username:   aws.String(username),
		})
		return err
	})
}

// EnableUser restores sign-in for username
func (c *Client) EnableUser(ctx context.Context, username string) error {
	return c.run("AdminEnableUser", username, func() error {
		_, err := c.api.AdminEnableUser(ctx, &cip.AdminEnableUserInput{
			UserPoolId: aws.String(c.userPoolID),
			Username:   aws.String(username),
		})
		return err
	})
}

// AddUserToGroup adds username to group
func (c *Client) AddUserToGroup(ctx context.Context, username, group string) error {
	return c.run("AdminAddUserToGroup", username, func() error {
		_, err := c.api.AdminAddUserToGroup(ctx, &cip.AdminAddUserToGroupInput{
			UserPoolId: aws.String(c.userPoolID),
			Username:   aws.String(username),
			GroupName:  aws.String(group),
		})
		return err
	})
}

// RemoveUserFromGroup removes username from group
func (c *Client) RemoveUserFromGroup(ctx context.Context, username, group string) error {
	return c.run("AdminRemoveUserFromGroup", username, func() error {
		_, err := c.api.AdminRemoveUserFromGroup(ctx, &cip.AdminRemoveUserFromGroupInput{
			UserPoolId: aws.String(c.userPoolID),
			Username:   aws.String(username),
			GroupName:  aws.String(group),
		})
		return err
	})
}

// DeleteUser deletes username from the pool
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.run("AdminDeleteUser", username, func() error {
		_, err := c.api.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
			UserPoolId: aws.String(c.userPoolID),
			Username:   aws.String(username),
		})
		return err
	})
}

// ListUsers reads one page of the user directory
func (c *Client) ListUsers(ctx context.Context, paginationToken string, limit int) ([]entities.IdentityUser, string, error) {
	if limit <= 0 || limit > listPageSize {
		limit = listPageSize
	}
	input := &cip.ListUsersInput{
		UserPoolId: aws.String(c.userPoolID),
		Limit:      aws.Int32(int32(limit)),
	}
	if paginationToken != "" {
		input.PaginationToken = aws.String(paginationToken)
	}

	out, err := resilience.Do(c.breaker, func() (*cip.ListUsersOutput, error) {
		return c.api.ListUsers(ctx, input)
	})
	if err != nil {
		return nil, "", c.classify("ListUsers", "", err)
	}

	users := make([]entities.IdentityUser, 0, len(out.Users))
	for _, u := range out.Users {
		users = append(users, toIdentityUser(u))
	}
	return users, aws.ToString(out.PaginationToken), nil
}

// ListUserStatuses reads the whole directory and marks admin-group members
func (c *Client) ListUserStatuses(ctx context.Context) ([]entities.IdentityUser, error) {
	admins, err := c.groupMembers(ctx, c.adminGroup)
	if err != nil {
		return nil, err
	}

	var all []entities.IdentityUser
	token := ""
	for {
		page, next, err := c.ListUsers(ctx, token, listPageSize)
		if err != nil {
			return nil, err
		}
		for _, u := range page {
			if admins[u.Username] {
				u.Groups = append(u.Groups, c.adminGroup)
			}
			all = append(all, u)
		}
		if next == "" {
			break
		}
		token = next
	}

	c.logger.Debug("Listed user statuses",
		zap.Int("count", len(all)),
		zap.Int("admins", len(admins)),
	)
	return all, nil
}

func (c *Client) groupMembers(ctx context.Context, group string) (map[string]bool, error) {
	members := map[string]bool{}
	if group == "" {
		return members, nil
	}

	var token *string
	for {
		out, err := resilience.Do(c.breaker, func() (*cip.ListUsersInGroupOutput, error) {
			return c.api.ListUsersInGroup(ctx, &cip.ListUsersInGroupInput{
				UserPoolId: aws.String(c.userPoolID),
				GroupName:  aws.String(group),
				Limit:      aws.Int32(listPageSize),
				NextToken:  token,
			})
		})
		if err != nil {
			return nil, c.classify("ListUsersInGroup", "", err)
		}
		for _, u := range out.Users {
			members[aws.ToString(u.Username)] = true
		}
		if aws.ToString(out.NextToken) == "" {
			return members, nil
		}
		token = out.NextToken
	}
}

func (c *Client) run(op, username string, fn func() error) error {
	if err := resilience.Run(c.breaker, fn); err != nil {
		return c.classify(op, username, err)
	}
	c.logger.Info("Identity call succeeded",
		zap.String("operation", op),
		zap.String("username", username),
	)
	return nil
}

func (c *Client) classify(op, username string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "UserNotFoundException":
			return pkgerrors.NewNotFoundError("user").WithCause(err)
		case "ResourceNotFoundException":
			return pkgerrors.NewNotFoundError("group").WithCause(err)
		case "InvalidParameterException":
			return pkgerrors.NewValidationError(apiErr.ErrorMessage()).WithCause(err)
		}
	}

	c.logger.Error("Identity call failed",
		zap.String("operation", op),
		zap.String("username", username),
		zap.Error(err),
	)
	return pkgerrors.NewExternalError("cognito", err)
}

func isClientError(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.ErrorFault() == smithy.FaultClient && apiErr.ErrorCode() != "TooManyRequestsException"
}

func toIdentityUser(u types.UserType) entities.IdentityUser {
	user := entities.IdentityUser{
		Username:  aws.ToString(u.Username),
		Enabled:   u.Enabled,
		Status:    string(u.UserStatus),
		Groups:    []string{},
		Provider:  "email",
		CreatedAt: u.UserCreateDate,
	}
	for _, attr := range u.Attributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			user.Sub = aws.ToString(attr.Value)
		case "email":
			user.Email = aws.ToString(attr.Value)
		case "identities":
			if p := federatedProvider(aws.ToString(attr.Value)); p != "" {
				user.Provider = p
			}
		}
	}
	return user
}

// federatedProvider reads the first providerName of an "identities"
// attribute.
func federatedProvider(identities string) string {
	var linked []struct {
		ProviderName string `json:"providerName"`
	}
	if err := json.Unmarshal([]byte(identities), &linked); err != nil || len(linked) == 0 {
		return ""
	}
	return strings.TrimSpace(linked[0].ProviderName)
}
