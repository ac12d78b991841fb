package commands

import (
	"strings"

	pkgerrors "ecnelisfly/pkg/errors"
)

// DisableUserCommand blocks sign-in for an identity-provider account.
type DisableUserCommand struct {
	Username string `json:"username"`
}

// Validate validates the command
func (c DisableUserCommand) Validate() error {
	return requireUsername(c.Username)
}

// CommandName implements bus.Named
func (c DisableUserCommand) CommandName() string { return "disableUser" }

// EnableUserCommand restores sign-in for an account.
type EnableUserCommand struct {
	Username string `json:"username"`
}

// Validate validates the command
func (c EnableUserCommand) Validate() error {
	return requireUsername(c.Username)
}

// CommandName implements bus.Named
func (c EnableUserCommand) CommandName() string { return "enableUser" }

// AddToGroupCommand adds an account to a group.
type AddToGroupCommand struct {
	Username string `json:"username"`
	Group    string `json:"group"`
}

// Validate validates the command
func (c AddToGroupCommand) Validate() error {
	if err := requireUsername(c.Username); err != nil {
		return err
	}
	return requireGroup(c.Group)
}

// CommandName implements bus.Named
func (c AddToGroupCommand) CommandName() string { return "addToGroup" }

// RemoveFromGroupCommand removes an account from a group.
type RemoveFromGroupCommand struct {
	Username string `json:"username"`
	Group    string `json:"group"`
}

// Validate validates the command
func (c RemoveFromGroupCommand) Validate() error {
	if err := requireUsername(c.Username); err != nil {
		return err
	}
	return requireGroup(c.Group)
}

// CommandName implements bus.Named
func (c RemoveFromGroupCommand) CommandName() string { return "removeFromGroup" }

// DeleteUserCommand deletes an account from the identity provider.
type DeleteUserCommand struct {
	Username string `json:"username"`
}

// Validate validates the command
func (c DeleteUserCommand) Validate() error {
	return requireUsername(c.Username)
}

// CommandName implements bus.Named
func (c DeleteUserCommand) CommandName() string { return "deleteUser" }

func requireUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return pkgerrors.NewFieldError("username", "username is required")
	}
	return nil
}

func requireGroup(group string) error {
	if strings.TrimSpace(group) == "" {
		return pkgerrors.NewFieldError("group", "group is required")
	}
	return nil
}
