// Package adminactions maps identity-provider admin actions onto the command
// and query buses.
package adminactions

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"ecnelisfly/application/commands"
	cmdbus "ecnelisfly/application/commands/bus"
	"ecnelisfly/application/queries"
	querybus "ecnelisfly/application/queries/bus"
	pkgerrors "ecnelisfly/pkg/errors"
)

// Action names accepted by Dispatch.
const (
	ActionListUserStatuses = "listUserStatuses"
	ActionDisableUser      = "disableUser"
	ActionEnableUser       = "enableUser"
	ActionAddToGroup       = "addToGroup"
	ActionRemoveFromGroup  = "removeFromGroup"
	ActionDeleteUser       = "deleteUser"
)

// Request is one admin action.
type Request struct {
	Action   string `json:"action"`
	Username string `json:"username,omitempty"`
	Group    string `json:"group,omitempty"`
}

// Response is returned for every successful action.
type Response struct {
	Success bool        `json:"success"`
	Action  string      `json:"action"`
	Data    interface{} `json:"data,omitempty"`
}

// Dispatcher routes admin actions.
type Dispatcher struct {
	commands     *cmdbus.CommandBus
	queries      *querybus.QueryBus
	defaultGroup string
	logger       *zap.Logger
}

// NewDispatcher creates a dispatcher. defaultGroup is used when a group
// action names no group.
func NewDispatcher(commands *cmdbus.CommandBus, queries *querybus.QueryBus, defaultGroup string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		commands:     commands,
		queries:      queries,
		defaultGroup: defaultGroup,
		logger:       logger,
	}
}

// Dispatch executes req.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Response, error) {
	group := strings.TrimSpace(req.Group)
	if group == "" {
		group = d.defaultGroup
	}

	var cmd cmdbus.Command
	switch req.Action {
	case ActionListUserStatuses:
		result, err := d.queries.Ask(ctx, queries.ListUserStatusesQuery{})
		if err != nil {
			return nil, err
		}
		return &Response{Success: true, Action: req.Action, Data: result}, nil
	case ActionDisableUser:
		cmd = commands.DisableUserCommand{Username: req.Username}
	case ActionEnableUser:
		cmd = commands.EnableUserCommand{Username: req.Username}
	case ActionAddToGroup:
		cmd = commands.AddToGroupCommand{Username: req.Username, Group: group}
	case ActionRemoveFromGroup:
		cmd = commands.RemoveFromGroupCommand{Username: req.Username, Group: group}
	case ActionDeleteUser:
		cmd = commands.DeleteUserCommand{Username: req.Username}
	default:
		return nil, pkgerrors.NewValidationError("unknown action").
			WithDetails(map[string]interface{}{"action": req.Action})
	}

	if err := d.commands.Send(ctx, cmd); err != nil {
		d.logger.Warn("Admin action failed",
			zap.String("action", req.Action),
			zap.String("username", req.Username),
			zap.Error(err),
		)
		return nil, err
	}
	return &Response{Success: true, Action: req.Action}, nil
}
