package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ecnelisfly/application/commands"
	"ecnelisfly/application/commands/bus"
	"ecnelisfly/application/ports"
	pkgerrors "ecnelisfly/pkg/errors"
)

// UserAdminHandler applies account commands on the identity provider
type UserAdminHandler struct {
	identity ports.IdentityAdmin
	logger   *zap.Logger
}

// NewUserAdminHandler creates a new user admin handler
func NewUserAdminHandler(identity ports.IdentityAdmin, logger *zap.Logger) *UserAdminHandler {
	return &UserAdminHandler{
		identity: identity,
		logger:   logger,
	}
}

// Register binds every account command to this handler
func (h *UserAdminHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.DisableUserCommand{},
		commands.EnableUserCommand{},
		commands.AddToGroupCommand{},
		commands.RemoveFromGroupCommand{},
		commands.DeleteUserCommand{},
	} {
		if err := b.Register(cmd, bus.CommandHandlerFunc(h.Handle)); err != nil {
			return err
		}
	}
	return nil
}

// Handle executes one account command
func (h *UserAdminHandler) Handle(ctx context.Context, cmd bus.Command) error {
	var (
		err      error
		username string
	)
	switch c := cmd.(type) {
	case commands.DisableUserCommand:
		username = c.Username
		err = h.identity.DisableUser(ctx, c.Username)
	case commands.EnableUserCommand:
		username = c.Username
		err = h.identity.EnableUser(ctx, c.Username)
	case commands.AddToGroupCommand:
		username = c.Username
		err = h.identity.AddUserToGroup(ctx, c.Username, c.Group)
	case commands.RemoveFromGroupCommand:
		username = c.Username
		err = h.identity.RemoveUserFromGroup(ctx, c.Username, c.Group)
	case commands.DeleteUserCommand:
		username = c.Username
		err = h.identity.DeleteUser(ctx, c.Username)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}

	if err != nil {
		if pkgerrors.GetAppError(err) != nil {
			return err
		}
		return pkgerrors.NewExternalError("identity", err)
	}

	h.logger.Info("Account updated",
		zap.String("command", fmt.Sprintf("%T", cmd)),
		zap.String("username", username),
	)
	return nil
}
