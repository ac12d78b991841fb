package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/application/queries"
	"ecnelisfly/application/queries/bus"
	"ecnelisfly/domain/core/entities"
	pkgerrors "ecnelisfly/pkg/errors"
)

// ListUserStatusesHandler reads account statuses from the identity provider
type ListUserStatusesHandler struct {
	identity ports.IdentityAdmin
	logger   *zap.Logger
}

// NewListUserStatusesHandler creates a new handler
func NewListUserStatusesHandler(identity ports.IdentityAdmin, logger *zap.Logger) *ListUserStatusesHandler {
	return &ListUserStatusesHandler{
		identity: identity,
		logger:   logger,
	}
}

// Register binds the query to this handler
func (h *ListUserStatusesHandler) Register(b *bus.QueryBus) error {
	return b.Register(queries.ListUserStatusesQuery{}, bus.QueryHandlerFunc(h.Handle))
}

// Handle executes the query
func (h *ListUserStatusesHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	if _, ok := query.(queries.ListUserStatusesQuery); !ok {
		return nil, fmt.Errorf("unsupported query %T", query)
	}

	users, err := h.identity.ListUserStatuses(ctx)
	if err != nil {
		if pkgerrors.GetAppError(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.NewExternalError("identity", err)
	}
	if users == nil {
		users = []entities.IdentityUser{}
	}

	h.logger.Debug("User statuses listed", zap.Int("count", len(users)))
	return &queries.ListUserStatusesResult{Users: users, Count: len(users)}, nil
}
