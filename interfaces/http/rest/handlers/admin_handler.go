package handlers

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"ecnelisfly/application/adminactions"
	"ecnelisfly/application/services"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/pkg/common"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/utils"
)

// AdminHandler serves the user administration screens
type AdminHandler struct {
	base
	users   *services.AdminUserService
	stats   *services.UserStatsService
	actions *adminactions.Dispatcher
	clock   utils.Clock
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	users *services.AdminUserService,
	stats *services.UserStatsService,
	actions *adminactions.Dispatcher,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		base:    newBase(errs, logger),
		users:   users,
		stats:   stats,
		actions: actions,
		clock:   utils.SystemClock,
	}
}

// userActions maps the path segment of POST /admin/users/{username}/{action}
var userActions = map[string]func(*services.AdminUserService, context.Context, *entities.AdminUser) error{
	"grant-admin":  (*services.AdminUserService).AddToAdminGroup,
	"revoke-admin": (*services.AdminUserService).RemoveFromAdminGroup,
	"disable":      (*services.AdminUserService).DisableUser,
	"enable":       (*services.AdminUserService).EnableUser,
}

// ListUsers handles GET /admin/users?role=&search=&page=&page_size=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.filtered(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, meta := common.Paginate(users, common.ExtractPaginationParams(r))
	common.RespondWithMeta(w, http.StatusOK, page, &common.MetaInfo{Pagination: meta})
}

// ExportUsers handles GET /admin/users.csv with the same filters as ListUsers
func (h *AdminHandler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.filtered(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="users-%s.csv"`, h.clock().Format("2006-01-02")))
	if err := services.ExportCSV(w, users); err != nil {
		// headers are already sent
		h.logger.Error("CSV export failed", zap.Error(err))
	}
}

// UserAction handles POST /admin/users/{username}/{action}
func (h *AdminHandler) UserAction(w http.ResponseWriter, r *http.Request) {
	action, ok := userActions[param(r, "action")]
	if !ok {
		h.fail(w, r, pkgerrors.NewValidationError("unknown user action").
			WithDetails(map[string]interface{}{"action": param(r, "action")}))
		return
	}
	user, err := h.users.FindAdminUser(r.Context(), param(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := action(h.users, r.Context(), user); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, user)
}

// DeleteUser handles DELETE /admin/users/{username}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindAdminUser(r.Context(), param(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.users.DeleteUser(r.Context(), user); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}

// UserStats handles GET /admin/stats/users
func (h *AdminHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Compute(r.Context(), h.clock())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, stats)
}

// Dispatch handles POST /admin/actions, the raw identity-provider action API
func (h *AdminHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req adminactions.Request
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.actions.Dispatch(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, resp)
}

func (h *AdminHandler) filtered(r *http.Request) ([]*entities.AdminUser, error) {
	users, err := h.users.ListAdminUsers(r.Context())
	if err != nil {
		return nil, err
	}
	query := r.URL.Query()
	if role := query.Get("role"); role != "" && role != entities.RoleAll {
		users = services.FilterByRole(users, role)
	}
	return services.FilterBySearch(users, query.Get("search")), nil
}
