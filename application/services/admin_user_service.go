package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ecnelisfly/application/mappers"
	"ecnelisfly/application/pagination"
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/config"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/events"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/utils"
)

// utf8BOM lets spreadsheet applications detect the CSV encoding.
const utf8BOM = "\ufeff"

// AdminUserService builds the admin user table and applies account actions.
type AdminUserService struct {
	users     ports.Collection[schema.User]
	sounds    ports.Collection[schema.Sound]
	identity  ports.IdentityAdmin
	publisher ports.EventPublisher
	cfg       *config.DomainConfig
	clock     utils.Clock
	logger    *zap.Logger
}

// NewAdminUserService creates the service. publisher may be nil. A nil
// identity leaves listing available; account actions then fail.
func NewAdminUserService(
	tables *Tables,
	identity ports.IdentityAdmin,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *AdminUserService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &AdminUserService{
		users:     tables.Users,
		sounds:    tables.Sounds,
		identity:  identity,
		publisher: publisher,
		cfg:       cfg,
		clock:     utils.SystemClock,
		logger:    logger,
	}
}

// ListAdminUsers joins every profile row with its identity record (by sub,
// then case-insensitive email) and its sound count. Identity data is
// best-effort: when the provider cannot be reached the profiles are
// returned without it.
func (s *AdminUserService) ListAdminUsers(ctx context.Context) ([]*entities.AdminUser, error) {
	profiles, err := listAll(ctx, s.cfg, s.users, nil, mappers.UserFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listAdminUsers", err)
	}

	// Sound counts are enrichment; a failed page leaves them partial.
	owners, err := pagination.WalkPartial(ctx,
		pagination.FromList(s.sounds, walkOptions(s.cfg, nil, schema.AttrID, "userId")),
		func(r schema.Sound) string { return r.UserID },
		pagination.WithMaxPages(s.cfg.MaxWalkPages))
	if err != nil {
		s.logger.Warn("Sound counts incomplete", zap.Int("counted", len(owners)), zap.Error(err))
	}
	soundCounts := make(map[string]int)
	for _, owner := range owners {
		soundCounts[owner]++
	}

	bySub := make(map[string]*entities.IdentityUser)
	byEmail := make(map[string]*entities.IdentityUser)
	if s.identity != nil {
		statuses, err := s.identity.ListUserStatuses(ctx)
		if err != nil {
			s.logger.Warn("Identity statuses unavailable, listing profiles only", zap.Error(err))
		}
		for i := range statuses {
			identity := &statuses[i]
			if identity.Sub != "" {
				bySub[identity.Sub] = identity
			}
			if identity.Email != "" {
				byEmail[strings.ToLower(identity.Email)] = identity
			}
		}
	}

	users := make([]*entities.AdminUser, 0, len(profiles))
	for _, profile := range profiles {
		user := &entities.AdminUser{User: *profile}

		identity := bySub[profile.Sub]
		if identity == nil && profile.Email != "" {
			identity = byEmail[strings.ToLower(profile.Email)]
		}
		if identity != nil {
			s.applyIdentity(user, identity)
		}

		user.SoundCount = soundCounts[profile.ID]
		if profile.Sub != "" && profile.Sub != profile.ID {
			user.SoundCount += soundCounts[profile.Sub]
		}
		users = append(users, user)
	}

	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i].CreatedAt, users[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return users, nil
}

func (s *AdminUserService) requireIdentity(op string) error {
	if s.identity == nil {
		s.logger.Error("Identity provider not configured", zap.String("operation", op))
		return pkgerrors.NewInternalError("identity provider not configured")
	}
	return nil
}

// FilterByRole keeps admins for RoleAdmin, non-admins for RoleUser and
// everyone otherwise.
func FilterByRole(users []*entities.AdminUser, role string) []*entities.AdminUser {
	out := make([]*entities.AdminUser, 0, len(users))
	for _, user := range users {
		switch role {
		case entities.RoleAdmin:
			if !user.IsAdmin {
				continue
			}
		case entities.RoleUser:
			if user.IsAdmin {
				continue
			}
		}
		out = append(out, user)
	}
	return out
}

// FilterBySearch keeps the users matching term on any searchable field.
func FilterBySearch(users []*entities.AdminUser, term string) []*entities.AdminUser {
	out := make([]*entities.AdminUser, 0, len(users))
	for _, user := range users {
		if user.Matches(term) {
			out = append(out, user)
		}
	}
	return out
}

// AddToAdminGroup grants admin rights, then updates user in place so a
// view holding it reflects the change without a reload.
func (s *AdminUserService) AddToAdminGroup(ctx context.Context, user *entities.AdminUser) error {
	if err := s.requireIdentity("addToAdminGroup"); err != nil {
		return err
	}
	if err := s.identity.AddUserToGroup(ctx, user.LoginName(), s.cfg.AdminGroup); err != nil {
		return failed(s.logger, "addToAdminGroup", err)
	}
	if !user.IsAdmin {
		user.Groups = append(user.Groups, s.cfg.AdminGroup)
	}
	user.IsAdmin = true
	publish(ctx, s.publisher, s.logger, events.NewUserAdminChanged(user.LoginName(), s.cfg.AdminGroup, true, s.clock()))
	return nil
}

// RemoveFromAdminGroup revokes admin rights and updates user in place.
func (s *AdminUserService) RemoveFromAdminGroup(ctx context.Context, user *entities.AdminUser) error {
	if err := s.requireIdentity("removeFromAdminGroup"); err != nil {
		return err
	}
	if err := s.identity.RemoveUserFromGroup(ctx, user.LoginName(), s.cfg.AdminGroup); err != nil {
		return failed(s.logger, "removeFromAdminGroup", err)
	}
	groups := user.Groups[:0]
	for _, g := range user.Groups {
		if g != s.cfg.AdminGroup {
			groups = append(groups, g)
		}
	}
	user.Groups = groups
	user.IsAdmin = false
	publish(ctx, s.publisher, s.logger, events.NewUserAdminChanged(user.LoginName(), s.cfg.AdminGroup, false, s.clock()))
	return nil
}

// DisableUser blocks sign-in for the account.
func (s *AdminUserService) DisableUser(ctx context.Context, user *entities.AdminUser) error {
	if err := s.requireIdentity("disableUser"); err != nil {
		return err
	}
	if err := s.identity.DisableUser(ctx, user.LoginName()); err != nil {
		return failed(s.logger, "disableUser", err)
	}
	user.Enabled = false
	return nil
}

// EnableUser restores sign-in for the account.
func (s *AdminUserService) EnableUser(ctx context.Context, user *entities.AdminUser) error {
	if err := s.requireIdentity("enableUser"); err != nil {
		return err
	}
	if err := s.identity.EnableUser(ctx, user.LoginName()); err != nil {
		return failed(s.logger, "enableUser", err)
	}
	user.Enabled = true
	return nil
}

// DeleteUser deletes the identity account, then the profile row. The
// user's sounds are left in place.
func (s *AdminUserService) DeleteUser(ctx context.Context, user *entities.AdminUser) error {
	if err := s.requireIdentity("deleteUser"); err != nil {
		return err
	}
	if err := s.identity.DeleteUser(ctx, user.LoginName()); err != nil {
		return failed(s.logger, "deleteUser", err)
	}
	if user.ID == "" {
		return nil
	}
	if err := s.users.Delete(ctx, user.ID); err != nil && !errors.Is(err, ports.ErrConditionFailed) {
		return failed(s.logger, "deleteUser", err)
	}
	s.logger.Info("User deleted", zap.String("username", user.LoginName()), zap.String("userID", user.ID))
	return nil
}

var csvHeader = []string{
	"username", "email", "firstName", "lastName", "country", "language",
	"role", "enabled", "status", "provider", "soundCount", "createdAt",
}

// ExportCSV writes users as a UTF-8 CSV with a byte order mark and a
// header row.
func ExportCSV(w io.Writer, users []*entities.AdminUser) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, user := range users {
		role := entities.RoleUser
		if user.IsAdmin {
			role = entities.RoleAdmin
		}
		row := []string{
			user.LoginName(),
			user.Email,
			user.FirstName,
			user.LastName,
			user.Country,
			user.Language,
			role,
			strconv.FormatBool(user.Enabled),
			user.Status,
			user.Provider,
			strconv.Itoa(user.SoundCount),
			utils.FormatTimestamp(user.CreatedAt),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return pkgerrors.NewInternalError("failed to write csv").WithCause(err)
	}
	return nil
}

// FindAdminUser returns the row whose login name is username without
// walking the whole user table: the identity record leads to the profile
// through the sub index, and sound counts come from the user index.
// Accounts without a profile row yield a bare row carrying only the
// username.
func (s *AdminUserService) FindAdminUser(ctx context.Context, username string) (*entities.AdminUser, error) {
	if username == "" {
		return nil, pkgerrors.NewValidationError("username is required")
	}

	identity := s.findIdentity(ctx, username)
	profile, err := s.findProfile(ctx, username, identity)
	if err != nil {
		return nil, failed(s.logger, "findAdminUser", err)
	}

	user := &entities.AdminUser{}
	if profile != nil {
		user.User = *profile
	}
	switch {
	case identity != nil:
		s.applyIdentity(user, identity)
	case profile == nil:
		user.IdentityUsername = username
		return user, nil
	}

	owners := []string{user.ID}
	if user.Sub != "" && user.Sub != user.ID {
		owners = append(owners, user.Sub)
	}
	for _, owner := range owners {
		if owner == "" {
			continue
		}
		n, err := pagination.Count(ctx,
			pagination.FromQuery(s.sounds, schema.IndexByUser, owner, walkOptions(s.cfg, nil, schema.AttrID)),
			pagination.WithMaxPages(s.cfg.MaxWalkPages))
		if err != nil {
			s.logger.Warn("Sound count unavailable", zap.String("userID", owner), zap.Error(err))
			continue
		}
		user.SoundCount += n
	}
	return user, nil
}

// findIdentity returns the identity record named username, or nil when
// there is none or the provider cannot be reached.
func (s *AdminUserService) findIdentity(ctx context.Context, username string) *entities.IdentityUser {
	if s.identity == nil {
		return nil
	}
	statuses, err := s.identity.ListUserStatuses(ctx)
	if err != nil {
		s.logger.Warn("Identity statuses unavailable", zap.String("username", username), zap.Error(err))
		return nil
	}
	for i := range statuses {
		if statuses[i].Username == username {
			return &statuses[i]
		}
	}
	return nil
}

// findProfile matches a profile by sub, then by case-insensitive email.
// Without an identity record the profile username is used.
func (s *AdminUserService) findProfile(ctx context.Context, username string, identity *entities.IdentityUser) (*entities.User, error) {
	if identity == nil {
		matches, err := listAll(ctx, s.cfg, s.users, map[string]any{"username": username}, mappers.UserFromRecord)
		if err != nil || len(matches) == 0 {
			return nil, err
		}
		return matches[0], nil
	}
	if identity.Sub != "" {
		matches, err := queryAll(ctx, s.cfg, s.users, schema.IndexBySub, identity.Sub, nil, mappers.UserFromRecord)
		if err != nil {
			return nil, err
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	if identity.Email == "" {
		return nil, nil
	}

	rows, err := pagination.Walk(ctx,
		pagination.FromList(s.users, walkOptions(s.cfg, nil, schema.AttrID, "email")),
		pagination.Identity[schema.User],
		pagination.WithMaxPages(s.cfg.MaxWalkPages))
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if !strings.EqualFold(row.Email, identity.Email) {
			continue
		}
		rec, err := s.users.Get(ctx, row.ID)
		if err != nil || rec == nil {
			return nil, err
		}
		return mappers.UserFromRecord(*rec), nil
	}
	return nil, nil
}

func (s *AdminUserService) applyIdentity(user *entities.AdminUser, identity *entities.IdentityUser) {
	user.IdentityUsername = identity.Username
	user.Enabled = identity.Enabled
	user.Status = identity.Status
	user.Groups = append([]string(nil), identity.Groups...)
	user.IsAdmin = identity.InGroup(s.cfg.AdminGroup)
	user.Provider = identity.Provider
	user.IdentityCreatedAt = identity.CreatedAt
}
