package entities

import (
	"strings"
	"time"
)

// Role filters for the admin user table.
const (
	RoleAll   = "all"
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the application profile row of a signed-up account.
type User struct {
	ID        string     `json:"id"`
	Sub       string     `json:"sub"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Country   string     `json:"country"`
	Language  string     `json:"language"`
	AvatarURL string     `json:"avatarUrl"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// IdentityUser is what the identity provider knows about an account.
type IdentityUser struct {
	Username  string     `json:"username"`
	Sub       string     `json:"sub"`
	Email     string     `json:"email"`
	Enabled   bool       `json:"enabled"`
	Status    string     `json:"status"`
	Groups    []string   `json:"groups"`
	Provider  string     `json:"provider"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// InGroup reports whether the account belongs to group.
func (u *IdentityUser) InGroup(group string) bool {
	for _, g := range u.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// AdminUser is the read-time join of a User row with identity data.
// It is never persisted.
type AdminUser struct {
	User
	IdentityUsername  string     `json:"identityUsername"`
	Enabled           bool       `json:"enabled"`
	Status            string     `json:"status"`
	Groups            []string   `json:"groups"`
	IsAdmin           bool       `json:"isAdmin"`
	Provider          string     `json:"provider"`
	IdentityCreatedAt *time.Time `json:"identityCreatedAt,omitempty"`
	SoundCount        int        `json:"soundCount"`
}

// LoginName is the identity-provider username, or the profile username
// when no identity record was matched.
func (u *AdminUser) LoginName() string {
	if u.IdentityUsername != "" {
		return u.IdentityUsername
	}
	return u.Username
}

// Matches reports whether any searchable field contains term (case-insensitive).
func (u *AdminUser) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range []string{u.Username, u.Email, u.FirstName, u.LastName, u.Country} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// EmailTemplate is an admin override of a transactional email.
type EmailTemplate struct {
	Type     string `json:"type"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

// Template types handled by the custom-message trigger.
const (
	TemplateVerification  = "VERIFICATION"
	TemplatePasswordReset = "PASSWORD_RESET"
)
