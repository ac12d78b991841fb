package mappers

import (
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/infrastructure/persistence/schema"
	"ecnelisfly/pkg/utils"
)

// UserFromRecord maps a User row.
func UserFromRecord(r schema.User) *entities.User {
	return &entities.User{
		ID:        r.ID,
		Sub:       r.Sub,
		Email:     r.Email,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Country:   r.Country,
		Language:  r.Language,
		AvatarURL: r.AvatarURL,
		CreatedAt: utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt: utils.ParseTimestamp(r.UpdatedAt),
	}
}

// UserToRecord encodes a user profile for a create call.
func UserToRecord(u *entities.User) schema.User {
	return schema.User{
		ID:        u.ID,
		Sub:       u.Sub,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Country:   u.Country,
		Language:  u.Language,
		AvatarURL: u.AvatarURL,
	}
}

// EmailTemplateFromRecord maps an EmailTemplate row.
func EmailTemplateFromRecord(r schema.EmailTemplate) *entities.EmailTemplate {
	return &entities.EmailTemplate{
		Type:     r.Type,
		Subject:  r.Subject,
		HTMLBody: r.HTMLBody,
	}
}
