package entities

import (
	"time"

	"ecnelisfly/domain/core/valueobjects"
)

// Sound is a geolocated audio recording owned by exactly one user.
type Sound struct {
	ID                string                     `json:"id"`
	UserID            string                     `json:"userId"`
	Title             string                     `json:"title"`
	TitleI18n         valueobjects.LocalizedText `json:"titleI18n,omitempty"`
	ShortStory        string                     `json:"shortStory"`
	ShortStoryI18n    valueobjects.LocalizedText `json:"shortStoryI18n,omitempty"`
	Filename          string                     `json:"filename"`
	Status            valueobjects.SoundStatus   `json:"status"`
	Latitude          float64                    `json:"latitude"`
	Longitude         float64                    `json:"longitude"`
	City              string                     `json:"city"`
	Category          string                     `json:"category"`
	SecondaryCategory string                     `json:"secondaryCategory"`
	DateTime          *time.Time                 `json:"dateTime,omitempty"`
	RecordDateTime    *time.Time                 `json:"recordDateTime,omitempty"`
	Equipment         string                     `json:"equipment"`
	License           string                     `json:"license"`
	URL               string                     `json:"url"`
	URLTitle          string                     `json:"urlTitle"`
	SecondaryURL      string                     `json:"secondaryUrl"`
	SecondaryURLTitle string                     `json:"secondaryUrlTitle"`
	Hashtags          []string                   `json:"hashtags"`
	Likes             int                        `json:"likes"`
	CreatedAt         *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time                 `json:"updatedAt,omitempty"`
}

// IsPublic reports whether the sound is visible to everyone.
func (s *Sound) IsPublic() bool {
	return s.Status == valueobjects.SoundStatusPublic
}

// LocalizedTitle returns the title for lang, falling back to the base title.
func (s *Sound) LocalizedTitle(lang string) string {
	return s.TitleI18n.Resolve(lang, s.Title)
}

// SoundUpdate is a sparse update: only non-nil fields are written.
type SoundUpdate struct {
	Title             *string                     `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	TitleI18n         *valueobjects.LocalizedText `json:"titleI18n,omitempty"`
	ShortStory        *string                     `json:"shortStory,omitempty" validate:"omitempty,max=5000"`
	ShortStoryI18n    *valueobjects.LocalizedText `json:"shortStoryI18n,omitempty"`
	Filename          *string                     `json:"filename,omitempty"`
	Latitude          *float64                    `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude         *float64                    `json:"longitude,omitempty" validate:"omitempty,longitude"`
	City              *string                     `json:"city,omitempty"`
	Category          *string                     `json:"category,omitempty"`
	SecondaryCategory *string                     `json:"secondaryCategory,omitempty"`
	DateTime          *time.Time                  `json:"dateTime,omitempty"`
	RecordDateTime    *time.Time                  `json:"recordDateTime,omitempty"`
	Equipment         *string                     `json:"equipment,omitempty"`
	License           *string                     `json:"license,omitempty"`
	URL               *string                     `json:"url,omitempty" validate:"omitempty,url"`
	URLTitle          *string                     `json:"urlTitle,omitempty"`
	SecondaryURL      *string                     `json:"secondaryUrl,omitempty" validate:"omitempty,url"`
	SecondaryURLTitle *string                     `json:"secondaryUrlTitle,omitempty"`
	Hashtags          *[]string                   `json:"hashtags,omitempty"`
}

// CommunityStats are the public counters shown on the landing page.
type CommunityStats struct {
	PublicSounds int `json:"publicSounds"`
	Contributors int `json:"contributors"`
	Users        int `json:"users"`
}
