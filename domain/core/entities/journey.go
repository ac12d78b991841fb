package entities

import (
	"time"

	"ecnelisfly/domain/core/valueobjects"
)

// SoundJourney is a curated, ordered walk through several sounds.
type SoundJourney struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	NameI18n        valueobjects.LocalizedText `json:"nameI18n,omitempty"`
	Description     string                     `json:"description"`
	DescriptionI18n valueobjects.LocalizedText `json:"descriptionI18n,omitempty"`
	Slug            string                     `json:"slug"`
	CoverImage      string                     `json:"coverImage"`
	Color           string                     `json:"color"`
	IsPublic        bool                       `json:"isPublic"`
	SortOrder       int                        `json:"sortOrder"`
	CreatedAt       *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time                 `json:"updatedAt,omitempty"`
}

// JourneyUpdate is a sparse update: only non-nil fields are written.
type JourneyUpdate struct {
	Name            *string                     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	NameI18n        *valueobjects.LocalizedText `json:"nameI18n,omitempty"`
	Description     *string                     `json:"description,omitempty"`
	DescriptionI18n *valueobjects.LocalizedText `json:"descriptionI18n,omitempty"`
	Slug            *string                     `json:"slug,omitempty" validate:"omitempty,slug"`
	CoverImage      *string                     `json:"coverImage,omitempty"`
	Color           *string                     `json:"color,omitempty" validate:"omitempty,hexcolor"`
	IsPublic        *bool                       `json:"isPublic,omitempty"`
	SortOrder       *int                        `json:"sortOrder,omitempty"`
}

// SoundJourneyStep is one stop of a journey. StepOrder is dense 1..N.
type SoundJourneyStep struct {
	ID            string                     `json:"id"`
	JourneyID     string                     `json:"journeyId"`
	SoundID       string                     `json:"soundId"`
	StepOrder     int                        `json:"stepOrder"`
	ThemeText     string                     `json:"themeText"`
	ThemeTextI18n valueobjects.LocalizedText `json:"themeTextI18n,omitempty"`
	CreatedAt     *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time                 `json:"updatedAt,omitempty"`
}

// StepUpdate is a sparse update of a step's narrative.
type StepUpdate struct {
	ThemeText     *string                     `json:"themeText,omitempty"`
	ThemeTextI18n *valueobjects.LocalizedText `json:"themeTextI18n,omitempty"`
}
