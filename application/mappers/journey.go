package mappers

import (
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/infrastructure/persistence/schema"
	"ecnelisfly/pkg/utils"
)

// JourneyFromRecord maps a SoundJourney row.
func JourneyFromRecord(r schema.SoundJourney) *entities.SoundJourney {
	return &entities.SoundJourney{
		ID:              r.ID,
		Name:            r.Name,
		NameI18n:        valueobjects.DecodeLocalizedText(r.NameI18n),
		Description:     r.Description,
		DescriptionI18n: valueobjects.DecodeLocalizedText(r.DescriptionI18n),
		Slug:            r.Slug,
		CoverImage:      r.CoverImage,
		Color:           r.Color,
		IsPublic:        r.IsPublic,
		SortOrder:       r.SortOrder,
		CreatedAt:       utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:       utils.ParseTimestamp(r.UpdatedAt),
	}
}

// JourneyToRecord encodes a journey for a create call.
func JourneyToRecord(j *entities.SoundJourney) schema.SoundJourney {
	return schema.SoundJourney{
		ID:              j.ID,
		Name:            j.Name,
		NameI18n:        valueobjects.EncodeLocalizedText(j.NameI18n),
		Description:     j.Description,
		DescriptionI18n: valueobjects.EncodeLocalizedText(j.DescriptionI18n),
		Slug:            j.Slug,
		CoverImage:      j.CoverImage,
		Color:           j.Color,
		IsPublic:        j.IsPublic,
		SortOrder:       j.SortOrder,
	}
}

// JourneyPatch turns a sparse update into a patch.
func JourneyPatch(u entities.JourneyUpdate) ports.Patch {
	p := ports.Patch{}
	setString(p, "name", u.Name)
	setText(p, "nameI18n", u.NameI18n)
	setString(p, "description", u.Description)
	setText(p, "descriptionI18n", u.DescriptionI18n)
	setString(p, "slug", u.Slug)
	setString(p, "coverImage", u.CoverImage)
	setString(p, "color", u.Color)
	setBool(p, "isPublic", u.IsPublic)
	setInt(p, "sortOrder", u.SortOrder)
	return p
}

// StepFromRecord maps a SoundJourneyStep row.
func StepFromRecord(r schema.SoundJourneyStep) *entities.SoundJourneyStep {
	return &entities.SoundJourneyStep{
		ID:            r.ID,
		JourneyID:     r.JourneyID,
		SoundID:       r.SoundID,
		StepOrder:     r.StepOrder,
		ThemeText:     r.ThemeText,
		ThemeTextI18n: valueobjects.DecodeLocalizedText(r.ThemeTextI18n),
		CreatedAt:     utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:     utils.ParseTimestamp(r.UpdatedAt),
	}
}

// StepToRecord encodes a step for a create call.
func StepToRecord(s *entities.SoundJourneyStep) schema.SoundJourneyStep {
	return schema.SoundJourneyStep{
		ID:            s.ID,
		JourneyID:     s.JourneyID,
		SoundID:       s.SoundID,
		StepOrder:     s.StepOrder,
		ThemeText:     s.ThemeText,
		ThemeTextI18n: valueobjects.EncodeLocalizedText(s.ThemeTextI18n),
	}
}

// StepPatch turns a sparse step update into a patch.
func StepPatch(u entities.StepUpdate) ports.Patch {
	p := ports.Patch{}
	setString(p, "themeText", u.ThemeText)
	setText(p, "themeTextI18n", u.ThemeTextI18n)
	return p
}
