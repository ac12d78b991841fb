package mappers

import (
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/infrastructure/persistence/schema"
	"ecnelisfly/pkg/utils"
)

// CandidateFromRecord maps a FeaturedSoundCandidate row.
func CandidateFromRecord(r schema.FeaturedSoundCandidate) *entities.FeaturedSoundCandidate {
	return &entities.FeaturedSoundCandidate{
		ID:         r.ID,
		SoundID:    r.SoundID,
		Label:      r.Label,
		Teaser:     r.Teaser,
		TeaserI18n: valueobjects.DecodeLocalizedText(r.TeaserI18n),
		IsActive:   r.IsActive,
		SortOrder:  r.SortOrder,
		CreatedAt:  utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:  utils.ParseTimestamp(r.UpdatedAt),
	}
}

// CandidateToRecord encodes a candidate for a create call.
func CandidateToRecord(c *entities.FeaturedSoundCandidate) schema.FeaturedSoundCandidate {
	return schema.FeaturedSoundCandidate{
		ID:         c.ID,
		SoundID:    c.SoundID,
		Label:      c.Label,
		Teaser:     c.Teaser,
		TeaserI18n: valueobjects.EncodeLocalizedText(c.TeaserI18n),
		IsActive:   c.IsActive,
		SortOrder:  c.SortOrder,
	}
}

// CandidatePatch turns a sparse candidate update into a patch.
func CandidatePatch(u entities.CandidateUpdate) ports.Patch {
	p := ports.Patch{}
	setString(p, "label", u.Label)
	setString(p, "teaser", u.Teaser)
	setText(p, "teaserI18n", u.TeaserI18n)
	setBool(p, "isActive", u.IsActive)
	setInt(p, "sortOrder", u.SortOrder)
	return p
}

// DailyFeaturedFromRecord maps a DailyFeaturedSound row.
func DailyFeaturedFromRecord(r schema.DailyFeaturedSound) *entities.DailyFeaturedSound {
	return &entities.DailyFeaturedSound{
		ID:             r.ID,
		Date:           r.Date,
		CandidateID:    r.CandidateID,
		SoundID:        r.SoundID,
		Teaser:         r.Teaser,
		TeaserI18n:     valueobjects.DecodeLocalizedText(r.TeaserI18n),
		SoundTitle:     r.SoundTitle,
		SoundCity:      r.SoundCity,
		SoundLatitude:  r.SoundLatitude,
		SoundLongitude: r.SoundLongitude,
		SoundCategory:  r.SoundCategory,
		SoundFilename:  r.SoundFilename,
		Active:         r.Active,
		CreatedAt:      utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:      utils.ParseTimestamp(r.UpdatedAt),
	}
}

// DailyFeaturedSnapshot copies the live sound into a new active row for date.
func DailyFeaturedSnapshot(date string, candidate *entities.FeaturedSoundCandidate, sound *entities.Sound) schema.DailyFeaturedSound {
	r := schema.DailyFeaturedSound{
		Date:           date,
		SoundID:        sound.ID,
		SoundTitle:     sound.Title,
		SoundCity:      sound.City,
		SoundLatitude:  sound.Latitude,
		SoundLongitude: sound.Longitude,
		SoundCategory:  sound.Category,
		SoundFilename:  sound.Filename,
		Active:         true,
	}
	if candidate != nil {
		r.CandidateID = candidate.ID
		r.Teaser = candidate.Teaser
		r.TeaserI18n = valueobjects.EncodeLocalizedText(candidate.TeaserI18n)
	}
	return r
}

// MonthlyZoneFromRecord maps a MonthlyZone row.
func MonthlyZoneFromRecord(r schema.MonthlyZone) *entities.MonthlyZone {
	return &entities.MonthlyZone{
		ID:             r.ID,
		Month:          r.Month,
		ZoneID:         r.ZoneID,
		ZoneName:       r.ZoneName,
		ZoneNameI18n:   valueobjects.DecodeLocalizedText(r.ZoneNameI18n),
		ZoneSlug:       r.ZoneSlug,
		ZoneCoverImage: r.ZoneCoverImage,
		ZoneCenter:     valueobjects.DecodeLatLng(r.ZoneCenter),
		Active:         r.Active,
		CreatedAt:      utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:      utils.ParseTimestamp(r.UpdatedAt),
	}
}

// MonthlyZoneSnapshot copies the live zone into a new active row for month.
func MonthlyZoneSnapshot(month string, z *entities.Zone) schema.MonthlyZone {
	return schema.MonthlyZone{
		Month:          month,
		ZoneID:         z.ID,
		ZoneName:       z.Name,
		ZoneNameI18n:   valueobjects.EncodeLocalizedText(z.NameI18n),
		ZoneSlug:       z.Slug,
		ZoneCoverImage: z.CoverImage,
		ZoneCenter:     valueobjects.EncodeLatLng(z.Center),
		Active:         true,
	}
}

// MonthlyJourneyFromRecord maps a MonthlyJourney row.
func MonthlyJourneyFromRecord(r schema.MonthlyJourney) *entities.MonthlyJourney {
	return &entities.MonthlyJourney{
		ID:                r.ID,
		Month:             r.Month,
		JourneyID:         r.JourneyID,
		JourneyName:       r.JourneyName,
		JourneyNameI18n:   valueobjects.DecodeLocalizedText(r.JourneyNameI18n),
		JourneySlug:       r.JourneySlug,
		JourneyCoverImage: r.JourneyCoverImage,
		JourneyColor:      r.JourneyColor,
		Active:            r.Active,
		CreatedAt:         utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:         utils.ParseTimestamp(r.UpdatedAt),
	}
}

// MonthlyJourneySnapshot copies the live journey into a new active row.
func MonthlyJourneySnapshot(month string, j *entities.SoundJourney) schema.MonthlyJourney {
	return schema.MonthlyJourney{
		Month:             month,
		JourneyID:         j.ID,
		JourneyName:       j.Name,
		JourneyNameI18n:   valueobjects.EncodeLocalizedText(j.NameI18n),
		JourneySlug:       j.Slug,
		JourneyCoverImage: j.CoverImage,
		JourneyColor:      j.Color,
		Active:            true,
	}
}
