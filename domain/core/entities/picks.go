package entities

import (
	"time"

	"ecnelisfly/domain/core/valueobjects"
)

// PickKind names a current-pick slot family.
type PickKind string

const (
	PickKindFeaturedSound  PickKind = "featured-sound"
	PickKindMonthlyZone    PickKind = "monthly-zone"
	PickKindMonthlyJourney PickKind = "monthly-journey"
)

// FeaturedSoundCandidate is an admin-curated entry of the daily pool.
type FeaturedSoundCandidate struct {
	ID         string                     `json:"id"`
	SoundID    string                     `json:"soundId"`
	Label      string                     `json:"label"`
	Teaser     string                     `json:"teaser"`
	TeaserI18n valueobjects.LocalizedText `json:"teaserI18n,omitempty"`
	IsActive   bool                       `json:"isActive"`
	SortOrder  int                        `json:"sortOrder"`
	CreatedAt  *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time                 `json:"updatedAt,omitempty"`
}

// CandidateUpdate is a sparse update of a candidate.
type CandidateUpdate struct {
	Label      *string                     `json:"label,omitempty"`
	Teaser     *string                     `json:"teaser,omitempty"`
	TeaserI18n *valueobjects.LocalizedText `json:"teaserI18n,omitempty"`
	IsActive   *bool                       `json:"isActive,omitempty"`
	SortOrder  *int                        `json:"sortOrder,omitempty"`
}

// DailyFeaturedSound is the snapshot of the sound featured on Date.
// Sound fields are copied at selection time.
type DailyFeaturedSound struct {
	ID             string                     `json:"id"`
	Date           string                     `json:"date"`
	CandidateID    string                     `json:"candidateId"`
	SoundID        string                     `json:"soundId"`
	Teaser         string                     `json:"teaser"`
	TeaserI18n     valueobjects.LocalizedText `json:"teaserI18n,omitempty"`
	SoundTitle     string                     `json:"soundTitle"`
	SoundCity      string                     `json:"soundCity"`
	SoundLatitude  float64                    `json:"soundLatitude"`
	SoundLongitude float64                    `json:"soundLongitude"`
	SoundCategory  string                     `json:"soundCategory"`
	SoundFilename  string                     `json:"soundFilename"`
	Active         bool                       `json:"active"`
	CreatedAt      *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time                 `json:"updatedAt,omitempty"`
}

// MonthlyZone is the snapshot of the zone of the month.
type MonthlyZone struct {
	ID             string                     `json:"id"`
	Month          string                     `json:"month"`
	ZoneID         string                     `json:"zoneId"`
	ZoneName       string                     `json:"zoneName"`
	ZoneNameI18n   valueobjects.LocalizedText `json:"zoneNameI18n,omitempty"`
	ZoneSlug       string                     `json:"zoneSlug"`
	ZoneCoverImage string                     `json:"zoneCoverImage"`
	ZoneCenter     *valueobjects.LatLng       `json:"zoneCenter,omitempty"`
	Active         bool                       `json:"active"`
	CreatedAt      *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time                 `json:"updatedAt,omitempty"`
}

// MonthlyJourney is the snapshot of the journey of the month.
type MonthlyJourney struct {
	ID                string                     `json:"id"`
	Month             string                     `json:"month"`
	JourneyID         string                     `json:"journeyId"`
	JourneyName       string                     `json:"journeyName"`
	JourneyNameI18n   valueobjects.LocalizedText `json:"journeyNameI18n,omitempty"`
	JourneySlug       string                     `json:"journeySlug"`
	JourneyCoverImage string                     `json:"journeyCoverImage"`
	JourneyColor      string                     `json:"journeyColor"`
	Active            bool                       `json:"active"`
	CreatedAt         *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt         *time.Time                 `json:"updatedAt,omitempty"`
}
