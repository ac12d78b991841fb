package entities

import (
	"time"

	"ecnelisfly/domain/core/valueobjects"
)

// Zone is a named geographic region drawn on the map.
type Zone struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	NameI18n        valueobjects.LocalizedText `json:"nameI18n,omitempty"`
	Description     string                     `json:"description"`
	DescriptionI18n valueobjects.LocalizedText `json:"descriptionI18n,omitempty"`
	Slug            string                     `json:"slug"`
	Polygon         *valueobjects.Polygon      `json:"polygon,omitempty"`
	Center          *valueobjects.LatLng       `json:"center,omitempty"`
	DefaultZoom     int                        `json:"defaultZoom"`
	CoverImage      string                     `json:"coverImage"`
	AmbientSound    string                     `json:"ambientSound"`
	IsVisibleOnMap  bool                       `json:"isVisibleOnMap"`
	SortOrder       int                        `json:"sortOrder"`
	CreatedAt       *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time                 `json:"updatedAt,omitempty"`
}

// Contains reports whether the point falls inside the zone polygon.
func (z *Zone) Contains(lat, lng float64) bool {
	if z.Polygon == nil {
		return false
	}
	return valueobjects.IsPointInPolygon(lat, lng, *z.Polygon)
}

// ZoneUpdate is a sparse update: only non-nil fields are written.
type ZoneUpdate struct {
	Name            *string                     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	NameI18n        *valueobjects.LocalizedText `json:"nameI18n,omitempty"`
	Description     *string                     `json:"description,omitempty"`
	DescriptionI18n *valueobjects.LocalizedText `json:"descriptionI18n,omitempty"`
	Slug            *string                     `json:"slug,omitempty" validate:"omitempty,slug"`
	Polygon         *valueobjects.Polygon       `json:"polygon,omitempty"`
	DefaultZoom     *int                        `json:"defaultZoom,omitempty" validate:"omitempty,min=1,max=20"`
	CoverImage      *string                     `json:"coverImage,omitempty"`
	AmbientSound    *string                     `json:"ambientSound,omitempty"`
	IsVisibleOnMap  *bool                       `json:"isVisibleOnMap,omitempty"`
	SortOrder       *int                        `json:"sortOrder,omitempty"`
}

// ZoneSound associates a sound with a zone at a display position.
type ZoneSound struct {
	ID        string     `json:"id"`
	ZoneID    string     `json:"zoneId"`
	SoundID   string     `json:"soundId"`
	SortOrder int        `json:"sortOrder"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
