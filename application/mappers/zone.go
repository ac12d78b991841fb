package mappers

import (
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/infrastructure/persistence/schema"
	"ecnelisfly/pkg/utils"
)

// DefaultZoneZoom applies when a zone row carries no zoom.
const DefaultZoneZoom = 13

// ZoneFromRecord maps a Zone row.
func ZoneFromRecord(r schema.Zone) *entities.Zone {
	zoom := r.DefaultZoom
	if zoom == 0 {
		zoom = DefaultZoneZoom
	}
	return &entities.Zone{
		ID:              r.ID,
		Name:            r.Name,
		NameI18n:        valueobjects.DecodeLocalizedText(r.NameI18n),
		Description:     r.Description,
		DescriptionI18n: valueobjects.DecodeLocalizedText(r.DescriptionI18n),
		Slug:            r.Slug,
		Polygon:         valueobjects.DecodePolygon(r.Polygon),
		Center:          valueobjects.DecodeLatLng(r.Center),
		DefaultZoom:     zoom,
		CoverImage:      r.CoverImage,
		AmbientSound:    r.AmbientSound,
		IsVisibleOnMap:  r.IsVisibleOnMap,
		SortOrder:       r.SortOrder,
		CreatedAt:       utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:       utils.ParseTimestamp(r.UpdatedAt),
	}
}

// ZoneToRecord encodes a zone for a create call.
func ZoneToRecord(z *entities.Zone) schema.Zone {
	r := schema.Zone{
		ID:              z.ID,
		Name:            z.Name,
		NameI18n:        valueobjects.EncodeLocalizedText(z.NameI18n),
		Description:     z.Description,
		DescriptionI18n: valueobjects.EncodeLocalizedText(z.DescriptionI18n),
		Slug:            z.Slug,
		Center:          valueobjects.EncodeLatLng(z.Center),
		DefaultZoom:     z.DefaultZoom,
		CoverImage:      z.CoverImage,
		AmbientSound:    z.AmbientSound,
		IsVisibleOnMap:  z.IsVisibleOnMap,
		SortOrder:       z.SortOrder,
	}
	if z.Polygon != nil {
		r.Polygon = valueobjects.EncodePolygon(*z.Polygon)
	}
	return r
}

// ZonePatch turns a sparse update into a patch. When a polygon is present
// it is closed and the center is recomputed alongside it.
func ZonePatch(u entities.ZoneUpdate) ports.Patch {
	p := ports.Patch{}
	setString(p, "name", u.Name)
	setText(p, "nameI18n", u.NameI18n)
	setString(p, "description", u.Description)
	setText(p, "descriptionI18n", u.DescriptionI18n)
	setString(p, "slug", u.Slug)
	if u.Polygon != nil {
		closed := valueobjects.ClosePolygon(*u.Polygon)
		center := valueobjects.CalculateCenter(closed)
		p["polygon"] = valueobjects.EncodePolygon(closed)
		p["center"] = valueobjects.EncodeLatLng(&center)
	}
	setInt(p, "defaultZoom", u.DefaultZoom)
	setString(p, "coverImage", u.CoverImage)
	setString(p, "ambientSound", u.AmbientSound)
	setBool(p, "isVisibleOnMap", u.IsVisibleOnMap)
	setInt(p, "sortOrder", u.SortOrder)
	return p
}

// ZoneSoundFromRecord maps a ZoneSound row.
func ZoneSoundFromRecord(r schema.ZoneSound) *entities.ZoneSound {
	return &entities.ZoneSound{
		ID:        r.ID,
		ZoneID:    r.ZoneID,
		SoundID:   r.SoundID,
		SortOrder: r.SortOrder,
		CreatedAt: utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt: utils.ParseTimestamp(r.UpdatedAt),
	}
}
