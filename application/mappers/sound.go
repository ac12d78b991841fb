// Package mappers converts raw records to domain entities and back. Every
// FromRecord function is pure and total: missing optional fields get
// defaults and malformed JSON columns decode to nil.
package mappers

import (
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/infrastructure/persistence/schema"
	"ecnelisfly/pkg/utils"
)

// SoundFromRecord maps a Sound row.
func SoundFromRecord(r schema.Sound) *entities.Sound {
	status, err := valueobjects.ParseSoundStatus(r.Status)
	if err != nil {
		status = valueobjects.SoundStatusPrivate
	}
	hashtags := r.Hashtags
	if hashtags == nil {
		hashtags = []string{}
	}
	return &entities.Sound{
		ID:                r.ID,
		UserID:            r.UserID,
		Title:             r.Title,
		TitleI18n:         valueobjects.DecodeLocalizedText(r.TitleI18n),
		ShortStory:        r.ShortStory,
		ShortStoryI18n:    valueobjects.DecodeLocalizedText(r.ShortStoryI18n),
		Filename:          r.Filename,
		Status:            status,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		City:              r.City,
		Category:          r.Category,
		SecondaryCategory: r.SecondaryCategory,
		DateTime:          utils.ParseTimestamp(r.DateTime),
		RecordDateTime:    utils.ParseTimestamp(r.RecordDateTime),
		Equipment:         r.Equipment,
		License:           r.License,
		URL:               r.URL,
		URLTitle:          r.URLTitle,
		SecondaryURL:      r.SecondaryURL,
		SecondaryURLTitle: r.SecondaryURLTitle,
		Hashtags:          hashtags,
		Likes:             r.Likes,
		CreatedAt:         utils.ParseTimestamp(r.CreatedAt),
		UpdatedAt:         utils.ParseTimestamp(r.UpdatedAt),
	}
}

// SoundToRecord encodes a sound for a create call. Timestamps are left to
// the collection.
func SoundToRecord(s *entities.Sound) schema.Sound {
	status := s.Status
	if status == "" {
		status = valueobjects.SoundStatusPrivate
	}
	return schema.Sound{
		ID:                s.ID,
		UserID:            s.UserID,
		Title:             s.Title,
		TitleI18n:         valueobjects.EncodeLocalizedText(s.TitleI18n),
		ShortStory:        s.ShortStory,
		ShortStoryI18n:    valueobjects.EncodeLocalizedText(s.ShortStoryI18n),
		Filename:          s.Filename,
		Status:            string(status),
		Latitude:          s.Latitude,
		Longitude:         s.Longitude,
		City:              s.City,
		Category:          s.Category,
		SecondaryCategory: s.SecondaryCategory,
		DateTime:          utils.FormatTimestamp(s.DateTime),
		RecordDateTime:    utils.FormatTimestamp(s.RecordDateTime),
		Equipment:         s.Equipment,
		License:           s.License,
		URL:               s.URL,
		URLTitle:          s.URLTitle,
		SecondaryURL:      s.SecondaryURL,
		SecondaryURLTitle: s.SecondaryURLTitle,
		Hashtags:          s.Hashtags,
		Likes:             s.Likes,
	}
}

// SoundPatch turns a sparse update into a patch holding only the fields
// the caller set.
func SoundPatch(u entities.SoundUpdate) ports.Patch {
	p := ports.Patch{}
	setString(p, "title", u.Title)
	setText(p, "titleI18n", u.TitleI18n)
	setString(p, "shortStory", u.ShortStory)
	setText(p, "shortStoryI18n", u.ShortStoryI18n)
	setString(p, "filename", u.Filename)
	if u.Latitude != nil {
		p["latitude"] = *u.Latitude
	}
	if u.Longitude != nil {
		p["longitude"] = *u.Longitude
	}
	setString(p, "city", u.City)
	setString(p, "category", u.Category)
	setString(p, "secondaryCategory", u.SecondaryCategory)
	if u.DateTime != nil {
		p["dateTime"] = utils.FormatTimestamp(u.DateTime)
	}
	if u.RecordDateTime != nil {
		p["recordDateTime"] = utils.FormatTimestamp(u.RecordDateTime)
	}
	setString(p, "equipment", u.Equipment)
	setString(p, "license", u.License)
	setString(p, "url", u.URL)
	setString(p, "urlTitle", u.URLTitle)
	setString(p, "secondaryUrl", u.SecondaryURL)
	setString(p, "secondaryUrlTitle", u.SecondaryURLTitle)
	if u.Hashtags != nil {
		if len(*u.Hashtags) == 0 {
			p["hashtags"] = nil
		} else {
			p["hashtags"] = *u.Hashtags
		}
	}
	return p
}

func setString(p ports.Patch, key string, v *string) {
	if v != nil {
		p[key] = *v
	}
}

func setInt(p ports.Patch, key string, v *int) {
	if v != nil {
		p[key] = *v
	}
}

func setBool(p ports.Patch, key string, v *bool) {
	if v != nil {
		p[key] = *v
	}
}

// setText writes an encoded translation map; an empty map removes the column.
func setText(p ports.Patch, key string, v *valueobjects.LocalizedText) {
	if v == nil {
		return
	}
	if encoded := valueobjects.EncodeLocalizedText(*v); encoded != "" {
		p[key] = encoded
	} else {
		p[key] = nil
	}
}
