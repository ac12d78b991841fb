package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ecnelisfly/application/services"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	pkgerrors "ecnelisfly/pkg/errors"
)

// ZoneHandler handles zone-related HTTP requests
type ZoneHandler struct {
	base
	zones  *services.ZoneService
	sounds *services.SoundService
}

// NewZoneHandler creates a new zone handler
func NewZoneHandler(zones *services.ZoneService, sounds *services.SoundService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ZoneHandler {
	return &ZoneHandler{
		base:   newBase(errs, logger),
		zones:  zones,
		sounds: sounds,
	}
}

// CreateZoneRequest is the body of POST /zones. A blank slug is derived
// from the name.
type CreateZoneRequest struct {
	Name            string                     `json:"name" validate:"required,min=1,max=200"`
	NameI18n        valueobjects.LocalizedText `json:"nameI18n,omitempty"`
	Description     string                     `json:"description"`
	DescriptionI18n valueobjects.LocalizedText `json:"descriptionI18n,omitempty"`
	Slug            string                     `json:"slug,omitempty" validate:"omitempty,slug"`
	Polygon         *valueobjects.Polygon      `json:"polygon" validate:"required"`
	DefaultZoom     int                        `json:"defaultZoom,omitempty" validate:"omitempty,min=1,max=20"`
	CoverImage      string                     `json:"coverImage"`
	AmbientSound    string                     `json:"ambientSound"`
	IsVisibleOnMap  bool                       `json:"isVisibleOnMap"`
	SortOrder       int                        `json:"sortOrder"`
}

func (req CreateZoneRequest) toEntity() *entities.Zone {
	return &entities.Zone{
		Name:            req.Name,
		NameI18n:        req.NameI18n,
		Description:     req.Description,
		DescriptionI18n: req.DescriptionI18n,
		Slug:            req.Slug,
		Polygon:         req.Polygon,
		DefaultZoom:     req.DefaultZoom,
		CoverImage:      req.CoverImage,
		AmbientSound:    req.AmbientSound,
		IsVisibleOnMap:  req.IsVisibleOnMap,
		SortOrder:       req.SortOrder,
	}
}

// ZoneSoundRequest is the body of POST /zones/{zoneID}/sounds
type ZoneSoundRequest struct {
	SoundID string `json:"soundId" validate:"required"`
}

// ZoneOrderRequest is the body of PUT /zones/{zoneID}/sounds/order
type ZoneOrderRequest struct {
	SoundIDs []string `json:"soundIds" validate:"required,dive,required"`
}

// ListZones handles GET /zones (zones shown on the map)
func (h *ZoneHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.zones.ListPublicZones(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, zones)
}

// ListAllZones handles GET /admin/zones
func (h *ZoneHandler) ListAllZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.zones.ListZones(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, zones)
}

// FindZonesAt handles GET /zones/at?lat=&lng=
func (h *ZoneHandler) FindZonesAt(w http.ResponseWriter, r *http.Request) {
	lat, err := floatQuery(r, "lat")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	lng, err := floatQuery(r, "lng")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	zones, err := h.zones.FindZonesContainingPoint(r.Context(), lat, lng)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, zones)
}

// GetZone handles GET /zones/{zoneID}
func (h *ZoneHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	zone, err := h.zones.GetZoneByID(r.Context(), param(r, "zoneID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, zone)
}

// GetZoneBySlug handles GET /zones/slug/{slug}
func (h *ZoneHandler) GetZoneBySlug(w http.ResponseWriter, r *http.Request) {
	zone, err := h.zones.GetZoneBySlug(r.Context(), param(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, zone)
}

// ListZoneSounds handles GET /zones/{zoneID}/sounds (published sounds, in
// zone order)
func (h *ZoneHandler) ListZoneSounds(w http.ResponseWriter, r *http.Request) {
	sounds, err := h.sounds.ListSoundsByZone(r.Context(), param(r, "zoneID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, sounds)
}

// ListZoneEntries handles GET /zones/{zoneID}/entries (raw associations)
func (h *ZoneHandler) ListZoneEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.zones.ListZoneSounds(r.Context(), param(r, "zoneID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, entries)
}

// CreateZone handles POST /zones
func (h *ZoneHandler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req CreateZoneRequest
	if !h.decode(w, r, &req) {
		return
	}
	zone, err := h.zones.CreateZone(r.Context(), req.toEntity())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, zone)
}

// UpdateZone handles PATCH /zones/{zoneID}
func (h *ZoneHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	var update entities.ZoneUpdate
	if !h.decode(w, r, &update) {
		return
	}
	zone, err := h.zones.UpdateZone(r.Context(), param(r, "zoneID"), update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, zone)
}

// DeleteZone handles DELETE /zones/{zoneID}
func (h *ZoneHandler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	if err := h.zones.DeleteZone(r.Context(), param(r, "zoneID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}

// AddSound handles POST /zones/{zoneID}/sounds
func (h *ZoneHandler) AddSound(w http.ResponseWriter, r *http.Request) {
	var req ZoneSoundRequest
	if !h.decode(w, r, &req) {
		return
	}
	entry, err := h.zones.AddSoundToZone(r.Context(), param(r, "zoneID"), req.SoundID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, entry)
}

// RemoveSound handles DELETE /zones/{zoneID}/sounds/{soundID}
func (h *ZoneHandler) RemoveSound(w http.ResponseWriter, r *http.Request) {
	if err := h.zones.RemoveSoundFromZone(r.Context(), param(r, "zoneID"), param(r, "soundID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}

// ReorderSounds handles PUT /zones/{zoneID}/sounds/order
func (h *ZoneHandler) ReorderSounds(w http.ResponseWriter, r *http.Request) {
	var req ZoneOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	entries, err := h.zones.UpdateZoneSoundsOrder(r.Context(), param(r, "zoneID"), req.SoundIDs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, entries)
}
