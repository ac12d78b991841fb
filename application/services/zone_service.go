package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"ecnelisfly/application/mappers"
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/config"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/validators"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/domain/events"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/utils"
)

// ZoneService manages zones and their sound associations.
type ZoneService struct {
	zones      ports.Collection[schema.Zone]
	zoneSounds ports.Collection[schema.ZoneSound]
	publisher  ports.EventPublisher
	validator  *validators.ContentValidator
	cfg        *config.DomainConfig
	clock      utils.Clock
	logger     *zap.Logger
}

// NewZoneService creates a zone service. publisher may be nil.
func NewZoneService(tables *Tables, publisher ports.EventPublisher, cfg *config.DomainConfig, logger *zap.Logger) *ZoneService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ZoneService{
		zones:      tables.Zones,
		zoneSounds: tables.ZoneSounds,
		publisher:  publisher,
		validator:  validators.NewContentValidator(cfg),
		cfg:        cfg,
		clock:      utils.SystemClock,
		logger:     logger,
	}
}

// ListZones returns every zone ordered by sortOrder, then name.
func (s *ZoneService) ListZones(ctx context.Context) ([]*entities.Zone, error) {
	zones, err := listAll(ctx, s.cfg, s.zones, nil, mappers.ZoneFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listZones", err)
	}
	sortZones(zones)
	return zones, nil
}

// ListPublicZones returns the zones shown on the map.
func (s *ZoneService) ListPublicZones(ctx context.Context) ([]*entities.Zone, error) {
	zones, err := listAll(ctx, s.cfg, s.zones, map[string]any{"isVisibleOnMap": true}, mappers.ZoneFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listPublicZones", err)
	}
	sortZones(zones)
	return zones, nil
}

func sortZones(zones []*entities.Zone) {
	sort.SliceStable(zones, func(i, j int) bool {
		if zones[i].SortOrder != zones[j].SortOrder {
			return zones[i].SortOrder < zones[j].SortOrder
		}
		return strings.ToLower(zones[i].Name) < strings.ToLower(zones[j].Name)
	})
}

// GetZoneByID returns one zone or a not-found error.
func (s *ZoneService) GetZoneByID(ctx context.Context, id string) (*entities.Zone, error) {
	rec, err := s.zones.Get(ctx, id)
	if err != nil {
		return nil, failed(s.logger, "getZone", err)
	}
	if rec == nil {
		return nil, pkgerrors.NewNotFoundError("zone")
	}
	return mappers.ZoneFromRecord(*rec), nil
}

// GetZoneBySlug looks a zone up through the slug index.
func (s *ZoneService) GetZoneBySlug(ctx context.Context, slug string) (*entities.Zone, error) {
	zone, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, failed(s.logger, "getZoneBySlug", err)
	}
	if zone == nil {
		return nil, pkgerrors.NewNotFoundError("zone")
	}
	return zone, nil
}

func (s *ZoneService) findBySlug(ctx context.Context, slug string) (*entities.Zone, error) {
	zones, err := queryAll(ctx, s.cfg, s.zones, schema.IndexBySlug, slug, nil, mappers.ZoneFromRecord)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, nil
	}
	return zones[0], nil
}

func (s *ZoneService) ensureSlugFree(ctx context.Context, slug, selfID string) error {
	existing, err := s.findBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return pkgerrors.NewConflictError("zone slug already in use").
			WithDetails(map[string]interface{}{"slug": slug})
	}
	return nil
}

// CreateZone validates and closes the polygon, computes the center and
// stores the zone. A missing slug is derived from the name.
func (s *ZoneService) CreateZone(ctx context.Context, zone *entities.Zone) (*entities.Zone, error) {
	if zone.Slug == "" {
		zone.Slug = utils.Slugify(zone.Name)
	}
	if !utils.IsSlug(zone.Slug) {
		return nil, pkgerrors.NewFieldError("slug", "invalid slug")
	}
	if zone.DefaultZoom == 0 {
		zone.DefaultZoom = s.cfg.DefaultZoneZoom
	}
	if err := s.validator.ValidateZone(zone); err != nil {
		return nil, err
	}

	closed := valueobjects.ClosePolygon(*zone.Polygon)
	center := valueobjects.CalculateCenter(closed)
	zone.Polygon = &closed
	zone.Center = &center

	if err := s.ensureSlugFree(ctx, zone.Slug, ""); err != nil {
		return nil, failed(s.logger, "createZone", err)
	}

	rec, err := s.zones.Create(ctx, mappers.ZoneToRecord(zone))
	if err != nil {
		if errors.Is(err, ports.ErrConditionFailed) {
			return nil, pkgerrors.NewConflictError("zone already exists")
		}
		return nil, failed(s.logger, "createZone", err)
	}

	s.logger.Info("Zone created", zap.String("zoneID", rec.ID), zap.String("slug", rec.Slug))
	return mappers.ZoneFromRecord(*rec), nil
}

// UpdateZone writes only the fields set in update. The center is
// recomputed only when a polygon is part of the update.
func (s *ZoneService) UpdateZone(ctx context.Context, id string, update entities.ZoneUpdate) (*entities.Zone, error) {
	if err := utils.ValidateStruct(update); err != nil {
		return nil, err
	}
	if update.Polygon != nil {
		if err := update.Polygon.Validate(); err != nil {
			return nil, err
		}
	}
	if update.Slug != nil {
		if err := s.ensureSlugFree(ctx, *update.Slug, id); err != nil {
			return nil, failed(s.logger, "updateZone", err)
		}
	}

	patch := mappers.ZonePatch(update)
	if patch.IsEmpty() {
		return s.GetZoneByID(ctx, id)
	}

	rec, err := s.zones.Update(ctx, id, patch)
	if err != nil {
		return nil, failed(s.logger, "updateZone", notFoundOnMissing(err, "zone"))
	}
	return mappers.ZoneFromRecord(*rec), nil
}

// DeleteZone removes every association of the zone, then the zone.
// The two steps are not atomic: a failure between them leaves a zone
// without sounds.
func (s *ZoneService) DeleteZone(ctx context.Context, id string) error {
	links, err := s.ListZoneSounds(ctx, id)
	if err != nil {
		return err
	}
	for _, link := range links {
		if err := s.zoneSounds.Delete(ctx, link.ID); err != nil && !errors.Is(err, ports.ErrConditionFailed) {
			return failed(s.logger, "deleteZone", err)
		}
	}

	if err := s.zones.Delete(ctx, id); err != nil {
		return failed(s.logger, "deleteZone", notFoundOnMissing(err, "zone"))
	}

	publish(ctx, s.publisher, s.logger, events.NewZoneDeleted(id, len(links), s.clock()))
	s.logger.Info("Zone deleted", zap.String("zoneID", id), zap.Int("removedSounds", len(links)))
	return nil
}

// ListZoneSounds returns the associations of a zone by sortOrder.
func (s *ZoneService) ListZoneSounds(ctx context.Context, zoneID string) ([]*entities.ZoneSound, error) {
	links, err := queryAll(ctx, s.cfg, s.zoneSounds, schema.IndexByZone, zoneID, nil, mappers.ZoneSoundFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listZoneSounds", err)
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].SortOrder < links[j].SortOrder })
	return links, nil
}

// AddSoundToZone links a sound at the end of the zone. Linking a sound
// twice returns the existing association.
func (s *ZoneService) AddSoundToZone(ctx context.Context, zoneID, soundID string) (*entities.ZoneSound, error) {
	if zoneID == "" || soundID == "" {
		return nil, pkgerrors.NewValidationError("zone id and sound id are required")
	}
	links, err := s.ListZoneSounds(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		if link.SoundID == soundID {
			return link, nil
		}
	}

	last := 0
	for _, link := range links {
		last = max(last, link.SortOrder)
	}
	rec, err := s.zoneSounds.Create(ctx, schema.ZoneSound{
		ZoneID:    zoneID,
		SoundID:   soundID,
		SortOrder: last + 1,
	})
	if err != nil {
		return nil, failed(s.logger, "addSoundToZone", err)
	}
	return mappers.ZoneSoundFromRecord(*rec), nil
}

// RemoveSoundFromZone deletes the association of soundID with zoneID and
// closes the gap so the remaining sortOrders stay 1..N.
func (s *ZoneService) RemoveSoundFromZone(ctx context.Context, zoneID, soundID string) error {
	links, err := s.ListZoneSounds(ctx, zoneID)
	if err != nil {
		return err
	}
	for i, link := range links {
		if link.SoundID != soundID {
			continue
		}
		if err := s.zoneSounds.Delete(ctx, link.ID); err != nil {
			return failed(s.logger, "removeSoundFromZone", notFoundOnMissing(err, "zone sound"))
		}
		remaining := append(links[:i:i], links[i+1:]...)
		_, err := s.renumberLinks(ctx, remaining, "removeSoundFromZone")
		return err
	}
	return pkgerrors.NewNotFoundError("zone sound")
}

// UpdateZoneSoundsOrder renumbers the associations so that soundIDs come
// first, in the given order. Unlisted associations keep their relative
// order after them. Only rows whose position changes are written.
func (s *ZoneService) UpdateZoneSoundsOrder(ctx context.Context, zoneID string, soundIDs []string) ([]*entities.ZoneSound, error) {
	links, err := s.ListZoneSounds(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	rank := make(map[string]int, len(soundIDs))
	for i, id := range soundIDs {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	sort.SliceStable(links, func(i, j int) bool {
		ri, iok := rank[links[i].SoundID]
		rj, jok := rank[links[j].SoundID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return false
		}
	})

	return s.renumberLinks(ctx, links, "updateZoneSoundsOrder")
}

// renumberLinks writes sortOrder i+1 to the i-th link where it differs.
func (s *ZoneService) renumberLinks(ctx context.Context, links []*entities.ZoneSound, op string) ([]*entities.ZoneSound, error) {
	for i, link := range links {
		order := i + 1
		if link.SortOrder == order {
			continue
		}
		if _, err := s.zoneSounds.Update(ctx, link.ID, ports.Patch{"sortOrder": order}); err != nil {
			return nil, failed(s.logger, op, notFoundOnMissing(err, "zone sound"))
		}
		link.SortOrder = order
	}
	return links, nil
}

// FindZonesContainingPoint returns the zones whose polygon contains the point.
func (s *ZoneService) FindZonesContainingPoint(ctx context.Context, lat, lng float64) ([]*entities.Zone, error) {
	if err := s.validator.ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	zones, err := s.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]*entities.Zone, 0)
	for _, zone := range zones {
		if zone.Contains(lat, lng) {
			matches = append(matches, zone)
		}
	}
	return matches, nil
}
