package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"ecnelisfly/application/mappers"
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/config"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/domain/events"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/utils"
)

// MonthlyPickService manages the zone of the month and the journey of
// the month. Replaced rows are kept with active=false as history.
type MonthlyPickService struct {
	zones       ports.Collection[schema.Zone]
	journeys    ports.Collection[schema.SoundJourney]
	zoneSlot    pickSlot[schema.MonthlyZone]
	journeySlot pickSlot[schema.MonthlyJourney]
	locker      ports.Locker
	publisher   ports.EventPublisher
	cfg         *config.DomainConfig
	clock       utils.Clock
	logger      *zap.Logger
}

// NewMonthlyPickService creates the service. locker and publisher may be nil.
func NewMonthlyPickService(
	tables *Tables,
	locker ports.Locker,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *MonthlyPickService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &MonthlyPickService{
		zones:    tables.Zones,
		journeys: tables.Journeys,
		zoneSlot: pickSlot[schema.MonthlyZone]{
			kind:   entities.PickKindMonthlyZone,
			rows:   tables.MonthlyZones,
			index:  schema.IndexByMonth,
			active: func(r schema.MonthlyZone) bool { return r.Active },
			id:     func(r schema.MonthlyZone) string { return r.ID },
			retire: deactivateRow[schema.MonthlyZone],
		},
		journeySlot: pickSlot[schema.MonthlyJourney]{
			kind:   entities.PickKindMonthlyJourney,
			rows:   tables.MonthlyJourneys,
			index:  schema.IndexByMonth,
			active: func(r schema.MonthlyJourney) bool { return r.Active },
			id:     func(r schema.MonthlyJourney) string { return r.ID },
			retire: deactivateRow[schema.MonthlyJourney],
		},
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		clock:     utils.SystemClock,
		logger:    logger,
	}
}

func validMonth(month string) error {
	if _, err := valueobjects.ParseMonthKey(month); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// GetCurrentMonthlyZone returns the active zone pick for month, or nil.
func (s *MonthlyPickService) GetCurrentMonthlyZone(ctx context.Context, month string) (*entities.MonthlyZone, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	rec, err := s.zoneSlot.current(ctx, s.cfg, month)
	if err != nil {
		return nil, failed(s.logger, "getCurrentMonthlyZone", err)
	}
	if rec == nil {
		return nil, nil
	}
	return mappers.MonthlyZoneFromRecord(*rec), nil
}

// SetMonthlyZone makes zoneID the zone of month.
func (s *MonthlyPickService) SetMonthlyZone(ctx context.Context, month, zoneID string) (*entities.MonthlyZone, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	zoneRec, err := s.zones.Get(ctx, zoneID)
	if err != nil {
		return nil, failed(s.logger, "setMonthlyZone", err)
	}
	if zoneRec == nil {
		return nil, pkgerrors.NewNotFoundError("zone")
	}

	snapshot := mappers.MonthlyZoneSnapshot(month, mappers.ZoneFromRecord(*zoneRec))
	rec, retired, err := s.zoneSlot.replace(ctx, s.cfg, s.locker, month, snapshot, s.logger)
	if err != nil {
		return nil, failed(s.logger, "setMonthlyZone", err)
	}

	publish(ctx, s.publisher, s.logger,
		events.NewPickSelected(entities.PickKindMonthlyZone, month, rec.ID, zoneID, retired, s.clock()))
	return mappers.MonthlyZoneFromRecord(*rec), nil
}

// ListMonthlyZoneHistory returns every monthly zone row, newest month first.
func (s *MonthlyPickService) ListMonthlyZoneHistory(ctx context.Context) ([]*entities.MonthlyZone, error) {
	rows, err := listAll(ctx, s.cfg, s.zoneSlot.rows, nil, mappers.MonthlyZoneFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listMonthlyZoneHistory", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month > rows[j].Month
		}
		return rows[i].Active && !rows[j].Active
	})
	return rows, nil
}

// GetCurrentMonthlyJourney returns the active journey pick for month, or nil.
func (s *MonthlyPickService) GetCurrentMonthlyJourney(ctx context.Context, month string) (*entities.MonthlyJourney, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	rec, err := s.journeySlot.current(ctx, s.cfg, month)
	if err != nil {
		return nil, failed(s.logger, "getCurrentMonthlyJourney", err)
	}
	if rec == nil {
		return nil, nil
	}
	return mappers.MonthlyJourneyFromRecord(*rec), nil
}

// SetMonthlyJourney makes journeyID the journey of month.
func (s *MonthlyPickService) SetMonthlyJourney(ctx context.Context, month, journeyID string) (*entities.MonthlyJourney, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}
	journeyRec, err := s.journeys.Get(ctx, journeyID)
	if err != nil {
		return nil, failed(s.logger, "setMonthlyJourney", err)
	}
	if journeyRec == nil {
		return nil, pkgerrors.NewNotFoundError("journey")
	}

	snapshot := mappers.MonthlyJourneySnapshot(month, mappers.JourneyFromRecord(*journeyRec))
	rec, retired, err := s.journeySlot.replace(ctx, s.cfg, s.locker, month, snapshot, s.logger)
	if err != nil {
		return nil, failed(s.logger, "setMonthlyJourney", err)
	}

	publish(ctx, s.publisher, s.logger,
		events.NewPickSelected(entities.PickKindMonthlyJourney, month, rec.ID, journeyID, retired, s.clock()))
	return mappers.MonthlyJourneyFromRecord(*rec), nil
}

// ListMonthlyJourneyHistory returns every monthly journey row, newest month first.
func (s *MonthlyPickService) ListMonthlyJourneyHistory(ctx context.Context) ([]*entities.MonthlyJourney, error) {
	rows, err := listAll(ctx, s.cfg, s.journeySlot.rows, nil, mappers.MonthlyJourneyFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listMonthlyJourneyHistory", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Month != rows[j].Month {
			return rows[i].Month > rows[j].Month
		}
		return rows[i].Active && !rows[j].Active
	})
	return rows, nil
}
