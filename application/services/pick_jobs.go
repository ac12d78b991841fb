package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
)

// PickResult describes one scheduled pick run.
type PickResult struct {
	Kind      entities.PickKind `json:"kind"`
	PeriodKey string            `json:"periodKey"`
	PickID    string            `json:"pickId,omitempty"`
	SourceID  string            `json:"sourceId,omitempty"`
	Skipped   bool              `json:"skipped"`
	Reason    string            `json:"reason,omitempty"`
}

// PickJobs runs the scheduled "pick one" selections.
type PickJobs struct {
	featured *FeaturedSoundService
	monthly  *MonthlyPickService
	zones    *ZoneService
	journeys *JourneyService
	metrics  ports.MetricsReporter
	logger   *zap.Logger
}

// NewPickJobs creates the job runner. metrics may be nil.
func NewPickJobs(
	featured *FeaturedSoundService,
	monthly *MonthlyPickService,
	zones *ZoneService,
	journeys *JourneyService,
	metrics ports.MetricsReporter,
	logger *zap.Logger,
) *PickJobs {
	return &PickJobs{
		featured: featured,
		monthly:  monthly,
		zones:    zones,
		journeys: journeys,
		metrics:  metrics,
		logger:   logger,
	}
}

// SelectIndex picks among ids sorted ascending: position ordinal mod n,
// moved one step forward when it would repeat previous and another id is
// available. It returns -1 for an empty slice.
func SelectIndex(ids []string, ordinal int, previous string) int {
	n := len(ids)
	if n == 0 {
		return -1
	}
	idx := ordinal % n
	if idx < 0 {
		idx += n
	}
	if n > 1 && ids[idx] == previous {
		idx = (idx + 1) % n
	}
	return idx
}

func choose(ids []string, ordinal int, previous string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	idx := SelectIndex(sorted, ordinal, previous)
	if idx < 0 {
		return ""
	}
	return sorted[idx]
}

// RunFeatured selects the featured sound of the day of now. An existing
// pick for the day is kept unless force is set.
func (j *PickJobs) RunFeatured(ctx context.Context, now time.Time, force bool) (*PickResult, error) {
	date := valueobjects.DayKey(now)
	result := &PickResult{Kind: entities.PickKindFeaturedSound, PeriodKey: date}

	if !force {
		existing, err := j.featured.GetFeaturedForDate(ctx, date)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return j.skip(ctx, result, "already picked"), nil
		}
	}

	candidates, err := j.featured.ListActiveCandidates(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	previous := ""
	if prev, err := j.featured.GetFeaturedForDate(ctx, valueobjects.PreviousDayKey(now)); err != nil {
		j.logger.Warn("Previous featured sound unavailable", zap.Error(err))
	} else if prev != nil {
		previous = prev.CandidateID
	}

	chosen := choose(ids, valueobjects.DayOrdinal(now), previous)
	if chosen == "" {
		return j.skip(ctx, result, "no eligible candidate"), nil
	}

	pick, err := j.featured.SetDailyFeatured(ctx, date, chosen)
	if err != nil {
		return nil, err
	}
	result.PickID, result.SourceID = pick.ID, pick.SoundID
	return j.done(ctx, result), nil
}

// RunMonthlyZone selects the zone of the month of now among the zones
// shown on the map.
func (j *PickJobs) RunMonthlyZone(ctx context.Context, now time.Time, force bool) (*PickResult, error) {
	month := valueobjects.MonthKey(now)
	result := &PickResult{Kind: entities.PickKindMonthlyZone, PeriodKey: month}

	if !force {
		existing, err := j.monthly.GetCurrentMonthlyZone(ctx, month)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return j.skip(ctx, result, "already picked"), nil
		}
	}

	zones, err := j.zones.ListPublicZones(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(zones))
	for _, z := range zones {
		ids = append(ids, z.ID)
	}

	previous := ""
	if prev, err := j.monthly.GetCurrentMonthlyZone(ctx, valueobjects.PreviousMonthKey(now)); err != nil {
		j.logger.Warn("Previous monthly zone unavailable", zap.Error(err))
	} else if prev != nil {
		previous = prev.ZoneID
	}

	chosen := choose(ids, valueobjects.MonthOrdinal(now), previous)
	if chosen == "" {
		return j.skip(ctx, result, "no eligible zone"), nil
	}

	pick, err := j.monthly.SetMonthlyZone(ctx, month, chosen)
	if err != nil {
		return nil, err
	}
	result.PickID, result.SourceID = pick.ID, pick.ZoneID
	return j.done(ctx, result), nil
}

// RunMonthlyJourney selects the journey of the month of now among the
// public journeys.
func (j *PickJobs) RunMonthlyJourney(ctx context.Context, now time.Time, force bool) (*PickResult, error) {
	month := valueobjects.MonthKey(now)
	result := &PickResult{Kind: entities.PickKindMonthlyJourney, PeriodKey: month}

	if !force {
		existing, err := j.monthly.GetCurrentMonthlyJourney(ctx, month)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return j.skip(ctx, result, "already picked"), nil
		}
	}

	journeys, err := j.journeys.ListPublicJourneys(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(journeys))
	for _, jr := range journeys {
		ids = append(ids, jr.ID)
	}

	previous := ""
	if prev, err := j.monthly.GetCurrentMonthlyJourney(ctx, valueobjects.PreviousMonthKey(now)); err != nil {
		j.logger.Warn("Previous monthly journey unavailable", zap.Error(err))
	} else if prev != nil {
		previous = prev.JourneyID
	}

	chosen := choose(ids, valueobjects.MonthOrdinal(now), previous)
	if chosen == "" {
		return j.skip(ctx, result, "no eligible journey"), nil
	}

	pick, err := j.monthly.SetMonthlyJourney(ctx, month, chosen)
	if err != nil {
		return nil, err
	}
	result.PickID, result.SourceID = pick.ID, pick.JourneyID
	return j.done(ctx, result), nil
}

func (j *PickJobs) skip(ctx context.Context, result *PickResult, reason string) *PickResult {
	result.Skipped = true
	result.Reason = reason
	j.logger.Info("Pick skipped",
		zap.String("kind", string(result.Kind)),
		zap.String("periodKey", result.PeriodKey),
		zap.String("reason", reason),
	)
	j.record(ctx, result.Kind, false)
	return result
}

func (j *PickJobs) done(ctx context.Context, result *PickResult) *PickResult {
	j.record(ctx, result.Kind, true)
	return result
}

func (j *PickJobs) record(ctx context.Context, kind entities.PickKind, selected bool) {
	if j.metrics == nil {
		return
	}
	if err := j.metrics.RecordPick(ctx, kind, selected); err != nil {
		j.logger.Warn("Failed to record pick metric", zap.String("kind", string(kind)), zap.Error(err))
	}
}
