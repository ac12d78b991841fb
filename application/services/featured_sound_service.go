package services

import (
	"context"
	"errors"
	"sort"
	"time"

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

// FeaturedSoundService curates the candidate pool and the sound of the day.
type FeaturedSoundService struct {
	candidates ports.Collection[schema.FeaturedSoundCandidate]
	sounds     ports.Collection[schema.Sound]
	slot       pickSlot[schema.DailyFeaturedSound]
	locker     ports.Locker
	publisher  ports.EventPublisher
	validator  *validators.ContentValidator
	cfg        *config.DomainConfig
	clock      utils.Clock
	logger     *zap.Logger
}

// NewFeaturedSoundService creates the service. locker and publisher may be nil.
func NewFeaturedSoundService(
	tables *Tables,
	locker ports.Locker,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *FeaturedSoundService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &FeaturedSoundService{
		candidates: tables.Candidates,
		sounds:     tables.Sounds,
		slot: pickSlot[schema.DailyFeaturedSound]{
			kind:   entities.PickKindFeaturedSound,
			rows:   tables.DailyFeatured,
			index:  schema.IndexByDate,
			active: func(r schema.DailyFeaturedSound) bool { return r.Active },
			id:     func(r schema.DailyFeaturedSound) string { return r.ID },
			retire: deleteRow[schema.DailyFeaturedSound],
		},
		locker:    locker,
		publisher: publisher,
		validator: validators.NewContentValidator(cfg),
		cfg:       cfg,
		clock:     utils.SystemClock,
		logger:    logger,
	}
}

// ListCandidates returns the whole pool ordered by sortOrder.
func (s *FeaturedSoundService) ListCandidates(ctx context.Context) ([]*entities.FeaturedSoundCandidate, error) {
	candidates, err := listAll(ctx, s.cfg, s.candidates, nil, mappers.CandidateFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listCandidates", err)
	}
	sortCandidates(candidates)
	return candidates, nil
}

// ListActiveCandidates returns the candidates eligible for selection.
func (s *FeaturedSoundService) ListActiveCandidates(ctx context.Context) ([]*entities.FeaturedSoundCandidate, error) {
	candidates, err := listAll(ctx, s.cfg, s.candidates, map[string]any{"isActive": true}, mappers.CandidateFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listActiveCandidates", err)
	}
	sortCandidates(candidates)
	return candidates, nil
}

func sortCandidates(candidates []*entities.FeaturedSoundCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].SortOrder < candidates[j].SortOrder
	})
}

// AddCandidate adds a sound to the pool as an active candidate. A sound
// already in the pool returns its existing candidate.
func (s *FeaturedSoundService) AddCandidate(ctx context.Context, candidate *entities.FeaturedSoundCandidate) (*entities.FeaturedSoundCandidate, error) {
	if candidate.SoundID == "" {
		return nil, pkgerrors.NewValidationError("sound id is required")
	}
	if err := s.validator.ValidateLocalizedText("teaserI18n", candidate.TeaserI18n); err != nil {
		return nil, err
	}

	existing, err := queryAll(ctx, s.cfg, s.candidates, schema.IndexBySound, candidate.SoundID, nil, mappers.CandidateFromRecord)
	if err != nil {
		return nil, failed(s.logger, "addCandidate", err)
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	sound, err := s.sounds.Get(ctx, candidate.SoundID)
	if err != nil {
		return nil, failed(s.logger, "addCandidate", err)
	}
	if sound == nil {
		return nil, pkgerrors.NewNotFoundError("sound")
	}

	candidate.IsActive = true
	rec, err := s.candidates.Create(ctx, mappers.CandidateToRecord(candidate))
	if err != nil {
		return nil, failed(s.logger, "addCandidate", err)
	}
	return mappers.CandidateFromRecord(*rec), nil
}

// UpdateCandidate writes only the fields set in update.
func (s *FeaturedSoundService) UpdateCandidate(ctx context.Context, id string, update entities.CandidateUpdate) (*entities.FeaturedSoundCandidate, error) {
	patch := mappers.CandidatePatch(update)
	if patch.IsEmpty() {
		return s.getCandidate(ctx, id)
	}
	rec, err := s.candidates.Update(ctx, id, patch)
	if err != nil {
		return nil, failed(s.logger, "updateCandidate", notFoundOnMissing(err, "candidate"))
	}
	return mappers.CandidateFromRecord(*rec), nil
}

// RemoveCandidate deletes a candidate. Past daily rows keep their snapshot.
func (s *FeaturedSoundService) RemoveCandidate(ctx context.Context, id string) error {
	if err := s.candidates.Delete(ctx, id); err != nil {
		return failed(s.logger, "removeCandidate", notFoundOnMissing(err, "candidate"))
	}
	return nil
}

func (s *FeaturedSoundService) getCandidate(ctx context.Context, id string) (*entities.FeaturedSoundCandidate, error) {
	rec, err := s.candidates.Get(ctx, id)
	if err != nil {
		return nil, failed(s.logger, "getCandidate", err)
	}
	if rec == nil {
		return nil, pkgerrors.NewNotFoundError("candidate")
	}
	return mappers.CandidateFromRecord(*rec), nil
}

// GetTodayFeatured returns the active pick for the calendar day of now.
func (s *FeaturedSoundService) GetTodayFeatured(ctx context.Context, now time.Time) (*entities.DailyFeaturedSound, error) {
	return s.GetFeaturedForDate(ctx, valueobjects.DayKey(now))
}

// GetFeaturedForDate returns the active pick for date, or nil.
func (s *FeaturedSoundService) GetFeaturedForDate(ctx context.Context, date string) (*entities.DailyFeaturedSound, error) {
	if _, err := valueobjects.ParseDayKey(date); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	rec, err := s.slot.current(ctx, s.cfg, date)
	if err != nil {
		return nil, failed(s.logger, "getFeaturedForDate", err)
	}
	if rec == nil {
		return nil, nil
	}
	return mappers.DailyFeaturedFromRecord(*rec), nil
}

// SetDailyFeatured makes candidateID the sound of date. Existing rows for
// the date are deleted and a snapshot of the live sound is stored.
func (s *FeaturedSoundService) SetDailyFeatured(ctx context.Context, date, candidateID string) (*entities.DailyFeaturedSound, error) {
	if _, err := valueobjects.ParseDayKey(date); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}
	candidate, err := s.getCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	soundRec, err := s.sounds.Get(ctx, candidate.SoundID)
	if err != nil {
		return nil, failed(s.logger, "setDailyFeatured", err)
	}
	if soundRec == nil {
		return nil, pkgerrors.NewNotFoundError("sound")
	}
	sound := mappers.SoundFromRecord(*soundRec)

	snapshot := mappers.DailyFeaturedSnapshot(date, candidate, sound)
	rec, retired, err := s.slot.replace(ctx, s.cfg, s.locker, date, snapshot, s.logger)
	if err != nil {
		if errors.Is(err, ports.ErrConditionFailed) {
			err = pkgerrors.NewConflictError("featured sound changed concurrently").WithCause(err)
		}
		return nil, failed(s.logger, "setDailyFeatured", err)
	}

	publish(ctx, s.publisher, s.logger,
		events.NewPickSelected(entities.PickKindFeaturedSound, date, rec.ID, sound.ID, retired, s.clock()))
	return mappers.DailyFeaturedFromRecord(*rec), nil
}

// ListFeaturedHistory returns the most recent daily rows, newest first.
// limit <= 0 uses FeaturedHistoryLimit.
func (s *FeaturedSoundService) ListFeaturedHistory(ctx context.Context, limit int) ([]*entities.DailyFeaturedSound, error) {
	rows, err := listAll(ctx, s.cfg, s.slot.rows, nil, mappers.DailyFeaturedFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listFeaturedHistory", err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })

	if limit <= 0 {
		limit = s.cfg.FeaturedHistoryLimit
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
