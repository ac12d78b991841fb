package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"ecnelisfly/application/mappers"
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/config"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/validators"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/utils"
)

// JourneyService manages sound journeys and their ordered steps.
// Step orders of a journey are kept dense, 1..N.
type JourneyService struct {
	journeys  ports.Collection[schema.SoundJourney]
	steps     ports.Collection[schema.SoundJourneyStep]
	validator *validators.ContentValidator
	cfg       *config.DomainConfig
	logger    *zap.Logger
}

// NewJourneyService creates a journey service.
func NewJourneyService(tables *Tables, cfg *config.DomainConfig, logger *zap.Logger) *JourneyService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &JourneyService{
		journeys:  tables.Journeys,
		steps:     tables.Steps,
		validator: validators.NewContentValidator(cfg),
		cfg:       cfg,
		logger:    logger,
	}
}

// ListJourneys returns every journey ordered by sortOrder, then name.
func (s *JourneyService) ListJourneys(ctx context.Context) ([]*entities.SoundJourney, error) {
	journeys, err := listAll(ctx, s.cfg, s.journeys, nil, mappers.JourneyFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listJourneys", err)
	}
	sortJourneys(journeys)
	return journeys, nil
}

// ListPublicJourneys returns the published journeys.
func (s *JourneyService) ListPublicJourneys(ctx context.Context) ([]*entities.SoundJourney, error) {
	journeys, err := listAll(ctx, s.cfg, s.journeys, map[string]any{"isPublic": true}, mappers.JourneyFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listPublicJourneys", err)
	}
	sortJourneys(journeys)
	return journeys, nil
}

func sortJourneys(journeys []*entities.SoundJourney) {
	sort.SliceStable(journeys, func(i, j int) bool {
		if journeys[i].SortOrder != journeys[j].SortOrder {
			return journeys[i].SortOrder < journeys[j].SortOrder
		}
		return strings.ToLower(journeys[i].Name) < strings.ToLower(journeys[j].Name)
	})
}

// GetJourneyByID returns one journey or a not-found error.
func (s *JourneyService) GetJourneyByID(ctx context.Context, id string) (*entities.SoundJourney, error) {
	rec, err := s.journeys.Get(ctx, id)
	if err != nil {
		return nil, failed(s.logger, "getJourney", err)
	}
	if rec == nil {
		return nil, pkgerrors.NewNotFoundError("journey")
	}
	return mappers.JourneyFromRecord(*rec), nil
}

// GetJourneyBySlug looks a journey up through the slug index.
func (s *JourneyService) GetJourneyBySlug(ctx context.Context, slug string) (*entities.SoundJourney, error) {
	journey, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, failed(s.logger, "getJourneyBySlug", err)
	}
	if journey == nil {
		return nil, pkgerrors.NewNotFoundError("journey")
	}
	return journey, nil
}

func (s *JourneyService) findBySlug(ctx context.Context, slug string) (*entities.SoundJourney, error) {
	journeys, err := queryAll(ctx, s.cfg, s.journeys, schema.IndexBySlug, slug, nil, mappers.JourneyFromRecord)
	if err != nil || len(journeys) == 0 {
		return nil, err
	}
	return journeys[0], nil
}

// CreateJourney stores a new journey. A missing slug is derived from the name.
func (s *JourneyService) CreateJourney(ctx context.Context, journey *entities.SoundJourney) (*entities.SoundJourney, error) {
	if journey.Slug == "" {
		journey.Slug = utils.Slugify(journey.Name)
	}
	if !utils.IsSlug(journey.Slug) {
		return nil, pkgerrors.NewFieldError("slug", "invalid slug")
	}
	if err := s.validator.ValidateJourney(journey); err != nil {
		return nil, err
	}

	existing, err := s.findBySlug(ctx, journey.Slug)
	if err != nil {
		return nil, failed(s.logger, "createJourney", err)
	}
	if existing != nil {
		return nil, pkgerrors.NewConflictError("journey slug already in use").
			WithDetails(map[string]interface{}{"slug": journey.Slug})
	}

	rec, err := s.journeys.Create(ctx, mappers.JourneyToRecord(journey))
	if err != nil {
		if errors.Is(err, ports.ErrConditionFailed) {
			return nil, pkgerrors.NewConflictError("journey already exists")
		}
		return nil, failed(s.logger, "createJourney", err)
	}
	s.logger.Info("Journey created", zap.String("journeyID", rec.ID), zap.String("slug", rec.Slug))
	return mappers.JourneyFromRecord(*rec), nil
}

// UpdateJourney writes only the fields set in update.
func (s *JourneyService) UpdateJourney(ctx context.Context, id string, update entities.JourneyUpdate) (*entities.SoundJourney, error) {
	if err := utils.ValidateStruct(update); err != nil {
		return nil, err
	}
	if update.Slug != nil {
		existing, err := s.findBySlug(ctx, *update.Slug)
		if err != nil {
			return nil, failed(s.logger, "updateJourney", err)
		}
		if existing != nil && existing.ID != id {
			return nil, pkgerrors.NewConflictError("journey slug already in use")
		}
	}

	patch := mappers.JourneyPatch(update)
	if patch.IsEmpty() {
		return s.GetJourneyByID(ctx, id)
	}
	rec, err := s.journeys.Update(ctx, id, patch)
	if err != nil {
		return nil, failed(s.logger, "updateJourney", notFoundOnMissing(err, "journey"))
	}
	return mappers.JourneyFromRecord(*rec), nil
}

// DeleteJourney removes every step of the journey, then the journey.
func (s *JourneyService) DeleteJourney(ctx context.Context, id string) error {
	steps, err := s.ListStepsByJourney(ctx, id)
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := s.steps.Delete(ctx, step.ID); err != nil && !errors.Is(err, ports.ErrConditionFailed) {
			return failed(s.logger, "deleteJourney", err)
		}
	}
	if err := s.journeys.Delete(ctx, id); err != nil {
		return failed(s.logger, "deleteJourney", notFoundOnMissing(err, "journey"))
	}
	s.logger.Info("Journey deleted", zap.String("journeyID", id), zap.Int("removedSteps", len(steps)))
	return nil
}

// ListStepsByJourney returns the steps by stepOrder. A journey without
// steps yields an empty slice.
func (s *JourneyService) ListStepsByJourney(ctx context.Context, journeyID string) ([]*entities.SoundJourneyStep, error) {
	steps, err := queryAll(ctx, s.cfg, s.steps, schema.IndexByJourney, journeyID, nil, mappers.StepFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listStepsByJourney", err)
	}
	if steps == nil {
		steps = []*entities.SoundJourneyStep{}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })
	return steps, nil
}

// AddStepToJourney appends a sound to the journey. When the sound is
// already a step, that step is returned unchanged.
func (s *JourneyService) AddStepToJourney(ctx context.Context, step *entities.SoundJourneyStep) (*entities.SoundJourneyStep, error) {
	if step.JourneyID == "" || step.SoundID == "" {
		return nil, pkgerrors.NewValidationError("journey id and sound id are required")
	}
	if err := s.validator.ValidateLocalizedText("themeTextI18n", step.ThemeTextI18n); err != nil {
		return nil, err
	}

	steps, err := s.ListStepsByJourney(ctx, step.JourneyID)
	if err != nil {
		return nil, err
	}
	for _, existing := range steps {
		if existing.SoundID == step.SoundID {
			return existing, nil
		}
	}

	step.StepOrder = len(steps) + 1
	rec, err := s.steps.Create(ctx, mappers.StepToRecord(step))
	if err != nil {
		return nil, failed(s.logger, "addStepToJourney", err)
	}
	return mappers.StepFromRecord(*rec), nil
}

// UpdateStep writes only the narrative fields set in update.
func (s *JourneyService) UpdateStep(ctx context.Context, stepID string, update entities.StepUpdate) (*entities.SoundJourneyStep, error) {
	patch := mappers.StepPatch(update)
	if patch.IsEmpty() {
		rec, err := s.steps.Get(ctx, stepID)
		if err != nil {
			return nil, failed(s.logger, "updateStep", err)
		}
		if rec == nil {
			return nil, pkgerrors.NewNotFoundError("journey step")
		}
		return mappers.StepFromRecord(*rec), nil
	}
	rec, err := s.steps.Update(ctx, stepID, patch)
	if err != nil {
		return nil, failed(s.logger, "updateStep", notFoundOnMissing(err, "journey step"))
	}
	return mappers.StepFromRecord(*rec), nil
}

// RemoveStep deletes a step and closes the gap it leaves.
func (s *JourneyService) RemoveStep(ctx context.Context, stepID string) error {
	rec, err := s.steps.Get(ctx, stepID)
	if err != nil {
		return failed(s.logger, "removeStep", err)
	}
	if rec == nil {
		return pkgerrors.NewNotFoundError("journey step")
	}
	if err := s.steps.Delete(ctx, stepID); err != nil {
		return failed(s.logger, "removeStep", notFoundOnMissing(err, "journey step"))
	}

	remaining, err := s.ListStepsByJourney(ctx, rec.JourneyID)
	if err != nil {
		return err
	}
	_, err = s.renumber(ctx, remaining, 0, len(remaining)-1)
	return err
}

// ReorderStep moves the step at position from to position to (both 1-based)
// and rewrites the stepOrder of every step in between.
func (s *JourneyService) ReorderStep(ctx context.Context, journeyID string, from, to int) ([]*entities.SoundJourneyStep, error) {
	steps, err := s.ListStepsByJourney(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if from < 1 || from > len(steps) || to < 1 || to > len(steps) {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("step positions must be within 1..%d", len(steps)))
	}
	if from == to {
		return steps, nil
	}

	moved := steps[from-1]
	steps = append(steps[:from-1], steps[from:]...)
	steps = append(steps[:to-1], append([]*entities.SoundJourneyStep{moved}, steps[to-1:]...)...)

	lo, hi := from-1, to-1
	if lo > hi {
		lo, hi = hi, lo
	}
	return s.renumber(ctx, steps, lo, hi)
}

// renumber assigns stepOrder i+1 to steps[i] for i in [lo, hi], writing
// only the rows that change.
func (s *JourneyService) renumber(ctx context.Context, steps []*entities.SoundJourneyStep, lo, hi int) ([]*entities.SoundJourneyStep, error) {
	for i := lo; i <= hi && i < len(steps); i++ {
		order := i + 1
		if steps[i].StepOrder == order {
			continue
		}
		if _, err := s.steps.Update(ctx, steps[i].ID, ports.Patch{"stepOrder": order}); err != nil {
			return nil, failed(s.logger, "reorderSteps", notFoundOnMissing(err, "journey step"))
		}
		steps[i].StepOrder = order
	}
	return steps, nil
}

