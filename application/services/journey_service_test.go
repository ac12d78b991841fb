package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecnelisfly/domain/core/entities"
	pkgerrors "ecnelisfly/pkg/errors"
)

func newJourneyFixture() (*JourneyService, *memoryTables) {
	tables := newMemoryTables()
	return NewJourneyService(&tables.Tables, nil, zap.NewNop()), tables
}

func addSteps(t *testing.T, svc *JourneyService, journeyID string, soundIDs ...string) []*entities.SoundJourneyStep {
	t.Helper()
	steps := make([]*entities.SoundJourneyStep, 0, len(soundIDs))
	for _, soundID := range soundIDs {
		step, err := svc.AddStepToJourney(context.Background(), &entities.SoundJourneyStep{JourneyID: journeyID, SoundID: soundID})
		require.NoError(t, err)
		steps = append(steps, step)
	}
	return steps
}

func stepSounds(steps []*entities.SoundJourneyStep) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.SoundID)
	}
	return out
}

func assertDense(t *testing.T, steps []*entities.SoundJourneyStep) {
	t.Helper()
	for i, s := range steps {
		assert.Equal(t, i+1, s.StepOrder, "step %s", s.SoundID)
	}
}

func TestCreateJourney(t *testing.T) {
	svc, _ := newJourneyFixture()
	ctx := context.Background()

	journey, err := svc.CreateJourney(ctx, &entities.SoundJourney{Name: "Bords de Loire", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, "bords-de-loire", journey.Slug)

	bySlug, err := svc.GetJourneyBySlug(ctx, "bords-de-loire")
	require.NoError(t, err)
	assert.Equal(t, journey.ID, bySlug.ID)

	_, err = svc.CreateJourney(ctx, &entities.SoundJourney{Name: "Bords de Loire"})
	assert.True(t, pkgerrors.IsConflict(err))

	_, err = svc.CreateJourney(ctx, &entities.SoundJourney{Name: "  "})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestListPublicJourneys(t *testing.T) {
	svc, _ := newJourneyFixture()
	ctx := context.Background()
	_, err := svc.CreateJourney(ctx, &entities.SoundJourney{Name: "open", IsPublic: true})
	require.NoError(t, err)
	_, err = svc.CreateJourney(ctx, &entities.SoundJourney{Name: "draft"})
	require.NoError(t, err)

	public, err := svc.ListPublicJourneys(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "open", public[0].Name)

	all, err := svc.ListJourneys(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateJourney_Sparse(t *testing.T) {
	svc, _ := newJourneyFixture()
	ctx := context.Background()
	journey, err := svc.CreateJourney(ctx, &entities.SoundJourney{Name: "Walk", Color: "#112233"})
	require.NoError(t, err)

	updated, err := svc.UpdateJourney(ctx, journey.ID, entities.JourneyUpdate{IsPublic: ptr(true)})

	require.NoError(t, err)
	assert.True(t, updated.IsPublic)
	assert.Equal(t, "#112233", updated.Color)

	_, err = svc.UpdateJourney(ctx, journey.ID, entities.JourneyUpdate{Color: ptr("red")})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestListStepsByJourney_EmptyIsNotNil(t *testing.T) {
	svc, _ := newJourneyFixture()

	steps, err := svc.ListStepsByJourney(context.Background(), "nothing-here")

	require.NoError(t, err)
	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}

func TestAddStepToJourney_DuplicateSoundReturnsExisting(t *testing.T) {
	svc, tables := newJourneyFixture()
	ctx := context.Background()
	first := addSteps(t, svc, "j", "s1", "s2")

	again, err := svc.AddStepToJourney(ctx, &entities.SoundJourneyStep{JourneyID: "j", SoundID: "s1", ThemeText: "ignored"})

	require.NoError(t, err)
	assert.Equal(t, first[0].ID, again.ID)
	assert.Equal(t, 1, again.StepOrder)
	assert.Equal(t, 2, tables.steps.Len())
	assert.Equal(t, 2, first[1].StepOrder)
}

func TestRemoveStep_KeepsOrderDense(t *testing.T) {
	svc, _ := newJourneyFixture()
	ctx := context.Background()
	steps := addSteps(t, svc, "j", "s1", "s2", "s3", "s4")

	require.NoError(t, svc.RemoveStep(ctx, steps[1].ID))

	remaining, err := svc.ListStepsByJourney(ctx, "j")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3", "s4"}, stepSounds(remaining))
	assertDense(t, remaining)

	err = svc.RemoveStep(ctx, steps[1].ID)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestReorderStep(t *testing.T) {
	svc, _ := newJourneyFixture()
	ctx := context.Background()
	addSteps(t, svc, "j", "s1", "s2", "s3", "s4")

	moved, err := svc.ReorderStep(ctx, "j", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s4", "s2", "s3"}, stepSounds(moved))

	stored, err := svc.ListStepsByJourney(ctx, "j")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s4", "s2", "s3"}, stepSounds(stored))
	assertDense(t, stored)

	_, err = svc.ReorderStep(ctx, "j", 1, 5)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUpdateStep(t *testing.T) {
	svc, _ := newJourneyFixture()
	ctx := context.Background()
	steps := addSteps(t, svc, "j", "s1")

	updated, err := svc.UpdateStep(ctx, steps[0].ID, entities.StepUpdate{ThemeText: ptr("Listen to the tide")})
	require.NoError(t, err)
	assert.Equal(t, "Listen to the tide", updated.ThemeText)
	assert.Equal(t, 1, updated.StepOrder)

	_, err = svc.UpdateStep(ctx, "missing", entities.StepUpdate{})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDeleteJourney_CascadesSteps(t *testing.T) {
	svc, tables := newJourneyFixture()
	ctx := context.Background()
	journey, err := svc.CreateJourney(ctx, &entities.SoundJourney{Name: "Gone"})
	require.NoError(t, err)
	addSteps(t, svc, journey.ID, "s1", "s2")
	addSteps(t, svc, "other", "s1")

	require.NoError(t, svc.DeleteJourney(ctx, journey.ID))

	assert.Equal(t, 1, tables.steps.Len())
	_, err = svc.GetJourneyByID(ctx, journey.ID)
	assert.True(t, pkgerrors.IsNotFound(err))
}
