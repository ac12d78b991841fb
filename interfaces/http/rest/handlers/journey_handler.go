package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ecnelisfly/application/services"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	pkgerrors "ecnelisfly/pkg/errors"
)

// JourneyHandler handles journey and step HTTP requests
type JourneyHandler struct {
	base
	journeys *services.JourneyService
}

// NewJourneyHandler creates a new journey handler
func NewJourneyHandler(journeys *services.JourneyService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *JourneyHandler {
	return &JourneyHandler{
		base:     newBase(errs, logger),
		journeys: journeys,
	}
}

// CreateJourneyRequest is the body of POST /journeys
type CreateJourneyRequest struct {
	Name            string                     `json:"name" validate:"required,min=1,max=200"`
	NameI18n        valueobjects.LocalizedText `json:"nameI18n,omitempty"`
	Description     string                     `json:"description"`
	DescriptionI18n valueobjects.LocalizedText `json:"descriptionI18n,omitempty"`
	Slug            string                     `json:"slug,omitempty" validate:"omitempty,slug"`
	CoverImage      string                     `json:"coverImage"`
	Color           string                     `json:"color,omitempty" validate:"omitempty,hexcolor"`
	IsPublic        bool                       `json:"isPublic"`
	SortOrder       int                        `json:"sortOrder"`
}

// AddStepRequest is the body of POST /journeys/{journeyID}/steps
type AddStepRequest struct {
	SoundID       string                     `json:"soundId" validate:"required"`
	ThemeText     string                     `json:"themeText"`
	ThemeTextI18n valueobjects.LocalizedText `json:"themeTextI18n,omitempty"`
}

// ReorderStepRequest moves the step at position From to position To (1-based)
type ReorderStepRequest struct {
	From int `json:"from" validate:"required,min=1"`
	To   int `json:"to" validate:"required,min=1"`
}

// ListJourneys handles GET /journeys
func (h *JourneyHandler) ListJourneys(w http.ResponseWriter, r *http.Request) {
	journeys, err := h.journeys.ListPublicJourneys(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, journeys)
}

// ListAllJourneys handles GET /admin/journeys
func (h *JourneyHandler) ListAllJourneys(w http.ResponseWriter, r *http.Request) {
	journeys, err := h.journeys.ListJourneys(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, journeys)
}

// GetJourney handles GET /journeys/{journeyID}
func (h *JourneyHandler) GetJourney(w http.ResponseWriter, r *http.Request) {
	journey, err := h.journeys.GetJourneyByID(r.Context(), param(r, "journeyID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, journey)
}

// GetJourneyBySlug handles GET /journeys/slug/{slug}
func (h *JourneyHandler) GetJourneyBySlug(w http.ResponseWriter, r *http.Request) {
	journey, err := h.journeys.GetJourneyBySlug(r.Context(), param(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, journey)
}

// CreateJourney handles POST /journeys
func (h *JourneyHandler) CreateJourney(w http.ResponseWriter, r *http.Request) {
	var req CreateJourneyRequest
	if !h.decode(w, r, &req) {
		return
	}
	journey, err := h.journeys.CreateJourney(r.Context(), &entities.SoundJourney{
		Name:            req.Name,
		NameI18n:        req.NameI18n,
		Description:     req.Description,
		DescriptionI18n: req.DescriptionI18n,
		Slug:            req.Slug,
		CoverImage:      req.CoverImage,
		Color:           req.Color,
		IsPublic:        req.IsPublic,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, journey)
}

// UpdateJourney handles PATCH /journeys/{journeyID}
func (h *JourneyHandler) UpdateJourney(w http.ResponseWriter, r *http.Request) {
	var update entities.JourneyUpdate
	if !h.decode(w, r, &update) {
		return
	}
	journey, err := h.journeys.UpdateJourney(r.Context(), param(r, "journeyID"), update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, journey)
}

// DeleteJourney handles DELETE /journeys/{journeyID}
func (h *JourneyHandler) DeleteJourney(w http.ResponseWriter, r *http.Request) {
	if err := h.journeys.DeleteJourney(r.Context(), param(r, "journeyID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}

// ListSteps handles GET /journeys/{journeyID}/steps
func (h *JourneyHandler) ListSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := h.journeys.ListStepsByJourney(r.Context(), param(r, "journeyID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, steps)
}

// AddStep handles POST /journeys/{journeyID}/steps
func (h *JourneyHandler) AddStep(w http.ResponseWriter, r *http.Request) {
	var req AddStepRequest
	if !h.decode(w, r, &req) {
		return
	}
	step, err := h.journeys.AddStepToJourney(r.Context(), &entities.SoundJourneyStep{
		JourneyID:     param(r, "journeyID"),
		SoundID:       req.SoundID,
		ThemeText:     req.ThemeText,
		ThemeTextI18n: req.ThemeTextI18n,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, step)
}

// UpdateStep handles PATCH /journeys/{journeyID}/steps/{stepID}
func (h *JourneyHandler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	var update entities.StepUpdate
	if !h.decode(w, r, &update) {
		return
	}
	step, err := h.journeys.UpdateStep(r.Context(), param(r, "stepID"), update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, step)
}

// RemoveStep handles DELETE /journeys/{journeyID}/steps/{stepID}
func (h *JourneyHandler) RemoveStep(w http.ResponseWriter, r *http.Request) {
	if err := h.journeys.RemoveStep(r.Context(), param(r, "stepID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}

// ReorderStep handles POST /journeys/{journeyID}/steps/reorder
func (h *JourneyHandler) ReorderStep(w http.ResponseWriter, r *http.Request) {
	var req ReorderStepRequest
	if !h.decode(w, r, &req) {
		return
	}
	steps, err := h.journeys.ReorderStep(r.Context(), param(r, "journeyID"), req.From, req.To)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, steps)
}
