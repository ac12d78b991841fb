package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"ecnelisfly/application/services"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	pkgerrors "ecnelisfly/pkg/errors"
	"ecnelisfly/pkg/utils"
)

// PickHandler serves the daily featured sound and the monthly zone and
// journey, and lets admins curate them
type PickHandler struct {
	base
	featured *services.FeaturedSoundService
	monthly  *services.MonthlyPickService
	jobs     *services.PickJobs
	clock    utils.Clock
}

// NewPickHandler creates a new pick handler
func NewPickHandler(
	featured *services.FeaturedSoundService,
	monthly *services.MonthlyPickService,
	jobs *services.PickJobs,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *PickHandler {
	return &PickHandler{
		base:     newBase(errs, logger),
		featured: featured,
		monthly:  monthly,
		jobs:     jobs,
		clock:    utils.SystemClock,
	}
}

// CandidateRequest is the body of POST /featured/candidates
type CandidateRequest struct {
	SoundID    string                     `json:"soundId" validate:"required"`
	Label      string                     `json:"label"`
	Teaser     string                     `json:"teaser"`
	TeaserI18n valueobjects.LocalizedText `json:"teaserI18n,omitempty"`
	IsActive   *bool                      `json:"isActive,omitempty"`
	SortOrder  int                        `json:"sortOrder"`
}

// SetFeaturedRequest is the body of PUT /featured/{date}
type SetFeaturedRequest struct {
	CandidateID string `json:"candidateId" validate:"required"`
}

// SetMonthlyZoneRequest is the body of PUT /monthly/zone/{month}
type SetMonthlyZoneRequest struct {
	ZoneID string `json:"zoneId" validate:"required"`
}

// SetMonthlyJourneyRequest is the body of PUT /monthly/journey/{month}
type SetMonthlyJourneyRequest struct {
	JourneyID string `json:"journeyId" validate:"required"`
}

// GetTodayFeatured handles GET /featured/today. Data is omitted when no
// sound is featured.
func (h *PickHandler) GetTodayFeatured(w http.ResponseWriter, r *http.Request) {
	pick, err := h.featured.GetTodayFeatured(r.Context(), h.clock())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, pick)
}

// GetFeaturedForDate handles GET /featured/{date}
func (h *PickHandler) GetFeaturedForDate(w http.ResponseWriter, r *http.Request) {
	pick, err := h.featured.GetFeaturedForDate(r.Context(), param(r, "date"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, pick)
}

// ListFeaturedHistory handles GET /featured/history?limit=
func (h *PickHandler) ListFeaturedHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	history, err := h.featured.ListFeaturedHistory(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, history)
}

// SetFeatured handles PUT /featured/{date}
func (h *PickHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	var req SetFeaturedRequest
	if !h.decode(w, r, &req) {
		return
	}
	pick, err := h.featured.SetDailyFeatured(r.Context(), param(r, "date"), req.CandidateID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, pick)
}

// ListCandidates handles GET /featured/candidates?active=true
func (h *PickHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	list := h.featured.ListCandidates
	if active, _ := strconv.ParseBool(r.URL.Query().Get("active")); active {
		list = h.featured.ListActiveCandidates
	}
	candidates, err := list(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, candidates)
}

// AddCandidate handles POST /featured/candidates
func (h *PickHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req CandidateRequest
	if !h.decode(w, r, &req) {
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	candidate, err := h.featured.AddCandidate(r.Context(), &entities.FeaturedSoundCandidate{
		SoundID:    req.SoundID,
		Label:      req.Label,
		Teaser:     req.Teaser,
		TeaserI18n: req.TeaserI18n,
		IsActive:   active,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, candidate)
}

// UpdateCandidate handles PATCH /featured/candidates/{candidateID}
func (h *PickHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var update entities.CandidateUpdate
	if !h.decode(w, r, &update) {
		return
	}
	candidate, err := h.featured.UpdateCandidate(r.Context(), param(r, "candidateID"), update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, candidate)
}

// RemoveCandidate handles DELETE /featured/candidates/{candidateID}
func (h *PickHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	if err := h.featured.RemoveCandidate(r.Context(), param(r, "candidateID")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}

// GetMonthlyZone handles GET /monthly/zone?month=YYYY-MM (default: this month)
func (h *PickHandler) GetMonthlyZone(w http.ResponseWriter, r *http.Request) {
	pick, err := h.monthly.GetCurrentMonthlyZone(r.Context(), h.month(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, pick)
}

// ListMonthlyZoneHistory handles GET /monthly/zone/history
func (h *PickHandler) ListMonthlyZoneHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.monthly.ListMonthlyZoneHistory(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, history)
}

// SetMonthlyZone handles PUT /monthly/zone/{month}
func (h *PickHandler) SetMonthlyZone(w http.ResponseWriter, r *http.Request) {
	var req SetMonthlyZoneRequest
	if !h.decode(w, r, &req) {
		return
	}
	pick, err := h.monthly.SetMonthlyZone(r.Context(), param(r, "month"), req.ZoneID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, pick)
}

// GetMonthlyJourney handles GET /monthly/journey?month=YYYY-MM
func (h *PickHandler) GetMonthlyJourney(w http.ResponseWriter, r *http.Request) {
	pick, err := h.monthly.GetCurrentMonthlyJourney(r.Context(), h.month(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, pick)
}

// ListMonthlyJourneyHistory handles GET /monthly/journey/history
func (h *PickHandler) ListMonthlyJourneyHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.monthly.ListMonthlyJourneyHistory(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, history)
}

// SetMonthlyJourney handles PUT /monthly/journey/{month}
func (h *PickHandler) SetMonthlyJourney(w http.ResponseWriter, r *http.Request) {
	var req SetMonthlyJourneyRequest
	if !h.decode(w, r, &req) {
		return
	}
	pick, err := h.monthly.SetMonthlyJourney(r.Context(), param(r, "month"), req.JourneyID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, pick)
}

// RunPick handles POST /admin/picks/{kind}/run?force=true, running the
// scheduled selection on demand
func (h *PickHandler) RunPick(w http.ResponseWriter, r *http.Request) {
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	now := h.clock()

	var (
		result *services.PickResult
		err    error
	)
	switch entities.PickKind(param(r, "kind")) {
	case entities.PickKindFeaturedSound:
		result, err = h.jobs.RunFeatured(r.Context(), now, force)
	case entities.PickKindMonthlyZone:
		result, err = h.jobs.RunMonthlyZone(r.Context(), now, force)
	case entities.PickKindMonthlyJourney:
		result, err = h.jobs.RunMonthlyJourney(r.Context(), now, force)
	default:
		err = pkgerrors.NewValidationError("unknown pick kind").
			WithDetails(map[string]interface{}{"kind": param(r, "kind")})
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, result)
}

func (h *PickHandler) month(r *http.Request) string {
	if month := r.URL.Query().Get("month"); month != "" {
		return month
	}
	return valueobjects.MonthKey(h.clock())
}
