package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"ecnelisfly/application/services"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/pkg/common"
	pkgerrors "ecnelisfly/pkg/errors"
)

// maxUploadBytes caps multipart sound uploads
const maxUploadBytes = 50 << 20

// SoundHandler handles sound-related HTTP requests
type SoundHandler struct {
	base
	sounds     *services.SoundService
	adminGroup string
}

// NewSoundHandler creates a new sound handler
func NewSoundHandler(sounds *services.SoundService, adminGroup string, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *SoundHandler {
	return &SoundHandler{
		base:       newBase(errs, logger),
		sounds:     sounds,
		adminGroup: adminGroup,
	}
}

// CreateSoundRequest is the body of POST /sounds. Contributors may submit
// for moderation but never publish directly.
type CreateSoundRequest struct {
	Title             string                     `json:"title" validate:"required,min=1,max=200"`
	TitleI18n         valueobjects.LocalizedText `json:"titleI18n,omitempty"`
	ShortStory        string                     `json:"shortStory" validate:"max=5000"`
	ShortStoryI18n    valueobjects.LocalizedText `json:"shortStoryI18n,omitempty"`
	Filename          string                     `json:"filename" validate:"required"`
	Status            string                     `json:"status,omitempty" validate:"omitempty,oneof=private public_to_be_approved"`
	Latitude          float64                    `json:"latitude" validate:"latitude"`
	Longitude         float64                    `json:"longitude" validate:"longitude"`
	City              string                     `json:"city"`
	Category          string                     `json:"category"`
	SecondaryCategory string                     `json:"secondaryCategory"`
	DateTime          *time.Time                 `json:"dateTime,omitempty"`
	RecordDateTime    *time.Time                 `json:"recordDateTime,omitempty"`
	Equipment         string                     `json:"equipment"`
	License           string                     `json:"license"`
	URL               string                     `json:"url" validate:"omitempty,url"`
	URLTitle          string                     `json:"urlTitle"`
	SecondaryURL      string                     `json:"secondaryUrl" validate:"omitempty,url"`
	SecondaryURLTitle string                     `json:"secondaryUrlTitle"`
	Hashtags          []string                   `json:"hashtags"`
}

func (req CreateSoundRequest) toEntity(userID string) *entities.Sound {
	return &entities.Sound{
		UserID:            userID,
		Title:             req.Title,
		TitleI18n:         req.TitleI18n,
		ShortStory:        req.ShortStory,
		ShortStoryI18n:    req.ShortStoryI18n,
		Filename:          req.Filename,
		Status:            valueobjects.SoundStatus(req.Status),
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		City:              req.City,
		Category:          req.Category,
		SecondaryCategory: req.SecondaryCategory,
		DateTime:          req.DateTime,
		RecordDateTime:    req.RecordDateTime,
		Equipment:         req.Equipment,
		License:           req.License,
		URL:               req.URL,
		URLTitle:          req.URLTitle,
		SecondaryURL:      req.SecondaryURL,
		SecondaryURLTitle: req.SecondaryURLTitle,
		Hashtags:          req.Hashtags,
	}
}

// UpdateStatusRequest is the body of PUT /sounds/{soundID}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=private public_to_be_approved public"`
}

// ListPublicSounds handles GET /sounds
func (h *SoundHandler) ListPublicSounds(w http.ResponseWriter, r *http.Request) {
	sounds, err := h.sounds.ListPublicSounds(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, sounds)
}

// ListSoundsForMap handles GET /sounds/map?minLat=&minLng=&maxLat=&maxLng=
func (h *SoundHandler) ListSoundsForMap(w http.ResponseWriter, r *http.Request) {
	var (
		bounds valueobjects.Bounds
		err    error
	)
	for name, dst := range map[string]*float64{
		"minLat": &bounds.MinLat,
		"minLng": &bounds.MinLng,
		"maxLat": &bounds.MaxLat,
		"maxLng": &bounds.MaxLng,
	} {
		if *dst, err = floatQuery(r, name); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	sounds, err := h.sounds.ListSoundsForMap(r.Context(), bounds)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, sounds)
}

// ListMySounds handles GET /me/sounds
func (h *SoundHandler) ListMySounds(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	sounds, err := h.sounds.ListSoundsByUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, sounds)
}

// CountUserSounds handles GET /users/{userID}/sounds/count
func (h *SoundHandler) CountUserSounds(w http.ResponseWriter, r *http.Request) {
	count, err := h.sounds.CountSoundsByUser(r.Context(), param(r, "userID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, map[string]int{"count": count})
}

// ListSoundsByStatus handles GET /admin/sounds?status=
func (h *SoundHandler) ListSoundsByStatus(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		raw = string(valueobjects.SoundStatusPendingModeration)
	}
	status, err := valueobjects.ParseSoundStatus(raw)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sounds, err := h.sounds.ListSoundsByStatus(r.Context(), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, sounds)
}

// GetSound handles GET /sounds/{soundID}. Unpublished sounds are only
// visible to their owner and admins.
func (h *SoundHandler) GetSound(w http.ResponseWriter, r *http.Request) {
	sound, ok := h.visible(w, r)
	if !ok {
		return
	}
	h.ok(w, sound)
}

// CreateSound handles POST /sounds
func (h *SoundHandler) CreateSound(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req CreateSoundRequest
	if !h.decode(w, r, &req) {
		return
	}

	sound, err := h.sounds.CreateSound(r.Context(), req.toEntity(userID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, sound)
}

// UpdateSound handles PATCH /sounds/{soundID}
func (h *SoundHandler) UpdateSound(w http.ResponseWriter, r *http.Request) {
	sound, ok := h.managed(w, r)
	if !ok {
		return
	}
	var update entities.SoundUpdate
	if !h.decode(w, r, &update) {
		return
	}

	updated, err := h.sounds.UpdateSound(r.Context(), sound.ID, update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, updated)
}

// UpdateSoundStatus handles PUT /sounds/{soundID}/status (moderation)
func (h *SoundHandler) UpdateSoundStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	sound, err := h.sounds.UpdateSoundStatus(r.Context(), param(r, "soundID"), valueobjects.SoundStatus(req.Status))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, sound)
}

// DeleteSound handles DELETE /sounds/{soundID}
func (h *SoundHandler) DeleteSound(w http.ResponseWriter, r *http.Request) {
	sound, ok := h.managed(w, r)
	if !ok {
		return
	}
	if err := h.sounds.DeleteSound(r.Context(), sound.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.noContent(w)
}

// LikeSound handles POST /sounds/{soundID}/like
func (h *SoundHandler) LikeSound(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, 1)
}

// UnlikeSound handles DELETE /sounds/{soundID}/like
func (h *SoundHandler) UnlikeSound(w http.ResponseWriter, r *http.Request) {
	h.like(w, r, -1)
}

func (h *SoundHandler) like(w http.ResponseWriter, r *http.Request, delta int) {
	visible, ok := h.visible(w, r)
	if !ok {
		return
	}
	sound, err := h.sounds.IncrementLikes(r.Context(), visible.ID, delta)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, map[string]int{"likes": sound.Likes})
}

// UploadFile handles POST /sounds/files (multipart field "file")
func (h *SoundHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.callerID(w, r); !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, pkgerrors.NewValidationError("multipart field \"file\" is required").WithCause(err))
		return
	}
	defer file.Close()

	filename, err := h.sounds.UploadSoundFile(r.Context(), services.SoundUpload{
		Filename:    header.Filename,
		Body:        file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		OnProgress: func(sent, total int64) {
			if sent == total {
				h.logger.Debug("Upload streamed", zap.String("filename", header.Filename), zap.Int64("bytes", sent))
			}
		},
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.created(w, map[string]string{"filename": filename})
}

// GetFileURL handles GET /sounds/files/{filename}/url
func (h *SoundHandler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.sounds.GetSoundFileURL(r.Context(), param(r, "filename"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, map[string]string{"url": url})
}

// GetCommunityStats handles GET /stats/community
func (h *SoundHandler) GetCommunityStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sounds.GetCommunityStats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, stats)
}

// managed loads the sound named in the path and checks the caller may change it
func (h *SoundHandler) managed(w http.ResponseWriter, r *http.Request) (*entities.Sound, bool) {
	if _, ok := h.callerID(w, r); !ok {
		return nil, false
	}
	sound, err := h.sounds.GetSoundByID(r.Context(), param(r, "soundID"))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if !h.canManage(r, sound) {
		h.fail(w, r, pkgerrors.NewForbiddenError("only the owner can change this sound"))
		return nil, false
	}
	return sound, true
}

// visible loads the sound named in the path. Unpublished sounds answer
// 404 to everyone but their owner and admins.
func (h *SoundHandler) visible(w http.ResponseWriter, r *http.Request) (*entities.Sound, bool) {
	sound, err := h.sounds.GetSoundByID(r.Context(), param(r, "soundID"))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if sound.Status != valueobjects.SoundStatusPublic && !h.canManage(r, sound) {
		h.fail(w, r, pkgerrors.NewNotFoundError("sound"))
		return nil, false
	}
	return sound, true
}

func (h *SoundHandler) canManage(r *http.Request, sound *entities.Sound) bool {
	if common.InGroup(r.Context(), h.adminGroup) {
		return true
	}
	userID, ok := common.GetUserID(r.Context())
	return ok && userID == sound.UserID
}
