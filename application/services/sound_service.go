package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecnelisfly/application/mappers"
	"ecnelisfly/application/pagination"
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

const (
	communityStatsKey = "community-stats"
	soundKeyPrefix    = "sounds/"

	// maxLikeAttempts bounds the retries of an unlike racing other unlikes.
	maxLikeAttempts = 3
)

// SoundService reads and writes sounds and their files.
type SoundService struct {
	sounds     ports.Collection[schema.Sound]
	zoneSounds ports.Collection[schema.ZoneSound]
	users      ports.Collection[schema.User]
	storage    ports.ObjectStorage
	cache      ports.Cache
	publisher  ports.EventPublisher
	validator  *validators.ContentValidator
	cfg        *config.DomainConfig
	clock      utils.Clock
	logger     *zap.Logger
}

// NewSoundService creates a sound service. storage, cache and publisher
// may be nil.
func NewSoundService(
	tables *Tables,
	storage ports.ObjectStorage,
	cache ports.Cache,
	publisher ports.EventPublisher,
	cfg *config.DomainConfig,
	logger *zap.Logger,
) *SoundService {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &SoundService{
		sounds:     tables.Sounds,
		zoneSounds: tables.ZoneSounds,
		users:      tables.Users,
		storage:    storage,
		cache:      cache,
		publisher:  publisher,
		validator:  validators.NewContentValidator(cfg),
		cfg:        cfg,
		clock:      utils.SystemClock,
		logger:     logger,
	}
}

// ListPublicSounds returns every published sound.
func (s *SoundService) ListPublicSounds(ctx context.Context) ([]*entities.Sound, error) {
	return s.ListSoundsByStatus(ctx, valueobjects.SoundStatusPublic)
}

// ListSoundsByStatus returns every sound in the given moderation status.
func (s *SoundService) ListSoundsByStatus(ctx context.Context, status valueobjects.SoundStatus) ([]*entities.Sound, error) {
	if !status.IsValid() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unknown sound status %q", status))
	}
	sounds, err := queryAll(ctx, s.cfg, s.sounds, schema.IndexByStatus, string(status), nil, mappers.SoundFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listSoundsByStatus", err)
	}
	return sounds, nil
}

// ListSoundsByUser returns every sound owned by userID, any status.
func (s *SoundService) ListSoundsByUser(ctx context.Context, userID string) ([]*entities.Sound, error) {
	if userID == "" {
		return nil, pkgerrors.NewValidationError("user id is required")
	}
	sounds, err := queryAll(ctx, s.cfg, s.sounds, schema.IndexByUser, userID, nil, mappers.SoundFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listSoundsByUser", err)
	}
	return sounds, nil
}

// GetSoundByID returns one sound or a not-found error.
func (s *SoundService) GetSoundByID(ctx context.Context, id string) (*entities.Sound, error) {
	rec, err := s.sounds.Get(ctx, id)
	if err != nil {
		return nil, failed(s.logger, "getSound", err)
	}
	if rec == nil {
		return nil, pkgerrors.NewNotFoundError("sound")
	}
	return mappers.SoundFromRecord(*rec), nil
}

// CreateSound stores a new sound. New sounds are private unless a status
// is given.
func (s *SoundService) CreateSound(ctx context.Context, sound *entities.Sound) (*entities.Sound, error) {
	if sound.Status == "" {
		sound.Status = valueobjects.SoundStatusPrivate
	}
	if sound.ID == "" {
		sound.ID = uuid.NewString()
	}
	if err := s.validator.ValidateSound(sound); err != nil {
		return nil, err
	}

	rec, err := s.sounds.Create(ctx, mappers.SoundToRecord(sound))
	if err != nil {
		if errors.Is(err, ports.ErrConditionFailed) {
			return nil, pkgerrors.NewConflictError("sound already exists")
		}
		return nil, failed(s.logger, "createSound", err)
	}

	s.logger.Info("Sound created",
		zap.String("soundID", rec.ID),
		zap.String("userID", rec.UserID),
		zap.String("status", rec.Status),
	)
	return mappers.SoundFromRecord(*rec), nil
}

// UpdateSound writes only the fields set in update.
func (s *SoundService) UpdateSound(ctx context.Context, id string, update entities.SoundUpdate) (*entities.Sound, error) {
	if err := utils.ValidateStruct(update); err != nil {
		return nil, err
	}
	if update.Hashtags != nil {
		if err := s.validator.ValidateHashtags(*update.Hashtags); err != nil {
			return nil, err
		}
	}

	patch := mappers.SoundPatch(update)
	if patch.IsEmpty() {
		return s.GetSoundByID(ctx, id)
	}

	rec, err := s.sounds.Update(ctx, id, patch)
	if err != nil {
		return nil, failed(s.logger, "updateSound", notFoundOnMissing(err, "sound"))
	}
	return mappers.SoundFromRecord(*rec), nil
}

// UpdateSoundStatus moves a sound through moderation.
func (s *SoundService) UpdateSoundStatus(ctx context.Context, id string, status valueobjects.SoundStatus) (*entities.Sound, error) {
	next, err := valueobjects.ParseSoundStatus(string(status))
	if err != nil {
		return nil, err
	}
	current, err := s.GetSoundByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(next) {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("cannot move sound from %s to %s", current.Status, next))
	}
	if current.Status == next {
		return current, nil
	}

	rec, err := s.sounds.Update(ctx, id, ports.Patch{"status": string(next)})
	if err != nil {
		return nil, failed(s.logger, "updateSoundStatus", notFoundOnMissing(err, "sound"))
	}

	publish(ctx, s.publisher, s.logger,
		events.NewSoundStatusChanged(id, current.UserID, current.Status, next, s.clock()))
	s.invalidateStats(ctx)

	return mappers.SoundFromRecord(*rec), nil
}

// DeleteSound removes the zone associations of a sound, then the sound.
// The stored file is removed on a best-effort basis.
func (s *SoundService) DeleteSound(ctx context.Context, id string) error {
	sound, err := s.GetSoundByID(ctx, id)
	if err != nil {
		return err
	}

	links, err := pagination.CollectIDs(ctx,
		pagination.FromQuery(s.zoneSounds, schema.IndexBySound, id, walkOptions(s.cfg, nil, schema.AttrID)),
		func(r schema.ZoneSound) string { return r.ID })
	if err != nil {
		return failed(s.logger, "deleteSound", err)
	}
	for _, linkID := range links {
		if err := s.zoneSounds.Delete(ctx, linkID); err != nil && !errors.Is(err, ports.ErrConditionFailed) {
			return failed(s.logger, "deleteSound", err)
		}
	}

	if err := s.sounds.Delete(ctx, id); err != nil {
		return failed(s.logger, "deleteSound", notFoundOnMissing(err, "sound"))
	}

	if s.storage != nil && sound.Filename != "" {
		if err := s.storage.Delete(ctx, soundKeyPrefix+sound.Filename); err != nil {
			s.logger.Warn("Failed to delete sound file",
				zap.String("soundID", id),
				zap.String("filename", sound.Filename),
				zap.Error(err),
			)
		}
	}

	publish(ctx, s.publisher, s.logger, events.NewSoundDeleted(id, sound.UserID, sound.Filename, s.clock()))
	s.invalidateStats(ctx)

	s.logger.Info("Sound deleted", zap.String("soundID", id), zap.Int("zoneLinks", len(links)))
	return nil
}

// IncrementLikes atomically adds delta to the like counter. The counter
// never goes below zero: an unlike larger than the count empties it.
func (s *SoundService) IncrementLikes(ctx context.Context, id string, delta int) (*entities.Sound, error) {
	rec, err := s.sounds.Increment(ctx, id, "likes", delta)
	for attempt := 0; errors.Is(err, ports.ErrConditionFailed) && attempt < maxLikeAttempts; attempt++ {
		current, getErr := s.GetSoundByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if delta >= 0 || current.Likes == 0 {
			return current, nil
		}
		rec, err = s.sounds.Increment(ctx, id, "likes", -current.Likes)
	}
	if err != nil {
		return nil, failed(s.logger, "incrementLikes", notFoundOnMissing(err, "sound"))
	}
	return mappers.SoundFromRecord(*rec), nil
}

// ListSoundsForMap returns the public sounds inside bounds.
func (s *SoundService) ListSoundsForMap(ctx context.Context, bounds valueobjects.Bounds) ([]*entities.Sound, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	public, err := s.ListPublicSounds(ctx)
	if err != nil {
		return nil, err
	}
	inside := make([]*entities.Sound, 0, len(public))
	for _, sound := range public {
		if bounds.Contains(sound.Latitude, sound.Longitude) {
			inside = append(inside, sound)
		}
	}
	return inside, nil
}

// ListSoundsByZone returns the public sounds of a zone in display order.
// Associations pointing at missing sounds are skipped.
func (s *SoundService) ListSoundsByZone(ctx context.Context, zoneID string) ([]*entities.Sound, error) {
	links, err := queryAll(ctx, s.cfg, s.zoneSounds, schema.IndexByZone, zoneID, nil, mappers.ZoneSoundFromRecord)
	if err != nil {
		return nil, failed(s.logger, "listSoundsByZone", err)
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].SortOrder < links[j].SortOrder })

	sounds := make([]*entities.Sound, 0, len(links))
	for _, link := range links {
		rec, err := s.sounds.Get(ctx, link.SoundID)
		if err != nil {
			return nil, failed(s.logger, "listSoundsByZone", err)
		}
		if rec == nil {
			s.logger.Debug("Zone links a missing sound",
				zap.String("zoneID", zoneID),
				zap.String("soundID", link.SoundID),
			)
			continue
		}
		if sound := mappers.SoundFromRecord(*rec); sound.IsPublic() {
			sounds = append(sounds, sound)
		}
	}
	return sounds, nil
}

// CountSoundsByUser counts the sounds of one user with an id-only walk.
func (s *SoundService) CountSoundsByUser(ctx context.Context, userID string) (int, error) {
	ids, err := pagination.CollectIDs(ctx,
		pagination.FromQuery(s.sounds, schema.IndexByUser, userID, walkOptions(s.cfg, nil, schema.AttrID)),
		func(r schema.Sound) string { return r.ID })
	if err != nil {
		return 0, failed(s.logger, "countSoundsByUser", err)
	}
	return len(ids), nil
}

// GetCommunityStats counts public sounds, distinct contributors and users.
// Results are memoized for CommunityStatsTTL.
func (s *SoundService) GetCommunityStats(ctx context.Context) (*entities.CommunityStats, error) {
	if cached := s.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	owners, err := pagination.Walk(ctx,
		pagination.FromQuery(s.sounds, schema.IndexByStatus, string(valueobjects.SoundStatusPublic),
			walkOptions(s.cfg, nil, schema.AttrID, "userId")),
		func(r schema.Sound) string { return r.UserID })
	if err != nil {
		return nil, failed(s.logger, "getCommunityStats", err)
	}
	contributors := make(map[string]struct{}, len(owners))
	for _, owner := range owners {
		if owner != "" {
			contributors[owner] = struct{}{}
		}
	}

	users, err := pagination.Count(ctx,
		pagination.FromList(s.users, walkOptions(s.cfg, nil, schema.AttrID)))
	if err != nil {
		return nil, failed(s.logger, "getCommunityStats", err)
	}

	stats := &entities.CommunityStats{
		PublicSounds: len(owners),
		Contributors: len(contributors),
		Users:        users,
	}
	s.storeStats(ctx, stats)
	return stats, nil
}

func (s *SoundService) cachedStats(ctx context.Context) *entities.CommunityStats {
	if s.cache == nil {
		return nil
	}
	raw, ok, err := s.cache.Get(ctx, communityStatsKey)
	if err != nil {
		s.logger.Warn("Stats cache read failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var stats entities.CommunityStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *SoundService) storeStats(ctx context.Context, stats *entities.CommunityStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, communityStatsKey, raw, s.cfg.CommunityStatsTTL); err != nil {
		s.logger.Warn("Stats cache write failed", zap.Error(err))
	}
}

func (s *SoundService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, communityStatsKey); err != nil {
		s.logger.Warn("Stats cache invalidation failed", zap.Error(err))
	}
}

// SoundUpload is a sound file to store.
type SoundUpload struct {
	Filename    string
	Body        io.Reader
	Size        int64
	ContentType string
	OnProgress  ports.UploadProgress
}

// UploadSoundFile stores a file under a fresh name and returns that name,
// which is what Sound.Filename holds.
func (s *SoundService) UploadSoundFile(ctx context.Context, in SoundUpload) (string, error) {
	if s.storage == nil {
		return "", pkgerrors.NewInternalError("object storage is not configured")
	}
	if in.Body == nil {
		return "", pkgerrors.NewValidationError("file body is required")
	}

	filename := uuid.NewString() + strings.ToLower(path.Ext(in.Filename))
	_, err := s.storage.Upload(ctx, ports.UploadInput{
		Key:         soundKeyPrefix + filename,
		Body:        in.Body,
		Size:        in.Size,
		ContentType: in.ContentType,
		OnProgress:  in.OnProgress,
	})
	if err != nil {
		return "", failed(s.logger, "uploadSoundFile", pkgerrors.NewExternalError("storage", err))
	}

	s.logger.Info("Sound file uploaded", zap.String("filename", filename), zap.Int64("size", in.Size))
	return filename, nil
}

// GetSoundFileURL returns a time-limited URL for a stored sound file.
func (s *SoundService) GetSoundFileURL(ctx context.Context, filename string) (string, error) {
	if s.storage == nil {
		return "", pkgerrors.NewInternalError("object storage is not configured")
	}
	if filename == "" || strings.Contains(filename, "..") {
		return "", pkgerrors.NewValidationError("invalid filename")
	}
	url, err := s.storage.PresignGet(ctx, soundKeyPrefix+filename, s.cfg.SoundURLTTL)
	if err != nil {
		return "", failed(s.logger, "getSoundFileUrl", pkgerrors.NewExternalError("storage", err))
	}
	return url, nil
}
