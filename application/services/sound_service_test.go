package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/domain/events"
	"ecnelisfly/infrastructure/persistence/schema"
	pkgerrors "ecnelisfly/pkg/errors"
)

type fakeStorage struct {
	uploaded map[string]int64
	deleted  []string
	failGet  error
}

func (f *fakeStorage) Upload(_ context.Context, in ports.UploadInput) (string, error) {
	if f.uploaded == nil {
		f.uploaded = map[string]int64{}
	}
	f.uploaded[in.Key] = in.Size
	if in.OnProgress != nil {
		in.OnProgress(in.Size, in.Size)
	}
	return in.Key, nil
}

func (f *fakeStorage) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.failGet != nil {
		return "", f.failGet
	}
	return "https://files.example/" + key + "?ttl=" + ttl.String(), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func newSoundFixture(t *testing.T) (*SoundService, *memoryTables, *fakeCache, *recordingPublisher, *fakeStorage) {
	t.Helper()
	tables := newMemoryTables()
	cache := newFakeCache()
	pub := &recordingPublisher{}
	storage := &fakeStorage{}
	svc := NewSoundService(&tables.Tables, storage, cache, pub, nil, zap.NewNop())
	return svc, tables, cache, pub, storage
}

func mustCreateSound(t *testing.T, svc *SoundService, userID, title string, status valueobjects.SoundStatus, lat, lng float64) *entities.Sound {
	t.Helper()
	s, err := svc.CreateSound(context.Background(), &entities.Sound{
		UserID:    userID,
		Title:     title,
		Status:    status,
		Latitude:  lat,
		Longitude: lng,
		Filename:  title + ".mp3",
	})
	require.NoError(t, err)
	return s
}

func TestCreateSound_DefaultsToPrivate(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)

	s, err := svc.CreateSound(context.Background(), &entities.Sound{UserID: "u1", Title: "Rain", Latitude: 47.2, Longitude: -1.5})

	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, valueobjects.SoundStatusPrivate, s.Status)
	assert.Equal(t, []string{}, s.Hashtags)
	assert.NotNil(t, s.CreatedAt)
}

func TestCreateSound_Validation(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)

	_, err := svc.CreateSound(context.Background(), &entities.Sound{Title: "No owner"})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = svc.CreateSound(context.Background(), &entities.Sound{UserID: "u1", Title: "Far", Latitude: 95})
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestListSounds(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)
	ctx := context.Background()
	mustCreateSound(t, svc, "u1", "a", valueobjects.SoundStatusPublic, 47, -1)
	mustCreateSound(t, svc, "u1", "b", valueobjects.SoundStatusPrivate, 47, -1)
	mustCreateSound(t, svc, "u2", "c", valueobjects.SoundStatusPublic, 10, 10)

	public, err := svc.ListPublicSounds(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 2)

	mine, err := svc.ListSoundsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	inside, err := svc.ListSoundsForMap(ctx, valueobjects.Bounds{MinLat: 46, MinLng: -2, MaxLat: 48, MaxLng: 0})
	require.NoError(t, err)
	require.Len(t, inside, 1)
	assert.Equal(t, "a", inside[0].Title)

	_, err = svc.ListSoundsByStatus(ctx, "bogus")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestUpdateSound_Sparse(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)
	ctx := context.Background()
	created := mustCreateSound(t, svc, "u1", "Rain", valueobjects.SoundStatusPrivate, 47, -1)

	updated, err := svc.UpdateSound(ctx, created.ID, entities.SoundUpdate{City: ptr("Nantes")})

	require.NoError(t, err)
	assert.Equal(t, "Nantes", updated.City)
	assert.Equal(t, "Rain", updated.Title)
	assert.Equal(t, "Rain.mp3", updated.Filename)

	_, err = svc.UpdateSound(ctx, "missing", entities.SoundUpdate{City: ptr("x")})
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUpdateSoundStatus(t *testing.T) {
	svc, _, _, pub, _ := newSoundFixture(t)
	ctx := context.Background()
	created := mustCreateSound(t, svc, "u1", "Rain", valueobjects.SoundStatusPrivate, 47, -1)

	_, err := svc.UpdateSoundStatus(ctx, created.ID, valueobjects.SoundStatusPublic)
	assert.True(t, pkgerrors.IsValidation(err))

	pending, err := svc.UpdateSoundStatus(ctx, created.ID, valueobjects.SoundStatusPendingModeration)
	require.NoError(t, err)
	assert.Equal(t, valueobjects.SoundStatusPendingModeration, pending.Status)

	public, err := svc.UpdateSoundStatus(ctx, created.ID, valueobjects.SoundStatusPublic)
	require.NoError(t, err)
	assert.True(t, public.IsPublic())

	assert.Equal(t, []string{events.EventTypeSoundStatusChanged, events.EventTypeSoundStatusChanged}, pub.types())
}

func TestDeleteSound_RemovesZoneLinksAndFile(t *testing.T) {
	svc, tables, _, pub, storage := newSoundFixture(t)
	ctx := context.Background()
	sound := mustCreateSound(t, svc, "u1", "Rain", valueobjects.SoundStatusPublic, 47, -1)
	other := mustCreateSound(t, svc, "u1", "Wind", valueobjects.SoundStatusPublic, 47, -1)
	for _, z := range []string{"z1", "z2"} {
		_, err := tables.zoneSounds.Create(ctx, schema.ZoneSound{ZoneID: z, SoundID: sound.ID, SortOrder: 1})
		require.NoError(t, err)
	}
	_, err := tables.zoneSounds.Create(ctx, schema.ZoneSound{ZoneID: "z1", SoundID: other.ID, SortOrder: 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSound(ctx, sound.ID))

	assert.Equal(t, 1, tables.zoneSounds.Len())
	_, err = svc.GetSoundByID(ctx, sound.ID)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Equal(t, []string{"sounds/Rain.mp3"}, storage.deleted)
	assert.Contains(t, pub.types(), events.EventTypeSoundDeleted)
}

func TestIncrementLikes_NeverNegative(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)
	ctx := context.Background()
	s := mustCreateSound(t, svc, "u1", "Rain", valueobjects.SoundStatusPublic, 47, -1)

	s, err := svc.IncrementLikes(ctx, s.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Likes)

	s, err = svc.IncrementLikes(ctx, s.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Likes)
}

func TestIncrementLikes_ConcurrentLikesAllCount(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)
	ctx := context.Background()
	s := mustCreateSound(t, svc, "u1", "Rain", valueobjects.SoundStatusPublic, 47, -1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.IncrementLikes(ctx, s.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.GetSoundByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Likes)
}

func TestIncrementLikes_MissingSound(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)

	_, err := svc.IncrementLikes(context.Background(), "missing", 1)
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = svc.IncrementLikes(context.Background(), "missing", -1)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestListSoundsByZone_OrderAndVisibility(t *testing.T) {
	svc, tables, _, _, _ := newSoundFixture(t)
	ctx := context.Background()
	a := mustCreateSound(t, svc, "u1", "a", valueobjects.SoundStatusPublic, 47, -1)
	b := mustCreateSound(t, svc, "u1", "b", valueobjects.SoundStatusPublic, 47, -1)
	hidden := mustCreateSound(t, svc, "u1", "c", valueobjects.SoundStatusPrivate, 47, -1)
	links := []schema.ZoneSound{
		{ZoneID: "z", SoundID: a.ID, SortOrder: 2},
		{ZoneID: "z", SoundID: b.ID, SortOrder: 1},
		{ZoneID: "z", SoundID: hidden.ID, SortOrder: 3},
		{ZoneID: "z", SoundID: "gone", SortOrder: 4},
	}
	for _, l := range links {
		_, err := tables.zoneSounds.Create(ctx, l)
		require.NoError(t, err)
	}

	sounds, err := svc.ListSoundsByZone(ctx, "z")

	require.NoError(t, err)
	require.Len(t, sounds, 2)
	assert.Equal(t, "b", sounds[0].Title)
	assert.Equal(t, "a", sounds[1].Title)
}

func TestCommunityStats_Memoized(t *testing.T) {
	svc, tables, cache, _, _ := newSoundFixture(t)
	ctx := context.Background()
	mustCreateSound(t, svc, "u1", "a", valueobjects.SoundStatusPublic, 47, -1)
	mustCreateSound(t, svc, "u1", "b", valueobjects.SoundStatusPublic, 47, -1)
	mustCreateSound(t, svc, "u2", "c", valueobjects.SoundStatusPublic, 47, -1)
	mustCreateSound(t, svc, "u3", "d", valueobjects.SoundStatusPrivate, 47, -1)
	for _, sub := range []string{"s1", "s2", "s3", "s4"} {
		_, err := tables.users.Create(ctx, schema.User{Sub: sub})
		require.NoError(t, err)
	}

	stats, err := svc.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.CommunityStats{PublicSounds: 3, Contributors: 2, Users: 4}, *stats)

	tables.sounds.FailNext(10, errors.New("down"))
	again, err := svc.GetCommunityStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, *stats, *again)
	assert.Equal(t, 2, cache.gets)
}

func TestCommunityStats_BackendFailure(t *testing.T) {
	tables := newMemoryTables()
	svc := NewSoundService(&tables.Tables, nil, nil, nil, nil, zap.NewNop())
	tables.sounds.FailNext(1, errors.New("unauthorized"))

	_, err := svc.GetCommunityStats(context.Background())

	assert.True(t, pkgerrors.IsOperationFailed(err))
	assert.EqualError(t, err, "OPERATION_FAILED: operation 'getCommunityStats' failed")
}

func TestCountSoundsByUser(t *testing.T) {
	svc, _, _, _, _ := newSoundFixture(t)
	mustCreateSound(t, svc, "u1", "a", valueobjects.SoundStatusPublic, 47, -1)
	mustCreateSound(t, svc, "u1", "b", valueobjects.SoundStatusPrivate, 47, -1)

	n, err := svc.CountSoundsByUser(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSoundFiles(t *testing.T) {
	svc, _, _, _, storage := newSoundFixture(t)
	ctx := context.Background()
	var progress []int64

	name, err := svc.UploadSoundFile(ctx, SoundUpload{
		Filename:    "Field Recording.WAV",
		Body:        bytes.NewReader([]byte("RIFF")),
		Size:        4,
		ContentType: "audio/wav",
		OnProgress:  func(done, _ int64) { progress = append(progress, done) },
	})
	require.NoError(t, err)
	assert.True(t, len(name) > 4 && name[len(name)-4:] == ".wav")
	assert.Equal(t, int64(4), storage.uploaded["sounds/"+name])
	assert.Equal(t, []int64{4}, progress)

	url, err := svc.GetSoundFileURL(ctx, name)
	require.NoError(t, err)
	assert.Contains(t, url, "sounds/"+name)

	_, err = svc.GetSoundFileURL(ctx, "../etc/passwd")
	assert.True(t, pkgerrors.IsValidation(err))

	storage.failGet = errors.New("denied")
	_, err = svc.GetSoundFileURL(ctx, name)
	assert.True(t, pkgerrors.IsOperationFailed(err))
}
