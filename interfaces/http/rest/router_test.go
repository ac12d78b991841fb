package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecnelisfly/application/services"
	domainconfig "ecnelisfly/domain/config"
	"ecnelisfly/infrastructure/config"
	"ecnelisfly/infrastructure/di"
	"ecnelisfly/infrastructure/messaging/eventbridge"
	"ecnelisfly/infrastructure/persistence/memory"
	"ecnelisfly/infrastructure/persistence/schema"
	"ecnelisfly/pkg/auth"
	"ecnelisfly/pkg/observability"
)

const testSecret = "router-secret"

type testEnv struct {
	router *chi.Mux
	sounds *memory.Collection[schema.Sound]
	users  *memory.Collection[schema.User]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	cfg := config.Default()
	cfg.EnableMetrics = true
	domain := domainconfig.DefaultDomainConfig()
	domain.AdminGroup = cfg.AdminGroup

	sounds := memory.NewCollection[schema.Sound](schema.Spec(schema.TableSound, ""))
	users := memory.NewCollection[schema.User](schema.Spec(schema.TableUser, ""))
	tables := &services.Tables{
		Sounds:          sounds,
		Zones:           memory.NewCollection[schema.Zone](schema.Spec(schema.TableZone, "")),
		ZoneSounds:      memory.NewCollection[schema.ZoneSound](schema.Spec(schema.TableZoneSound, "")),
		Journeys:        memory.NewCollection[schema.SoundJourney](schema.Spec(schema.TableSoundJourney, "")),
		Steps:           memory.NewCollection[schema.SoundJourneyStep](schema.Spec(schema.TableSoundJourneyStep, "")),
		Candidates:      memory.NewCollection[schema.FeaturedSoundCandidate](schema.Spec(schema.TableFeaturedSoundCandidate, "")),
		DailyFeatured:   memory.NewCollection[schema.DailyFeaturedSound](schema.Spec(schema.TableDailyFeaturedSound, "")),
		MonthlyZones:    memory.NewCollection[schema.MonthlyZone](schema.Spec(schema.TableMonthlyZone, "")),
		MonthlyJourneys: memory.NewCollection[schema.MonthlyJourney](schema.Spec(schema.TableMonthlyJourney, "")),
		Users:           users,
		EmailTemplates:  memory.NewCollection[schema.EmailTemplate](schema.Spec(schema.TableEmailTemplate, "")),
	}

	metrics := observability.NewMetrics("test")
	cache := di.NewInMemoryCache(metrics)
	t.Cleanup(cache.Close)
	locker := memory.NewLocker()
	publisher := eventbridge.NopPublisher{}

	zones := services.NewZoneService(tables, publisher, domain, logger)
	journeys := services.NewJourneyService(tables, domain, logger)
	featured := services.NewFeaturedSoundService(tables, locker, publisher, domain, logger)
	monthly := services.NewMonthlyPickService(tables, locker, publisher, domain, logger)

	container := &di.Container{
		Config:     cfg,
		Domain:     domain,
		Logger:     logger,
		Metrics:    metrics,
		Tables:     tables,
		Cache:      cache,
		Locker:     locker,
		Publisher:  publisher,
		Sounds:     services.NewSoundService(tables, nil, cache, publisher, domain, logger),
		Zones:      zones,
		Journeys:   journeys,
		Featured:   featured,
		Monthly:    monthly,
		AdminUsers: services.NewAdminUserService(tables, nil, publisher, domain, logger),
		PickJobs:   services.NewPickJobs(featured, monthly, zones, journeys, nil, logger),
	}
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SigningMethod: "HS256", SecretKey: testSecret})
	require.NoError(t, err)
	container.Validator = validator

	return &testEnv{
		router: NewRouter(container).Setup(),
		sounds: sounds,
		users:  users,
	}
}

func token(t *testing.T, sub string, groups ...string) string {
	t.Helper()
	signed, err := auth.SignToken(testSecret, &auth.Claims{
		Username: sub,
		Groups:   groups,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	return signed
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/ready", "", nil).Code)

	env.do(t, http.MethodGet, "/api/v1/sounds", "", nil)
	rec := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/sounds"`)
}

func TestSoundLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := token(t, "alice")
	bob := token(t, "bob")
	admin := token(t, "root", "ADMIN")

	rec := env.do(t, http.MethodPost, "/api/v1/sounds", alice, map[string]interface{}{
		"title":     "Morning birds",
		"filename":  "sounds/birds.mp3",
		"status":    "public_to_be_approved",
		"latitude":  48.85,
		"longitude": 2.35,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
		Status string `json:"status"`
	}
	decodeData(t, rec, &created)
	assert.Equal(t, "alice", created.UserID)
	assert.Equal(t, "public_to_be_approved", created.Status)

	path := "/api/v1/sounds/" + created.ID

	// pending sounds are hidden from everyone but the owner and admins
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, alice, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, path+"/like", bob, nil).Code)

	assert.Equal(t, http.StatusForbidden,
		env.do(t, http.MethodPatch, path, bob, map[string]interface{}{"title": "mine now"}).Code)
	assert.Equal(t, http.StatusForbidden,
		env.do(t, http.MethodPut, path+"/status", alice, map[string]string{"status": "public"}).Code)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/sounds", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)

	rec = env.do(t, http.MethodPut, path+"/status", admin, map[string]string{"status": "public"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, path, "", nil).Code)

	rec = env.do(t, http.MethodPost, path+"/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var likes map[string]int
	decodeData(t, rec, &likes)
	assert.Equal(t, 1, likes["likes"])

	rec = env.do(t, http.MethodGet, "/api/v1/users/alice/sounds/count", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var count map[string]int
	decodeData(t, rec, &count)
	assert.Equal(t, 1, count["count"])

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, path, alice, nil).Code)
	assert.Equal(t, 0, env.sounds.Len())
}

func TestCreateSound_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := token(t, "alice")

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing title", map[string]interface{}{"filename": "a.mp3"}},
		{"self publish", map[string]interface{}{"title": "t", "filename": "a.mp3", "status": "public"}},
		{"latitude out of range", map[string]interface{}{"title": "t", "filename": "a.mp3", "latitude": 91}},
		{"unknown field", map[string]interface{}{"title": "t", "filename": "a.mp3", "likes": 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/sounds", alice, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, 0, env.sounds.Len())
}

func TestRouteProtection(t *testing.T) {
	env := newTestEnv(t)
	user := token(t, "alice")

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		want   int
	}{
		{"anonymous write", http.MethodPost, "/api/v1/sounds", "", http.StatusUnauthorized},
		{"anonymous me", http.MethodGet, "/api/v1/me/sounds", "", http.StatusUnauthorized},
		{"bad token on public read", http.MethodGet, "/api/v1/sounds", "garbage", http.StatusUnauthorized},
		{"user on admin listing", http.MethodGet, "/api/v1/admin/users", user, http.StatusForbidden},
		{"user creating zone", http.MethodPost, "/api/v1/zones", user, http.StatusForbidden},
		{"user running pick", http.MethodPost, "/api/v1/admin/picks/featured-sound/run", user, http.StatusForbidden},
		{"public zones", http.MethodGet, "/api/v1/zones", "", http.StatusOK},
		{"public journeys", http.MethodGet, "/api/v1/journeys", "", http.StatusOK},
		{"public featured", http.MethodGet, "/api/v1/featured/today", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.bearer, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestJourneySteps(t *testing.T) {
	env := newTestEnv(t)
	admin := token(t, "root", "ADMIN")

	rec := env.do(t, http.MethodPost, "/api/v1/journeys", admin, map[string]interface{}{
		"name":     "Along the river",
		"isPublic": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var journey struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	decodeData(t, rec, &journey)
	assert.NotEmpty(t, journey.Slug)

	base := "/api/v1/journeys/" + journey.ID + "/steps"
	for _, sound := range []string{"s1", "s2", "s3"} {
		rec = env.do(t, http.MethodPost, base, admin, map[string]string{"soundId": sound})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, base+"/reorder", admin, map[string]int{"from": 3, "to": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var steps []struct {
		SoundID   string `json:"soundId"`
		StepOrder int    `json:"stepOrder"`
	}
	decodeData(t, rec, &steps)
	require.Len(t, steps, 3)
	assert.Equal(t, []string{"s3", "s1", "s2"}, []string{steps[0].SoundID, steps[1].SoundID, steps[2].SoundID})

	rec = env.do(t, http.MethodGet, "/api/v1/journeys/slug/"+journey.Slug, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminUsers(t *testing.T) {
	env := newTestEnv(t)
	admin := token(t, "root", "ADMIN")

	for _, u := range []schema.User{
		{ID: "u1", Sub: "u1", Email: "ada@example.com", Username: "ada"},
		{ID: "u2", Sub: "u2", Email: "bob@example.com", Username: "bob"},
		{ID: "u3", Sub: "u3", Email: "cy@example.com", Username: "cy"},
	} {
		_, err := env.users.Create(context.Background(), u)
		require.NoError(t, err)
	}

	rec := env.do(t, http.MethodGet, "/api/v1/admin/users?page=1&page_size=2", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		Data []map[string]interface{} `json:"data"`
		Meta struct {
			Pagination struct {
				Total      int `json:"total"`
				TotalPages int `json:"total_pages"`
			} `json:"pagination"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Meta.Pagination.Total)
	assert.Equal(t, 2, page.Meta.Pagination.TotalPages)

	rec = env.do(t, http.MethodGet, "/api/v1/admin/users.csv?search=bob", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "bob@example.com")
	assert.NotContains(t, rec.Body.String(), "ada@example.com")

	rec = env.do(t, http.MethodPost, "/api/v1/admin/users/ada/promote", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no identity provider is configured in this environment
	rec = env.do(t, http.MethodPost, "/api/v1/admin/users/ada/disable", admin, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 3, env.users.Len())
}

func TestRunPick_UnknownKind(t *testing.T) {
	env := newTestEnv(t)
	admin := token(t, "root", "ADMIN")

	rec := env.do(t, http.MethodPost, "/api/v1/admin/picks/weekly-sound/run", admin, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
