package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/events"
	"ecnelisfly/infrastructure/persistence/memory"
	"ecnelisfly/infrastructure/persistence/schema"
)

type memoryTables struct {
	Tables
	sounds          *memory.Collection[schema.Sound]
	zones           *memory.Collection[schema.Zone]
	zoneSounds      *memory.Collection[schema.ZoneSound]
	journeys        *memory.Collection[schema.SoundJourney]
	steps           *memory.Collection[schema.SoundJourneyStep]
	candidates      *memory.Collection[schema.FeaturedSoundCandidate]
	dailyFeatured   *memory.Collection[schema.DailyFeaturedSound]
	monthlyZones    *memory.Collection[schema.MonthlyZone]
	monthlyJourneys *memory.Collection[schema.MonthlyJourney]
	users           *memory.Collection[schema.User]
	emailTemplates  *memory.Collection[schema.EmailTemplate]
}

func newMemoryTables() *memoryTables {
	m := &memoryTables{
		sounds:          memory.NewCollection[schema.Sound](schema.Spec(schema.TableSound, "")),
		zones:           memory.NewCollection[schema.Zone](schema.Spec(schema.TableZone, "")),
		zoneSounds:      memory.NewCollection[schema.ZoneSound](schema.Spec(schema.TableZoneSound, "")),
		journeys:        memory.NewCollection[schema.SoundJourney](schema.Spec(schema.TableSoundJourney, "")),
		steps:           memory.NewCollection[schema.SoundJourneyStep](schema.Spec(schema.TableSoundJourneyStep, "")),
		candidates:      memory.NewCollection[schema.FeaturedSoundCandidate](schema.Spec(schema.TableFeaturedSoundCandidate, "")),
		dailyFeatured:   memory.NewCollection[schema.DailyFeaturedSound](schema.Spec(schema.TableDailyFeaturedSound, "")),
		monthlyZones:    memory.NewCollection[schema.MonthlyZone](schema.Spec(schema.TableMonthlyZone, "")),
		monthlyJourneys: memory.NewCollection[schema.MonthlyJourney](schema.Spec(schema.TableMonthlyJourney, "")),
		users:           memory.NewCollection[schema.User](schema.Spec(schema.TableUser, "")),
		emailTemplates:  memory.NewCollection[schema.EmailTemplate](schema.Spec(schema.TableEmailTemplate, "")),
	}
	m.Tables = Tables{
		Sounds:          m.sounds,
		Zones:           m.zones,
		ZoneSounds:      m.zoneSounds,
		Journeys:        m.journeys,
		Steps:           m.steps,
		Candidates:      m.candidates,
		DailyFeatured:   m.dailyFeatured,
		MonthlyZones:    m.monthlyZones,
		MonthlyJourneys: m.monthlyJourneys,
		Users:           m.users,
		EmailTemplates:  m.emailTemplates,
	}
	return m
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
	gets  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.items[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, e := range batch {
		_ = p.Publish(ctx, e)
	}
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type MockIdentityAdmin struct {
	mock.Mock
}

func (m *MockIdentityAdmin) DisableUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockIdentityAdmin) EnableUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockIdentityAdmin) AddUserToGroup(ctx context.Context, username, group string) error {
	return m.Called(ctx, username, group).Error(0)
}

func (m *MockIdentityAdmin) RemoveUserFromGroup(ctx context.Context, username, group string) error {
	return m.Called(ctx, username, group).Error(0)
}

func (m *MockIdentityAdmin) DeleteUser(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *MockIdentityAdmin) ListUserStatuses(ctx context.Context) ([]entities.IdentityUser, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entities.IdentityUser)
	return users, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, email ports.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func ptr[T any](v T) *T { return &v }
