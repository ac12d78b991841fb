package events

import (
	"time"

	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Event types published on the bus
const (
	EventTypePickSelected       = "pick.selected"
	EventTypeSoundStatusChanged = "sound.status_changed"
	EventTypeSoundDeleted       = "sound.deleted"
	EventTypeZoneDeleted        = "zone.deleted"
	EventTypeUserAdminChanged   = "user.admin_changed"
)

// PickSelected is raised when a current-pick slot receives a new row
type PickSelected struct {
	BaseEvent
	Kind      entities.PickKind `json:"kind"`
	PeriodKey string            `json:"period_key"`
	PickID    string            `json:"pick_id"`
	SourceID  string            `json:"source_id"`
	Replaced  int               `json:"replaced"`
}

// NewPickSelected creates a PickSelected event
func NewPickSelected(kind entities.PickKind, periodKey, pickID, sourceID string, replaced int, timestamp time.Time) PickSelected {
	return PickSelected{
		BaseEvent: BaseEvent{
			AggregateID: pickID,
			EventType:   EventTypePickSelected,
			Timestamp:   timestamp,
			Version:     1,
		},
		Kind:      kind,
		PeriodKey: periodKey,
		PickID:    pickID,
		SourceID:  sourceID,
		Replaced:  replaced,
	}
}

// SoundStatusChanged is raised when moderation moves a sound
type SoundStatusChanged struct {
	BaseEvent
	SoundID   string                   `json:"sound_id"`
	UserID    string                   `json:"user_id"`
	OldStatus valueobjects.SoundStatus `json:"old_status"`
	NewStatus valueobjects.SoundStatus `json:"new_status"`
}

// NewSoundStatusChanged creates a SoundStatusChanged event
func NewSoundStatusChanged(soundID, userID string, oldStatus, newStatus valueobjects.SoundStatus, timestamp time.Time) SoundStatusChanged {
	return SoundStatusChanged{
		BaseEvent: BaseEvent{
			AggregateID: soundID,
			EventType:   EventTypeSoundStatusChanged,
			Timestamp:   timestamp,
			Version:     1,
		},
		SoundID:   soundID,
		UserID:    userID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
}

// SoundDeleted is raised after a sound and its zone links are removed
type SoundDeleted struct {
	BaseEvent
	SoundID  string `json:"sound_id"`
	UserID   string `json:"user_id"`
	Filename string `json:"filename"`
}

// NewSoundDeleted creates a SoundDeleted event
func NewSoundDeleted(soundID, userID, filename string, timestamp time.Time) SoundDeleted {
	return SoundDeleted{
		BaseEvent: BaseEvent{
			AggregateID: soundID,
			EventType:   EventTypeSoundDeleted,
			Timestamp:   timestamp,
			Version:     1,
		},
		SoundID:  soundID,
		UserID:   userID,
		Filename: filename,
	}
}

// ZoneDeleted is raised after a zone and its associations are removed
type ZoneDeleted struct {
	BaseEvent
	ZoneID           string `json:"zone_id"`
	RemovedSoundRefs int    `json:"removed_sound_refs"`
}

// NewZoneDeleted creates a ZoneDeleted event
func NewZoneDeleted(zoneID string, removed int, timestamp time.Time) ZoneDeleted {
	return ZoneDeleted{
		BaseEvent: BaseEvent{
			AggregateID: zoneID,
			EventType:   EventTypeZoneDeleted,
			Timestamp:   timestamp,
			Version:     1,
		},
		ZoneID:           zoneID,
		RemovedSoundRefs: removed,
	}
}

// UserAdminChanged is raised when an account joins or leaves the admin group
type UserAdminChanged struct {
	BaseEvent
	Username string `json:"username"`
	Group    string `json:"group"`
	IsAdmin  bool   `json:"is_admin"`
}

// NewUserAdminChanged creates a UserAdminChanged event
func NewUserAdminChanged(username, group string, isAdmin bool, timestamp time.Time) UserAdminChanged {
	return UserAdminChanged{
		BaseEvent: BaseEvent{
			AggregateID: username,
			EventType:   EventTypeUserAdminChanged,
			Timestamp:   timestamp,
			Version:     1,
		},
		Username: username,
		Group:    group,
		IsAdmin:  isAdmin,
	}
}
