package ports

import (
	"context"
	"io"
	"time"

	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/events"
)

// Cache memoizes computed values with a time-to-live.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Locker serializes workflows that share a key across processes.
type Locker interface {
	// Acquire blocks until the lock is held or ctx is done. The returned
	// release function is safe to call more than once.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// IdentityAdmin performs administrative calls on the identity provider.
type IdentityAdmin interface {
	DisableUser(ctx context.Context, username string) error
	EnableUser(ctx context.Context, username string) error
	AddUserToGroup(ctx context.Context, username, group string) error
	RemoveUserFromGroup(ctx context.Context, username, group string) error
	DeleteUser(ctx context.Context, username string) error
	ListUserStatuses(ctx context.Context) ([]entities.IdentityUser, error)
}

// IdentityDirectory pages through the identity provider's user directory.
type IdentityDirectory interface {
	ListUsers(ctx context.Context, paginationToken string, limit int) (users []entities.IdentityUser, nextToken string, err error)
}

// Email is one transactional message.
type Email struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
}

// Mailer sends transactional email.
type Mailer interface {
	Send(ctx context.Context, email Email) (messageID string, err error)
}

// UploadProgress reports transferred bytes of an upload.
type UploadProgress func(transferred, total int64)

// UploadInput describes an object to store.
type UploadInput struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	OnProgress  UploadProgress
}

// ObjectStorage stores sound files and serves time-limited URLs.
type ObjectStorage interface {
	Upload(ctx context.Context, in UploadInput) (key string, err error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// MetricsReporter pushes one data point per scheduled job run.
type MetricsReporter interface {
	RecordPick(ctx context.Context, kind entities.PickKind, selected bool) error
}
