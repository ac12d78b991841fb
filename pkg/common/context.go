package common

import (
	"context"
	"time"
)

// ContextKey represents a context key type
type ContextKey string

// Context keys
const (
	ContextKeyUserID    ContextKey = "user_id"
	ContextKeyUsername  ContextKey = "username"
	ContextKeyRequestID ContextKey = "request_id"
	ContextKeyStartTime ContextKey = "start_time"
	ContextKeyGroups    ContextKey = "groups"
)

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}

// WithUsername adds the identity-provider username to context
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ContextKeyUsername, username)
}

// GetUsername extracts the identity-provider username from context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextKeyUsername).(string)
	return username, ok
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(ContextKeyRequestID).(string)
	return requestID, ok
}

// WithStartTime adds start time to context
func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyStartTime, startTime)
}

// GetElapsedTime calculates elapsed time from start time in context
func GetElapsedTime(ctx context.Context) time.Duration {
	if startTime, ok := ctx.Value(ContextKeyStartTime).(time.Time); ok {
		return time.Since(startTime)
	}
	return 0
}

// WithGroups adds identity-provider groups to context
func WithGroups(ctx context.Context, groups []string) context.Context {
	return context.WithValue(ctx, ContextKeyGroups, groups)
}

// GetGroups extracts identity-provider groups from context
func GetGroups(ctx context.Context) ([]string, bool) {
	groups, ok := ctx.Value(ContextKeyGroups).([]string)
	return groups, ok
}

// InGroup checks if the caller belongs to group
func InGroup(ctx context.Context, group string) bool {
	groups, _ := GetGroups(ctx)
	for _, g := range groups {
		if g == group {
			return true
		}
	}
	return false
}

// ContextMetadata contains the request metadata worth logging
type ContextMetadata struct {
	UserID    string        `json:"user_id,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Groups    []string      `json:"groups,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// ExtractMetadata extracts all metadata from context
func ExtractMetadata(ctx context.Context) ContextMetadata {
	meta := ContextMetadata{Duration: GetElapsedTime(ctx)}
	meta.UserID, _ = GetUserID(ctx)
	meta.RequestID, _ = GetRequestID(ctx)
	meta.Groups, _ = GetGroups(ctx)
	return meta
}
