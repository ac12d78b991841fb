package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"ecnelisfly/application/pagination"
	"ecnelisfly/application/ports"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
)

// directoryPageSize is the largest page the identity directory serves.
const directoryPageSize = 60

// MonthCount is one bar of the registration histogram.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// ProviderBreakdown splits accounts between email sign-up and federated
// providers.
type ProviderBreakdown struct {
	Email      int            `json:"email"`
	Federated  int            `json:"federated"`
	ByProvider map[string]int `json:"byProvider"`
}

// UserStats summarizes the identity directory.
type UserStats struct {
	Total     int               `json:"total"`
	LastWeek  int               `json:"lastWeek"`
	LastMonth int               `json:"lastMonth"`
	Monthly   []MonthCount      `json:"monthly"`
	Providers ProviderBreakdown `json:"providers"`
}

// UserStatsService aggregates sign-ups from the identity directory.
type UserStatsService struct {
	directory ports.IdentityDirectory
	logger    *zap.Logger
}

// NewUserStatsService creates the service.
func NewUserStatsService(directory ports.IdentityDirectory, logger *zap.Logger) *UserStatsService {
	return &UserStatsService{directory: directory, logger: logger}
}

// Compute walks the whole directory. The histogram covers the twelve
// calendar months ending with the month of now, oldest first.
func (s *UserStatsService) Compute(ctx context.Context, now time.Time) (*UserStats, error) {
	var fetch pagination.PageFunc[entities.IdentityUser] = func(ctx context.Context, token string) (*ports.Page[entities.IdentityUser], error) {
		users, next, err := s.directory.ListUsers(ctx, token, directoryPageSize)
		if err != nil {
			return nil, err
		}
		return &ports.Page[entities.IdentityUser]{Items: users, NextToken: next}, nil
	}
	users, err := pagination.Walk(ctx, fetch, pagination.Identity[entities.IdentityUser])
	if err != nil {
		return nil, failed(s.logger, "computeUserStats", err)
	}

	stats := Aggregate(users, now)
	s.logger.Info("User stats computed",
		zap.Int("total", stats.Total),
		zap.Int("lastWeek", stats.LastWeek),
		zap.Int("lastMonth", stats.LastMonth),
	)
	return stats, nil
}

// Aggregate computes the statistics of users relative to now.
func Aggregate(users []entities.IdentityUser, now time.Time) *UserStats {
	now = now.UTC()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthly := make([]MonthCount, 12)
	slot := make(map[string]int, 12)
	for i := 0; i < 12; i++ {
		key := valueobjects.MonthKey(first.AddDate(0, i-11, 0))
		monthly[i] = MonthCount{Month: key}
		slot[key] = i
	}

	stats := &UserStats{
		Total:     len(users),
		Monthly:   monthly,
		Providers: ProviderBreakdown{ByProvider: map[string]int{}},
	}
	for _, user := range users {
		provider := providerName(user.Provider)
		if provider == "" {
			stats.Providers.Email++
		} else {
			stats.Providers.Federated++
			stats.Providers.ByProvider[provider]++
		}

		if user.CreatedAt == nil {
			continue
		}
		created := user.CreatedAt.UTC()
		if !created.Before(weekAgo) {
			stats.LastWeek++
		}
		if !created.Before(monthAgo) {
			stats.LastMonth++
		}
		if i, ok := slot[valueobjects.MonthKey(created)]; ok {
			stats.Monthly[i].Count++
		}
	}
	return stats
}

// providerName returns the federated provider of an account, or "" for
// email sign-ups.
func providerName(provider string) string {
	switch strings.ToLower(provider) {
	case "", "email", "cognito":
		return ""
	default:
		return provider
	}
}
