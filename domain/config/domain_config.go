package config

import "time"

// DomainConfig holds the configurable business rules of the sound map
type DomainConfig struct {
	// Paging
	DefaultPageSize int
	MaxPageSize     int
	MaxWalkPages    int

	// Caching
	CommunityStatsTTL time.Duration

	// Content
	SupportedLanguages []string
	DefaultLanguage    string
	MaxTitleLength     int
	MaxStoryLength     int
	MaxHashtags        int

	// Map
	DefaultZoneZoom int
	MinZoom         int
	MaxZoom         int

	// Storage
	SoundURLTTL time.Duration

	// Picks
	FeaturedHistoryLimit int
	LockTTL              time.Duration

	// Admin
	AdminGroup string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		DefaultPageSize: 100,
		MaxPageSize:     1000,
		MaxWalkPages:    10000,

		CommunityStatsTTL: 5 * time.Minute,

		SupportedLanguages: []string{"fr", "en", "es"},
		DefaultLanguage:    "fr",
		MaxTitleLength:     200,
		MaxStoryLength:     5000,
		MaxHashtags:        30,

		DefaultZoneZoom: 13,
		MinZoom:         1,
		MaxZoom:         20,

		SoundURLTTL: time.Hour,

		FeaturedHistoryLimit: 30,
		LockTTL:              30 * time.Second,

		AdminGroup: "ADMIN",
	}
}

// IsSupportedLanguage reports whether lang is one of the content languages
func (c *DomainConfig) IsSupportedLanguage(lang string) bool {
	for _, l := range c.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// ClampPageSize bounds a requested page size to [1, MaxPageSize]
func (c *DomainConfig) ClampPageSize(n int) int {
	if n <= 0 {
		return c.DefaultPageSize
	}
	if n > c.MaxPageSize {
		return c.MaxPageSize
	}
	return n
}
