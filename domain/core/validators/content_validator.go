package validators

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"ecnelisfly/domain/config"
	"ecnelisfly/domain/core/entities"
	"ecnelisfly/domain/core/valueobjects"
	"ecnelisfly/pkg/errors"
)

// ContentValidator validates sound, zone and journey business rules
// that struct tags cannot express.
type ContentValidator struct {
	cfg *config.DomainConfig
}

// NewContentValidator creates a validator bound to the domain rules
func NewContentValidator(cfg *config.DomainConfig) *ContentValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &ContentValidator{cfg: cfg}
}

// ValidateSound validates a sound before it is created
func (v *ContentValidator) ValidateSound(s *entities.Sound) error {
	if strings.TrimSpace(s.UserID) == "" {
		return errors.NewFieldError("userId", "a sound must belong to a user")
	}
	if err := v.validateTitle(s.Title); err != nil {
		return err
	}
	if utf8.RuneCountInString(s.ShortStory) > v.cfg.MaxStoryLength {
		return errors.NewFieldError("shortStory", "short story is too long").
			WithDetail("max_length", v.cfg.MaxStoryLength)
	}
	if !s.Status.IsValid() {
		return errors.NewValidationError(fmt.Sprintf("unknown sound status %q", s.Status))
	}
	if err := v.ValidateCoordinates(s.Latitude, s.Longitude); err != nil {
		return err
	}
	if err := v.ValidateHashtags(s.Hashtags); err != nil {
		return err
	}
	if err := v.ValidateLocalizedText("titleI18n", s.TitleI18n); err != nil {
		return err
	}
	if err := v.ValidateLocalizedText("shortStoryI18n", s.ShortStoryI18n); err != nil {
		return err
	}
	for field, link := range map[string]string{"url": s.URL, "secondaryUrl": s.SecondaryURL} {
		if err := validateURL(field, link); err != nil {
			return err
		}
	}
	return nil
}

// ValidateZone validates a zone before it is created
func (v *ContentValidator) ValidateZone(z *entities.Zone) error {
	if strings.TrimSpace(z.Name) == "" {
		return errors.NewFieldError("name", "zone name is required")
	}
	if z.Polygon == nil {
		return errors.NewFieldError("polygon", "zone polygon is required")
	}
	if err := z.Polygon.Validate(); err != nil {
		return err
	}
	if z.DefaultZoom != 0 && (z.DefaultZoom < v.cfg.MinZoom || z.DefaultZoom > v.cfg.MaxZoom) {
		return errors.NewFieldError("defaultZoom", "default zoom out of range").
			WithDetail("min", v.cfg.MinZoom).
			WithDetail("max", v.cfg.MaxZoom)
	}
	if err := v.ValidateLocalizedText("nameI18n", z.NameI18n); err != nil {
		return err
	}
	return v.ValidateLocalizedText("descriptionI18n", z.DescriptionI18n)
}

// ValidateJourney validates a journey before it is created
func (v *ContentValidator) ValidateJourney(j *entities.SoundJourney) error {
	if strings.TrimSpace(j.Name) == "" {
		return errors.NewFieldError("name", "journey name is required")
	}
	if err := v.ValidateLocalizedText("nameI18n", j.NameI18n); err != nil {
		return err
	}
	return v.ValidateLocalizedText("descriptionI18n", j.DescriptionI18n)
}

// ValidateCoordinates checks WGS84 bounds
func (v *ContentValidator) ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return errors.NewValidationError("coordinates out of range").
			WithDetails(map[string]interface{}{"latitude": lat, "longitude": lng})
	}
	return nil
}

// ValidateHashtags validates a list of hashtags
func (v *ContentValidator) ValidateHashtags(tags []string) error {
	if len(tags) > v.cfg.MaxHashtags {
		return errors.NewFieldError("hashtags", fmt.Sprintf("cannot have more than %d hashtags", v.cfg.MaxHashtags)).
			WithDetail("count", len(tags))
	}
	for _, tag := range tags {
		if strings.TrimSpace(strings.TrimPrefix(tag, "#")) == "" {
			return errors.NewFieldError("hashtags", "hashtag cannot be empty")
		}
	}
	return nil
}

// ValidateLocalizedText rejects translations for unsupported languages
func (v *ContentValidator) ValidateLocalizedText(field string, text valueobjects.LocalizedText) error {
	for lang := range text {
		if !v.cfg.IsSupportedLanguage(lang) {
			return errors.NewFieldError(field, fmt.Sprintf("unsupported language %q", lang)).
				WithDetail("supported", v.cfg.SupportedLanguages)
		}
	}
	return nil
}

func (v *ContentValidator) validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.NewFieldError("title", "title is required")
	}
	if utf8.RuneCountInString(title) > v.cfg.MaxTitleLength {
		return errors.NewFieldError("title", "title is too long").
			WithDetail("max_length", v.cfg.MaxTitleLength)
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errors.NewFieldError(field, "invalid URL")
	}
	return nil
}
