// Package schema declares the persisted shape of every table. Records are
// the raw items exchanged with the store: localized text, polygons and
// centers are JSON strings, timestamps are RFC3339 strings.
package schema

// Sound is a row of the Sound table.
type Sound struct {
	ID                string   `dynamodbav:"id" json:"id"`
	UserID            string   `dynamodbav:"userId" json:"userId"`
	Title             string   `dynamodbav:"title" json:"title"`
	TitleI18n         string   `dynamodbav:"titleI18n,omitempty" json:"titleI18n,omitempty"`
	ShortStory        string   `dynamodbav:"shortStory,omitempty" json:"shortStory,omitempty"`
	ShortStoryI18n    string   `dynamodbav:"shortStoryI18n,omitempty" json:"shortStoryI18n,omitempty"`
	Filename          string   `dynamodbav:"filename,omitempty" json:"filename,omitempty"`
	Status            string   `dynamodbav:"status" json:"status"`
	Latitude          float64  `dynamodbav:"latitude" json:"latitude"`
	Longitude         float64  `dynamodbav:"longitude" json:"longitude"`
	City              string   `dynamodbav:"city,omitempty" json:"city,omitempty"`
	Category          string   `dynamodbav:"category,omitempty" json:"category,omitempty"`
	SecondaryCategory string   `dynamodbav:"secondaryCategory,omitempty" json:"secondaryCategory,omitempty"`
	DateTime          string   `dynamodbav:"dateTime,omitempty" json:"dateTime,omitempty"`
	RecordDateTime    string   `dynamodbav:"recordDateTime,omitempty" json:"recordDateTime,omitempty"`
	Equipment         string   `dynamodbav:"equipment,omitempty" json:"equipment,omitempty"`
	License           string   `dynamodbav:"license,omitempty" json:"license,omitempty"`
	URL               string   `dynamodbav:"url,omitempty" json:"url,omitempty"`
	URLTitle          string   `dynamodbav:"urlTitle,omitempty" json:"urlTitle,omitempty"`
	SecondaryURL      string   `dynamodbav:"secondaryUrl,omitempty" json:"secondaryUrl,omitempty"`
	SecondaryURLTitle string   `dynamodbav:"secondaryUrlTitle,omitempty" json:"secondaryUrlTitle,omitempty"`
	Hashtags          []string `dynamodbav:"hashtags,omitempty" json:"hashtags,omitempty"`
	Likes             int      `dynamodbav:"likes" json:"likes"`
	CreatedAt         string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         string   `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Zone is a row of the Zone table.
type Zone struct {
	ID              string `dynamodbav:"id" json:"id"`
	Name            string `dynamodbav:"name" json:"name"`
	NameI18n        string `dynamodbav:"nameI18n,omitempty" json:"nameI18n,omitempty"`
	Description     string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	DescriptionI18n string `dynamodbav:"descriptionI18n,omitempty" json:"descriptionI18n,omitempty"`
	Slug            string `dynamodbav:"slug" json:"slug"`
	Polygon         string `dynamodbav:"polygon,omitempty" json:"polygon,omitempty"`
	Center          string `dynamodbav:"center,omitempty" json:"center,omitempty"`
	DefaultZoom     int    `dynamodbav:"defaultZoom,omitempty" json:"defaultZoom,omitempty"`
	CoverImage      string `dynamodbav:"coverImage,omitempty" json:"coverImage,omitempty"`
	AmbientSound    string `dynamodbav:"ambientSound,omitempty" json:"ambientSound,omitempty"`
	IsVisibleOnMap  bool   `dynamodbav:"isVisibleOnMap" json:"isVisibleOnMap"`
	SortOrder       int    `dynamodbav:"sortOrder" json:"sortOrder"`
	CreatedAt       string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ZoneSound is a row of the ZoneSound join table.
type ZoneSound struct {
	ID        string `dynamodbav:"id" json:"id"`
	ZoneID    string `dynamodbav:"zoneId" json:"zoneId"`
	SoundID   string `dynamodbav:"soundId" json:"soundId"`
	SortOrder int    `dynamodbav:"sortOrder" json:"sortOrder"`
	CreatedAt string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// SoundJourney is a row of the SoundJourney table.
type SoundJourney struct {
	ID              string `dynamodbav:"id" json:"id"`
	Name            string `dynamodbav:"name" json:"name"`
	NameI18n        string `dynamodbav:"nameI18n,omitempty" json:"nameI18n,omitempty"`
	Description     string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	DescriptionI18n string `dynamodbav:"descriptionI18n,omitempty" json:"descriptionI18n,omitempty"`
	Slug            string `dynamodbav:"slug" json:"slug"`
	CoverImage      string `dynamodbav:"coverImage,omitempty" json:"coverImage,omitempty"`
	Color           string `dynamodbav:"color,omitempty" json:"color,omitempty"`
	IsPublic        bool   `dynamodbav:"isPublic" json:"isPublic"`
	SortOrder       int    `dynamodbav:"sortOrder" json:"sortOrder"`
	CreatedAt       string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt       string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// SoundJourneyStep is a row of the SoundJourneyStep table.
type SoundJourneyStep struct {
	ID            string `dynamodbav:"id" json:"id"`
	JourneyID     string `dynamodbav:"journeyId" json:"journeyId"`
	SoundID       string `dynamodbav:"soundId" json:"soundId"`
	StepOrder     int    `dynamodbav:"stepOrder" json:"stepOrder"`
	ThemeText     string `dynamodbav:"themeText,omitempty" json:"themeText,omitempty"`
	ThemeTextI18n string `dynamodbav:"themeTextI18n,omitempty" json:"themeTextI18n,omitempty"`
	CreatedAt     string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt     string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// FeaturedSoundCandidate is a row of the FeaturedSoundCandidate table.
type FeaturedSoundCandidate struct {
	ID         string `dynamodbav:"id" json:"id"`
	SoundID    string `dynamodbav:"soundId" json:"soundId"`
	Label      string `dynamodbav:"label,omitempty" json:"label,omitempty"`
	Teaser     string `dynamodbav:"teaser,omitempty" json:"teaser,omitempty"`
	TeaserI18n string `dynamodbav:"teaserI18n,omitempty" json:"teaserI18n,omitempty"`
	IsActive   bool   `dynamodbav:"isActive" json:"isActive"`
	SortOrder  int    `dynamodbav:"sortOrder" json:"sortOrder"`
	CreatedAt  string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt  string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// DailyFeaturedSound is a row of the DailyFeaturedSound table.
type DailyFeaturedSound struct {
	ID             string  `dynamodbav:"id" json:"id"`
	Date           string  `dynamodbav:"date" json:"date"`
	CandidateID    string  `dynamodbav:"candidateId,omitempty" json:"candidateId,omitempty"`
	SoundID        string  `dynamodbav:"soundId" json:"soundId"`
	Teaser         string  `dynamodbav:"teaser,omitempty" json:"teaser,omitempty"`
	TeaserI18n     string  `dynamodbav:"teaserI18n,omitempty" json:"teaserI18n,omitempty"`
	SoundTitle     string  `dynamodbav:"soundTitle,omitempty" json:"soundTitle,omitempty"`
	SoundCity      string  `dynamodbav:"soundCity,omitempty" json:"soundCity,omitempty"`
	SoundLatitude  float64 `dynamodbav:"soundLatitude" json:"soundLatitude"`
	SoundLongitude float64 `dynamodbav:"soundLongitude" json:"soundLongitude"`
	SoundCategory  string  `dynamodbav:"soundCategory,omitempty" json:"soundCategory,omitempty"`
	SoundFilename  string  `dynamodbav:"soundFilename,omitempty" json:"soundFilename,omitempty"`
	Active         bool    `dynamodbav:"active" json:"active"`
	CreatedAt      string  `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      string  `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// MonthlyZone is a row of the MonthlyZone table.
type MonthlyZone struct {
	ID             string `dynamodbav:"id" json:"id"`
	Month          string `dynamodbav:"month" json:"month"`
	ZoneID         string `dynamodbav:"zoneId" json:"zoneId"`
	ZoneName       string `dynamodbav:"zoneName,omitempty" json:"zoneName,omitempty"`
	ZoneNameI18n   string `dynamodbav:"zoneNameI18n,omitempty" json:"zoneNameI18n,omitempty"`
	ZoneSlug       string `dynamodbav:"zoneSlug,omitempty" json:"zoneSlug,omitempty"`
	ZoneCoverImage string `dynamodbav:"zoneCoverImage,omitempty" json:"zoneCoverImage,omitempty"`
	ZoneCenter     string `dynamodbav:"zoneCenter,omitempty" json:"zoneCenter,omitempty"`
	Active         bool   `dynamodbav:"active" json:"active"`
	CreatedAt      string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// MonthlyJourney is a row of the MonthlyJourney table.
type MonthlyJourney struct {
	ID                string `dynamodbav:"id" json:"id"`
	Month             string `dynamodbav:"month" json:"month"`
	JourneyID         string `dynamodbav:"journeyId" json:"journeyId"`
	JourneyName       string `dynamodbav:"journeyName,omitempty" json:"journeyName,omitempty"`
	JourneyNameI18n   string `dynamodbav:"journeyNameI18n,omitempty" json:"journeyNameI18n,omitempty"`
	JourneySlug       string `dynamodbav:"journeySlug,omitempty" json:"journeySlug,omitempty"`
	JourneyCoverImage string `dynamodbav:"journeyCoverImage,omitempty" json:"journeyCoverImage,omitempty"`
	JourneyColor      string `dynamodbav:"journeyColor,omitempty" json:"journeyColor,omitempty"`
	Active            bool   `dynamodbav:"active" json:"active"`
	CreatedAt         string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt         string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// User is a row of the User table.
type User struct {
	ID        string `dynamodbav:"id" json:"id"`
	Sub       string `dynamodbav:"sub,omitempty" json:"sub,omitempty"`
	Email     string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Username  string `dynamodbav:"username,omitempty" json:"username,omitempty"`
	FirstName string `dynamodbav:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `dynamodbav:"lastName,omitempty" json:"lastName,omitempty"`
	Country   string `dynamodbav:"country,omitempty" json:"country,omitempty"`
	Language  string `dynamodbav:"language,omitempty" json:"language,omitempty"`
	AvatarURL string `dynamodbav:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// EmailTemplate is a row of the EmailTemplate table, keyed by type.
type EmailTemplate struct {
	Type      string `dynamodbav:"type" json:"type"`
	Subject   string `dynamodbav:"subject" json:"subject"`
	HTMLBody  string `dynamodbav:"htmlBody" json:"htmlBody"`
	CreatedAt string `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
