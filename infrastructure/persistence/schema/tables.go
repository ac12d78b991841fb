package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// Logical table names. Physical names come from configuration.
const (
	TableSound                  = "Sound"
	TableZone                   = "Zone"
	TableZoneSound              = "ZoneSound"
	TableSoundJourney           = "SoundJourney"
	TableSoundJourneyStep       = "SoundJourneyStep"
	TableFeaturedSoundCandidate = "FeaturedSoundCandidate"
	TableDailyFeaturedSound     = "DailyFeaturedSound"
	TableMonthlyZone            = "MonthlyZone"
	TableMonthlyJourney         = "MonthlyJourney"
	TableUser                   = "User"
	TableEmailTemplate          = "EmailTemplate"
	TableLocks                  = "Locks"
)

// Secondary index names.
const (
	IndexByStatus  = "byStatus"
	IndexByUser    = "byUser"
	IndexBySlug    = "bySlug"
	IndexByZone    = "byZone"
	IndexBySound   = "bySound"
	IndexByJourney = "byJourney"
	IndexByDate    = "byDate"
	IndexByMonth   = "byMonth"
	IndexBySub     = "bySub"
)

// Common attribute names.
const (
	AttrID        = "id"
	AttrCreatedAt = "createdAt"
	AttrUpdatedAt = "updatedAt"
)

// TableSpec describes one table: its primary key attribute and the
// partition attribute of each secondary index.
type TableSpec struct {
	Logical string
	Name    string
	Key     string
	Indexes map[string]string
}

// IndexAttribute returns the partition attribute of index.
func (t TableSpec) IndexAttribute(index string) (string, error) {
	attr, ok := t.Indexes[index]
	if !ok {
		return "", fmt.Errorf("table %s has no index %q", t.Logical, index)
	}
	return attr, nil
}

// KeyAttribute returns the primary key attribute, id by default.
func (t TableSpec) KeyAttribute() string {
	if t.Key == "" {
		return AttrID
	}
	return t.Key
}

var catalogue = map[string]TableSpec{
	TableSound: {Indexes: map[string]string{
		IndexByStatus: "status",
		IndexByUser:   "userId",
	}},
	TableZone: {Indexes: map[string]string{
		IndexBySlug: "slug",
	}},
	TableZoneSound: {Indexes: map[string]string{
		IndexByZone:  "zoneId",
		IndexBySound: "soundId",
	}},
	TableSoundJourney: {Indexes: map[string]string{
		IndexBySlug: "slug",
	}},
	TableSoundJourneyStep: {Indexes: map[string]string{
		IndexByJourney: "journeyId",
	}},
	TableFeaturedSoundCandidate: {Indexes: map[string]string{
		IndexBySound: "soundId",
	}},
	TableDailyFeaturedSound: {Indexes: map[string]string{
		IndexByDate: "date",
	}},
	TableMonthlyZone: {Indexes: map[string]string{
		IndexByMonth: "month",
	}},
	TableMonthlyJourney: {Indexes: map[string]string{
		IndexByMonth: "month",
	}},
	TableUser: {Indexes: map[string]string{
		IndexBySub: "sub",
	}},
	TableEmailTemplate: {Key: "type"},
}

// Spec returns the table spec for a logical table bound to a physical name.
// An empty physical name falls back to the logical one.
func Spec(logical, physical string) TableSpec {
	spec, ok := catalogue[logical]
	if !ok {
		spec = TableSpec{}
	}
	spec.Logical = logical
	spec.Name = physical
	if spec.Name == "" {
		spec.Name = logical
	}
	return spec
}

// Tables lists every logical table that holds domain records.
func Tables() []string {
	return []string{
		TableSound, TableZone, TableZoneSound, TableSoundJourney,
		TableSoundJourneyStep, TableFeaturedSoundCandidate,
		TableDailyFeaturedSound, TableMonthlyZone, TableMonthlyJourney,
		TableUser, TableEmailTemplate,
	}
}

// LogicalTables lists every table, locks included.
func LogicalTables() []string {
	return append(Tables(), TableLocks)
}

// TableEnvVar is the environment variable naming the physical table of
// logical, e.g. ZONE_SOUND_TABLE.
func TableEnvVar(logical string) string {
	var b strings.Builder
	for i, r := range logical {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	b.WriteString("_TABLE")
	return b.String()
}
