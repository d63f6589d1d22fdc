package core

// Column names of the schools feed. Matching is case-sensitive.
const (
	ColSchoolCode     = "SCH_CODE"
	ColSchoolName     = "SCHOOL_NAME"
	ColSchoolDistrict = "distt"
	ColSchoolLat      = "lat"
	ColSchoolLng      = "lng"
)

// Column names of the resource persons feed.
const (
	ColRPTopic          = "TOPIC"
	ColRPTrainingStatus = "TRAINING_STATUS"
	ColRPDistrict       = "DIST"
	ColRPName           = "RP_NAME"
	ColRPMobile         = "MOBILE_NO"
	ColRPEmail          = "EMAIL"
)

// FieldSpec describes one expected feed column.
type FieldSpec struct {
	Name     string // Column header name (must match the feed exactly)
	Required bool   // Column is expected; absence is logged, never fatal
}

// FeedDefinition is the column contract of one feed.
// The topics feed is a plain newline list and has no definition.
type FeedDefinition struct {
	Kind       FeedKind
	FieldSpecs []FieldSpec
}

var (
	SchoolFeed = FeedDefinition{
		Kind: FeedSchools,
		FieldSpecs: []FieldSpec{
			{Name: ColSchoolCode, Required: true},
			{Name: ColSchoolName, Required: true},
			{Name: ColSchoolDistrict, Required: true},
			{Name: ColSchoolLat},
			{Name: ColSchoolLng},
		},
	}

	ResourcePersonFeed = FeedDefinition{
		Kind: FeedResourcePersons,
		FieldSpecs: []FieldSpec{
			{Name: ColRPTopic, Required: true},
			{Name: ColRPTrainingStatus, Required: true},
			{Name: ColRPDistrict, Required: true},
			{Name: ColRPName, Required: true},
			{Name: ColRPMobile},
			{Name: ColRPEmail},
		},
	}

)
