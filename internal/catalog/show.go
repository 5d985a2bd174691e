package catalog

import "time"

// Status indicates whether a show was attended or is on the wishlist.
type Status string

const (
	StatusSeen     Status = "seen"
	StatusWishlist Status = "wishlist"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusSeen || s == StatusWishlist
}

// CastMember is one role/actor pairing from a production's lead cast.
type CastMember struct {
	Role  string `json:"role"`
	Actor string `json:"actor"`
}

// Show is a cataloged theater production. Fields past SourceImagePath are
// filled by metadata enrichment; pointer fields stay nil until enrichment
// supplies a value, so absent and zero are distinguishable.
type Show struct {
	ID              int64
	ShowName        string
	TheaterName     string
	SeenStatus      Status
	DateAttended    string
	DateAdded       time.Time
	LastUpdated     time.Time
	Rating          int
	PersonalNotes   string
	SourceImagePath string

	LeadCast               []CastMember
	Director               string
	Choreographer          string
	Composer               string
	Lyricist               string
	BookWriter             string
	OpeningDate            string
	ClosingDate            string
	IsRevival              *bool
	OriginalProductionYear *int
	ProductionType         string
	PlotSummary            string
	Genre                  string
	TonyAwards             []string
	OtherAwards            []string
	MusicalNumbers         []string
	Themes                 []string
	RunningTime            *int
	IntermissionCount      *int
	LLMCategories          []string
	UserCategories         []string
}

// NewShow carries the caller-supplied fields for a record being created.
type NewShow struct {
	ShowName        string
	TheaterName     string
	SeenStatus      Status
	DateAttended    string
	Rating          int
	PersonalNotes   string
	SourceImagePath string
}

// FieldUpdates maps column names to replacement values for a partial update.
type FieldUpdates map[string]any
