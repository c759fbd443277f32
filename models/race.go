package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Distance categories a race can be logged as. Anything else maps to zero
// miles rather than an error.
const (
	FiveK        = "5k"
	TenK         = "10k"
	HalfMarathon = "half marathon"
	Marathon     = "marathon"
)

// DistanceToMiles maps a distance category to its length in miles.
var DistanceToMiles = map[string]float64{
	FiveK:        3.1,
	TenK:         6.2,
	HalfMarathon: 13.1,
	Marathon:     26.2,
}

// Miles returns the miles for a distance category; unknown or absent
// categories contribute 0.
func Miles(distance *string) float64 {
	if distance == nil {
		return 0
	}
	return DistanceToMiles[*distance]
}

// Race is one logged race, owned by exactly one user and tied to exactly one
// reference state.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:r"`

	ID       int      `bun:"id,pk,autoincrement" json:"id"`
	UserID   int      `bun:"user_id,notnull" json:"-"`
	StateID  int      `bun:"state_id,notnull" json:"state"`
	Name     string   `bun:"name,notnull" json:"name"`
	Date     string   `bun:"date,notnull,type:date" json:"date"`
	Time     Duration `bun:"time,notnull,type:bigint" json:"time"`
	Distance *string  `bun:"distance" json:"distance,omitempty"`
	City     *string  `bun:"city" json:"city,omitempty"`
	Notes    *string  `bun:"notes,type:text" json:"notes,omitempty"`

	State *State `bun:"rel:belongs-to,join:state_id=id" json:"state_details,omitempty"`
}

// RaceImage is an image reference attached to a race. The bytes live wherever
// the ref points; this table only tracks the association.
type RaceImage struct {
	bun.BaseModel `bun:"table:race_images,alias:ri"`

	ID         int       `bun:"id,pk,autoincrement" json:"id"`
	RaceID     int       `bun:"race_id,notnull" json:"race"`
	Image      string    `bun:"image,notnull" json:"image"`
	UploadedAt time.Time `bun:"uploaded_at,notnull,default:current_timestamp" json:"uploaded_at"`
}
