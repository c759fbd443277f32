package models

import "github.com/uptrace/bun"

// State is one row of the US-states reference set. Seeded once per deployment
// and treated as immutable afterwards.
type State struct {
	bun.BaseModel `bun:"table:states,alias:s"`

	ID           int     `bun:"id,pk,autoincrement" json:"id"`
	Name         string  `bun:"name,notnull,unique" json:"name"`
	Abbreviation string  `bun:"abbreviation,notnull,type:varchar(2)" json:"abbreviation"`
	Region       string  `bun:"region,notnull" json:"region"`
	RegionColor  *string `bun:"region_color,type:varchar(7)" json:"region_color,omitempty"`
	Subregion    *string `bun:"subregion" json:"subregion,omitempty"`
	SVGPath      *string `bun:"svg_path,type:text" json:"svg_path,omitempty"`
}
