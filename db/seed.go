package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/uptrace/bun"

	"github.com/racethestates/api/models"
)

// RegionColors are the fixed display colors the mobile map uses per region.
var RegionColors = map[string]string{
	"West":      "#95FF00",
	"Midwest":   "#EBFC00",
	"South":     "#FF63FA",
	"Northeast": "#01C7FE",
}

type seedState struct {
	Name         string
	Abbreviation string
	Region       string
}

// SeedStates lists all 50 US states with their census region.
var SeedStates = []seedState{
	{"Alabama", "AL", "South"},
	{"Alaska", "AK", "West"},
	{"Arizona", "AZ", "West"},
	{"Arkansas", "AR", "South"},
	{"California", "CA", "West"},
	{"Colorado", "CO", "West"},
	{"Connecticut", "CT", "Northeast"},
	{"Delaware", "DE", "Northeast"},
	{"Florida", "FL", "South"},
	{"Georgia", "GA", "South"},
	{"Hawaii", "HI", "West"},
	{"Idaho", "ID", "West"},
	{"Illinois", "IL", "Midwest"},
	{"Indiana", "IN", "Midwest"},
	{"Iowa", "IA", "Midwest"},
	{"Kansas", "KS", "Midwest"},
	{"Kentucky", "KY", "South"},
	{"Louisiana", "LA", "South"},
	{"Maine", "ME", "Northeast"},
	{"Maryland", "MD", "Northeast"},
	{"Massachusetts", "MA", "Northeast"},
	{"Michigan", "MI", "Midwest"},
	{"Minnesota", "MN", "Midwest"},
	{"Mississippi", "MS", "South"},
	{"Missouri", "MO", "Midwest"},
	{"Montana", "MT", "West"},
	{"Nebraska", "NE", "Midwest"},
	{"Nevada", "NV", "West"},
	{"New Hampshire", "NH", "Northeast"},
	{"New Jersey", "NJ", "Northeast"},
	{"New Mexico", "NM", "West"},
	{"New York", "NY", "Northeast"},
	{"North Carolina", "NC", "South"},
	{"North Dakota", "ND", "Midwest"},
	{"Ohio", "OH", "Midwest"},
	{"Oklahoma", "OK", "South"},
	{"Oregon", "OR", "West"},
	{"Pennsylvania", "PA", "Northeast"},
	{"Rhode Island", "RI", "Northeast"},
	{"South Carolina", "SC", "South"},
	{"South Dakota", "SD", "Midwest"},
	{"Tennessee", "TN", "South"},
	{"Texas", "TX", "South"},
	{"Utah", "UT", "West"},
	{"Vermont", "VT", "Northeast"},
	{"Virginia", "VA", "South"},
	{"Washington", "WA", "West"},
	{"West Virginia", "WV", "South"},
	{"Wisconsin", "WI", "Midwest"},
	{"Wyoming", "WY", "West"},
}

// SeedStatesTable upserts all 50 states. svgFile may name a JSON file mapping
// state name to SVG boundary path; pass "" to seed without boundary data.
// Safe to run repeatedly.
func SeedStatesTable(ctx context.Context, db *bun.DB, svgFile string) error {
	svgPaths := map[string]string{}
	if svgFile != "" {
		raw, err := os.ReadFile(svgFile)
		if err != nil {
			return fmt.Errorf("reading svg file: %w", err)
		}
		if err := json.Unmarshal(raw, &svgPaths); err != nil {
			return fmt.Errorf("parsing svg file: %w", err)
		}
	}

	for _, s := range SeedStates {
		state := &models.State{
			Name:         s.Name,
			Abbreviation: s.Abbreviation,
			Region:       s.Region,
		}
		if color, ok := RegionColors[s.Region]; ok {
			state.RegionColor = &color
		}
		if path, ok := svgPaths[s.Name]; ok {
			state.SVGPath = &path
		}

		_, err := db.NewInsert().Model(state).
			On("CONFLICT (name) DO UPDATE").
			Set("abbreviation = EXCLUDED.abbreviation").
			Set("region = EXCLUDED.region").
			Set("region_color = EXCLUDED.region_color").
			Set("svg_path = COALESCE(EXCLUDED.svg_path, s.svg_path)").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("seeding state %s: %w", s.Name, err)
		}
	}
	return nil
}
