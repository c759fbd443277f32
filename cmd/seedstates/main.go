// cmd/seedstates/main.go
// Seeds the 50-state reference table. Idempotent; safe to rerun after a
// deploy.
//
// Usage:
//
//	go run ./cmd/seedstates [-svg us_states_svg.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/racethestates/api/config"
	bundb "github.com/racethestates/api/db"
)

func main() {
	svgFile := flag.String("svg", "", "JSON file mapping state name to SVG boundary path (optional)")
	flag.Parse()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}
	if err := bundb.SeedStatesTable(ctx, db, *svgFile); err != nil {
		log.Fatal("seed states:", err)
	}

	fmt.Printf("seeded %d states\n", len(bundb.SeedStates))
}
