package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/racethestates/api/config"
	"github.com/racethestates/api/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.State)(nil),
		(*models.Race)(nil),
		(*models.RaceImage)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'races_user_fk') THEN ALTER TABLE races ADD CONSTRAINT races_user_fk FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'races_state_fk') THEN ALTER TABLE races ADD CONSTRAINT races_state_fk FOREIGN KEY (state_id) REFERENCES states (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_images_race_fk') THEN ALTER TABLE race_images ADD CONSTRAINT race_images_race_fk FOREIGN KEY (race_id) REFERENCES races (id) ON DELETE CASCADE; END IF; END $$`,
		`CREATE INDEX IF NOT EXISTS races_date_idx ON races (date)`,
		`CREATE INDEX IF NOT EXISTS races_user_idx ON races (user_id)`,
		`CREATE INDEX IF NOT EXISTS races_state_idx ON races (state_id)`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
