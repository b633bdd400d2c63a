// FilePath: cmd/mkdummydata/main.go

// mkdummydata fills the configured database with demo content for local
// development. With --clear the target sqlite file is truncated first.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/cleanup"
	"github.com/tilthub/brewmonitor/internal/config"
	"github.com/tilthub/brewmonitor/internal/repository/sqlstore"
	"github.com/tilthub/brewmonitor/internal/seed"
	nuts "github.com/vaudience/go-nuts"
)

func main() {
	adminPassword := flag.String("admin-password", "admin", "password for the seeded admin account")
	clear := flag.Bool("clear", false, "first clear the data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Seed.AdminPassword != "" {
		*adminPassword = cfg.Seed.AdminPassword
	}

	if *clear && cfg.Database.Driver == "sqlite" {
		nuts.L.Infof("[MkDummyData] Clearing content from %s", cfg.Database.SQLite.Path)
		if err := os.Truncate(cfg.Database.SQLite.Path, 0); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to clear database file: %v", err)
		}
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := sqlstore.InitSchema(ctx, db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	users := sqlstore.NewUserRepository(db)
	sensors := sqlstore.NewSensorRepository(db)
	projects := sqlstore.NewProjectRepository(db)
	datapoints := sqlstore.NewDatapointRepository(db)
	svc := brewservice.New(users, sensors, projects, datapoints,
		cleanup.New(users, sensors, projects, datapoints))

	nuts.L.Infof("[MkDummyData] Creating content...")
	if err := seed.Run(ctx, svc, *adminPassword); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	nuts.L.Infof("[MkDummyData] Done")
}
