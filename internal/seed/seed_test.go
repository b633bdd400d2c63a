// FilePath: internal/seed/seed_test.go
package seed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/cleanup"
	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/models"
	"github.com/tilthub/brewmonitor/internal/repository/sqlstore"
	"github.com/tilthub/brewmonitor/internal/seed"
)

func TestRunPopulatesDemoContent(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlstore.InitSchema(ctx, db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	users := sqlstore.NewUserRepository(db)
	sensors := sqlstore.NewSensorRepository(db)
	projects := sqlstore.NewProjectRepository(db)
	datapoints := sqlstore.NewDatapointRepository(db)
	svc := brewservice.New(users, sensors, projects, datapoints,
		cleanup.New(users, sensors, projects, datapoints))

	if err := seed.Run(ctx, svc, "admin"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	allUsers, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(allUsers) != 2 {
		t.Fatalf("expected 2 users, got %d", len(allUsers))
	}

	allSensors, err := svc.ListSensors(ctx)
	if err != nil {
		t.Fatalf("list sensors: %v", err)
	}
	if len(allSensors) != 3 {
		t.Fatalf("expected 3 sensors, got %d", len(allSensors))
	}

	byName := map[string]*models.Sensor{}
	for _, s := range allSensors {
		byName[s.Name] = s
	}
	sad, ok := byName["sad sensor"]
	if !ok {
		t.Fatalf("missing sad sensor")
	}
	if sad.MinBattery != nil || sad.MaxBattery != nil {
		t.Fatalf("sad sensor should have no calibration bounds")
	}
	if sad.BatteryPercent() != nil {
		t.Fatalf("sad sensor should have no battery percentage")
	}

	brown, ok := byName["brown sensor"]
	if !ok {
		t.Fatalf("missing brown sensor")
	}
	if brown.LinkedProject == nil {
		t.Fatalf("brown sensor should be attached")
	}
	if pct := brown.BatteryPercent(); pct == nil || *pct != 21 {
		t.Fatalf("expected brown sensor battery 21%%, got %v", pct)
	}

	allProjects, err := svc.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(allProjects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(allProjects))
	}
	attached := 0
	for _, p := range allProjects {
		if p.ActiveSensor != nil {
			attached++
		}
		if p.Name == "Sad project" && p.LastActive != nil {
			t.Fatalf("sad project should have no activity")
		}
	}
	if attached != 2 {
		t.Fatalf("expected 2 attached projects, got %d", attached)
	}

	// The brown sensor's early readings stay orphaned.
	points, err := svc.SensorDatapoints(ctx, brown.ID)
	if err != nil {
		t.Fatalf("sensor datapoints: %v", err)
	}
	if len(points) != 16 {
		t.Fatalf("expected 16 brown readings, got %d", len(points))
	}
	orphans := 0
	for _, p := range points {
		if p.ProjectID == nil {
			orphans++
		}
	}
	if orphans != 8 {
		t.Fatalf("expected 8 orphaned readings, got %d", orphans)
	}
}
