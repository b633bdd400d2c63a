// FilePath: internal/brewservice/brewservice_test.go
package brewservice_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/cleanup"
	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
	"github.com/tilthub/brewmonitor/internal/repository/sqlstore"
)

func newService(t *testing.T) *brewservice.BrewService {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := sqlstore.InitSchema(context.Background(), db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	users := sqlstore.NewUserRepository(db)
	sensors := sqlstore.NewSensorRepository(db)
	projects := sqlstore.NewProjectRepository(db)
	datapoints := sqlstore.NewDatapointRepository(db)
	cleanupSvc := cleanup.New(users, sensors, projects, datapoints)
	return brewservice.New(users, sensors, projects, datapoints, cleanupSvc)
}

func seedSensor(t *testing.T, svc *brewservice.BrewService) (*models.User, *models.Sensor) {
	t.Helper()
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "toto", "totopassword", false)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	sensor, err := svc.CreateSensor(ctx, "green", "greensecret", user, nil, nil)
	if err != nil {
		t.Fatalf("create sensor: %v", err)
	}
	return user, sensor
}

func record(sensorID int64, secret string, angle, temp, battery float64) *brewservice.TelemetryRecord {
	return &brewservice.TelemetryRecord{
		SensorID:    &sensorID,
		Secret:      &secret,
		Angle:       &angle,
		Temperature: &temp,
		Battery:     &battery,
	}
}

func TestAttachMovesSensorBetweenProjects(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, sensor := seedSensor(t, svc)

	first, err := svc.CreateProject(ctx, "Brown Ale #12", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	second, err := svc.CreateProject(ctx, "Super IPA", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if err := svc.AttachSensor(ctx, first, &sensor.ID); err != nil {
		t.Fatalf("attach to first: %v", err)
	}
	if first.ActiveSensor == nil || *first.ActiveSensor != sensor.ID {
		t.Fatalf("in-memory project not updated after attach")
	}

	if err := svc.AttachSensor(ctx, second, &sensor.ID); err != nil {
		t.Fatalf("attach to second: %v", err)
	}

	gotFirst, err := svc.GetProject(ctx, first.ID)
	if err != nil {
		t.Fatalf("get first: %v", err)
	}
	if gotFirst.ActiveSensor != nil {
		t.Fatalf("first project should have been detached")
	}
	gotSecond, err := svc.GetProject(ctx, second.ID)
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if gotSecond.ActiveSensor == nil || *gotSecond.ActiveSensor != sensor.ID {
		t.Fatalf("second project should hold the sensor")
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, sensor := seedSensor(t, svc)

	project, err := svc.CreateProject(ctx, "Brown Ale #12", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if err := svc.AttachSensor(ctx, project, &sensor.ID); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if err := svc.AttachSensor(ctx, project, &sensor.ID); err != nil {
		t.Fatalf("repeated attach should succeed: %v", err)
	}

	got, err := svc.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.ActiveSensor == nil || *got.ActiveSensor != sensor.ID {
		t.Fatalf("sensor lost on repeated attach")
	}
}

func TestDetachWithNilSensor(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, sensor := seedSensor(t, svc)

	project, err := svc.CreateProject(ctx, "Brown Ale #12", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := svc.AttachSensor(ctx, project, &sensor.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := svc.AttachSensor(ctx, project, nil); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if project.ActiveSensor != nil {
		t.Fatalf("in-memory project not detached")
	}
	got, err := svc.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.ActiveSensor != nil {
		t.Fatalf("stored project not detached")
	}
}

func TestAttachUnknownSensor(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, _ := seedSensor(t, svc)

	project, err := svc.CreateProject(ctx, "Brown Ale #12", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	missing := int64(424242)
	if err := svc.AttachSensor(ctx, project, &missing); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if project.ActiveSensor != nil {
		t.Fatalf("project mutated on failed attach")
	}
}

func TestIngestStampsActiveProject(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, sensor := seedSensor(t, svc)

	project, err := svc.CreateProject(ctx, "Brown Ale #12", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := svc.AttachSensor(ctx, project, &sensor.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	point, err := svc.IngestTelemetry(ctx, record(sensor.ID, "greensecret", 45, 18.5, 9.1))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if point.ProjectID == nil || *point.ProjectID != project.ID {
		t.Fatalf("datapoint not stamped with active project: %v", point.ProjectID)
	}
	if point.Angle != 45 || point.Temperature != 18.5 || point.Battery != 9.1 {
		t.Fatalf("reading values did not persist: %+v", point)
	}
	if g := point.Gravity(); g != 1.045 {
		t.Fatalf("expected gravity 1.045, got %v", g)
	}
}

func TestIngestOrphanStaysOrphan(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, sensor := seedSensor(t, svc)

	orphan, err := svc.IngestTelemetry(ctx, record(sensor.ID, "greensecret", 40, 18, 9))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if orphan.ProjectID != nil {
		t.Fatalf("unattached sensor produced a project-stamped datapoint")
	}

	// Attaching afterwards must not claim the earlier reading.
	project, err := svc.CreateProject(ctx, "Brown Ale #12", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := svc.AttachSensor(ctx, project, &sensor.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	points, err := svc.ProjectDatapoints(ctx, project.ID)
	if err != nil {
		t.Fatalf("project datapoints: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("orphaned datapoint attached retroactively")
	}
}

func TestIngestRejectsBadInput(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, sensor := seedSensor(t, svc)

	missingSecret := record(sensor.ID, "greensecret", 40, 18, 9)
	missingSecret.Secret = nil
	if _, err := svc.IngestTelemetry(ctx, missingSecret); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for missing secret, got %v", err)
	}

	missingAngle := record(sensor.ID, "greensecret", 0, 18, 9)
	missingAngle.Angle = nil
	if _, err := svc.IngestTelemetry(ctx, missingAngle); !errors.IsValidation(err) {
		t.Fatalf("expected validation error for missing angle, got %v", err)
	}

	if _, err := svc.IngestTelemetry(ctx, record(424242, "greensecret", 40, 18, 9)); !errors.IsNotFound(err) {
		t.Fatalf("expected not found for unknown sensor, got %v", err)
	}
	// Wrong secret reads as not found, same as an unknown sensor.
	if _, err := svc.IngestTelemetry(ctx, record(sensor.ID, "wrong", 40, 18, 9)); !errors.IsNotFound(err) {
		t.Fatalf("expected not found for wrong secret, got %v", err)
	}
}

func TestSensorDetailCollectsProjects(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	user, sensor := seedSensor(t, svc)

	project, err := svc.CreateProject(ctx, "Brown Ale #12", user)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := svc.AttachSensor(ctx, project, &sensor.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := svc.IngestTelemetry(ctx, record(sensor.ID, "greensecret", 40, 18, 9)); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	detail, err := svc.SensorDetail(ctx, sensor.ID)
	if err != nil {
		t.Fatalf("sensor detail: %v", err)
	}
	if len(detail.Datapoints) != 1 {
		t.Fatalf("expected 1 datapoint, got %d", len(detail.Datapoints))
	}
	if _, ok := detail.Projects[project.ID]; !ok {
		t.Fatalf("detail missing project %d", project.ID)
	}
}

func TestIngestDefaultTimestamp(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, sensor := seedSensor(t, svc)

	before := time.Now().UTC().Add(-time.Minute)
	point, err := svc.IngestTelemetry(ctx, record(sensor.ID, "greensecret", 40, 18, 9))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if point.Timestamp.Before(before) {
		t.Fatalf("default timestamp not near now: %v", point.Timestamp)
	}
}
