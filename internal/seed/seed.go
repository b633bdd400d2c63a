// FilePath: internal/seed/seed.go

// Package seed populates a database with demo content for local development:
// two users, three sensors, three projects and a day's worth of synthetic
// readings at five minute spacing.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/models"
)

// past returns a timestamp n five-minute steps before now.
func past(now time.Time, n int) time.Time {
	return now.Add(-time.Duration(n) * 5 * time.Minute)
}

func ptr(f float64) *float64 { return &f }

// Run creates the demo content. The admin password is configurable so a
// shared dev instance does not ship with a guessable default.
func Run(ctx context.Context, svc *brewservice.BrewService, adminPassword string) error {
	now := time.Now().UTC()

	toto, err := svc.CreateUser(ctx, "toto", adminPassword, true)
	if err != nil {
		return fmt.Errorf("failed to create user toto: %w", err)
	}
	titi, err := svc.CreateUser(ctx, "titi", "pass", false)
	if err != nil {
		return fmt.Errorf("failed to create user titi: %w", err)
	}

	// Only two of the three sensors get calibration bounds.
	green, err := svc.CreateSensor(ctx, "green sensor", "secret", toto, ptr(1), ptr(10))
	if err != nil {
		return fmt.Errorf("failed to create green sensor: %w", err)
	}
	brown, err := svc.CreateSensor(ctx, "brown sensor", "secret", titi, ptr(1), ptr(10))
	if err != nil {
		return fmt.Errorf("failed to create brown sensor: %w", err)
	}
	if _, err := svc.CreateSensor(ctx, "sad sensor", "secret", toto, nil, nil); err != nil {
		return fmt.Errorf("failed to create sad sensor: %w", err)
	}

	ale, err := svc.CreateProject(ctx, "Brown Ale #12", toto)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	ipa, err := svc.CreateProject(ctx, "Super IPA", toto)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	if _, err := svc.CreateProject(ctx, "Sad project", toto); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	if err := svc.AttachSensor(ctx, ale, &green.ID); err != nil {
		return fmt.Errorf("failed to attach green sensor: %w", err)
	}
	if err := svc.AttachSensor(ctx, ipa, &brown.ID); err != nil {
		return fmt.Errorf("failed to attach brown sensor: %w", err)
	}

	point := func(sensor *models.Sensor, project *models.Project, n int, angle, temp, battery float64) *models.Datapoint {
		var projectID *int64
		if project != nil {
			projectID = &project.ID
		}
		return &models.Datapoint{
			SensorID:    sensor.ID,
			ProjectID:   projectID,
			Timestamp:   past(now, n),
			Angle:       angle,
			Temperature: temp,
			Battery:     battery,
		}
	}

	points := []*models.Datapoint{
		point(green, ale, 24*3600+60, 20, 25.0, 10.0),
		point(green, ale, 24*3600+55, 18, 24.0, 9.8),
		point(green, ale, 24*3600+50, 16, 23.5, 9.8),
		point(green, ale, 24*3600+45, 14, 23.0, 9.7),
		// A gap at 40, as if a reading was lost.
		point(green, ale, 24*3600+35, 10, 22.0, 9.6),
		point(green, ale, 24*3600+30, 8, 21.0, 9.5),
		point(green, ale, 24*3600+25, 6, 20.0, 9.4),

		// Orphaned readings, as if the brown sensor reported before it was
		// attached anywhere.
		point(brown, nil, 120, 40, 25.0, 7.5),
		point(brown, nil, 115, 35, 24.0, 7.4),
		point(brown, nil, 110, 30, 23.5, 7.3),
		point(brown, nil, 105, 25, 23.0, 7.2),
		point(brown, nil, 100, 20, 23.0, 7.1),
		point(brown, nil, 95, 15, 22.0, 7.0),
		point(brown, nil, 90, 10, 21.0, 6.9),
		point(brown, nil, 85, 5, 20.0, 6.8),

		point(brown, ipa, 60, 40, 25.0, 3.0),
		point(brown, ipa, 55, 35, 24.0, 3.5),
		point(brown, ipa, 50, 30, 23.5, 3.4),
		point(brown, ipa, 45, 25, 23.0, 3.3),
		point(brown, ipa, 40, 20, 23.0, 3.2),
		point(brown, ipa, 35, 15, 22.0, 3.1),
		point(brown, ipa, 30, 10, 21.0, 3.0),
		point(brown, ipa, 25, 5, 20.0, 2.9),
	}

	if err := svc.InsertDatapoints(ctx, points); err != nil {
		return fmt.Errorf("failed to insert datapoints: %w", err)
	}
	return nil
}
