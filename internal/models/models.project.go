// FilePath: internal/models/models.project.go
package models

import "time"

// Project is a brewing batch. ActiveSensor is the one sensor currently
// streaming data into it; a given sensor is active in at most one project at
// a time. The First*/Last* fields are aggregates over the project's
// datapoints, populated only on fetch.
type Project struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	OwnerID      *int64  `json:"owner_id,omitempty" db:"owner_id"`
	Owner        *string `json:"owner,omitempty" db:"owner"`
	ActiveSensor *int64  `json:"active_sensor,omitempty" db:"active_sensor"`

	FirstActive     *time.Time `json:"first_active,omitempty" db:"first_active"`
	LastActive      *time.Time `json:"last_active,omitempty" db:"last_active"`
	FirstAngle      *float64   `json:"first_angle,omitempty" db:"first_angle"`
	LastAngle       *float64   `json:"last_angle,omitempty" db:"last_angle"`
	LastTemperature *float64   `json:"last_temperature,omitempty" db:"last_temperature"`
}

// Label returns the project name, degrading to a sentinel for deleted rows.
func (p *Project) Label() string {
	if p.Name == "" {
		return DeletedLabel
	}
	return p.Name
}

// OwnerLabel returns the owner display name, degrading for deleted owners.
func (p *Project) OwnerLabel() string {
	if p.Owner == nil || *p.Owner == "" {
		return DeletedLabel
	}
	return *p.Owner
}

// IsLinked reports whether the project currently has an active sensor.
func (p *Project) IsLinked() bool {
	return p.ActiveSensor != nil
}

// IsRecentlyActive reports whether the project received data within the
// activity window before now.
func (p *Project) IsRecentlyActive(now time.Time) bool {
	return p.LastActive != nil && now.Sub(*p.LastActive) < ActivityWindow
}
