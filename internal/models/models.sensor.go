// FilePath: internal/models/models.sensor.go
package models

import "time"

// DeletedLabel is shown wherever a soft reference points at a row that no
// longer exists.
const DeletedLabel = "<deleted>"

// ActivityWindow is how recently an entity must have received data to count
// as active.
const ActivityWindow = 24 * time.Hour

// Sensor is a physical tilt hydrometer. Owner is the owning user's display
// name, resolved from OwnerID at fetch time; it is absent when the owner row
// is gone. LastActive, LastBattery and LinkedProject are read-only aggregate
// fields populated only by fetches, never stored.
type Sensor struct {
	ID         int64    `json:"id" db:"id"`
	Name       string   `json:"name" db:"name"`
	Secret     string   `json:"secret,omitempty" db:"secret" readxs:"admin,owner,system" writexs:"admin,owner,system"`
	OwnerID    *int64   `json:"owner_id,omitempty" db:"owner_id"`
	Owner      *string  `json:"owner,omitempty" db:"owner"`
	MinBattery *float64 `json:"min_battery,omitempty" db:"min_battery"`
	MaxBattery *float64 `json:"max_battery,omitempty" db:"max_battery"`

	LastActive    *time.Time `json:"last_active,omitempty" db:"last_active"`
	LastBattery   *float64   `json:"last_battery,omitempty" db:"last_battery"`
	LinkedProject *int64     `json:"linked_project,omitempty" db:"linked_project"`
}

// BatteryPercent converts the last battery reading to a 0-100 display value
// using the sensor's calibration bounds. Readings outside the bounds clamp.
// Returns nil when the reading or either bound is absent.
func (s *Sensor) BatteryPercent() *int {
	if s.LastBattery == nil || s.MinBattery == nil || s.MaxBattery == nil {
		return nil
	}
	var pct int
	switch {
	case *s.LastBattery > *s.MaxBattery:
		pct = 100
	case *s.LastBattery < *s.MinBattery:
		pct = 0
	default:
		pct = int(((*s.LastBattery - *s.MinBattery) * 100) / (*s.MaxBattery - *s.MinBattery))
	}
	return &pct
}

// Label returns the sensor name, degrading to a sentinel for deleted rows.
func (s *Sensor) Label() string {
	if s.Name == "" {
		return DeletedLabel
	}
	return s.Name
}

// OwnerLabel returns the owner display name, degrading for deleted owners.
func (s *Sensor) OwnerLabel() string {
	if s.Owner == nil || *s.Owner == "" {
		return DeletedLabel
	}
	return *s.Owner
}

// IsLinked reports whether a project currently streams from this sensor.
func (s *Sensor) IsLinked() bool {
	return s.LinkedProject != nil
}

// IsRecentlyActive reports whether the sensor delivered data within the
// activity window before now.
func (s *Sensor) IsRecentlyActive(now time.Time) bool {
	return s.LastActive != nil && now.Sub(*s.LastActive) < ActivityWindow
}

// VerifyIdentity compares the secret presented by a device with the stored
// one. Exact match; the secret is a shared token, not a hash.
func (s *Sensor) VerifyIdentity(requestSecret string) bool {
	return s.Secret == requestSecret
}
