package models

import (
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

func calibratedSensor(min, max float64, reading *float64) *Sensor {
	return &Sensor{
		ID:          1,
		Name:        "green sensor",
		MinBattery:  f64(min),
		MaxBattery:  f64(max),
		LastBattery: reading,
	}
}

func TestBatteryPercent(t *testing.T) {
	s := calibratedSensor(1, 10, f64(9.4))
	pct := s.BatteryPercent()
	if pct == nil {
		t.Fatalf("expected a battery percentage")
	}
	if *pct != 93 {
		t.Fatalf("expected 93%%, got %d%%", *pct)
	}
}

func TestBatteryPercentClampsAboveMax(t *testing.T) {
	s := calibratedSensor(1, 10, f64(15))
	pct := s.BatteryPercent()
	if pct == nil || *pct != 100 {
		t.Fatalf("expected clamp to 100, got %v", pct)
	}
}

func TestBatteryPercentClampsBelowMin(t *testing.T) {
	s := calibratedSensor(1, 10, f64(0))
	pct := s.BatteryPercent()
	if pct == nil || *pct != 0 {
		t.Fatalf("expected clamp to 0, got %v", pct)
	}
}

func TestBatteryPercentUnknown(t *testing.T) {
	cases := map[string]*Sensor{
		"no reading": calibratedSensor(1, 10, nil),
		"no bounds":  {LastBattery: f64(5)},
		"no min":     {MaxBattery: f64(10), LastBattery: f64(5)},
		"no max":     {MinBattery: f64(1), LastBattery: f64(5)},
	}
	for name, s := range cases {
		if pct := s.BatteryPercent(); pct != nil {
			t.Fatalf("%s: expected unknown battery state, got %d", name, *pct)
		}
	}
}

func TestGravity(t *testing.T) {
	d := &Datapoint{Angle: 45}
	if g := d.Gravity(); g != 1.045 {
		t.Fatalf("expected gravity 1.045, got %v", g)
	}
	d.Angle = 0
	if g := d.Gravity(); g != 1.0 {
		t.Fatalf("expected gravity 1.0, got %v", g)
	}
}

func TestIsRecentlyActive(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	recent := now.Add(-23 * time.Hour)
	s := &Sensor{LastActive: &recent}
	if !s.IsRecentlyActive(now) {
		t.Fatalf("expected sensor with 23h old data to be active")
	}

	stale := now.Add(-25 * time.Hour)
	s.LastActive = &stale
	if s.IsRecentlyActive(now) {
		t.Fatalf("expected sensor with 25h old data to be inactive")
	}

	s.LastActive = nil
	if s.IsRecentlyActive(now) {
		t.Fatalf("expected sensor without data to be inactive")
	}

	p := &Project{LastActive: &recent}
	if !p.IsRecentlyActive(now) {
		t.Fatalf("expected project with 23h old data to be active")
	}
}

func TestLabels(t *testing.T) {
	s := &Sensor{Name: ""}
	if s.Label() != DeletedLabel {
		t.Fatalf("expected deleted sentinel for blank sensor name")
	}
	if s.OwnerLabel() != DeletedLabel {
		t.Fatalf("expected deleted sentinel for absent owner")
	}
	owner := "toto"
	s.Owner = &owner
	if s.OwnerLabel() != "toto" {
		t.Fatalf("expected owner name, got %q", s.OwnerLabel())
	}

	p := &Project{Name: "Super IPA"}
	if p.Label() != "Super IPA" {
		t.Fatalf("expected project name, got %q", p.Label())
	}
}

func TestVerifyIdentity(t *testing.T) {
	s := &Sensor{Secret: "secret"}
	if !s.VerifyIdentity("secret") {
		t.Fatalf("expected matching secret to verify")
	}
	if s.VerifyIdentity("SECRET") || s.VerifyIdentity("") {
		t.Fatalf("expected non-matching secret to fail")
	}
}
