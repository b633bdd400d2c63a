// FilePath: internal/repository/sqlstore/schema.go
package sqlstore

import (
	"context"

	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/errors"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sensors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		secret TEXT NOT NULL,
		owner_id INTEGER,
		min_battery REAL,
		max_battery REAL,
		FOREIGN KEY(owner_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		owner_id INTEGER,
		active_sensor INTEGER,
		FOREIGN KEY(owner_id) REFERENCES users(id),
		FOREIGN KEY(active_sensor) REFERENCES sensors(id)
	)`,
	`CREATE TABLE IF NOT EXISTS datapoints (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sensor_id INTEGER NOT NULL,
		project_id INTEGER,
		timestamp TEXT NOT NULL,
		angle REAL,
		temperature REAL,
		battery REAL,
		FOREIGN KEY(sensor_id) REFERENCES sensors(id),
		FOREIGN KEY(project_id) REFERENCES projects(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_datapoints_sensor_ts ON datapoints(sensor_id, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_datapoints_project_ts ON datapoints(project_id, timestamp DESC)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS sensors (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		secret TEXT NOT NULL,
		owner_id BIGINT,
		min_battery DOUBLE PRECISION,
		max_battery DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		owner_id BIGINT,
		active_sensor BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS datapoints (
		id BIGSERIAL PRIMARY KEY,
		sensor_id BIGINT NOT NULL,
		project_id BIGINT,
		timestamp TEXT NOT NULL,
		angle DOUBLE PRECISION,
		temperature DOUBLE PRECISION,
		battery DOUBLE PRECISION
	)`,
	`CREATE INDEX IF NOT EXISTS idx_datapoints_sensor_ts ON datapoints(sensor_id, timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_datapoints_project_ts ON datapoints(project_id, timestamp DESC)`,
}

// InitSchema creates the four tables if they do not exist. References across
// tables are deliberately soft: deletes are cascaded by the cleanup layer,
// not by the engine, and readers tolerate dangling ids.
func InitSchema(ctx context.Context, db database.DB) error {
	schema := sqliteSchema
	if db.DriverName() == "postgres" {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := db.GetDB().ExecContext(ctx, stmt); err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	return nil
}
