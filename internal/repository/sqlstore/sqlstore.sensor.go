// FilePath: internal/repository/sqlstore/sqlstore.sensor.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

type SensorRepo struct {
	BaseRepo
}

func NewSensorRepository(db database.DB) *SensorRepo {
	return &SensorRepo{BaseRepo: BaseRepo{db: db}}
}

// The derived columns come from correlated subqueries over datapoints and
// projects, recomputed on every fetch; none of them are stored on the row.
const sensorSelect = `
	SELECT s.id, s.name, s.secret, s.owner_id, s.min_battery, s.max_battery,
		(SELECT username FROM users WHERE id = s.owner_id) AS owner,
		(SELECT battery FROM datapoints WHERE sensor_id = s.id ORDER BY timestamp DESC LIMIT 1) AS last_battery,
		(SELECT timestamp FROM datapoints WHERE sensor_id = s.id ORDER BY timestamp DESC LIMIT 1) AS last_active,
		(SELECT id FROM projects WHERE active_sensor = s.id LIMIT 1) AS linked_project
	FROM sensors s`

type sensorRow struct {
	ID            int64    `db:"id"`
	Name          string   `db:"name"`
	Secret        string   `db:"secret"`
	OwnerID       *int64   `db:"owner_id"`
	Owner         *string  `db:"owner"`
	MinBattery    *float64 `db:"min_battery"`
	MaxBattery    *float64 `db:"max_battery"`
	LastBattery   *float64 `db:"last_battery"`
	LastActive    *string  `db:"last_active"`
	LinkedProject *int64   `db:"linked_project"`
}

func (row *sensorRow) toModel() (*models.Sensor, error) {
	lastActive, err := parseTime(row.LastActive)
	if err != nil {
		return nil, err
	}
	return &models.Sensor{
		ID:            row.ID,
		Name:          row.Name,
		Secret:        row.Secret,
		OwnerID:       row.OwnerID,
		Owner:         row.Owner,
		MinBattery:    row.MinBattery,
		MaxBattery:    row.MaxBattery,
		LastBattery:   row.LastBattery,
		LastActive:    lastActive,
		LinkedProject: row.LinkedProject,
	}, nil
}

func (r *SensorRepo) Create(ctx context.Context, name, secret string, owner *models.User, minBattery, maxBattery *float64) (*models.Sensor, error) {
	if name == "" || secret == "" || owner == nil {
		return nil, errors.NewValidationError("name, secret and owner are required", nil)
	}

	id, err := r.insertID(ctx,
		`INSERT INTO sensors (name, secret, owner_id, min_battery, max_battery) VALUES (?, ?, ?, ?, ?)`,
		name, secret, owner.ID, minBattery, maxBattery,
	)
	if err != nil {
		return nil, err
	}

	// Owner display name is resolved from the passed owner at creation time,
	// not deferred to the next fetch.
	ownerName := owner.Username
	return &models.Sensor{
		ID:         id,
		Name:       name,
		Secret:     secret,
		OwnerID:    &owner.ID,
		Owner:      &ownerName,
		MinBattery: minBattery,
		MaxBattery: maxBattery,
	}, nil
}

func (r *SensorRepo) Get(ctx context.Context, id int64) (*models.Sensor, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("sensor id is required", nil)
	}

	row := sensorRow{}
	query := r.rebind(sensorSelect + ` WHERE s.id = ?`)
	err := r.db.GetDB().GetContext(ctx, &row, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("sensor not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sensor", err)
	}
	return row.toModel()
}

func (r *SensorRepo) List(ctx context.Context) ([]*models.Sensor, error) {
	rows := []sensorRow{}
	query := sensorSelect + ` ORDER BY s.id DESC`
	if err := r.db.GetDB().SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list sensors", err)
	}

	sensors := make([]*models.Sensor, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		sensors = append(sensors, s)
	}
	return sensors, nil
}

// Edit applies a partial field set. Storage and the in-memory sensor change
// together: the struct is only mutated after the update statement succeeds.
// Supported fields: name, secret, min_battery, max_battery, owner.
func (r *SensorRepo) Edit(ctx context.Context, sensor *models.Sensor, fields map[string]any) error {
	if sensor == nil {
		return errors.NewValidationError("sensor is required", nil)
	}

	var (
		sets    []string
		args    []interface{}
		applies []func()
		handled = map[string]bool{}
	)

	setString := func(column string, target *string) {
		if v, ok := fields[column]; ok {
			handled[column] = true
			s, good := v.(string)
			if !good {
				return
			}
			sets = append(sets, column+" = ?")
			args = append(args, s)
			applies = append(applies, func() { *target = s })
		}
	}
	setFloat := func(column string, target **float64) {
		if v, ok := fields[column]; ok {
			handled[column] = true
			var f *float64
			switch val := v.(type) {
			case float64:
				f = &val
			case *float64:
				f = val
			default:
				return
			}
			sets = append(sets, column+" = ?")
			args = append(args, f)
			applies = append(applies, func() { *target = f })
		}
	}

	setString("name", &sensor.Name)
	setString("secret", &sensor.Secret)
	setFloat("min_battery", &sensor.MinBattery)
	setFloat("max_battery", &sensor.MaxBattery)

	if v, ok := fields["owner"]; ok {
		handled["owner"] = true
		owner, good := v.(*models.User)
		if !good || owner == nil {
			return errors.NewValidationError("owner must be a user", nil)
		}
		sets = append(sets, "owner_id = ?")
		args = append(args, owner.ID)
		applies = append(applies, func() {
			sensor.OwnerID = &owner.ID
			name := owner.Username
			sensor.Owner = &name
		})
	}

	for key := range fields {
		if !handled[key] {
			return errors.NewValidationError(fmt.Sprintf("unsupported sensor field %q", key), nil)
		}
	}
	if len(sets) != len(fields) {
		return errors.NewValidationError("malformed sensor field values", nil)
	}
	if len(sets) == 0 {
		return errors.NewValidationError("no sensor fields to edit", nil)
	}

	query := "UPDATE sensors SET " + joinSets(sets) + " WHERE id = ?"
	args = append(args, sensor.ID)

	result, err := r.db.GetDB().ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return errors.NewDatabaseError("failed to update sensor", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}

	for _, apply := range applies {
		apply()
	}
	return nil
}

func (r *SensorRepo) DeleteTx(ctx context.Context, id int64, tx database.Transaction) error {
	result, err := r.execTx(ctx, tx, `DELETE FROM sensors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("sensor not found", nil)
	}
	return nil
}

// ClearOwner nulls the owner reference on every sensor a deleted user owned.
func (r *SensorRepo) ClearOwner(ctx context.Context, ownerID int64, tx database.Transaction) error {
	_, err := r.execTx(ctx, tx, `UPDATE sensors SET owner_id = NULL WHERE owner_id = ?`, ownerID)
	return err
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}
