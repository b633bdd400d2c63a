// FilePath: internal/repository/sqlstore/sqlstore.datapoint.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

type DatapointRepo struct {
	BaseRepo
}

func NewDatapointRepository(db database.DB) *DatapointRepo {
	return &DatapointRepo{BaseRepo: BaseRepo{db: db}}
}

type datapointRow struct {
	ID          int64    `db:"id"`
	SensorID    int64    `db:"sensor_id"`
	ProjectID   *int64   `db:"project_id"`
	Timestamp   string   `db:"timestamp"`
	Angle       float64  `db:"angle"`
	Temperature float64  `db:"temperature"`
	Battery     float64  `db:"battery"`
}

func (row *datapointRow) toModel() (models.Datapoint, error) {
	ts, err := parseTime(&row.Timestamp)
	if err != nil {
		return models.Datapoint{}, err
	}
	return models.Datapoint{
		ID:          row.ID,
		SensorID:    row.SensorID,
		ProjectID:   row.ProjectID,
		Timestamp:   *ts,
		Angle:       row.Angle,
		Temperature: row.Temperature,
		Battery:     row.Battery,
	}, nil
}

// InsertBatch persists the datapoints in a single multi-row statement. The
// project id on each point is whatever the caller stamped at ingestion time;
// it is never rewritten afterwards.
func (r *DatapointRepo) InsertBatch(ctx context.Context, points []*models.Datapoint) error {
	if len(points) == 0 {
		return nil
	}

	type insertRow struct {
		SensorID    int64   `db:"sensor_id"`
		ProjectID   *int64  `db:"project_id"`
		Timestamp   string  `db:"timestamp"`
		Angle       float64 `db:"angle"`
		Temperature float64 `db:"temperature"`
		Battery     float64 `db:"battery"`
	}
	rows := make([]insertRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, insertRow{
			SensorID:    p.SensorID,
			ProjectID:   p.ProjectID,
			Timestamp:   formatTime(p.Timestamp),
			Angle:       p.Angle,
			Temperature: p.Temperature,
			Battery:     p.Battery,
		})
	}

	_, err := r.db.GetDB().NamedExecContext(ctx,
		`INSERT INTO datapoints (sensor_id, project_id, timestamp, angle, temperature, battery)
		 VALUES (:sensor_id, :project_id, :timestamp, :angle, :temperature, :battery)`,
		rows,
	)
	if err != nil {
		return errors.NewDatabaseError("failed to insert datapoints", err)
	}
	return nil
}

func (r *DatapointRepo) Get(ctx context.Context, id int64) (*models.Datapoint, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("datapoint id is required", nil)
	}

	row := datapointRow{}
	query := r.rebind(`SELECT id, sensor_id, project_id, timestamp, angle, temperature, battery FROM datapoints WHERE id = ?`)
	err := r.db.GetDB().GetContext(ctx, &row, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("datapoint not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get datapoint", err)
	}
	dp, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &dp, nil
}

func (r *DatapointRepo) ListBySensor(ctx context.Context, sensorID int64) ([]models.Datapoint, error) {
	return r.list(ctx, `WHERE sensor_id = ?`, sensorID)
}

func (r *DatapointRepo) ListByProject(ctx context.Context, projectID int64) ([]models.Datapoint, error) {
	return r.list(ctx, `WHERE project_id = ?`, projectID)
}

func (r *DatapointRepo) list(ctx context.Context, where string, arg int64) ([]models.Datapoint, error) {
	rows := []datapointRow{}
	query := r.rebind(`SELECT id, sensor_id, project_id, timestamp, angle, temperature, battery FROM datapoints ` +
		where + ` ORDER BY timestamp ASC, id ASC`)
	if err := r.db.GetDB().SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, errors.NewDatabaseError("failed to list datapoints", err)
	}

	points := make([]models.Datapoint, 0, len(rows))
	for i := range rows {
		dp, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		points = append(points, dp)
	}
	return points, nil
}

// Edit is not offered for datapoints. Measurements are immutable once
// recorded; correcting history means deleting and re-ingesting.
func (r *DatapointRepo) Edit(ctx context.Context, point *models.Datapoint, fields map[string]any) error {
	return errors.NewUnsupportedError("datapoints cannot be edited")
}

func (r *DatapointRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.GetDB().ExecContext(ctx, r.rebind(`DELETE FROM datapoints WHERE id = ?`), id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete datapoint", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("datapoint not found", nil)
	}
	return nil
}

func (r *DatapointRepo) DeleteBySensor(ctx context.Context, sensorID int64, tx database.Transaction) error {
	_, err := r.execTx(ctx, tx, `DELETE FROM datapoints WHERE sensor_id = ?`, sensorID)
	return err
}

func (r *DatapointRepo) DeleteByProject(ctx context.Context, projectID int64, tx database.Transaction) error {
	_, err := r.execTx(ctx, tx, `DELETE FROM datapoints WHERE project_id = ?`, projectID)
	return err
}
