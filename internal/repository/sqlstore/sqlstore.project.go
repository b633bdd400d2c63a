// FilePath: internal/repository/sqlstore/sqlstore.project.go
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

type ProjectRepo struct {
	BaseRepo
}

func NewProjectRepository(db database.DB) *ProjectRepo {
	return &ProjectRepo{BaseRepo: BaseRepo{db: db}}
}

const projectSelect = `
	SELECT p.id, p.name, p.owner_id, p.active_sensor,
		(SELECT username FROM users WHERE id = p.owner_id) AS owner,
		(SELECT timestamp FROM datapoints WHERE project_id = p.id ORDER BY timestamp ASC LIMIT 1) AS first_active,
		(SELECT timestamp FROM datapoints WHERE project_id = p.id ORDER BY timestamp DESC LIMIT 1) AS last_active,
		(SELECT angle FROM datapoints WHERE project_id = p.id ORDER BY timestamp ASC LIMIT 1) AS first_angle,
		(SELECT angle FROM datapoints WHERE project_id = p.id ORDER BY timestamp DESC LIMIT 1) AS last_angle,
		(SELECT temperature FROM datapoints WHERE project_id = p.id ORDER BY timestamp DESC LIMIT 1) AS last_temperature
	FROM projects p`

type projectRow struct {
	ID              int64    `db:"id"`
	Name            string   `db:"name"`
	OwnerID         *int64   `db:"owner_id"`
	Owner           *string  `db:"owner"`
	ActiveSensor    *int64   `db:"active_sensor"`
	FirstActive     *string  `db:"first_active"`
	LastActive      *string  `db:"last_active"`
	FirstAngle      *float64 `db:"first_angle"`
	LastAngle       *float64 `db:"last_angle"`
	LastTemperature *float64 `db:"last_temperature"`
}

func (row *projectRow) toModel() (*models.Project, error) {
	firstActive, err := parseTime(row.FirstActive)
	if err != nil {
		return nil, err
	}
	lastActive, err := parseTime(row.LastActive)
	if err != nil {
		return nil, err
	}
	return &models.Project{
		ID:              row.ID,
		Name:            row.Name,
		OwnerID:         row.OwnerID,
		Owner:           row.Owner,
		ActiveSensor:    row.ActiveSensor,
		FirstActive:     firstActive,
		LastActive:      lastActive,
		FirstAngle:      row.FirstAngle,
		LastAngle:       row.LastAngle,
		LastTemperature: row.LastTemperature,
	}, nil
}

func (r *ProjectRepo) Create(ctx context.Context, name string, owner *models.User) (*models.Project, error) {
	if name == "" || owner == nil {
		return nil, errors.NewValidationError("name and owner are required", nil)
	}

	id, err := r.insertID(ctx,
		`INSERT INTO projects (name, owner_id) VALUES (?, ?)`,
		name, owner.ID,
	)
	if err != nil {
		return nil, err
	}

	ownerName := owner.Username
	return &models.Project{
		ID:      id,
		Name:    name,
		OwnerID: &owner.ID,
		Owner:   &ownerName,
	}, nil
}

func (r *ProjectRepo) Get(ctx context.Context, id int64) (*models.Project, error) {
	if id <= 0 {
		return nil, errors.NewValidationError("project id is required", nil)
	}

	row := projectRow{}
	query := r.rebind(projectSelect + ` WHERE p.id = ?`)
	err := r.db.GetDB().GetContext(ctx, &row, query, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("project not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get project", err)
	}
	return row.toModel()
}

func (r *ProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	rows := []projectRow{}
	query := projectSelect + ` ORDER BY p.id DESC`
	if err := r.db.GetDB().SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list projects", err)
	}

	projects := make([]*models.Project, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// ByActiveSensor returns the project the sensor currently reports into, or
// nil without error when the sensor is not attached anywhere.
func (r *ProjectRepo) ByActiveSensor(ctx context.Context, sensorID int64) (*models.Project, error) {
	row := projectRow{}
	query := r.rebind(projectSelect + ` WHERE p.active_sensor = ?`)
	err := r.db.GetDB().GetContext(ctx, &row, query, sensorID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.NewDatabaseError("failed to get project by sensor", err)
	}
	return row.toModel()
}

// Edit supports the fields name and owner.
func (r *ProjectRepo) Edit(ctx context.Context, project *models.Project, fields map[string]any) error {
	if project == nil {
		return errors.NewValidationError("project is required", nil)
	}

	var (
		sets    []string
		args    []interface{}
		applies []func()
	)

	for key, value := range fields {
		switch key {
		case "name":
			name, ok := value.(string)
			if !ok || name == "" {
				return errors.NewValidationError("name must be a non-empty string", nil)
			}
			sets = append(sets, "name = ?")
			args = append(args, name)
			applies = append(applies, func() { project.Name = name })
		case "owner":
			owner, ok := value.(*models.User)
			if !ok || owner == nil {
				return errors.NewValidationError("owner must be a user", nil)
			}
			sets = append(sets, "owner_id = ?")
			args = append(args, owner.ID)
			applies = append(applies, func() {
				project.OwnerID = &owner.ID
				name := owner.Username
				project.Owner = &name
			})
		default:
			return errors.NewValidationError(fmt.Sprintf("unsupported project field %q", key), nil)
		}
	}
	if len(sets) == 0 {
		return errors.NewValidationError("no project fields to edit", nil)
	}

	query := "UPDATE projects SET " + joinSets(sets) + " WHERE id = ?"
	args = append(args, project.ID)

	result, err := r.db.GetDB().ExecContext(ctx, r.rebind(query), args...)
	if err != nil {
		return errors.NewDatabaseError("failed to update project", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("project not found", nil)
	}

	for _, apply := range applies {
		apply()
	}
	return nil
}

// DetachSensor clears the sensor's active slot on every project that holds
// it. Attaching runs this first so a sensor reports into one project at most.
func (r *ProjectRepo) DetachSensor(ctx context.Context, sensorID int64, tx database.Transaction) error {
	_, err := r.execTx(ctx, tx, `UPDATE projects SET active_sensor = NULL WHERE active_sensor = ?`, sensorID)
	return err
}

func (r *ProjectRepo) SetActiveSensor(ctx context.Context, projectID int64, sensorID *int64, tx database.Transaction) error {
	result, err := r.execTx(ctx, tx, `UPDATE projects SET active_sensor = ? WHERE id = ?`, sensorID, projectID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("project not found", nil)
	}
	return nil
}

func (r *ProjectRepo) DeleteTx(ctx context.Context, id int64, tx database.Transaction) error {
	result, err := r.execTx(ctx, tx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("project not found", nil)
	}
	return nil
}

func (r *ProjectRepo) ClearOwner(ctx context.Context, ownerID int64, tx database.Transaction) error {
	_, err := r.execTx(ctx, tx, `UPDATE projects SET owner_id = NULL WHERE owner_id = ?`, ownerID)
	return err
}
