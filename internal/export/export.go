// FilePath: internal/export/export.go

// Package export serializes datapoint collections for download, one record
// per reading.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/tilthub/brewmonitor/internal/errors"
	"github.com/tilthub/brewmonitor/internal/models"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var csvHeader = []string{"id", "sensor_id", "project_id", "timestamp", "angle", "temperature", "battery"}

// ContentType returns the MIME type for a supported format, or a validation
// error for anything else.
func ContentType(format string) (string, error) {
	switch format {
	case FormatCSV:
		return "text/csv", nil
	case FormatJSON:
		return "application/json", nil
	default:
		return "", errors.NewValidationError("unsupported export format: "+format, nil)
	}
}

// Write serializes the datapoints in the requested format.
func Write(w io.Writer, format string, points []models.Datapoint) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, points)
	case FormatJSON:
		return WriteJSON(w, points)
	default:
		return errors.NewValidationError("unsupported export format: "+format, nil)
	}
}

// WriteCSV writes a header row followed by one row per reading. The column
// names match the entity attribute names; an absent project id stays empty.
func WriteCSV(w io.Writer, points []models.Datapoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.NewInternalError("failed to write csv", err)
	}
	for _, p := range points {
		projectID := ""
		if p.ProjectID != nil {
			projectID = strconv.FormatInt(*p.ProjectID, 10)
		}
		row := []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.SensorID, 10),
			projectID,
			p.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Angle, 'f', -1, 64),
			strconv.FormatFloat(p.Temperature, 'f', -1, 64),
			strconv.FormatFloat(p.Battery, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return errors.NewInternalError("failed to write csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewInternalError("failed to write csv", err)
	}
	return nil
}

// WriteJSON writes the readings as a JSON array. An empty collection
// serializes as [] rather than null.
func WriteJSON(w io.Writer, points []models.Datapoint) error {
	if points == nil {
		points = []models.Datapoint{}
	}
	if err := json.NewEncoder(w).Encode(points); err != nil {
		return errors.NewInternalError("failed to write json", err)
	}
	return nil
}
