// FilePath: internal/export/export_test.go
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/tilthub/brewmonitor/internal/models"
)

func samplePoints() []models.Datapoint {
	projectID := int64(3)
	return []models.Datapoint{
		{
			ID:          1,
			SensorID:    2,
			ProjectID:   &projectID,
			Timestamp:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Angle:       45.5,
			Temperature: 18,
			Battery:     9.1,
		},
		{
			ID:          2,
			SensorID:    2,
			Timestamp:   time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC),
			Angle:       44,
			Temperature: 18.2,
			Battery:     9.0,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samplePoints()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "id,sensor_id,project_id,timestamp,angle,temperature,battery" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "3" {
		t.Fatalf("expected project id 3, got %q", rows[1][2])
	}
	if rows[2][2] != "" {
		t.Fatalf("orphan datapoint should have empty project column, got %q", rows[2][2])
	}
	if rows[1][3] != "2024-03-01T10:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", rows[1][3])
	}
	if rows[1][4] != "45.5" {
		t.Fatalf("unexpected angle: %q", rows[1][4])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, samplePoints()); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var decoded []models.Datapoint
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(decoded))
	}
	if decoded[0].Angle != 45.5 {
		t.Fatalf("unexpected angle: %v", decoded[0].Angle)
	}
	if decoded[1].ProjectID != nil {
		t.Fatalf("orphan datapoint gained a project id")
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "xml", nil); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, err := ContentType("xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
