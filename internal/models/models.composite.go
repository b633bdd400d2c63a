// FilePath: internal/models/models.composite.go
package models

// SensorData is the detail view of a sensor: the base record plus every
// datapoint it produced and the projects those datapoints belong to
// (including projects it is no longer attached to).
type SensorData struct {
	Sensor
	Projects   map[int64]*Project `json:"projects"`
	Datapoints []Datapoint        `json:"datapoints"`
}

// ProjectData is the detail view of a project: the base record plus its
// datapoints and the sensors that produced them (active or historical).
type ProjectData struct {
	Project
	Sensors    map[int64]*Sensor `json:"sensors"`
	Datapoints []Datapoint       `json:"datapoints"`
}
