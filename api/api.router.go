// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tilthub/brewmonitor/api/middleware"
	"github.com/tilthub/brewmonitor/api/resources"
	"github.com/tilthub/brewmonitor/internal/brewservice"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.AuthMiddleware
	resources *resources.Resources
}

func NewRouter(svc *brewservice.BrewService) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewAuthMiddleware(svc),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()
	api.Use(r.auth.Authenticate)

	// Public routes
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Devices authenticate with their shared secret, not basic auth.
	api.HandleFunc("/telemetry", r.resources.Telemetry.ReportReading).Methods(http.MethodPost)

	// Reads are open; only mutation requires an account.
	user := func(h http.HandlerFunc) http.Handler { return r.auth.RequireUser(h) }
	admin := func(h http.HandlerFunc) http.Handler { return r.auth.RequireAdmin(h) }

	// Sensors
	sensors := api.PathPrefix("/sensors").Subrouter()
	sensors.HandleFunc("", r.resources.Sensors.ListSensors).Methods(http.MethodGet)
	sensors.Handle("", user(r.resources.Sensors.CreateSensor)).Methods(http.MethodPost)
	sensors.HandleFunc("/{id}", r.resources.Sensors.GetSensor).Methods(http.MethodGet)
	sensors.Handle("/{id}", user(r.resources.Sensors.UpdateSensor)).Methods(http.MethodPut)
	sensors.Handle("/{id}", admin(r.resources.Sensors.DeleteSensor)).Methods(http.MethodDelete)
	sensors.HandleFunc("/{id}/datapoints/{format}", r.resources.Sensors.ExportDatapoints).Methods(http.MethodGet)

	// Projects
	projects := api.PathPrefix("/projects").Subrouter()
	projects.HandleFunc("", r.resources.Projects.ListProjects).Methods(http.MethodGet)
	projects.Handle("", user(r.resources.Projects.CreateProject)).Methods(http.MethodPost)
	projects.HandleFunc("/{id}", r.resources.Projects.GetProject).Methods(http.MethodGet)
	projects.Handle("/{id}", user(r.resources.Projects.UpdateProject)).Methods(http.MethodPut)
	projects.Handle("/{id}", admin(r.resources.Projects.DeleteProject)).Methods(http.MethodDelete)
	projects.Handle("/{id}/sensor", user(r.resources.Projects.AttachSensor)).Methods(http.MethodPost)
	projects.HandleFunc("/{id}/datapoints/{format}", r.resources.Projects.ExportDatapoints).Methods(http.MethodGet)

	// Datapoints
	api.Handle("/datapoints/{id}", user(r.resources.Projects.UpdateDatapoint)).Methods(http.MethodPut)
	api.Handle("/datapoints/{id}", admin(r.resources.Projects.DeleteDatapoint)).Methods(http.MethodDelete)

	// Users (account administration is admin-only)
	users := api.PathPrefix("/users").Subrouter()
	users.Handle("", admin(r.resources.Users.ListUsers)).Methods(http.MethodGet)
	users.Handle("", admin(r.resources.Users.CreateUser)).Methods(http.MethodPost)
	users.Handle("/{id}", admin(r.resources.Users.GetUser)).Methods(http.MethodGet)
	users.Handle("/{id}", admin(r.resources.Users.DeleteUser)).Methods(http.MethodDelete)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	if r.resources.HealthCheck != nil {
		r.resources.HealthCheck(w, req)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
