// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/tilthub/brewmonitor/api"
	"github.com/tilthub/brewmonitor/internal/brewservice"
	"github.com/tilthub/brewmonitor/internal/cleanup"
	"github.com/tilthub/brewmonitor/internal/config"
	"github.com/tilthub/brewmonitor/internal/database"
	"github.com/tilthub/brewmonitor/internal/monitoring"
	"github.com/tilthub/brewmonitor/internal/repository/sqlstore"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config      *config.Config
	srv         *http.Server
	db          database.DB
	brewservice *brewservice.BrewService
	monitoring  *monitoring.Service
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.brewservice = s.initializeBrewService()
	s.monitoring = monitoring.NewService(monitoring.Config{
		LogLevel: s.config.Monitoring.LogLevel,
	})

	s.setupCleanupHandlers()

	router := api.NewRouter(s.brewservice)
	s.srv.Handler = handlers.CombinedLoggingHandler(os.Stdout,
		handlers.CORS(
			handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		)(router))

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			nuts.L.Warnf("[Server] Error closing database: %v", err)
		}
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

func (s *Server) setupCleanupHandlers() {
	s.brewservice.Cleanup().OnCleanup("sensor.deleted", func(id int64) {
		nuts.L.Infof("[Cleanup] Sensor %d and all associated data deleted", id)
		s.monitoring.RecordEvent("sensor_deletion", map[string]string{
			"sensor_id": fmt.Sprintf("%d", id),
		})
	})

	s.brewservice.Cleanup().OnCleanup("project.deleted", func(id int64) {
		nuts.L.Infof("[Cleanup] Project %d and its datapoints deleted", id)
		s.monitoring.RecordEvent("project_deletion", map[string]string{
			"project_id": fmt.Sprintf("%d", id),
		})
	})

	s.brewservice.Cleanup().OnCleanup("user.deleted", func(id int64) {
		nuts.L.Infof("[Cleanup] User %d deleted, equipment ownership cleared", id)
		s.monitoring.RecordEvent("user_deletion", map[string]string{
			"user_id": fmt.Sprintf("%d", id),
		})
	})
}

// initializeBrewService opens the configured store, bootstraps the schema
// and wires the repositories together.
func (s *Server) initializeBrewService() *brewservice.BrewService {
	db, err := config.OpenDB(s.config)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to open database: %v", err)
	}
	s.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping database: %v", err)
	}
	if err := sqlstore.InitSchema(ctx, db); err != nil {
		nuts.L.Fatalf("[Server] Failed to initialize schema: %v", err)
	}

	users := sqlstore.NewUserRepository(db)
	sensors := sqlstore.NewSensorRepository(db)
	projects := sqlstore.NewProjectRepository(db)
	datapoints := sqlstore.NewDatapointRepository(db)

	return brewservice.New(users, sensors, projects, datapoints,
		cleanup.New(users, sensors, projects, datapoints))
}
