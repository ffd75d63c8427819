// Package server exposes the slot host state: Prometheus metrics and a JSON
// status over HTTP, and the standard health service over gRPC.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/yanet-platform/lazyslot/internal/monitoring/metrics"
)

// Status is the JSON document served on /status.
type Status struct {
	Slot      string `json:"slot"`
	State     string `json:"state"`
	Loaded    bool   `json:"loaded"`
	SessionID string `json:"session_id,omitempty"`
}

// StatusProvider reports the current host status.
type StatusProvider interface {
	Status() Status
}

// Server serves host endpoints.
type Server struct {
	config     *Config
	status     StatusProvider
	health     *health.Server
	grpcServer *grpc.Server
	httpServer *http.Server
	logger     *log.Logger
}

// New creates a new Server instance. The health service reports SERVING
// until SetServing(false) is called.
func New(config *Config, gatherer metrics.Gatherer, status StatusProvider, logger *log.Logger) *Server {
	// Create a new gRPC server with the health service.
	healthServer := health.NewServer()
	gRPCServer := grpc.NewServer()
	healthpb.RegisterHealthServer(gRPCServer, healthServer)

	// Register reflection service on gRPC server.
	reflection.Register(gRPCServer)

	m := &Server{
		config:     config,
		status:     status,
		health:     healthServer,
		grpcServer: gRPCServer,
		logger:     logger.With(log.String("component", "server")),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", gatherer.GetHTTPHandler())
	mux.HandleFunc("/status", m.handleStatus)

	m.httpServer = &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return m
}

// SetServing switches the reported health status.
func (m *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.health.SetServingStatus("", status)
	m.logger.Info("health status changed", log.String("status", status.String()))
}

// Run starts both the gRPC and HTTP servers.
func (m *Server) Run(ctx context.Context) error {
	wg, _ := errgroup.WithContext(ctx)
	wg.Go(func() error {
		listener, err := net.Listen("tcp", m.config.GRPCAddr)
		if err != nil {
			return fmt.Errorf("failed to create listener: %w", err)
		}
		err = m.serveGRPC(listener)
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	})
	wg.Go(func() error {
		err := m.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	return wg.Wait()
}

// Stop gracefully stops both the gRPC and HTTP servers.
func (m *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m.health.Shutdown()
	m.grpcServer.Stop()
	if err := m.httpServer.Shutdown(ctx); err != nil {
		m.logger.Warn("failed to shutdown http server", log.Error(err))
	}
}

func (m *Server) serveGRPC(listener net.Listener) error {
	m.logger.Info("serving grpc", log.Stringer("addr", listener.Addr()))
	return m.grpcServer.Serve(listener)
}

func (m *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m.status.Status()); err != nil {
		m.logger.Error("failed to encode status", log.Error(err))
	}
}
