// Package grpchealth exposes the standard gRPC health-checking service.
//
// Infrastructure that probes over gRPC (Kubernetes grpc liveness probes,
// service meshes) can query this endpoint instead of the HTTP health
// server. The service reports NOT_SERVING while no voices are loaded.
package grpchealth

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps a grpc.Server carrying only the health service.
type Server struct {
	port   int
	server *grpc.Server
	status *health.Server
}

// New creates a gRPC health server on the given port.
func New(port int) *Server {
	return &Server{
		port:   port,
		status: health.NewServer(),
	}
}

// SetServing switches the reported status for the whole daemon.
func (s *Server) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.status.SetServingStatus("", st)
}

// ListenAndServe starts the gRPC server and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("grpc health listen: %w", err)
	}

	s.server = grpc.NewServer()
	healthpb.RegisterHealthServer(s.server, s.status)

	slog.Info("grpc health server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		slog.Info("grpc health server shutting down")
		s.server.GracefulStop()
	}()

	return s.server.Serve(lis)
}
