// Package grpc_control exposes the standard gRPC health service so that
// orchestrators can probe each market dataset independently.
package grpc_control

import (
	"context"
	"fmt"
	"net"

	"stock-board/src/logger"
	"stock-board/src/models"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName returns the health service name of a market, e.g.
// "stock-board.kr".
func ServiceName(app string, market models.Market) string {
	return app + "." + string(market)
}

// -----------------------------------------------------------------------------

// ControlService owns the gRPC server and its health registry. The overall
// status ("") is SERVING as soon as the server runs. Each market starts
// NOT_SERVING and flips once its dataset is published.
type ControlService struct {
	Name   string
	Logger *logger.Logger

	server *grpc.Server
	health *health.Server
}

// NewControlService creates a new instance of ControlService
func NewControlService(name string, markets []models.Market, log *logger.Logger) *ControlService {
	s := &ControlService{
		Name:   name,
		Logger: log,
		server: grpc.NewServer(),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, m := range markets {
		s.health.SetServingStatus(ServiceName(name, m), healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return s
}

// -----------------------------------------------------------------------------

// MarketReady records the outcome of a market load. A load that produced no
// rows keeps the market NOT_SERVING.
func (s *ControlService) MarketReady(market models.Market, loaded bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if loaded {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName(s.Name, market), status)
	s.Logger.Info("gRPC health %s -> %s", ServiceName(s.Name, market), status)
}

// -----------------------------------------------------------------------------

// Check answers a health probe in-process.
func (s *ControlService) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.Status, nil
}

// -----------------------------------------------------------------------------

// Serve blocks serving on lis until Stop.
func (s *ControlService) Serve(lis net.Listener) error {
	s.Logger.Info("Starting gRPC Control Server on %s", lis.Addr())
	if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("failed to serve gRPC: %w", err)
	}
	return nil
}

// Stop marks everything NOT_SERVING and drains open calls.
func (s *ControlService) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}
