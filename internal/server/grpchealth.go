package server

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer publishes the standard gRPC health service so orchestrators
// can probe the process without speaking HTTP.
type HealthServer struct {
	grpc     *grpc.Server
	health   *health.Server
	listener net.Listener
	logger   *zap.Logger
}

// NewHealthServer listens on addr and reports SERVING for the overall
// service and for the analysis service name.
func NewHealthServer(addr string, logger *zap.Logger) (*HealthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	return &HealthServer{grpc: grpcServer, health: healthServer, listener: lis, logger: logger}, nil
}

// ServiceName is the gRPC health service name of the analysis API.
const ServiceName = "idealab.ModelAnalysis"

// Addr returns the bound address.
func (h *HealthServer) Addr() string {
	return h.listener.Addr().String()
}

// Serve blocks until Stop is called.
func (h *HealthServer) Serve() error {
	h.logger.Info("grpc health server listening", zap.String("addr", h.Addr()))
	return h.grpc.Serve(h.listener)
}

// Stop marks every service NOT_SERVING and drains the server.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.grpc.GracefulStop()
}
