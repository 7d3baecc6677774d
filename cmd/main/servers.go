package main

import (
	"fmt"
	"net"

	"stock-board/src/config"
	"stock-board/src/grpc_control"
	"stock-board/src/interfaces"
	"stock-board/src/logger"
)

// -----------------------------------------------------------------------------

// startServers launches the HTTP server and, when enabled, the gRPC control
// server. The returned channel receives the first fatal serve error.
func startServers(
	cfg *config.Config,
	srv interfaces.IDataExchanger,
	control *grpc_control.ControlService,
	appLogger *logger.Logger,
) <-chan error {
	errs := make(chan error, 2)

	// 1. HTTP + WebSocket
	go func() {
		if err := srv.Start(); err != nil {
			errs <- fmt.Errorf("http: %w", err)
		}
	}()

	// 2. gRPC health
	if control != nil {
		addr := fmt.Sprintf("%s:%d", cfg.GrpcHost, cfg.GrpcPort)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			appLogger.Critical("failed to listen for gRPC on %s: %v", addr, err)
			errs <- err
			return errs
		}
		go func() {
			if err := control.Serve(lis); err != nil {
				errs <- err
			}
		}()
	}

	return errs
}
