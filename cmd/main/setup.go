package main

import (
	"stock-board/src/config"
	"stock-board/src/dataset"
	"stock-board/src/grpc_control"
	"stock-board/src/interfaces"
	"stock-board/src/logger"
	"stock-board/src/models"
	"stock-board/src/storage"
)

// -----------------------------------------------------------------------------

// setupStore opens the visitor document backend selected in the config
func setupStore(cfg *config.Config, appLogger *logger.Logger) (interfaces.IDocumentStore, error) {
	storeLogger := appLogger.Named("Store")

	store, err := storage.NewDocumentStore(cfg.MConfig, storeLogger)
	if err != nil {
		appLogger.Critical("Failed to init store: %v", err)
		return nil, err
	}
	if err := store.Initialize(); err != nil {
		appLogger.Critical("Failed to initialize %s store: %v", cfg.Storage.DBType, err)
		return nil, err
	}
	return store, nil
}

// -----------------------------------------------------------------------------

// setupMarkets creates one empty handle per market. Both markets are always
// routed; a market without a data file just stays empty.
func setupMarkets() []*dataset.Handle {
	return []*dataset.Handle{
		dataset.NewHandle(models.MarketKR),
		dataset.NewHandle(models.MarketUS),
	}
}

// -----------------------------------------------------------------------------

// setupControl builds the gRPC health service, or nil when grpc_port is 0
func setupControl(cfg *config.Config, handles []*dataset.Handle, appLogger *logger.Logger) *grpc_control.ControlService {
	if cfg.GrpcPort == 0 {
		appLogger.Info("gRPC control server disabled")
		return nil
	}
	markets := make([]models.Market, len(handles))
	for i, h := range handles {
		markets[i] = h.Market()
	}
	return grpc_control.NewControlService(cfg.Name, markets, appLogger.Named("ControlService"))
}
