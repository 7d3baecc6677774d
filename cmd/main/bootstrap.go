package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"stock-board/src/config"
	"stock-board/src/dataset"
	"stock-board/src/grpc_control"
	"stock-board/src/interfaces"
	"stock-board/src/logger"
	"stock-board/src/models"
	"stock-board/src/server"
	"stock-board/src/utils"
)

// -----------------------------------------------------------------------------

func loaderOptions(cfg *config.Config, market models.Market, log *logger.Logger) dataset.LoaderOptions {
	return dataset.LoaderOptions{
		Options: dataset.Options{
			TopN:          cfg.Limits.TopN,
			FrequentLimit: cfg.Limits.FrequentLimit,
		},
		Calendar: utils.GetCalendar(market, cfg.Markets.Market(market).Calendar, log),
		Log:      log,
	}
}

// -----------------------------------------------------------------------------

// loadMarkets reads every configured market file in parallel. Each market is
// published as soon as its own load finishes, then announced to websocket
// clients and the gRPC health service. A missing or unreadable file is
// reported and the market stays empty; only cancellation is returned.
func loadMarkets(
	ctx context.Context,
	cfg *config.Config,
	handles []*dataset.Handle,
	srv interfaces.IDataExchanger,
	control *grpc_control.ControlService,
	appLogger *logger.Logger,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, h := range handles {
		market := h.Market()
		path := cfg.Markets.Market(market).DataFile
		if path == "" {
			appLogger.Info("[%s] No data file configured", strings.ToUpper(string(market)))
			continue
		}

		g.Go(func() error {
			log := appLogger.Named("Loader." + string(market))
			ds, _, err := dataset.Load(gctx, market, path, loaderOptions(cfg, market, log))
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				log.Error("[%s] Load failed, serving empty results: %v", strings.ToUpper(string(market)), err)
			}

			h.Publish(ds)
			srv.Broadcast(h.Status(server.StatusDatasetReady))
			if control != nil {
				control.MarketReady(market, h.Loaded())
			}
			return nil
		})
	}

	return g.Wait()
}

// -----------------------------------------------------------------------------

// exportParquet converts the configured market files into Parquet files
// inside dir, one per market.
func exportParquet(ctx context.Context, cfg *config.Config, dir string, appLogger *logger.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create export dir: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, market := range []models.Market{models.MarketKR, models.MarketUS} {
		path := cfg.Markets.Market(market).DataFile
		if path == "" {
			continue
		}
		g.Go(func() error {
			log := appLogger.Named("Export." + string(market))
			ds, _, err := dataset.Load(gctx, market, path, loaderOptions(cfg, market, log))
			if err != nil {
				return err
			}
			out := filepath.Join(dir, string(market)+".parquet")
			if err := ds.ExportParquet(out); err != nil {
				return err
			}
			log.Info("Wrote %d rows to %s", ds.Len(), out)
			return nil
		})
	}
	return g.Wait()
}
