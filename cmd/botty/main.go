// Package main runs the botty commander: it connects configured hotels and
// serves the HTTP control surface.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/api"
	"github.com/merijnkruithof/botty/internal/config"
	"github.com/merijnkruithof/botty/internal/connection"
	"github.com/merijnkruithof/botty/internal/hotel"
	"github.com/merijnkruithof/botty/internal/observability"
	"github.com/merijnkruithof/botty/internal/server"
	"github.com/merijnkruithof/botty/internal/taskmgr"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/botty.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting botty",
		zap.String("listen_addr", cfg.API.ListenAddr),
		zap.Int("hotels", len(cfg.Hotels)),
	)

	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)

	registry := hotel.NewRegistry()
	for _, hotelCfg := range cfg.Hotels {
		connector := connection.NewConnector(hotelCfg.WSLink, hotelCfg.Origin, logger)
		handler := hotel.NewHandler(hotelCfg.Name, connector, metrics, logger)
		if err := registry.AddHotel(handler); err != nil {
			logger.Fatal("registering hotel",
				zap.String("hotel", hotelCfg.Name),
				zap.Error(err),
			)
		}
		logger.Info("hotel registered",
			zap.String("hotel", hotelCfg.Name),
			zap.String("endpoint", hotelCfg.WSLink),
		)
	}

	tasks := taskmgr.NewManager(logger)
	apiServer := api.NewServer(registry, tasks, metrics, cfg.API.AuthToken, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("api", server.NewHTTPService(cfg.API.ListenAddr, apiServer.Router(promRegistry), logger))
	// Sessions are spawned on demand via the API; this service only exists
	// to tear them down on shutdown.
	hotelsDone := make(chan struct{})
	lifecycle.Add("hotels", &server.FuncService{
		StartFn: func() error {
			<-hotelsDone
			return nil
		},
		StopFn: func() {
			tasks.KillAll()
			for _, handler := range registry.All() {
				handler.KillAll()
			}
			close(hotelsDone)
		},
	})

	logger.Info("botty ready", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("lifecycle failed", zap.Error(err))
	}
}
