package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	_ "net/http/pprof"

	"pricematch-service/internal/config"
	"pricematch-service/internal/mapping"
	serverhttp "pricematch-service/server/http"
)

func main() {
	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	engineCfg, err := config.LoadEngine(cfg.EngineFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("engine config")
	}

	// словарь маппингов: sqlite при заданном пути, иначе in-memory
	var store mapping.Store
	if cfg.MappingDB != "" {
		s, err := mapping.OpenSQLite(cfg.MappingDB)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.MappingDB).Msg("open mapping store")
		}
		store = s
		logger.Info().Str("path", cfg.MappingDB).Msg("mapping store: sqlite")
	} else {
		store = mapping.NewMemory()
		logger.Info().Msg("mapping store: in-memory")
	}
	defer store.Close()

	r := serverhttp.NewRouter(cfg, engineCfg, store, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
