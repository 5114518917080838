package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"matchbook/internal/api"
	"matchbook/internal/config"
	"matchbook/internal/engine"
	"matchbook/internal/gateway"
	"matchbook/internal/ledger"
	"matchbook/internal/lifecycle"
	"matchbook/internal/metrics"
	"matchbook/internal/session"
	"matchbook/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the server config file")
	flag.Parse()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("unable to load config")
		os.Exit(1)
	}

	ldg := ledger.New(cfg.SeedUSD, cfg.SeedBase)
	gw := gateway.New(ldg, log)

	for _, m := range cfg.Markets {
		gw.RegisterBook(engine.New(m.Symbol, m.TickMultiplier), m.BaseAsset)
		log.Info().Str("symbol", m.Symbol).Uint64("tickMultiplier", m.TickMultiplier).Msg("market registered")
	}

	sessions := session.New()
	hub := ws.New(sessions, log)
	mc := metrics.New()

	srv := api.New(gw, sessions, hub, mc, cfg.Markets, log)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := lifecycle.Run(ctx, httpServer, hub, log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}
