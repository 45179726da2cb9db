package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/gtuverse/clubdeck/internal/config"
	"github.com/gtuverse/clubdeck/internal/stubserver"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	port := pflag.Int("port", 0, "listen port (overrides config)")
	seed := pflag.Bool("seed", false, "seed a few demo rooms on startup")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}
	if *port != 0 {
		cfg.Port = *port
	}

	store := stubserver.NewStore()
	if *seed {
		for _, name := range []string{"Neon Lounge", "Bass Garden", "Chillout Deck"} {
			room := store.CreateRoom(name, stubserver.DefaultCapacity)
			log.Info().Int("room", int(room.ID)).Str("name", room.Name).Msg("seeded room")
		}
	}

	r := stubserver.SetupRouter(cfg, store)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("stub directory started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
