package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"rift-rewind/internal/config"
	"rift-rewind/internal/constants"
	fxmodules "rift-rewind/internal/fx"
	"rift-rewind/internal/metrics"
	"rift-rewind/internal/middleware"
	"rift-rewind/internal/server"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runServer),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	riftServer *server.RiftServer,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	mux := http.NewServeMux()

	path, handler := server.NewRiftRewindHandler(riftServer)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{constants.SessionHeader, "X-Request-ID"},
		AllowCredentials: true,
	})

	requestIDMiddleware := middleware.RequestID(logger)
	wrap := func(h http.Handler) http.Handler {
		return middleware.Session(requestIDMiddleware(c.Handler(h)))
	}

	mux.Handle(path, wrap(handler))
	mux.Handle("/heatmap.png", wrap(http.HandlerFunc(riftServer.HeatmapPNG)))
	mux.Handle("/healthz", server.Healthz(db))
	mux.HandleFunc("/", server.Index)
	metrics.Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: mux,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Str("rpc_path", path).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
