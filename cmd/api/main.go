package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"docforge/internal/batch"
	"docforge/internal/compose"
	"docforge/internal/http/handlers"
	httpapi "docforge/internal/http/httpapi"
	"docforge/internal/imaging"
	"docforge/internal/infra"
	"docforge/internal/infra/geoip"
	"docforge/internal/locale"
	"docforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize artifact store")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, country detection degraded")
	}

	acquirer := imaging.NewAcquirer(
		imaging.NewCache(cfg.CacheCapacity),
		buildSourceChain(cfg),
		cfg.SourceTimeout,
		logger,
	)
	composer := compose.NewComposer(store, acquirer, locale.NewTable(cfg.LocaleFallback), cfg.Institution, logger)
	processor := batch.NewProcessor(composer, logger)

	app := handlers.NewApp(logger, processor, store, cfg)
	router := httpapi.NewRouter(app, resolver)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// buildSourceChain assembles the image source chain in configured order. The
// acquirer appends the synthetic fallback when the order omits it.
func buildSourceChain(cfg *infra.Config) []imaging.Source {
	var chain []imaging.Source
	for _, name := range cfg.SourceOrder {
		switch name {
		case "primary":
			chain = append(chain, imaging.NewHTTPSource("primary", cfg.PrimaryImageURL, nil))
		case "secondary":
			chain = append(chain, imaging.NewHTTPSource("secondary", cfg.SecondaryImageURL, nil))
		case "local":
			chain = append(chain, imaging.NewLocalSource(cfg.AssetDir))
		case "synthetic":
			chain = append(chain, imaging.NewSyntheticSource())
		}
	}
	return chain
}
