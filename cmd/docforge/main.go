package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"docforge/internal/batch"
	"docforge/internal/compose"
	"docforge/internal/domain"
	"docforge/internal/imaging"
	"docforge/internal/infra"
	"docforge/internal/locale"
	"docforge/internal/storage"
)

// docforge composes a batch of documents from a records file and prints the
// batch report as JSON.
func main() {
	_ = godotenv.Load()

	recordsPath := flag.String("records", "", "path to a JSON file with an array of records")
	kindsFlag := flag.String("kinds", "", "comma-separated template kinds (default: all)")
	outDir := flag.String("out", "", "artifact output directory (default: OUTPUT_DIR)")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if *recordsPath == "" {
		logger.Fatal().Msg("-records is required")
	}
	records, err := loadRecords(*recordsPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *recordsPath).Msg("failed to load records")
	}

	kinds := domain.TemplateKinds
	if *kindsFlag != "" {
		kinds = make([]domain.TemplateKind, 0, len(domain.TemplateKinds))
		for _, raw := range strings.Split(*kindsFlag, ",") {
			kind, err := domain.ParseTemplateKind(raw)
			if err != nil {
				logger.Fatal().Err(err).Msg("invalid -kinds value")
			}
			kinds = append(kinds, kind)
		}
	}

	if *outDir == "" {
		*outDir = cfg.OutputDir
	}
	store, err := storage.NewFileStore(*outDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize artifact store")
	}

	acquirer := imaging.NewAcquirer(
		imaging.NewCache(cfg.CacheCapacity),
		buildSourceChain(cfg),
		cfg.SourceTimeout,
		logger,
	)
	composer := compose.NewComposer(store, acquirer, locale.NewTable(cfg.LocaleFallback), cfg.Institution, logger)
	processor := batch.NewProcessor(composer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := processor.Run(ctx, records, kinds, batch.Config{
		MaxWorkers:    cfg.MaxWorkers,
		Timeout:       cfg.UnitTimeout,
		MemoryLimit:   int64(cfg.MemoryLimitMB) << 20,
		AdmissionWait: cfg.AdmissionWait,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("batch run failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Fatal().Err(err).Msg("failed to write report")
	}
	if report.FailedCount > 0 {
		os.Exit(1)
	}
}

func loadRecords(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	// Also accept the API request shape {"records": [...]}.
	var wrapper struct {
		Records []domain.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Records, nil
}

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
