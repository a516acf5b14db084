package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	Institution string

	// Artifact and asset locations.
	OutputDir string
	AssetDir  string

	// Batch processing bounds.
	MaxWorkers     int
	UnitTimeout    time.Duration
	MemoryLimitMB  int
	AdmissionWait  time.Duration
	CacheCapacity  int64
	LocaleFallback string

	// Image source chain.
	SourceOrder       []string
	PrimaryImageURL   string
	SecondaryImageURL string
	SourceTimeout     time.Duration

	GeoIPDBPath string

	CORSAllowedOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		Institution:        getEnv("INSTITUTION_CODE", "DPS-RKP-001"),
		OutputDir:          getEnv("OUTPUT_DIR", "output"),
		AssetDir:           os.Getenv("ASSET_DIR"),
		MaxWorkers:         getEnvInt("MAX_WORKERS", 4),
		UnitTimeout:        time.Second * time.Duration(getEnvInt("TIMEOUT_SECONDS", 30)),
		MemoryLimitMB:      getEnvInt("MEMORY_LIMIT_MB", 512),
		AdmissionWait:      time.Second * time.Duration(getEnvInt("ADMISSION_WAIT_SECONDS", 30)),
		CacheCapacity:      int64(getEnvInt("CACHE_CAPACITY_MB", 64)) << 20,
		LocaleFallback:     getEnv("LOCALE_FALLBACK", "USA"),
		SourceOrder:        splitList(getEnv("SOURCE_ORDER", "primary,secondary,local,synthetic")),
		PrimaryImageURL:    os.Getenv("PRIMARY_IMAGE_URL"),
		SecondaryImageURL:  os.Getenv("SECONDARY_IMAGE_URL"),
		SourceTimeout:      time.Second * time.Duration(getEnvInt("SOURCE_TIMEOUT_SECONDS", 5)),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.MaxWorkers <= 0 {
		return nil, fmt.Errorf("MAX_WORKERS must be positive, got %d", cfg.MaxWorkers)
	}
	if cfg.MemoryLimitMB <= 0 {
		return nil, fmt.Errorf("MEMORY_LIMIT_MB must be positive, got %d", cfg.MemoryLimitMB)
	}
	for _, src := range cfg.SourceOrder {
		switch src {
		case "primary", "secondary", "local", "synthetic":
		default:
			return nil, fmt.Errorf("SOURCE_ORDER: unknown source %q", src)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
