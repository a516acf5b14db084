package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MAX_WORKERS", "")
	t.Setenv("SOURCE_ORDER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.MaxWorkers != 4 {
		t.Fatalf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if cfg.UnitTimeout != 30*time.Second {
		t.Fatalf("UnitTimeout = %s, want 30s", cfg.UnitTimeout)
	}
	if cfg.CacheCapacity != 64<<20 {
		t.Fatalf("CacheCapacity = %d, want %d", cfg.CacheCapacity, 64<<20)
	}
	want := []string{"primary", "secondary", "local", "synthetic"}
	if len(cfg.SourceOrder) != len(want) {
		t.Fatalf("SourceOrder = %#v, want %#v", cfg.SourceOrder, want)
	}
	for i, src := range want {
		if cfg.SourceOrder[i] != src {
			t.Fatalf("SourceOrder[%d] = %q, want %q", i, cfg.SourceOrder[i], src)
		}
	}
}

func TestLoadConfigParsesSourceOrder(t *testing.T) {
	t.Setenv("SOURCE_ORDER", " local , synthetic ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.SourceOrder) != 2 || cfg.SourceOrder[0] != "local" || cfg.SourceOrder[1] != "synthetic" {
		t.Fatalf("SourceOrder mismatch: %#v", cfg.SourceOrder)
	}
}

func TestLoadConfigRejectsUnknownSource(t *testing.T) {
	t.Setenv("SOURCE_ORDER", "primary,ftp")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown source name")
	}
}

func TestLoadConfigRejectsNonPositiveWorkers(t *testing.T) {
	t.Setenv("MAX_WORKERS", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for MAX_WORKERS=0")
	}
}
