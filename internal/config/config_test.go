package config

import (
	"testing"
	"time"
)

func TestLoadDefaultsEnvOnly(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("env-only load must not need a file: %v", err)
	}

	if cfg.Pipeline.ConfidenceThreshold != 80 {
		t.Fatalf("confidence_threshold = %d, want 80", cfg.Pipeline.ConfidenceThreshold)
	}
	if cfg.Loop.Interval != 600*time.Second {
		t.Fatalf("loop interval = %v, want 600s", cfg.Loop.Interval)
	}
	if cfg.Loop.HeartbeatEvery != 6 {
		t.Fatalf("heartbeat_every = %d, want 6", cfg.Loop.HeartbeatEvery)
	}
	if cfg.Loop.MaxPositionPct != 0.05 {
		t.Fatalf("max_position_pct = %v, want 0.05", cfg.Loop.MaxPositionPct)
	}
	if cfg.Sources.Social.MinBackoff != 30*time.Second {
		t.Fatalf("social min_backoff = %v, want 30s", cfg.Sources.Social.MinBackoff)
	}
	if cfg.DB.MaxOpenConns != 1 {
		t.Fatalf("db max_open_conns = %d, want 1", cfg.DB.MaxOpenConns)
	}
	if cfg.Broker.Enabled {
		t.Fatalf("broker must default to disabled")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ET_PIPELINE_CONFIDENCE_THRESHOLD", "95")
	t.Setenv("ET_LOOP_CAPITAL", "2500")

	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Pipeline.ConfidenceThreshold != 95 {
		t.Fatalf("confidence_threshold = %d, want 95 from env", cfg.Pipeline.ConfidenceThreshold)
	}
	if cfg.Loop.Capital != 2500 {
		t.Fatalf("capital = %v, want 2500 from env", cfg.Loop.Capital)
	}
}
