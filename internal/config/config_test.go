package config

import (
	"os"
	"path/filepath"
	"testing"

	"dominion/internal/domain/civ"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Fatalf("listen = %q", cfg.Listen)
	}
	if cfg.Scheduler.MaxQueueSize != 20 || cfg.Scheduler.ActionsPerTurn != 3 {
		t.Fatalf("scheduler defaults = %+v", cfg.Scheduler)
	}
	if cfg.Scheduler.MaxRetries == nil || *cfg.Scheduler.MaxRetries != 2 {
		t.Fatalf("max retries = %v, want default 2", cfg.Scheduler.MaxRetries)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
seed: 99
scheduler:
  max_queue_size: 8
  actions_per_turn: 2
  max_retries: 0
base_weights:
  attack: 9.5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9000" || cfg.Seed != 99 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Scheduler.MaxQueueSize != 8 || cfg.Scheduler.ActionsPerTurn != 2 {
		t.Fatalf("scheduler = %+v", cfg.Scheduler)
	}
	// An explicit zero is a real setting, not a request for the default.
	if cfg.Scheduler.MaxRetries == nil || *cfg.Scheduler.MaxRetries != 0 {
		t.Fatalf("max retries = %v, want explicit 0", cfg.Scheduler.MaxRetries)
	}
	if got := cfg.Scheduler.BaseWeights[civ.ActionAttack]; got != 9.5 {
		t.Fatalf("attack weight = %v, want 9.5", got)
	}
	// Untouched kinds keep their defaults.
	if got := cfg.Scheduler.BaseWeights[civ.ActionDefend]; got != 10 {
		t.Fatalf("defend weight = %v, want default 10", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadRejectsUnknownWeightKind(t *testing.T) {
	path := writeConfig(t, `
base_weights:
  warp_drive: 1.0
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown action kind")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOMINION_LISTEN", ":7777")
	t.Setenv("DOMINION_SEED", "123")
	t.Setenv("DOMINION_MAX_QUEUE_SIZE", "5")
	t.Setenv("DOMINION_ACTIONS_PER_TURN", "1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":7777" || cfg.Seed != 123 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Scheduler.MaxQueueSize != 5 || cfg.Scheduler.ActionsPerTurn != 1 {
		t.Fatalf("scheduler = %+v", cfg.Scheduler)
	}
}

func TestEnvAllowsZeroRetries(t *testing.T) {
	t.Setenv("DOMINION_MAX_RETRIES", "0")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.MaxRetries == nil || *cfg.Scheduler.MaxRetries != 0 {
		t.Fatalf("max retries = %v, want explicit 0", cfg.Scheduler.MaxRetries)
	}
}

func TestEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("DOMINION_MAX_QUEUE_SIZE", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.MaxQueueSize != 20 {
		t.Fatalf("queue size = %d, want default kept", cfg.Scheduler.MaxQueueSize)
	}
}
