// Package config loads the server's plain-data configuration from an optional
// YAML file with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"dominion/internal/app/schedule"
	"dominion/internal/domain/civ"
)

type Config struct {
	Listen      string `yaml:"listen"`
	DatabaseDSN string `yaml:"database_dsn"`
	Seed        int64  `yaml:"seed"`

	Scheduler schedule.Config `yaml:"scheduler"`

	// BaseWeights overrides the default per-kind priority floors; keys are
	// action kind names.
	BaseWeights map[string]float64 `yaml:"base_weights"`
}

func Default() Config {
	return Config{
		Listen:    ":8080",
		Seed:      1,
		Scheduler: schedule.DefaultConfig(),
	}
}

// Load reads path when non-empty, then applies environment overrides. A
// missing file is an error; an empty path just means defaults-plus-env.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.applyWeights(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("DOMINION_LISTEN")); v != "" {
		c.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("DOMINION_DB_DSN")); v != "" {
		c.DatabaseDSN = v
	}
	c.Seed = int64Env("DOMINION_SEED", c.Seed)
	c.Scheduler.MaxQueueSize = intEnv("DOMINION_MAX_QUEUE_SIZE", c.Scheduler.MaxQueueSize)
	c.Scheduler.ActionsPerTurn = intEnv("DOMINION_ACTIONS_PER_TURN", c.Scheduler.ActionsPerTurn)
	if v := strings.TrimSpace(os.Getenv("DOMINION_MAX_RETRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 255 {
			c.Scheduler.MaxRetries = schedule.Retries(uint8(n))
		}
	}
	c.Scheduler.PlannerWorkers = intEnv("DOMINION_PLANNER_WORKERS", c.Scheduler.PlannerWorkers)
}

// applyWeights folds the string-keyed override map into the scheduler config,
// refusing unknown action kinds so typos surface at startup.
func (c *Config) applyWeights() error {
	if len(c.BaseWeights) == 0 {
		return nil
	}
	if c.Scheduler.BaseWeights == nil {
		c.Scheduler.BaseWeights = civ.DefaultBaseWeights()
	}
	known := map[civ.ActionKind]bool{}
	for _, k := range civ.AllActionKinds() {
		known[k] = true
	}
	for name, weight := range c.BaseWeights {
		kind := civ.ActionKind(name)
		if !known[kind] {
			return fmt.Errorf("unknown action kind %q in base_weights", name)
		}
		c.Scheduler.BaseWeights[kind] = weight
	}
	return nil
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func int64Env(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
