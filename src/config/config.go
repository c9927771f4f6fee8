// Package config holds the processing configuration: which repair stages
// run, per-resource overrides, and bounds on iterative normalizers.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// validName matches alphanumeric, hyphens, and single underscores.
// Double underscores are reserved as the namespace separator.
var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Config is the top-level configuration loaded from JSON.
type Config struct {
	Repair    RepairConfig     `json:"repair"`
	Resources []ResourceConfig `json:"resources,omitempty"`
}

// ResourceConfig overrides repair behaviour for a single logical resource.
type ResourceConfig struct {
	Name   string        `json:"name"`
	Repair *RepairConfig `json:"repair,omitempty"`
}

// RepairConfig controls the sanitization pipeline behaviour.
// When used at the root level it provides global defaults.
// When used per-resource, non-nil fields override the global.
type RepairConfig struct {
	EnableFenceRemoval         *bool `json:"enableFenceRemoval,omitempty"`
	EnableControlCharRemoval   *bool `json:"enableControlCharRemoval,omitempty"`
	EnableSpanExtraction       *bool `json:"enableSpanExtraction,omitempty"`
	EnableEnvelopeUnwrap       *bool `json:"enableEnvelopeUnwrap,omitempty"`
	EnableDuplicateCollapse    *bool `json:"enableDuplicateCollapse,omitempty"`
	EnableDelimiterRepair      *bool `json:"enableDelimiterRepair,omitempty"`
	EnableCommaRepair          *bool `json:"enableCommaRepair,omitempty"`
	EnableTrailingCommaRemoval *bool `json:"enableTrailingCommaRemoval,omitempty"`
	EnableConcatCollapse       *bool `json:"enableConcatCollapse,omitempty"`
	EnableEscapeRepair         *bool `json:"enableEscapeRepair,omitempty"`
	EnableTruncationCompletion *bool `json:"enableTruncationCompletion,omitempty"`
	MaxConcatPasses            *int  `json:"maxConcatPasses,omitempty"`
}

// DefaultMaxConcatPasses bounds concatenation-chain collapsing so that
// pathological input always terminates.
const DefaultMaxConcatPasses = 3

// Default returns a Config with every default applied.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads and parses a JSON config file, applies defaults, and validates.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	r := &cfg.Repair
	if r.EnableFenceRemoval == nil {
		r.EnableFenceRemoval = boolPtr(true)
	}
	if r.EnableControlCharRemoval == nil {
		r.EnableControlCharRemoval = boolPtr(true)
	}
	if r.EnableSpanExtraction == nil {
		r.EnableSpanExtraction = boolPtr(true)
	}
	if r.EnableEnvelopeUnwrap == nil {
		r.EnableEnvelopeUnwrap = boolPtr(true)
	}
	if r.EnableDuplicateCollapse == nil {
		r.EnableDuplicateCollapse = boolPtr(true)
	}
	if r.EnableDelimiterRepair == nil {
		r.EnableDelimiterRepair = boolPtr(true)
	}
	if r.EnableCommaRepair == nil {
		r.EnableCommaRepair = boolPtr(true)
	}
	if r.EnableTrailingCommaRemoval == nil {
		r.EnableTrailingCommaRemoval = boolPtr(true)
	}
	if r.EnableConcatCollapse == nil {
		r.EnableConcatCollapse = boolPtr(true)
	}
	if r.EnableEscapeRepair == nil {
		r.EnableEscapeRepair = boolPtr(true)
	}
	if r.EnableTruncationCompletion == nil {
		r.EnableTruncationCompletion = boolPtr(true)
	}
	if r.MaxConcatPasses == nil {
		r.MaxConcatPasses = intPtr(DefaultMaxConcatPasses)
	}
}

func validate(cfg Config) error {
	if *cfg.Repair.MaxConcatPasses <= 0 {
		return fmt.Errorf("repair.maxConcatPasses must be positive, got %d", *cfg.Repair.MaxConcatPasses)
	}

	names := make(map[string]struct{}, len(cfg.Resources))
	for i, res := range cfg.Resources {
		if res.Name == "" {
			return fmt.Errorf("resources[%d]: name is required", i)
		}
		if !validName.MatchString(res.Name) {
			return fmt.Errorf("resources[%d]: name %q must match %s", i, res.Name, validName.String())
		}
		if strings.Contains(res.Name, "__") {
			return fmt.Errorf("resources[%d]: name %q must not contain \"__\" (reserved separator)", i, res.Name)
		}
		if _, exists := names[res.Name]; exists {
			return fmt.Errorf("resources[%d]: duplicate name %q", i, res.Name)
		}
		names[res.Name] = struct{}{}

		if res.Repair != nil && res.Repair.MaxConcatPasses != nil && *res.Repair.MaxConcatPasses <= 0 {
			return fmt.Errorf("resources[%d] (%s): maxConcatPasses must be positive", i, res.Name)
		}
	}

	return nil
}

// Merge returns a RepairConfig with per-resource overrides applied on top
// of global defaults. Fields that are nil in the override use the global value.
func Merge(global, override *RepairConfig) RepairConfig {
	if override == nil {
		return *global
	}

	merged := *global

	if override.EnableFenceRemoval != nil {
		merged.EnableFenceRemoval = override.EnableFenceRemoval
	}
	if override.EnableControlCharRemoval != nil {
		merged.EnableControlCharRemoval = override.EnableControlCharRemoval
	}
	if override.EnableSpanExtraction != nil {
		merged.EnableSpanExtraction = override.EnableSpanExtraction
	}
	if override.EnableEnvelopeUnwrap != nil {
		merged.EnableEnvelopeUnwrap = override.EnableEnvelopeUnwrap
	}
	if override.EnableDuplicateCollapse != nil {
		merged.EnableDuplicateCollapse = override.EnableDuplicateCollapse
	}
	if override.EnableDelimiterRepair != nil {
		merged.EnableDelimiterRepair = override.EnableDelimiterRepair
	}
	if override.EnableCommaRepair != nil {
		merged.EnableCommaRepair = override.EnableCommaRepair
	}
	if override.EnableTrailingCommaRemoval != nil {
		merged.EnableTrailingCommaRemoval = override.EnableTrailingCommaRemoval
	}
	if override.EnableConcatCollapse != nil {
		merged.EnableConcatCollapse = override.EnableConcatCollapse
	}
	if override.EnableEscapeRepair != nil {
		merged.EnableEscapeRepair = override.EnableEscapeRepair
	}
	if override.EnableTruncationCompletion != nil {
		merged.EnableTruncationCompletion = override.EnableTruncationCompletion
	}
	if override.MaxConcatPasses != nil {
		merged.MaxConcatPasses = override.MaxConcatPasses
	}

	return merged
}

// ForResource returns the merged repair config for a named resource,
// falling back to the global config for unknown names.
func (c Config) ForResource(name string) RepairConfig {
	for _, res := range c.Resources {
		if res.Name == name {
			return Merge(&c.Repair, res.Repair)
		}
	}
	return c.Repair
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
