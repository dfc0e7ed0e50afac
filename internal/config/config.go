// Package config loads process-wide runtime tunables for patchcore.
//
// Values are resolved from, in priority order: PATCHCORE_* environment
// variables, an optional config file, then the documented defaults below. Nothing under artifact/, registry/, param/,
// bus/, compile/, ir/, runtime/, or debugcore/ reads viper directly — Load
// is called once at process start (cmd/patchc, or a test's TestMain) and the
// resulting Config is threaded through constructors as a plain struct.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable the runtime and debug core need at construction
// time.
type Config struct {
	// Verbose enables debug-level logging across all components.
	Verbose bool `mapstructure:"verbose"`

	// SpanRingCapacity is the fixed record count of the Debug Core's span ring.
	SpanRingCapacity int `mapstructure:"span_ring_capacity"`

	// ValueRingCapacity is the fixed record count of the Debug Core's value ring.
	ValueRingCapacity int `mapstructure:"value_ring_capacity"`

	// DefaultViewportWidth/Height/DPR are the viewport of the artifact.Ctx
	// the CLI compiles patches under (patch documents carry no viewport).
	DefaultViewportWidth  int     `mapstructure:"default_viewport_width"`
	DefaultViewportHeight int     `mapstructure:"default_viewport_height"`
	DefaultViewportDPR    float64 `mapstructure:"default_viewport_dpr"`

	// AdapterCostCeiling bounds the multi-hop adapter path search (registry
	// package) so a pathological registry cannot make compilation unbounded.
	AdapterCostCeiling float64 `mapstructure:"adapter_cost_ceiling"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Verbose:               false,
		SpanRingCapacity:      100_000,
		ValueRingCapacity:     100_000,
		DefaultViewportWidth:  1280,
		DefaultViewportHeight: 720,
		DefaultViewportDPR:    1.0,
		AdapterCostCeiling:    64.0,
	}
}

// Load resolves a Config from environment variables (prefix PATCHCORE_) and
// an optional file at path (ignored if path is empty or the file is
// missing), layered over DefaultConfig.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PATCHCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("span_ring_capacity", def.SpanRingCapacity)
	v.SetDefault("value_ring_capacity", def.ValueRingCapacity)
	v.SetDefault("default_viewport_width", def.DefaultViewportWidth)
	v.SetDefault("default_viewport_height", def.DefaultViewportHeight)
	v.SetDefault("default_viewport_dpr", def.DefaultViewportDPR)
	v.SetDefault("adapter_cost_ceiling", def.AdapterCostCeiling)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
