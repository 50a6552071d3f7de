// Package config holds the read-only, scene-wide settings consumed by the light
// tree, the integrator and the renderer.
//
// Values are resolved with priority env > file > defaults and validated once;
// after Load returns the struct is shared by value and never mutated.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LIGHTTREE_"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = validator.New()

// Config is the top-level configuration.
type Config struct {
	Integrator IntegratorConfig `json:"integrator" yaml:"integrator"`
	Render     RenderConfig     `json:"render" yaml:"render"`
	LogLevel   string           `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
}

// IntegratorConfig contains the light transport settings.
type IntegratorConfig struct {
	// SplittingThreshold trades noise for ray count in the light tree:
	// 0 never splits, 1 always visits both children.
	SplittingThreshold float64 `json:"splitting_threshold" yaml:"splitting_threshold" validate:"gte=0,lte=1"`
	UseLightTree       bool    `json:"use_light_tree" yaml:"use_light_tree"`
	UseDirectLight     bool    `json:"use_direct_light" yaml:"use_direct_light"`
	SampleAllLights    bool    `json:"sample_all_lights" yaml:"sample_all_lights"`

	// LightSamples is the minimum per-light sample count used when all lights
	// are sampled and the tree is not. A light's own Settings.Samples can raise it.
	LightSamples int `json:"light_samples" yaml:"light_samples" validate:"gte=1"`

	// LightThreshold enables Russian roulette on weak light samples when > 0.
	LightThreshold float64 `json:"light_threshold" yaml:"light_threshold" validate:"gte=0"`

	MaxBounce             int `json:"max_bounce" yaml:"max_bounce" validate:"gte=0"`
	MaxDiffuseBounce      int `json:"max_diffuse_bounce" yaml:"max_diffuse_bounce" validate:"gte=0"`
	MaxGlossyBounce       int `json:"max_glossy_bounce" yaml:"max_glossy_bounce" validate:"gte=0"`
	MaxTransmissionBounce int `json:"max_transmission_bounce" yaml:"max_transmission_bounce" validate:"gte=0"`
	MaxTransparentBounce  int `json:"max_transparent_bounce" yaml:"max_transparent_bounce" validate:"gte=0"`
	MinBounceRR           int `json:"min_bounce_rr" yaml:"min_bounce_rr" validate:"gte=0"`

	// Branched splits the first bounce into per-kind sample counts.
	Branched            bool `json:"branched" yaml:"branched"`
	DiffuseSamples      int  `json:"diffuse_samples" yaml:"diffuse_samples" validate:"gte=1"`
	GlossySamples       int  `json:"glossy_samples" yaml:"glossy_samples" validate:"gte=1"`
	TransmissionSamples int  `json:"transmission_samples" yaml:"transmission_samples" validate:"gte=1"`
}

// RenderConfig contains image and scheduling settings.
type RenderConfig struct {
	Width           int   `json:"width" yaml:"width" validate:"gte=1"`
	Height          int   `json:"height" yaml:"height" validate:"gte=1"`
	SamplesPerPixel int   `json:"samples_per_pixel" yaml:"samples_per_pixel" validate:"gte=1"`
	TileSize        int   `json:"tile_size" yaml:"tile_size" validate:"gte=1"`
	Workers         int   `json:"workers" yaml:"workers" validate:"gte=0"` // 0 = runtime.NumCPU()
	Seed            int64 `json:"seed" yaml:"seed"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Integrator: DefaultIntegrator(),
		Render: RenderConfig{
			Width:           320,
			Height:          240,
			SamplesPerPixel: 16,
			TileSize:        32,
			Workers:         0,
			Seed:            42,
		},
		LogLevel: "info",
	}
}

// DefaultIntegrator returns the default integrator settings.
func DefaultIntegrator() IntegratorConfig {
	return IntegratorConfig{
		SplittingThreshold:    0.5,
		UseLightTree:          true,
		UseDirectLight:        true,
		SampleAllLights:       false,
		LightSamples:          1,
		LightThreshold:        0.01,
		MaxBounce:             8,
		MaxDiffuseBounce:      4,
		MaxGlossyBounce:       4,
		MaxTransmissionBounce: 8,
		MaxTransparentBounce:  8,
		MinBounceRR:           3,
		Branched:              false,
		DiffuseSamples:        1,
		GlossySamples:         1,
		TransmissionSamples:   1,
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Load loads configuration with priority: env > file > defaults.
// A missing file is not an error; an unreadable or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Config) error {
	floats := map[string]*float64{
		"SPLITTING_THRESHOLD": &cfg.Integrator.SplittingThreshold,
		"LIGHT_THRESHOLD":     &cfg.Integrator.LightThreshold,
	}
	ints := map[string]*int{
		"LIGHT_SAMPLES":     &cfg.Integrator.LightSamples,
		"MAX_BOUNCE":        &cfg.Integrator.MaxBounce,
		"MIN_BOUNCE_RR":     &cfg.Integrator.MinBounceRR,
		"WIDTH":             &cfg.Render.Width,
		"HEIGHT":            &cfg.Render.Height,
		"SAMPLES_PER_PIXEL": &cfg.Render.SamplesPerPixel,
		"WORKERS":           &cfg.Render.Workers,
	}
	bools := map[string]*bool{
		"USE_LIGHT_TREE":    &cfg.Integrator.UseLightTree,
		"USE_DIRECT_LIGHT":  &cfg.Integrator.UseDirectLight,
		"SAMPLE_ALL_LIGHTS": &cfg.Integrator.SampleAllLights,
		"BRANCHED":          &cfg.Integrator.Branched,
	}

	for key, dst := range floats {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("parse %s%s: %w", EnvPrefix, key, err)
			}
			*dst = f
		}
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			i, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse %s%s: %w", EnvPrefix, key, err)
			}
			*dst = i
		}
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("parse %s%s: %w", EnvPrefix, key, err)
			}
			*dst = b
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	return nil
}
