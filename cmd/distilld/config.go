package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/distill"
	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file shape. Every field is
// optional; absent fields keep the defaults from distill.DefaultConfig.
type FileConfig struct {
	Addr      string `yaml:"addr"`
	Engine    string `yaml:"engine"`
	CachePath string `yaml:"cache_path"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Scoring struct {
		TagWeights         map[string]float64 `yaml:"tag_weights"`
		LinkDensityPenalty *float64           `yaml:"link_density_penalty"`
		AncestorFraction   *float64           `yaml:"ancestor_fraction"`
		ScoreFloor         *float64           `yaml:"score_floor"`
		CoPrimaryThreshold *float64           `yaml:"co_primary_threshold"`
	} `yaml:"scoring"`

	Pool struct {
		Capacity       int    `yaml:"capacity"`
		AcquireTimeout string `yaml:"acquire_timeout"`
		RenderTimeout  string `yaml:"render_timeout"`
	} `yaml:"pool"`
}

// LoadFileConfig reads and parses a YAML configuration file. An empty
// path yields a zero FileConfig.
func LoadFileConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return &fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return &fc, nil
}

// Apply overlays the file configuration onto a base config and validates
// the result.
func (fc *FileConfig) Apply(base distill.Config) (distill.Config, error) {
	cfg := base

	if len(fc.Scoring.TagWeights) > 0 {
		cfg.TagWeights = fc.Scoring.TagWeights
	}
	if fc.Scoring.LinkDensityPenalty != nil {
		cfg.LinkDensityPenalty = *fc.Scoring.LinkDensityPenalty
	}
	if fc.Scoring.AncestorFraction != nil {
		cfg.AncestorFraction = *fc.Scoring.AncestorFraction
	}
	if fc.Scoring.ScoreFloor != nil {
		cfg.ScoreFloor = *fc.Scoring.ScoreFloor
	}
	if fc.Scoring.CoPrimaryThreshold != nil {
		cfg.CoPrimaryThreshold = *fc.Scoring.CoPrimaryThreshold
	}
	if fc.Pool.Capacity > 0 {
		cfg.PoolCapacity = fc.Pool.Capacity
	}

	var err error
	if cfg.AcquireTimeout, err = overlayDuration(cfg.AcquireTimeout, fc.Pool.AcquireTimeout); err != nil {
		return cfg, fmt.Errorf("pool.acquire_timeout: %w", err)
	}
	if cfg.RenderTimeout, err = overlayDuration(cfg.RenderTimeout, fc.Pool.RenderTimeout); err != nil {
		return cfg, fmt.Errorf("pool.render_timeout: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func overlayDuration(base time.Duration, s string) (time.Duration, error) {
	if s == "" {
		return base, nil
	}
	return time.ParseDuration(s)
}
