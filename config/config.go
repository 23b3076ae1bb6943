// Package config loads gokrylov's default Options (tolerances, iteration
// limits, GMRES restart memory, logging verbosity) from a YAML file, so an
// embedding application or the CLI can configure a solve without wiring a
// flag per field. The core solver packages (cg, gmres, cgne, minres) never
// read this package directly — only cmd/gokrylov and the ApplyCG/ApplyGMRES
// helpers below touch it.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/orneryd/gokrylov/cg"
	"github.com/orneryd/gokrylov/gmres"
)

// Config holds every default a gokrylov solve can be configured with,
// organized the way a deployment would reason about it: how tight a
// solution must be, how long it's allowed to run, GMRES-specific restart
// behavior, and how chatty it should be.
type Config struct {
	Tolerance ToleranceConfig
	Limits    LimitsConfig
	GMRES     GMRESConfig
	Logging   LoggingConfig
}

// ToleranceConfig controls convergence: a solve is accepted once its
// residual falls within Atol + Rtol*||r0||.
type ToleranceConfig struct {
	Atol float64
	Rtol float64
}

// LimitsConfig bounds how long a solve may run before giving up.
type LimitsConfig struct {
	// MaxIterations is the hard iteration cap; 0 defers to each solver's
	// own default (2n for minres/cg/gmres's total Arnoldi-step budget).
	MaxIterations int
}

// GMRESConfig holds settings specific to the restarted-Arnoldi solver.
type GMRESConfig struct {
	// Memory is the Arnoldi basis size before a restart; 0 defers to
	// gmres's own default (min(n, 20)).
	Memory int
	// Reorthogonalize enables a second modified Gram-Schmidt pass per
	// Arnoldi step, trading throughput for numerical robustness on
	// near-degenerate systems.
	Reorthogonalize bool
}

// LoggingConfig controls how much a solve reports while running.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// Verbose, if non-zero, logs a progress line every Verbose iterations.
	Verbose int
	// History records every iteration's residual norm in Stats.Residuals.
	History bool
}

// LoadDefaults returns a Config with gokrylov's built-in defaults: loose
// enough tolerances for double precision, no hard iteration cap beyond
// each solver's own default, GMRES memory left to the solver default, and
// quiet logging.
func LoadDefaults() *Config {
	c := &Config{}

	c.Tolerance.Atol = 0 // 0 defers to each solver's sqrt(eps) default
	c.Tolerance.Rtol = 0

	c.Limits.MaxIterations = 0

	c.GMRES.Memory = 0
	c.GMRES.Reorthogonalize = false

	c.Logging.Level = "info"
	c.Logging.Verbose = 0
	c.Logging.History = false

	return c
}

// yamlConfig mirrors Config's shape but with every field optional, so a
// partial YAML file only overrides what it mentions.
type yamlConfig struct {
	Tolerance struct {
		Atol float64 `yaml:"atol"`
		Rtol float64 `yaml:"rtol"`
	} `yaml:"tolerance"`
	Limits struct {
		MaxIterations int `yaml:"max_iterations"`
	} `yaml:"limits"`
	GMRES struct {
		Memory          int  `yaml:"memory"`
		Reorthogonalize bool `yaml:"reorthogonalize"`
	} `yaml:"gmres"`
	Logging struct {
		Level   string `yaml:"level"`
		Verbose int     `yaml:"verbose"`
		History bool    `yaml:"history"`
	} `yaml:"logging"`
}

// LoadFromFile starts from LoadDefaults() and overlays whatever the YAML
// file at path sets. A missing file is not an error — it just returns the
// defaults unchanged, matching FindConfigFile's "no config found" case.
func LoadFromFile(path string) (*Config, error) {
	c := LoadDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}

	var y yamlConfig
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}

	if y.Tolerance.Atol > 0 {
		c.Tolerance.Atol = y.Tolerance.Atol
	}
	if y.Tolerance.Rtol > 0 {
		c.Tolerance.Rtol = y.Tolerance.Rtol
	}
	if y.Limits.MaxIterations > 0 {
		c.Limits.MaxIterations = y.Limits.MaxIterations
	}
	if y.GMRES.Memory > 0 {
		c.GMRES.Memory = y.GMRES.Memory
	}
	if y.GMRES.Reorthogonalize {
		c.GMRES.Reorthogonalize = true
	}
	if y.Logging.Level != "" {
		c.Logging.Level = y.Logging.Level
	}
	if y.Logging.Verbose > 0 {
		c.Logging.Verbose = y.Logging.Verbose
	}
	if y.Logging.History {
		c.Logging.History = true
	}

	return c, nil
}

// FindConfigFile searches, in order: the current working directory
// (gokrylov.yaml), the path named by $GOKRYLOV_CONFIG, and /etc/gokrylov/
// config.yaml. It returns the first path that exists, or "" if none do.
func FindConfigFile() string {
	var candidates []string

	candidates = append(candidates, "gokrylov.yaml", "gokrylov.yml")

	if envPath := os.Getenv("GOKRYLOV_CONFIG"); envPath != "" {
		candidates = append(candidates, envPath)
	}

	candidates = append(candidates, filepath.Join("/etc", "gokrylov", "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ApplyCG overlays c onto a cg.Options, leaving fields the caller already
// set (non-zero) untouched. gokrylov's CLI only ever drives float64
// solves, so this (and ApplyGMRES below) are not generic over FC/T.
func ApplyCG(c *Config, opts cg.Options[float64, float64]) cg.Options[float64, float64] {
	if opts.Atol == 0 {
		opts.Atol = c.Tolerance.Atol
	}
	if opts.Rtol == 0 {
		opts.Rtol = c.Tolerance.Rtol
	}
	if opts.Itmax == 0 {
		opts.Itmax = c.Limits.MaxIterations
	}
	if opts.Verbose == 0 {
		opts.Verbose = c.Logging.Verbose
	}
	opts.History = opts.History || c.Logging.History
	return opts
}

// ApplyGMRES overlays c onto a gmres.Options the same way ApplyCG does,
// plus GMRES's own restart-memory and reorthogonalization settings.
func ApplyGMRES(c *Config, opts gmres.Options[float64, float64]) gmres.Options[float64, float64] {
	if opts.Atol == 0 {
		opts.Atol = c.Tolerance.Atol
	}
	if opts.Rtol == 0 {
		opts.Rtol = c.Tolerance.Rtol
	}
	if opts.Itmax == 0 {
		opts.Itmax = c.Limits.MaxIterations
	}
	if opts.Memory == 0 {
		opts.Memory = c.GMRES.Memory
	}
	opts.Reorthogonalize = opts.Reorthogonalize || c.GMRES.Reorthogonalize
	if opts.Verbose == 0 {
		opts.Verbose = c.Logging.Verbose
	}
	opts.History = opts.History || c.Logging.History
	return opts
}
