// Package config loads calculator settings from a TOML or YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calculator"
)

// MaxScale is the largest scale a config may set.
const MaxScale = 1000

// DefaultAddr is the address the HTTP server listens on by default.
const DefaultAddr = "127.0.0.1:8787"

// Environment variables overriding file settings.
const (
	EnvConfig      = "CALC_CONFIG"
	EnvScale       = "CALC_SCALE"
	EnvRoundHalfUp = "CALC_ROUND_HALF_UP"
	EnvAddr        = "CALC_ADDR"
)

// Config holds engine and server settings.
type Config struct {
	// Scale is the number of decimal places engines keep.
	Scale int
	// RoundHalfUp is whether engines round rather than truncate.
	RoundHalfUp bool
	// Addr is the HTTP listen address.
	Addr string
}

// file is the on-disk form. Pointers distinguish unset keys from zeros.
type file struct {
	Scale       *int    `toml:"scale" yaml:"scale"`
	RoundHalfUp *bool   `toml:"round_half_up" yaml:"round_half_up"`
	Addr        *string `toml:"addr" yaml:"addr"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Scale:       calculator.DefaultScale,
		RoundHalfUp: true,
		Addr:        DefaultAddr,
	}
}

// Load reads settings from path, if it is not empty, on top of the defaults,
// then applies environment overrides. The format is chosen by extension:
// .toml, or .yaml or .yml. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		f, err := decode(filepath.Ext(path), data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.merge(f)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(ext string, data []byte) (file, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return file{}, err
		}
		if u := md.Undecoded(); len(u) != 0 {
			return file{}, fmt.Errorf("unknown key %q", u[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return file{}, err
		}
	default:
		return file{}, fmt.Errorf("unsupported config format %q", ext)
	}
	return f, nil
}

func (c *Config) merge(f file) {
	if f.Scale != nil {
		c.Scale = *f.Scale
	}
	if f.RoundHalfUp != nil {
		c.RoundHalfUp = *f.RoundHalfUp
	}
	if f.Addr != nil {
		c.Addr = *f.Addr
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvScale); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvScale, err)
		}
		c.Scale = n
	}
	if v := os.Getenv(EnvRoundHalfUp); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRoundHalfUp, err)
		}
		c.RoundHalfUp = b
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.Scale < 0 || c.Scale > MaxScale {
		return fmt.Errorf("scale %d out of range [0, %d]", c.Scale, MaxScale)
	}
	if c.Addr == "" {
		return errors.New("empty listen address")
	}
	return nil
}

// Options converts the settings to engine options.
func (c Config) Options() []calculator.EngineOption {
	return []calculator.EngineOption{
		calculator.Scale(c.Scale),
		calculator.RoundHalfUp(c.RoundHalfUp),
	}
}

// Engine creates an engine with the configured settings.
func (c Config) Engine() *calculator.Engine {
	return calculator.NewEngine(c.Options()...)
}
