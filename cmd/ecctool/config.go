package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/smallyu/go-ecc/internal/crypto/curves"
	"github.com/smallyu/go-ecc/pkg/ecc"
	"github.com/smallyu/go-ecc/pkg/ecc/logging"
)

// Config holds the tool defaults. Command line flags override every field.
type Config struct {
	Curve    string `toml:"curve"`
	Hash     string `toml:"hash"`
	LogLevel string `toml:"log_level"`
	Registry string `toml:"registry"`
}

// DefaultConfig mirrors the behaviour of the tools without a config file.
func DefaultConfig() Config {
	return Config{
		Curve:    "secp256k1",
		Hash:     "sha512",
		LogLevel: "warn",
	}
}

// LoadConfig reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config: unknown keys %v", undecoded)
	}
	return cfg, nil
}

// Validate checks that named curve and hash exist in reg.
func (c Config) Validate(reg *curves.Registry) error {
	if _, err := reg.ByName(c.Curve); err != nil {
		return err
	}
	if _, err := ecc.HashByName(c.Hash); err != nil {
		return err
	}
	return nil
}

// registry returns the built-in curves, extended by the configured file.
func (c Config) registry(log logging.Logger) (*curves.Registry, error) {
	if c.Registry == "" {
		return curves.Default(), nil
	}
	f, err := os.Open(c.Registry)
	if err != nil {
		return nil, fmt.Errorf("config: open registry: %w", err)
	}
	defer f.Close()

	extra, err := curves.LoadRegistry(f, log.With("registry", c.Registry))
	if err != nil {
		return nil, err
	}
	return curves.Default().Merge(extra), nil
}
