package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the resolved bootstrap configuration. BindAddress is the
// advertised service address; the serving loop itself runs over stdio.
type Config struct {
	BindAddress     string `yaml:"bind_address"`
	GedcomPath      string `yaml:"gedcom_path"`
	PersistencePath string `yaml:"persistence_path"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.BindAddress) == "" {
		return fmt.Errorf("bind_address is required")
	}
	if _, err := netip.ParseAddrPort(cfg.BindAddress); err != nil {
		return fmt.Errorf("invalid bind_address %q: %w", cfg.BindAddress, err)
	}
	if strings.TrimSpace(cfg.GedcomPath) == "" {
		return fmt.Errorf("gedcom_path is required")
	}
	return nil
}
