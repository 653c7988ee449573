package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"kindred/internal/config"
	"kindred/internal/gedcom"
	"kindred/internal/snapshot"
	"kindred/internal/store"
)

const configEnvVar = "KINDRED_CONFIG"

// resolveConfigPath picks the config location: explicit flag, then the
// KINDRED_CONFIG environment variable, then the default file name.
func resolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(configEnvVar); env != "" {
		return env
	}
	return "kindred.yaml"
}

// buildStore constructs the record store per the startup policy: a usable
// snapshot wins; otherwise the GEDCOM source is parsed. A corrupt or
// unreadable snapshot is a degraded condition, not a fatal one — only the
// absence of any usable source aborts startup.
func buildStore(cfg *config.Config, logger *log.Logger) (*store.Store, *snapshot.Manager, error) {
	if cfg.PersistencePath == "" {
		logger.Info("persistence disabled, loading GEDCOM source", "path", cfg.GedcomPath)
		st, err := storeFromGedcom(cfg.GedcomPath)
		return st, nil, err
	}

	manager := snapshot.NewManager(cfg.PersistencePath)
	data, err := manager.Load()
	if err == nil {
		logger.Info("loaded snapshot", "path", cfg.PersistencePath)
		return store.FromData(data), manager, nil
	}
	if errors.Is(err, snapshot.ErrNotPresent) {
		logger.Info("no snapshot yet, loading GEDCOM source", "path", cfg.GedcomPath)
	} else {
		logger.Warn("snapshot unusable, falling back to GEDCOM source",
			"snapshot", cfg.PersistencePath, "gedcom", cfg.GedcomPath, "err", err)
	}

	st, err := storeFromGedcom(cfg.GedcomPath)
	return st, manager, err
}

func storeFromGedcom(path string) (*store.Store, error) {
	data, err := gedcom.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading GEDCOM from %s: %w", path, err)
	}
	return store.FromData(data), nil
}
