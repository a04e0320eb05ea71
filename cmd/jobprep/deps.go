package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shenbi/jobprep/internal/api"
	"github.com/shenbi/jobprep/internal/config"
	"github.com/shenbi/jobprep/internal/prep"
	"github.com/shenbi/jobprep/internal/session"
)

// loadConfig loads config and initializes logging from it. Swappable in
// tests.
var loadConfig = func() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	return cfg, nil
}

func newClient(cfg config.Config) *api.Client {
	return api.New(cfg.API.BaseURL, cfg.API.UserID, cfg.API.ParsedTimeout())
}

func openStore(cfg config.Config) (*session.Store, error) {
	store, err := session.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	return store, nil
}

// newPipeline wires config, client, and store into the preparation
// pipeline. The caller closes the returned store.
func newPipeline() (*prep.Pipeline, *session.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return prep.New(newClient(cfg), store), store, nil
}
