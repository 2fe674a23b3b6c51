package cmd

import (
	"fmt"
	"log/slog"

	"github.com/kdelane/enginectl/internal/config"
	"github.com/kdelane/enginectl/internal/engine"
	"github.com/kdelane/enginectl/internal/log"
)

// newClient resolves configuration (flags > env > config file) and
// builds the engine client. All configuration errors surface here,
// before any remote call.
func newClient(debug bool) (*engine.Client, error) {
	client, _, err := newClientAndConfig(debug)
	return client, err
}

// newClientAndConfig is newClient plus the resolved configuration, for
// commands that need settings beyond the client itself.
func newClientAndConfig(debug bool) (*engine.Client, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	project, location, err := cfg.Resolve(flagProject, flagLocation)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Token == "" {
		return nil, nil, config.ErrMissingToken
	}

	debug = debug || cfg.Debug
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})

	client, err := engine.New(engine.Config{
		Project:    project,
		Location:   location,
		BaseURL:    cfg.BaseURL,
		APIVersion: cfg.APIVersion,
		Token:      cfg.Token,
		Logger:     logger,
		Debug:      debug,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating client: %w", err)
	}
	return client, cfg, nil
}
