package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/enrich"
	"marquee/internal/logging"
	"marquee/internal/metadata"
	"marquee/internal/providers"
	"marquee/internal/scanner"
	"marquee/internal/shows"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// app bundles the wired collaborators a command works with.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *catalog.Store
	manager *shows.Manager
	scanner *scanner.Scanner
}

// openApp wires the full application including the LLM provider. The
// returned cleanup closes the store.
func (c *commandContext) openApp() (*app, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	completer, err := providers.New(cfg)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	service := metadata.NewService(completer, logging.WithComponent(logger, "metadata"))
	engine := enrich.NewEngine(store, service, cfg.Enrichment.UserCategories, logging.WithComponent(logger, "enrich"))
	manager := shows.NewManager(store, engine, service, cfg.Enrichment.AutoEnrich, logging.WithComponent(logger, "shows"))

	a := &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		manager: manager,
		scanner: scanner.New(cfg, store),
	}
	return a, func() { _ = store.Close() }, nil
}

// openCatalog wires just the store and manager for commands that never talk
// to the provider.
func (c *commandContext) openCatalog() (*app, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		manager: shows.NewManager(store, nil, nil, false, logging.WithComponent(logger, "shows")),
	}
	return a, func() { _ = store.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
