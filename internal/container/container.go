// Package container provides dependency injection for the finrecon application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"net/http"

	"fjacquet/finrecon/internal/categorizer"
	"fjacquet/finrecon/internal/config"
	"fjacquet/finrecon/internal/importer"
	"fjacquet/finrecon/internal/ledger"
	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/normalizer"
	"fjacquet/finrecon/internal/reconciler"
	"fjacquet/finrecon/internal/remote"
	"fjacquet/finrecon/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation; dependencies are only reachable
// through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       store.DocumentStore
	categorizer *categorizer.Categorizer
	normalizer  *normalizer.Normalizer
	ledger      *ledger.Ledger
	importer    *importer.Importer
	remote      *remote.Client
	reconciler  *reconciler.Reconciler
}

// NewContainer creates and wires all application dependencies using a
// logrus logger built from the configuration.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(ctx, cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an injected logger.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	docs, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	rules := store.NewRulesStore(cfg.Categorization.RulesFile, logger)
	cat := categorizer.NewCategorizerWithRules(rules, logger)

	norm := normalizer.NewNormalizer(cat)
	norm.DefaultDescription = cfg.Import.DefaultDescription

	led := ledger.NewLedger(docs, logger)
	imp := importer.NewImporter(norm, led, logger)

	httpClient := &http.Client{}
	client := remote.NewClient(cfg.Remote.BaseURL, httpClient, logger)

	rec := reconciler.NewReconciler(client, led, cat, reconciler.Timeouts{
		Default:   cfg.Remote.Timeout,
		Analytics: cfg.Remote.AnalyticsTimeout,
	}, logger)

	logger.Debug("Container initialized successfully",
		logging.F("store_driver", cfg.Store.Driver),
		logging.F(logging.FieldEndpoint, cfg.Remote.BaseURL))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       docs,
		categorizer: cat,
		normalizer:  norm,
		ledger:      led,
		importer:    imp,
		remote:      client,
		reconciler:  rec,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (store.DocumentStore, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	case config.DriverSQLite:
		s, err := store.NewSQLiteStore(ctx, cfg.Store.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the document store backing the ledger.
func (c *Container) GetStore() store.DocumentStore {
	return c.store
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetNormalizer returns the row normalizer used by imports.
func (c *Container) GetNormalizer() *normalizer.Normalizer {
	return c.normalizer
}

// GetLedger returns the ledger service.
func (c *Container) GetLedger() *ledger.Ledger {
	return c.ledger
}

// GetImporter returns the bulk importer.
func (c *Container) GetImporter() *importer.Importer {
	return c.importer
}

// GetRemote returns the remote API client.
func (c *Container) GetRemote() *remote.Client {
	return c.remote
}

// GetReconciler returns the source reconciler.
func (c *Container) GetReconciler() *reconciler.Reconciler {
	return c.reconciler
}

// Close releases the document store.
func (c *Container) Close() error {
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
