package cmd

import (
	"fmt"

	"github.com/ginjaninja78/edi-order-translator/internal/artifact"
	"github.com/ginjaninja78/edi-order-translator/internal/config"
	"github.com/ginjaninja78/edi-order-translator/internal/processlog"
	"github.com/ginjaninja78/edi-order-translator/internal/router"
	"github.com/ginjaninja78/edi-order-translator/internal/storage"
	"github.com/ginjaninja78/edi-order-translator/internal/translator"
	"go.uber.org/zap"
)

// app holds the components shared by the commands.
type app struct {
	cfg      *config.Config
	store    *storage.Store
	writer   *artifact.Writer
	registry *translator.Registry
}

// newApp wires the storage root, the artifact writer and the partner
// translators from the configuration.
func newApp(cfg *config.Config) (*app, error) {
	mode, err := cfg.Artifact.FileMode()
	if err != nil {
		return nil, err
	}

	partners, err := config.LoadPartnerConfigs(cfg.PartnersDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner profiles: %w", err)
	}

	registry, err := translator.NewDefaultRegistry(partners)
	if err != nil {
		return nil, err
	}

	store := storage.NewOS(cfg.Storage.Root)

	logger.Debug("translators registered", zap.Stringers("partners", registry.Partners()))

	return &app{
		cfg:      cfg,
		store:    store,
		writer:   artifact.NewWriter(store, cfg.Artifact.Path, mode),
		registry: registry,
	}, nil
}

// router builds the batch router over the configured folders.
func (a *app) router() *router.Router {
	return router.New(
		a.store,
		a.cfg.Storage,
		a.writer,
		processlog.NewJournal(a.store, a.cfg.Storage.LogDir),
		a.registry,
		router.WithLogger(logger),
	)
}
