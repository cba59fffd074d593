package main

import (
	"os"
	"time"

	"github.com/dineshdb/ddrive/pkg/actionid"
	"github.com/dineshdb/ddrive/pkg/catalog"
	"github.com/dineshdb/ddrive/pkg/config"
	"github.com/dineshdb/ddrive/pkg/logging"
	"github.com/dineshdb/ddrive/pkg/objectstore"
	"github.com/dineshdb/ddrive/pkg/repository"
)

// commandContext bundles the resources almost every command needs: the
// discovered repository, its loaded configuration, an open catalog, its
// object store, and a logger honoring both --verbose and general.verbose.
type commandContext struct {
	repo    *repository.Repository
	options config.Options
	catalog *catalog.Catalog
	store   *objectstore.Store
	logger  *logging.Logger
}

// newCommandContext discovers the repository containing the current
// working directory, loads its configuration, and opens its catalog and
// object store. Callers must call close when done.
func newCommandContext() (*commandContext, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	repo, err := repository.Discover(cwd)
	if err != nil {
		return nil, err
	}

	options, err := config.Load(repo.ConfigPath())
	if err != nil {
		return nil, err
	}

	logger := rootLogger(options.General.Verbose)

	cat, err := catalog.Open(repo.CatalogPath(), logger)
	if err != nil {
		return nil, err
	}

	store := objectstore.New(repo.ObjectsDir(options.ObjectStore.Path), logger)

	return &commandContext{
		repo:    repo,
		options: options,
		catalog: cat,
		store:   store,
		logger:  logger,
	}, nil
}

func (c *commandContext) close() error {
	return c.catalog.Close()
}

// newActionID mints a fresh action identifier for the command invocation
// in progress, shared by every catalog mutation the command performs.
func newActionID() actionid.ActionID {
	return actionid.New(time.Now())
}
