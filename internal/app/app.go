package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/AnneKitsune/inventory-managoat/internal/config"
	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
	"github.com/AnneKitsune/inventory-managoat/internal/store"
)

// App is the application layer between the CLI and the inventory
// service. It constructs all dependencies from config, loads the named
// inventory, and saves it back on Close if anything mutated.
type App struct {
	cfg       *config.Config
	store     inventory.Store
	Inventory *inventory.Service
	logFile   *os.File
}

// NewApp creates a fully wired App. operation identifies the CLI
// command being run (e.g. "CreateType", "ListMissing") and is attached
// to every log record of the invocation. inventoryName overrides the
// configured default when non-empty. passphrase is only consulted when
// the configured store backend is encrypted. The caller must call
// Close when done.
func NewApp(operation, inventoryName string, passphrase store.PassphraseFunc) (*App, error) {
	defaults, err := GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		// A missing config just means defaults; any other failure is real.
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		cfg = config.NewConfig(defaults["data_dir"])
	}

	name := inventoryName
	if name == "" {
		name = cfg.DefaultInventory
	}
	if name == "" {
		name = "default"
	}

	st, err := store.NewStoreFromConfig(cfg.Store, cfg.DataDir, passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	opID := uuid.New().String()
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc, err := inventory.NewService(st, name, &slogAdapter{l: logger.With("operation", operation)}, inventory.RealClock{})
	if err != nil {
		logFile.Close()
		st.Close()
		return nil, err
	}

	return &App{
		cfg:       cfg,
		store:     st,
		Inventory: svc,
		logFile:   logFile,
	}, nil
}

// Close saves the inventory if it mutated and releases all resources.
func (a *App) Close() error {
	var firstErr error

	if err := a.Inventory.Save(); err != nil {
		firstErr = err
	}

	if err := a.store.Close(); err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("closing store: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
