package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnneKitsune/inventory-managoat/internal/config"
	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
)

// NewStoreFromConfig creates a Store implementation based on the store config type.
// passphrase is only consulted by the "age" backend and may be nil otherwise.
func NewStoreFromConfig(cfg config.StoreConfig, dataDir string, passphrase PassphraseFunc) (inventory.Store, error) {
	switch cfg.Type {
	case "filesystem", "":
		return NewFileSystemStore(dataDir)
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(dataDir, "inventories.db"))
	case "s3":
		return NewS3Store(cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey)
	case "age":
		return NewEncryptedStore(dataDir, passphrase)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
