package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - INV_CONFIG_PATH: config file location (default: ~/.config/inv.toml)
//   - INV_HOME: base directory for inv data (default: ~/.local/share/inv)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	dataDir, err := getDataDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"data_dir":    dataDir,
		"log_dir":     filepath.Join(dataDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking INV_CONFIG_PATH env var first,
// then falling back to the default ~/.config/inv.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("INV_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "inv.toml"), nil
}

// getDataDir returns the base directory for inv data, checking INV_HOME env var first,
// then falling back to the XDG default ~/.local/share/inv.
func getDataDir() (string, error) {
	if path := os.Getenv("INV_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "inv"), nil
}
