package app

import (
	"fmt"

	"github.com/blackwell-systems/basketminer/internal/config"
	"github.com/blackwell-systems/basketminer/internal/store"
)

// getConfigDir returns the config directory, using the flag value or default.
func getConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return dir, nil
}

// loadSettings reads config.yaml from the config directory. A missing file
// yields the defaults.
func loadSettings() (config.Settings, error) {
	dir, err := getConfigDir()
	if err != nil {
		return config.Defaults(), err
	}
	return config.Load(dir)
}

// openStore opens the catalogue. With create set the schema is created if
// missing; otherwise queries against a fresh file fail with
// store.ErrNotInitialized.
func openStore(create bool) (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}

	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if create {
		if err := st.CreateSchema(); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

// pluralize returns singular when n is 1 and plural otherwise.
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
