// Package config loads server configuration from environment variables.
// See doc.go for the full package documentation.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dreamware/kvstore/internal/persistence"
)

// ErrMissingAdminPassword is returned when KVSTORE_ADMIN_PASSWORD is
// unset; there is no sane default for it.
var ErrMissingAdminPassword = errors.New("KVSTORE_ADMIN_PASSWORD is required")

// Config holds everything the server needs at startup.
type Config struct {
	Listen        string
	AdminUser     string
	AdminPassword string
	Persistence   persistence.Mode
	SnapshotPath  string
	WALEnabled    bool
	WALPath       string
}

// Load reads Config from the process environment, applying the defaults
// documented for each KVSTORE_* variable.
func Load() (Config, error) {
	adminPassword := os.Getenv("KVSTORE_ADMIN_PASSWORD")
	if adminPassword == "" {
		return Config{}, ErrMissingAdminPassword
	}

	mode := persistence.Mode(getenv("KVSTORE_PERSISTENCE", string(persistence.Memory)))
	if mode != persistence.Memory && mode != persistence.JSONFile {
		return Config{}, fmt.Errorf("KVSTORE_PERSISTENCE: %w: %q", persistence.ErrUnknownMode, mode)
	}

	return Config{
		Listen:        getenv("KVSTORE_LISTEN", ":7379"),
		AdminUser:     getenv("KVSTORE_ADMIN_USER", "admin"),
		AdminPassword: adminPassword,
		Persistence:   mode,
		SnapshotPath:  getenv("KVSTORE_SNAPSHOT_PATH", "./kvstore.json"),
		WALEnabled:    getenv("KVSTORE_WAL_ENABLED", "false") == "true",
		WALPath:       getenv("KVSTORE_WAL_PATH", "./kvstore.wal"),
	}, nil
}

// getenv retrieves an environment variable with a default fallback.
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
