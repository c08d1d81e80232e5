package config

import (
	"testing"

	"github.com/dreamware/kvstore/internal/persistence"
	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"KVSTORE_LISTEN", "KVSTORE_ADMIN_USER", "KVSTORE_ADMIN_PASSWORD",
		"KVSTORE_PERSISTENCE", "KVSTORE_SNAPSHOT_PATH",
		"KVSTORE_WAL_ENABLED", "KVSTORE_WAL_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadRequiresAdminPassword(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.Equal(t, ErrMissingAdminPassword, err)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("KVSTORE_ADMIN_PASSWORD", "Password4")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":7379", cfg.Listen)
	assert.Equal(t, "admin", cfg.AdminUser)
	assert.Equal(t, persistence.Memory, cfg.Persistence)
	assert.Equal(t, "./kvstore.json", cfg.SnapshotPath)
	assert.False(t, cfg.WALEnabled)
	assert.Equal(t, "./kvstore.wal", cfg.WALPath)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("KVSTORE_ADMIN_PASSWORD", "Password4")
	t.Setenv("KVSTORE_LISTEN", ":9000")
	t.Setenv("KVSTORE_ADMIN_USER", "root")
	t.Setenv("KVSTORE_PERSISTENCE", "json_file")
	t.Setenv("KVSTORE_SNAPSHOT_PATH", "/data/kv.json")
	t.Setenv("KVSTORE_WAL_ENABLED", "true")
	t.Setenv("KVSTORE_WAL_PATH", "/data/kv.wal")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "root", cfg.AdminUser)
	assert.Equal(t, persistence.JSONFile, cfg.Persistence)
	assert.Equal(t, "/data/kv.json", cfg.SnapshotPath)
	assert.True(t, cfg.WALEnabled)
	assert.Equal(t, "/data/kv.wal", cfg.WALPath)
}

func TestLoadRejectsUnknownPersistenceMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("KVSTORE_ADMIN_PASSWORD", "Password4")
	t.Setenv("KVSTORE_PERSISTENCE", "bogus")

	_, err := Load()
	assert.Error(t, err)
}
