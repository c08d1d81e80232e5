package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dreamware/kvstore/internal/config"
	"github.com/dreamware/kvstore/internal/persistence"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunRejectsUnknownPersistenceMode(t *testing.T) {
	cfg := config.Config{
		Listen:        "127.0.0.1:0",
		AdminUser:     "admin",
		AdminPassword: "Password4",
		Persistence:   "bogus",
	}

	err := run(cfg, silentLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, persistence.ErrUnknownMode))
}

func TestRunFailsOnUnreadableSnapshotPath(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Config{
		Listen:        "127.0.0.1:0",
		AdminUser:     "admin",
		AdminPassword: "Password4",
		Persistence:   persistence.JSONFile,
		// A directory isn't a valid snapshot file; reading it fails with
		// something other than "not exist", which Load must propagate
		// rather than treating as a fresh start.
		SnapshotPath: dir,
	}

	err := run(cfg, silentLogger())
	require.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

func TestRunFailsOnUnwritableWALPath(t *testing.T) {
	cfg := config.Config{
		Listen:        "127.0.0.1:0",
		AdminUser:     "admin",
		AdminPassword: "Password4",
		Persistence:   persistence.Memory,
		WALEnabled:    true,
		WALPath:       filepath.Join(t.TempDir(), "missing-dir", "kvstore.wal"),
	}

	err := run(cfg, silentLogger())
	require.Error(t, err)
}
