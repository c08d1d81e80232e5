// Package persistence saves and restores the root store's tree as a JSON
// snapshot on disk. See doc.go for the full package documentation.
package persistence

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/dreamware/kvstore/internal/store"
	"github.com/sirupsen/logrus"
)

// Mode selects how (or whether) the root store is persisted across
// restarts.
type Mode string

const (
	// Memory keeps state only for the process lifetime; Save and Load
	// are both no-ops.
	Memory Mode = "memory"
	// JSONFile persists the store tree as a JSON snapshot at Path.
	JSONFile Mode = "json_file"
)

// ErrUnknownMode is returned when a Mode other than Memory or JSONFile is
// configured.
var ErrUnknownMode = errors.New("unknown persistence mode")

// Persistence saves and restores a root store's tree under a configured
// Mode.
type Persistence struct {
	mode Mode
	path string
	log  *logrus.Entry
}

// New returns a Persistence for mode, reading/writing snapshot files at
// path when mode is JSONFile. path is ignored in Memory mode.
func New(mode Mode, path string, log *logrus.Logger) (*Persistence, error) {
	if mode != Memory && mode != JSONFile {
		return nil, ErrUnknownMode
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Persistence{mode: mode, path: path, log: log.WithField("component", "persistence")}, nil
}

// Load restores root from the configured snapshot file. In Memory mode,
// or when the snapshot file does not yet exist, it leaves root untouched
// and returns nil.
func (p *Persistence) Load(root *store.Store) error {
	if p.mode != JSONFile {
		return nil
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			p.log.WithField("path", p.path).Info("no snapshot found, starting empty")
			return nil
		}
		return err
	}
	if len(data) == 0 {
		p.log.WithField("path", p.path).Info("empty snapshot, starting empty")
		return nil
	}
	if err := root.RestoreFrom(data); err != nil {
		p.log.WithError(err).WithField("path", p.path).Error("failed to parse snapshot")
		return err
	}
	p.log.WithField("path", p.path).Info("loaded snapshot")
	return nil
}

// Save writes root's current tree to the configured snapshot file. It is
// a no-op in Memory mode.
//
// The write goes to a temp file in the snapshot's own directory, which
// is then renamed over the target; a crash or error mid-write leaves the
// previous snapshot intact rather than a half-written one.
func (p *Persistence) Save(root *store.Store) error {
	if p.mode != JSONFile {
		return nil
	}
	data, err := root.Snapshot()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(p.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, p.path); err != nil {
		os.Remove(tmpPath)
		p.log.WithError(err).WithField("path", p.path).Error("failed to save snapshot")
		return err
	}
	p.log.WithField("path", p.path).Debug("saved snapshot")
	return nil
}
