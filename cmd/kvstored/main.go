// Command kvstored runs the key-value store's TCP listener: it loads
// configuration from the environment, restores a snapshot if configured,
// seeds the admin account, serves connections until interrupted, and
// writes a final snapshot before exiting.
//
// Required environment:
//   - KVSTORE_ADMIN_PASSWORD: password seeded for the admin account
//
// Optional environment (see internal/config for the full table and
// defaults):
//   - KVSTORE_LISTEN, KVSTORE_ADMIN_USER, KVSTORE_PERSISTENCE,
//     KVSTORE_SNAPSHOT_PATH, KVSTORE_WAL_ENABLED, KVSTORE_WAL_PATH
//
// Exit codes:
//   - 0: normal shutdown via SIGINT/SIGTERM
//   - 1: configuration, snapshot, or bind failure
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dreamware/kvstore/internal/auth"
	"github.com/dreamware/kvstore/internal/config"
	"github.com/dreamware/kvstore/internal/engine"
	"github.com/dreamware/kvstore/internal/persistence"
	"github.com/dreamware/kvstore/internal/server"
	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wal"
	"github.com/sirupsen/logrus"
)

// shutdownTimeout bounds how long open connections are given to close
// once a shutdown signal arrives.
const shutdownTimeout = 5 * time.Second

func main() {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("kvstored exited with error")
	}
	log.Info("kvstored stopped")
}

func run(cfg config.Config, log *logrus.Logger) error {
	root := store.New(".")
	authMgr := auth.NewManager()
	if err := authMgr.EnsureSchema(root); err != nil {
		return err
	}

	persist, err := persistence.New(cfg.Persistence, cfg.SnapshotPath, log)
	if err != nil {
		return err
	}
	if err := persist.Load(root); err != nil {
		return err
	}

	if err := authMgr.SeedAdmin(root, cfg.AdminUser, cfg.AdminPassword); err != nil {
		return err
	}

	var walWriter server.WALAppender
	if cfg.WALEnabled {
		w, err := wal.OpenWriter(cfg.WALPath)
		if err != nil {
			return err
		}
		defer w.Close()
		walWriter = w
		log.WithField("path", cfg.WALPath).Info("write-ahead log enabled")
	}

	eng := engine.New(root, authMgr)
	var lock sync.Mutex
	handler := server.NewHandler(eng, &lock, log, walWriter)
	listener := server.NewListener(cfg.Listen, handler, log)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listener.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-stop:
		log.Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := listener.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("shutdown did not complete cleanly")
	}

	lock.Lock()
	defer lock.Unlock()
	return persist.Save(root)
}
