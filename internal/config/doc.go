// Package config loads server configuration from environment variables,
// returning an error rather than exiting the process, so the entrypoint
// decides how and when to fail.
//
// # Overview
//
// Load reads every KVSTORE_* variable once at startup and returns a
// fully-populated Config or an error. There is no hot reload and no
// config file: operators set environment variables, the same way this
// server's deployment is expected to be driven (container env, systemd
// unit, or a shell wrapper).
//
// # Variables
//
//	KVSTORE_ADMIN_PASSWORD   required, no default
//	KVSTORE_LISTEN           default ":7379"
//	KVSTORE_ADMIN_USER       default "admin"
//	KVSTORE_PERSISTENCE      default "memory" (or "json_file")
//	KVSTORE_SNAPSHOT_PATH    default "./kvstore.json"
//	KVSTORE_WAL_ENABLED      default "false"
//	KVSTORE_WAL_PATH         default "./kvstore.wal"
//
// # Validation
//
// Load only validates what it can check without touching the
// filesystem or network: that the admin password is set and that
// KVSTORE_PERSISTENCE names a mode internal/persistence actually
// implements. Bind failures, bad snapshot paths, and the like surface
// later, from the packages that own them.
package config
