// Package persistence saves and restores the root store's tree as a
// JSON snapshot on disk.
//
// # Overview
//
// Persistence has exactly two modes: Memory (both Save and Load are
// no-ops, state lives only for the process lifetime) and JSONFile (the
// whole tree is marshaled through Store's Snapshot/RestoreFrom pair and
// written to a single configured path).
//
// # Durability
//
// Save never writes p.path directly: it writes a temp file in the same
// directory, chmods it to 0o600, and renames it over the target. A
// crash or error partway through a write leaves the previous snapshot
// byte-for-byte intact rather than truncated or half-written, since
// rename is atomic on the same filesystem.
//
// Load treats a missing file and an empty file identically — both
// leave the given root Store as it was and return nil rather than an
// error — since an operator's
// first run and a deliberately-cleared snapshot should both start
// clean.
//
// # Testing
//
// persistence_test.go exercises both modes over a real temporary
// directory (no mocked filesystem): round-trip save/load, atomicity
// (exactly one file present after Save), and the missing/empty-file
// cases.
package persistence
