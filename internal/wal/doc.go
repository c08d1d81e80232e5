// Package wal defines the on-disk shape of an append-only log and a
// Writer that appends records to it.
//
// # Overview
//
// A record is {Type, Len, Payload, CRC32}: a 9-byte header (1-byte
// Type, 4-byte big-endian Len, 4-byte big-endian CRC32) followed by
// Payload. Type marks the record's position within a chunked payload —
// FULL, or FIRST/MIDDLE.../LAST — not the kind of command it carries;
// the payload itself (raw command text, in this server) is opaque to
// this package.
//
// # Chunking
//
// A payload up to 4096-9 bytes fits in one FULL record. Anything larger
// is split: a FIRST record opens it, any number of MIDDLE records
// continue it, and a LAST record closes it. Each on-disk record carries
// its own CRC32 over just its own chunk, not the reassembled whole.
//
// # No reader
//
// There is deliberately no Reader or replay. This server's durability
// story is the JSON snapshot in internal/persistence; the log is a
// best-effort, unreplayed side channel that internal/server's Handler
// appends mutating commands to when configured, not a recovery path.
package wal
