// Package auth implements the user registry.
//
// # Overview
//
// Every user is a record living under a reserved "_auth:users:<name>"
// subtree of the same root Store the rest of the server uses — there is
// no separate user database. A User is never held in memory between
// requests: Manager loads a fresh copy from the Store for every
// operation and writes any change straight back through the same
// Set/Get/Del contract as ordinary data.
//
// # Password handling
//
// Passwords are hashed with argon2id (golang.org/x/crypto/argon2) using
// a random salt per user and compared with crypto/subtle's
// constant-time comparison. Login against a username that does not
// exist still runs a full argon2id verification against a fixed dummy
// hash, so a missing account and a wrong password cost the same amount
// of time and are indistinguishable on the wire.
//
// # Permission ceiling
//
// Manager itself does not enforce that a caller can only grant
// permissions it already holds — that check (callerHolds) lives in
// internal/engine, which has the session. Manager's Grant/Revoke/Create
// apply whatever mask they are given.
//
// # Concurrency
//
// Manager holds no state of its own; it is safe to share across
// connections as long as the root Store it is given is only ever
// mutated under the caller's lock.
package auth
