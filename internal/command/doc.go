// Package command tokenizes and validates one wire-protocol command.
//
// # Overview
//
// Parse is deliberately ignorant of what a command does: it only splits
// a trimmed string on whitespace, matches the first token against the
// fixed command set, and checks the remaining tokens against that
// command's arity. internal/engine owns dispatch and permission
// checking; this package exists so the arity table and the
// permission-token grammar (used by CREATE_USER/GRANT/REVOKE) can be
// tested in isolation from the Store and auth subtree they eventually
// act on.
//
// # Tables as data
//
// specs, RequiredBit, and Mutating are all plain maps keyed by command
// name rather than a switch per command — adding a command means adding
// one row to each table that applies to it, not touching control flow.
package command
