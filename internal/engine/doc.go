// Package engine is the command arbiter.
//
// # Overview
//
// Engine sits between internal/server's wire-level Handler and the
// internal/store and internal/auth packages. It knows nothing about
// framing or sockets; Execute takes an already-parsed command.Command
// and an immutable session.Session, and returns response text plus a
// (possibly updated) session.
//
// # Authorization
//
// Every command except AUTH goes through authorize: the session must
// be authenticated, its username must still resolve to a live user (a
// session survives its own user being deleted mid-connection — this is
// where that gets caught), and the user must hold the command's
// required permission bit from command.RequiredBit.
//
// CREATE_USER, GRANT, and REVOKE carry a second, narrower check
// (callerHolds): a caller can never grant or revoke a bit it does not
// itself hold, so permissions can only ever be delegated downward, never
// escalated.
//
// # Errors
//
// Engine defines its own sentinels only for conditions no lower layer
// owns (ErrNotAuthenticated, ErrNoPermission, ErrInvalidStore); errors
// from Store and auth pass through unchanged, since their Error() text
// is already the wire response.
package engine
