// Package store implements the hierarchical key-value tree at the heart of
// the server.
//
// # Overview
//
// A Store is a node with two disjoint maps: leaf values and child stores.
// Every operation takes a key.Key and either resolves a leaf directly
// (when the key is a value-key) or descends into the child named by the
// key's head and recurses with key.Next(). There is no parent pointer and
// no shared ownership: deleting a store deletes its entire subtree simply
// by dropping it from its parent's children map.
//
// # Concurrency
//
// Store holds no lock. The server serialises all tree access behind a
// single mutex shared by every connection's handler (internal/server),
// so Store's methods assume exclusive
// access for their duration and never block on I/O internally.
//
// # Errors
//
// Recursive descent distinguishes two failure modes: ErrStoreNotFound
// when an intermediate path segment has no matching child, and
// ErrKeyNotFound when the final segment names neither a value nor a
// child. CreateStore additionally reports ErrKeyExists and
// ErrForbiddenStoreName.
package store
