// Package store implements the hierarchical key-value tree: a recursive
// container of leaf values and named child stores, addressed by
// internal/key.Key. See doc.go for the full package documentation.
package store

import (
	"errors"
	"sort"
	"strings"

	"github.com/dreamware/kvstore/internal/key"
	"github.com/dreamware/kvstore/internal/value"
)

// Sentinel errors. Their Error() text is the canonical wire response for
// the corresponding failure, so callers may surface them to clients
// directly without a translation table.
var (
	// ErrKeyNotFound is returned when a value-key names neither a value
	// nor a child store at the final segment.
	ErrKeyNotFound = errors.New("Key not found")
	// ErrStoreNotFound is returned when an intermediate segment of a key
	// has no matching child store.
	ErrStoreNotFound = errors.New("Store not found")
	// ErrKeyExists is returned by CreateStore when a child of that name
	// already exists.
	ErrKeyExists = errors.New("Key already exists")
	// ErrForbiddenStoreName is returned when CreateStore is asked to
	// create a store named ".", the reserved root name.
	ErrForbiddenStoreName = errors.New("Forbidden store name! .")
)

// Store is a named node in the tree: a map of leaf values and a map of
// child stores. The two maps share a key-space — a name may be a value or
// a child store, never both.
type Store struct {
	name     string
	values   map[string]value.Value
	children map[string]*Store
}

// New creates an empty store with the given name. The root store's
// conventional name is ".".
func New(name string) *Store {
	return &Store{
		name:     name,
		values:   make(map[string]value.Value),
		children: make(map[string]*Store),
	}
}

// Name returns the store's own name.
func (s *Store) Name() string { return s.name }

// descend looks up the child store named by the head of k (k.Store, for a
// non-value key), returning ErrStoreNotFound if it does not exist.
func (s *Store) descend(k key.Key) (*Store, error) {
	child, ok := s.children[k.Store]
	if !ok {
		return nil, ErrStoreNotFound
	}
	return child, nil
}

// Set validates text against typ and stores it at k, creating or
// replacing the leaf. Intermediate segments of k must already exist.
func (s *Store) Set(k key.Key, text string, typ value.Type) error {
	if k.IsRoot() {
		return ErrKeyNotFound
	}
	if k.IsValueKey() {
		v, err := value.New(text, typ)
		if err != nil {
			return err
		}
		s.values[k.Leaf] = v
		return nil
	}
	child, err := s.descend(k)
	if err != nil {
		return err
	}
	return child.Set(k.Next(), text, typ)
}

// Get returns the text stored at k.
func (s *Store) Get(k key.Key) (string, error) {
	if k.IsRoot() {
		return "", ErrKeyNotFound
	}
	if k.IsValueKey() {
		v, ok := s.values[k.Leaf]
		if !ok {
			return "", ErrKeyNotFound
		}
		return v.Text, nil
	}
	child, err := s.descend(k)
	if err != nil {
		return "", err
	}
	return child.Get(k.Next())
}

// Del removes the value or child store named by k. Deleting a store
// removes its entire subtree. The root itself can never be deleted.
func (s *Store) Del(k key.Key) error {
	if k.IsRoot() {
		return ErrKeyNotFound
	}
	if k.IsValueKey() {
		if _, ok := s.values[k.Leaf]; ok {
			delete(s.values, k.Leaf)
			return nil
		}
		if _, ok := s.children[k.Leaf]; ok {
			delete(s.children, k.Leaf)
			return nil
		}
		return ErrKeyNotFound
	}
	child, err := s.descend(k)
	if err != nil {
		return err
	}
	return child.Del(k.Next())
}

// CreateStore creates an empty child store named by k. The leaf segment
// "." is forbidden, as is creating the root itself.
func (s *Store) CreateStore(k key.Key) error {
	if k.IsRoot() || k.Leaf == key.Root {
		return ErrForbiddenStoreName
	}
	if k.IsValueKey() {
		if _, ok := s.children[k.Leaf]; ok {
			return ErrKeyExists
		}
		if _, ok := s.values[k.Leaf]; ok {
			return ErrKeyExists
		}
		s.children[k.Leaf] = New(k.Leaf)
		return nil
	}
	child, err := s.descend(k)
	if err != nil {
		return err
	}
	return child.CreateStore(k.Next())
}

// ResolveStore walks k's full path (store, then path, then leaf) and
// returns the store it names, rather than a value. k.IsRoot() returns s
// itself. This backs LIST_KEYS, which targets a store rather than a leaf.
func (s *Store) ResolveStore(k key.Key) (*Store, error) {
	if k.IsRoot() {
		return s, nil
	}
	if k.IsValueKey() {
		child, ok := s.children[k.Leaf]
		if !ok {
			return nil, ErrStoreNotFound
		}
		return child, nil
	}
	child, err := s.descend(k)
	if err != nil {
		return nil, err
	}
	return child.ResolveStore(k.Next())
}

// ListKeys returns the sorted names of this store's direct children,
// newline-joined. It never descends and never lists leaf values.
func (s *Store) ListKeys() string {
	names := make([]string, 0, len(s.children))
	for name := range s.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n")
}

// Child returns the direct child store named name, if any.
func (s *Store) Child(name string) (*Store, bool) {
	c, ok := s.children[name]
	return c, ok
}
