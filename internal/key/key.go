// Package key parses the colon-delimited addresses used to locate values
// and stores inside the store tree. See doc.go for the full grammar.
package key

import (
	"errors"
	"strings"
)

// ErrEmptyKey is returned when the input to Parse is the empty string.
var ErrEmptyKey = errors.New("No command")

// ErrInvalidKey is returned when the input cannot be parsed into a Key.
var ErrInvalidKey = errors.New("Invalid key")

// Key is a parsed store address. A Key addresses either a value (when
// Store is empty) or names the next store to descend into during
// recursive traversal (when Store is non-empty).
//
// Segment count determines the shape:
//   - 1 segment  -> {Leaf: s} (root-level leaf)
//   - 2 segments -> {Store: s0, Leaf: s1}
//   - k >= 3     -> {Store: s0, Path: s1..s(k-2), Leaf: s(k-1)}
//
// Path holds the intermediate segments between Store and Leaf, still
// joined by ':'. It is empty when there are no intermediate segments.
type Key struct {
	Store string
	Path  string
	Leaf  string
}

// Root is the reserved name of the root store itself.
const Root = "."

// Parse splits s on ':' and builds a Key from the resulting segments.
//
// The literal "." denotes the root store and carries no leaf; it is the
// only input that produces a Key with every field empty.
func Parse(s string) (Key, error) {
	if s == "" {
		return Key{}, ErrEmptyKey
	}
	if s == Root {
		return Key{}, nil
	}

	segments := strings.Split(s, ":")
	for _, seg := range segments {
		if seg == "" {
			return Key{}, ErrInvalidKey
		}
	}

	switch len(segments) {
	case 1:
		return Key{Leaf: segments[0]}, nil
	case 2:
		return Key{Store: segments[0], Leaf: segments[1]}, nil
	default:
		last := len(segments) - 1
		return Key{
			Store: segments[0],
			Path:  strings.Join(segments[1:last], ":"),
			Leaf:  segments[last],
		}, nil
	}
}

// String renders the Key back into its colon-delimited form. It is the
// inverse of Parse for any well-formed Key.
func (k Key) String() string {
	if k.Store == "" && k.Path == "" && k.Leaf == "" {
		return Root
	}
	parts := make([]string, 0, 3)
	if k.Store != "" {
		parts = append(parts, k.Store)
	}
	if k.Path != "" {
		parts = append(parts, k.Path)
	}
	if k.Leaf != "" {
		parts = append(parts, k.Leaf)
	}
	return strings.Join(parts, ":")
}

// IsValueKey reports whether k addresses a leaf value in the current
// store rather than naming a store to descend into. The root key (parsed
// from ".") carries no leaf and is neither a value-key nor an
// intermediate descent step.
func (k Key) IsValueKey() bool {
	return k.Store == "" && k.Leaf != ""
}

// IsRoot reports whether k is the root key parsed from ".".
func (k Key) IsRoot() bool {
	return k.Store == "" && k.Path == "" && k.Leaf == ""
}

// StoreHead returns a value-key naming the current head store, i.e. the
// child that recursion should look up next. It is only meaningful when
// k is not already a value-key.
func (k Key) StoreHead() Key {
	return Key{Leaf: k.Store}
}

// Next moves one level deeper into the tree, dropping the head segment.
//
//	{Store: a, Path: "b:c", Leaf: k} -> {Store: b, Path: "c", Leaf: k}
//	{Store: a, Leaf: k}              -> {Leaf: k}           (a value-key)
//
// Next must not be called on a value-key; callers check IsValueKey first.
func (k Key) Next() Key {
	if k.Path == "" {
		return Key{Leaf: k.Leaf}
	}
	segments := strings.SplitN(k.Path, ":", 2)
	if len(segments) == 1 {
		return Key{Store: segments[0], Leaf: k.Leaf}
	}
	return Key{Store: segments[0], Path: segments[1], Leaf: k.Leaf}
}
