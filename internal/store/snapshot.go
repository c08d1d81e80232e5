package store

import (
	"encoding/json"

	"github.com/dreamware/kvstore/internal/value"
)

// wireStore mirrors the on-disk snapshot shape for a single store node:
// {"name": "...", "data": {leaf: value}, "stores": {name: wireStore}}.
type wireStore struct {
	Name   string                `json:"name"`
	Data   map[string]value.Value `json:"data"`
	Stores map[string]*wireStore `json:"stores"`
}

func (s *Store) toWire() *wireStore {
	w := &wireStore{
		Name:   s.name,
		Data:   make(map[string]value.Value, len(s.values)),
		Stores: make(map[string]*wireStore, len(s.children)),
	}
	for k, v := range s.values {
		w.Data[k] = v
	}
	for name, child := range s.children {
		w.Stores[name] = child.toWire()
	}
	return w
}

func fromWire(w *wireStore) *Store {
	s := New(w.Name)
	for k, v := range w.Data {
		s.values[k] = v
	}
	for name, child := range w.Stores {
		s.children[name] = fromWire(child)
	}
	return s
}

// MarshalJSON renders the store tree in the snapshot format: {"name",
// "data": {leaf: {value, data_type}}, "stores": {name: Store}}.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toWire())
}

// UnmarshalJSON parses the snapshot format produced by MarshalJSON,
// replacing s's contents with the decoded tree.
func (s *Store) UnmarshalJSON(data []byte) error {
	var w wireStore
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Data == nil {
		w.Data = map[string]value.Value{}
	}
	if w.Stores == nil {
		w.Stores = map[string]*wireStore{}
	}
	decoded := fromWire(&w)
	s.name = decoded.name
	s.values = decoded.values
	s.children = decoded.children
	return nil
}

// Snapshot renders the whole tree rooted at s as its JSON snapshot
// representation. It is a read-only, lock-free traversal: callers hold
// whatever lock guards s for its duration.
func (s *Store) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// RestoreFrom replaces s's contents with the tree encoded in data, in
// the same snapshot representation produced by Snapshot.
func (s *Store) RestoreFrom(data []byte) error {
	return json.Unmarshal(data, s)
}
