package store

import (
	"encoding/json"
	"testing"

	"github.com/dreamware/kvstore/internal/key"
	"github.com/dreamware/kvstore/internal/value"
)

func mustKey(t *testing.T, s string) key.Key {
	t.Helper()
	k, err := key.Parse(s)
	if err != nil {
		t.Fatalf("key.Parse(%q): %v", s, err)
	}
	return k
}

func TestSetGetDel(t *testing.T) {
	root := New(key.Root)

	if err := root.Set(mustKey(t, "key"), "value", value.String); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := root.Get(mustKey(t, "key"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "value" {
		t.Errorf("Get = %q, want %q", got, "value")
	}

	if err := root.Del(mustKey(t, "key")); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := root.Get(mustKey(t, "key")); err != ErrKeyNotFound {
		t.Errorf("Get after Del = %v, want ErrKeyNotFound", err)
	}
}

func TestSetIntoMissingStoreNotFound(t *testing.T) {
	root := New(key.Root)
	err := root.Set(mustKey(t, "missing:key"), "v", value.String)
	if err != ErrStoreNotFound {
		t.Errorf("Set into missing store = %v, want ErrStoreNotFound", err)
	}
}

func TestCreateStoreNestedTree(t *testing.T) {
	root := New(key.Root)

	if err := root.CreateStore(mustKey(t, "users")); err != nil {
		t.Fatalf("CreateStore(users): %v", err)
	}
	if err := root.CreateStore(mustKey(t, "users:john_doe")); err != nil {
		t.Fatalf("CreateStore(users:john_doe): %v", err)
	}
	if err := root.Set(mustKey(t, "users:john_doe:age"), "42", value.Int); err != nil {
		t.Fatalf("Set age: %v", err)
	}
	got, err := root.Get(mustKey(t, "users:john_doe:age"))
	if err != nil {
		t.Fatalf("Get age: %v", err)
	}
	if got != "42" {
		t.Errorf("Get age = %q, want 42", got)
	}
}

func TestCreateStoreRequiresParent(t *testing.T) {
	root := New(key.Root)
	err := root.CreateStore(mustKey(t, "a:b:c"))
	if err != ErrStoreNotFound {
		t.Errorf("CreateStore(a:b:c) = %v, want ErrStoreNotFound", err)
	}
}

func TestCreateStoreDuplicate(t *testing.T) {
	root := New(key.Root)
	if err := root.CreateStore(mustKey(t, "users")); err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	if err := root.CreateStore(mustKey(t, "users")); err != ErrKeyExists {
		t.Errorf("duplicate CreateStore = %v, want ErrKeyExists", err)
	}
}

func TestCreateStoreForbiddenDot(t *testing.T) {
	root := New(key.Root)
	if err := root.CreateStore(mustKey(t, ".")); err != ErrForbiddenStoreName {
		t.Errorf("CreateStore(.) = %v, want ErrForbiddenStoreName", err)
	}
	if err := root.CreateStore(mustKey(t, "store:.")); err != ErrForbiddenStoreName {
		t.Errorf("CreateStore(store:.) = %v, want ErrForbiddenStoreName", err)
	}
}

func TestDelStoreRemovesSubtree(t *testing.T) {
	root := New(key.Root)
	if err := root.CreateStore(mustKey(t, "s")); err != nil {
		t.Fatalf("CreateStore: %v", err)
	}
	if err := root.Set(mustKey(t, "s:a"), "1", value.String); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := root.Del(mustKey(t, "s")); err != nil {
		t.Fatalf("Del store: %v", err)
	}
	if _, err := root.Get(mustKey(t, "s:a")); err != ErrStoreNotFound {
		t.Errorf("Get after subtree delete = %v, want ErrStoreNotFound", err)
	}
}

func TestDelRoot(t *testing.T) {
	root := New(key.Root)
	if err := root.Del(mustKey(t, ".")); err != ErrKeyNotFound {
		t.Errorf("Del(.) = %v, want ErrKeyNotFound", err)
	}
}

func TestListKeys(t *testing.T) {
	root := New(key.Root)
	_ = root.CreateStore(mustKey(t, "b"))
	_ = root.CreateStore(mustKey(t, "a"))
	if got, want := root.ListKeys(), "a\nb"; got != want {
		t.Errorf("ListKeys() = %q, want %q", got, want)
	}
}

func TestResolveStoreRoot(t *testing.T) {
	root := New(key.Root)
	resolved, err := root.ResolveStore(mustKey(t, "."))
	if err != nil {
		t.Fatalf("ResolveStore(.): %v", err)
	}
	if resolved != root {
		t.Errorf("ResolveStore(.) did not return root")
	}
}

func TestResolveStoreMissing(t *testing.T) {
	root := New(key.Root)
	if _, err := root.ResolveStore(mustKey(t, "missing")); err != ErrStoreNotFound {
		t.Errorf("ResolveStore(missing) = %v, want ErrStoreNotFound", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	root := New(key.Root)
	_ = root.CreateStore(mustKey(t, "users"))
	_ = root.CreateStore(mustKey(t, "users:john_doe"))
	_ = root.Set(mustKey(t, "users:john_doe:age"), "42", value.Int)

	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"name":".","data":{},"stores":{"users":{"name":"users","data":{},"stores":{"john_doe":{"name":"john_doe","data":{"age":{"value":"42","data_type":"INT"}},"stores":{}}}}}}`
	if string(data) != want {
		t.Errorf("Marshal =\n%s\nwant\n%s", data, want)
	}

	restored := New("")
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got, err := restored.Get(mustKey(t, "users:john_doe:age"))
	if err != nil {
		t.Fatalf("Get after restore: %v", err)
	}
	if got != "42" {
		t.Errorf("Get after restore = %q, want 42", got)
	}
}
