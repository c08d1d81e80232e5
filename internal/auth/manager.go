// Package auth implements the user registry: a reserved subtree of the
// root store that holds, per user, a username, a salted password hash,
// and a permission bitmask. See doc.go for the full package
// documentation.
package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dreamware/kvstore/internal/key"
	"github.com/dreamware/kvstore/internal/session"
	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/value"
)

// Reserved path segments for the auth subtree: _auth:users:<username>.
const (
	authStoreName  = "_auth"
	usersStoreName = "users"
)

// Wire errors for user-management commands.
var (
	ErrUserExists         = errors.New("User already exists")
	ErrUserNotFound       = errors.New("User not found")
	ErrUserDoesNotExist   = errors.New("User does not exist")
	ErrInvalidCredentials = errors.New("Username or password is incorrect")
)

// User is a transient view of one auth record, loaded on demand.
type User struct {
	Username    string
	Permissions uint8

	passwordHash string
}

// Manager performs user-management operations against a root store's
// reserved _auth subtree. It holds no state of its own.
type Manager struct{}

// NewManager returns a stateless auth Manager.
func NewManager() *Manager {
	return &Manager{}
}

// EnsureSchema creates the _auth and _auth:users stores if they do not
// already exist. It is idempotent and safe to call on every startup,
// including against a store restored from a snapshot.
func (m *Manager) EnsureSchema(root *store.Store) error {
	if err := root.CreateStore(key.Key{Leaf: authStoreName}); err != nil && err != store.ErrKeyExists {
		return err
	}
	usersKey := key.Key{Store: authStoreName, Leaf: usersStoreName}
	if err := root.CreateStore(usersKey); err != nil && err != store.ErrKeyExists {
		return err
	}
	return nil
}

// SeedAdmin creates the admin account with every permission bit if it
// does not already exist, so repeated startups against the same snapshot
// are idempotent.
func (m *Manager) SeedAdmin(root *store.Store, username, password string) error {
	if m.Exists(root, username) {
		return nil
	}
	return m.Create(root, username, password, PermAll)
}

func userStoreKey(username string) key.Key {
	return key.Key{Store: authStoreName, Path: usersStoreName, Leaf: username}
}

func userFieldKey(username, field string) key.Key {
	return key.Key{Store: authStoreName, Path: usersStoreName + ":" + username, Leaf: field}
}

// Exists reports whether username has a record in the auth subtree.
func (m *Manager) Exists(root *store.Store, username string) bool {
	_, err := root.ResolveStore(userStoreKey(username))
	return err == nil
}

// Create validates password, hashes it, and writes a new user record
// with perms as given. It fails with ErrUserExists if username is
// already registered.
func (m *Manager) Create(root *store.Store, username, password string, perms uint8) error {
	username = normalizeUsername(username)
	if err := validatePassword(password); err != nil {
		return err
	}
	if m.Exists(root, username) {
		return ErrUserExists
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := root.CreateStore(userStoreKey(username)); err != nil {
		return err
	}
	return writeUser(root, User{Username: username, Permissions: perms, passwordHash: hash})
}

func writeUser(root *store.Store, u User) error {
	if err := root.Set(userFieldKey(u.Username, "username"), u.Username, value.String); err != nil {
		return err
	}
	if err := root.Set(userFieldKey(u.Username, "password"), u.passwordHash, value.String); err != nil {
		return err
	}
	return root.Set(userFieldKey(u.Username, "permissions"), strconv.Itoa(int(u.Permissions)), value.String)
}

// load reads a full user record from the store, or ErrUserNotFound if no
// such user exists or any of its fields are missing/corrupt.
func load(root *store.Store, username string) (User, error) {
	if _, err := root.ResolveStore(userStoreKey(username)); err != nil {
		return User{}, ErrUserNotFound
	}
	uname, err := root.Get(userFieldKey(username, "username"))
	if err != nil {
		return User{}, ErrUserNotFound
	}
	hash, err := root.Get(userFieldKey(username, "password"))
	if err != nil {
		return User{}, ErrUserNotFound
	}
	permText, err := root.Get(userFieldKey(username, "permissions"))
	if err != nil {
		return User{}, ErrUserNotFound
	}
	perms, err := strconv.Atoi(permText)
	if err != nil {
		return User{}, ErrUserNotFound
	}
	return User{Username: uname, Permissions: uint8(perms), passwordHash: hash}, nil
}

// Get loads a user record for GET_USER. It reports ErrUserNotFound (not
// ErrUserDoesNotExist) to match the wire contract for that command.
func (m *Manager) Get(root *store.Store, username string) (User, error) {
	return load(root, normalizeUsername(username))
}

// Login validates the password shape, then attempts to load and verify
// the user unconditionally — even when the user does not exist — so a
// missing account and a wrong password are indistinguishable on the
// wire and take the same amount of work.
func (m *Manager) Login(root *store.Store, username, password string, sess session.Session) (session.Session, error) {
	if err := validatePassword(password); err != nil {
		return sess, err
	}
	u, err := load(root, normalizeUsername(username))
	if err != nil {
		// Verify against a fixed dummy hash so a missing account takes
		// the same code path as a wrong password.
		verifyPassword(dummyHash, password)
		return sess, ErrInvalidCredentials
	}
	if !verifyPassword(u.passwordHash, password) {
		return sess, ErrInvalidCredentials
	}
	return sess.Authenticate(u.Username), nil
}

// Delete removes a user's entire subtree. It fails with
// ErrUserDoesNotExist if the user is not registered.
func (m *Manager) Delete(root *store.Store, username string) error {
	username = normalizeUsername(username)
	if !m.Exists(root, username) {
		return ErrUserDoesNotExist
	}
	if err := root.Del(userStoreKey(username)); err != nil {
		return ErrUserDoesNotExist
	}
	return nil
}

// Grant sets additional bits on a user's permission mask.
func (m *Manager) Grant(root *store.Store, username string, mask uint8) error {
	return m.updatePermissions(root, username, func(p uint8) uint8 { return p | mask })
}

// Revoke clears bits from a user's permission mask.
func (m *Manager) Revoke(root *store.Store, username string, mask uint8) error {
	return m.updatePermissions(root, username, func(p uint8) uint8 { return p &^ mask })
}

func (m *Manager) updatePermissions(root *store.Store, username string, update func(uint8) uint8) error {
	username = normalizeUsername(username)
	u, err := load(root, username)
	if err != nil {
		return ErrUserDoesNotExist
	}
	u.Permissions = update(u.Permissions)
	return writeUser(root, u)
}

// CheckPermission reports whether username holds bit. A nonexistent user
// holds no permissions.
func (m *Manager) CheckPermission(root *store.Store, username string, bit uint8) bool {
	u, err := load(root, normalizeUsername(username))
	if err != nil {
		return false
	}
	return u.Permissions&bit != 0
}

// String renders a User the way GET_USER reports it on the wire.
func (u User) String() string {
	return fmt.Sprintf("User: %s Permissions: %d", u.Username, u.Permissions)
}

// dummyHash is verified against when a login target doesn't exist, so
// the failure path does the same argon2 work as a real mismatch.
const dummyHash = "argon2id$v=19$m=65536,t=3,p=2$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
