package auth

import (
	"testing"

	"github.com/dreamware/kvstore/internal/session"
	"github.com/dreamware/kvstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot(t *testing.T) *store.Store {
	t.Helper()
	root := store.New(".")
	m := NewManager()
	require.NoError(t, m.EnsureSchema(root))
	return root
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.EnsureSchema(root))
	require.NoError(t, m.EnsureSchema(root))
}

func TestCreateAndGet(t *testing.T) {
	root := newRoot(t)
	m := NewManager()

	require.NoError(t, m.Create(root, "jdoe", "Passw0rd", PermGet|PermSet))

	u, err := m.Get(root, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe", u.Username)
	assert.Equal(t, PermGet|PermSet, u.Permissions)
	assert.Equal(t, "User: jdoe Permissions: 3", u.String())
}

func TestCreateDuplicateRejected(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.Create(root, "jdoe", "Passw0rd", PermGet))
	err := m.Create(root, "jdoe", "Passw0rd2", PermGet)
	assert.Equal(t, ErrUserExists, err)
}

func TestCreateRejectsWeakPassword(t *testing.T) {
	root := newRoot(t)
	m := NewManager()

	cases := []struct {
		password string
		want     error
	}{
		{"short1A", ErrPasswordTooShort},
		{"alllower1", ErrPasswordNoUppercase},
		{"ALLUPPER1", ErrPasswordNoLowercase},
		{"NoDigitsHere", ErrPasswordNoDigit},
	}
	for _, c := range cases {
		err := m.Create(root, "someone", c.password, PermGet)
		assert.Equal(t, c.want, err, "password %q", c.password)
	}
}

func TestGetMissingUser(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	_, err := m.Get(root, "ghost")
	assert.Equal(t, ErrUserNotFound, err)
}

func TestLoginSuccess(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.Create(root, "jdoe", "Passw0rd", PermGet))

	sess, err := m.Login(root, "jdoe", "Passw0rd", session.New())
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "jdoe", sess.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.Create(root, "jdoe", "Passw0rd", PermGet))

	sess, err := m.Login(root, "jdoe", "WrongPass1", session.New())
	assert.Equal(t, ErrInvalidCredentials, err)
	assert.False(t, sess.Authenticated)
}

func TestLoginUnknownUser(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	_, err := m.Login(root, "ghost", "Passw0rd", session.New())
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestDelete(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.Create(root, "jdoe", "Passw0rd", PermGet))
	require.NoError(t, m.Delete(root, "jdoe"))

	_, err := m.Get(root, "jdoe")
	assert.Equal(t, ErrUserNotFound, err)
}

func TestDeleteMissingUser(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	err := m.Delete(root, "ghost")
	assert.Equal(t, ErrUserDoesNotExist, err)
}

func TestGrantAndRevoke(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.Create(root, "jdoe", "Passw0rd", PermGet))

	require.NoError(t, m.Grant(root, "jdoe", PermSet|PermDel))
	u, err := m.Get(root, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, PermGet|PermSet|PermDel, u.Permissions)

	require.NoError(t, m.Revoke(root, "jdoe", PermDel))
	u, err = m.Get(root, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, PermGet|PermSet, u.Permissions)
}

func TestGrantMissingUser(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	assert.Equal(t, ErrUserDoesNotExist, m.Grant(root, "ghost", PermGet))
	assert.Equal(t, ErrUserDoesNotExist, m.Revoke(root, "ghost", PermGet))
}

func TestCheckPermission(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.Create(root, "jdoe", "Passw0rd", PermGet))

	assert.True(t, m.CheckPermission(root, "jdoe", PermGet))
	assert.False(t, m.CheckPermission(root, "jdoe", PermSet))
	assert.False(t, m.CheckPermission(root, "ghost", PermGet))
}

func TestSeedAdminIdempotent(t *testing.T) {
	root := newRoot(t)
	m := NewManager()
	require.NoError(t, m.SeedAdmin(root, "admin", "Sup3rSecret"))
	require.NoError(t, m.SeedAdmin(root, "admin", "DifferentPass1"))

	u, err := m.Get(root, "admin")
	require.NoError(t, err)
	assert.Equal(t, PermAll, u.Permissions)

	sess, err := m.Login(root, "admin", "Sup3rSecret", session.New())
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
}
