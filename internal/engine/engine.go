// Package engine is the command arbiter: it authorises a parsed Command
// against a session and the auth subtree, then dispatches to Store or
// Auth and renders their result as wire text. See doc.go for the full
// package documentation.
package engine

import (
	"errors"

	"github.com/dreamware/kvstore/internal/auth"
	"github.com/dreamware/kvstore/internal/command"
	"github.com/dreamware/kvstore/internal/key"
	"github.com/dreamware/kvstore/internal/session"
	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/value"
)

// Engine-level errors not already owned by store/auth/command.
var (
	ErrNotAuthenticated = errors.New("User not authenticated")
	ErrNoPermission     = errors.New("User does not have permission")
	ErrInvalidStore     = errors.New("Invalid store")
)

// OK is the canonical success response for commands with no other
// payload.
const OK = "OK"

// Engine executes authorised commands against a root Store and its
// embedded auth subtree.
type Engine struct {
	root *store.Store
	auth *auth.Manager
}

// New returns an Engine over root, whose auth subtree is assumed to
// already exist (see auth.Manager.EnsureSchema).
func New(root *store.Store, authMgr *auth.Manager) *Engine {
	return &Engine{root: root, auth: authMgr}
}

// Execute authorises and runs cmd against sess, returning the response
// text and the (possibly updated) session. Only AUTH ever changes the
// session; every other command returns sess unchanged on success and
// leaves it untouched on failure.
func (e *Engine) Execute(cmd command.Command, sess session.Session) (string, session.Session, error) {
	if cmd.Name == "AUTH" {
		return e.authenticate(cmd, sess)
	}

	if err := e.authorize(cmd, sess); err != nil {
		return "", sess, err
	}

	resp, err := e.dispatch(cmd, sess)
	if err != nil {
		return "", sess, err
	}
	return resp, sess, nil
}

// authorize runs the gate shared by every command except AUTH: the
// session must be authenticated, its username must still exist, and the
// user must hold the command's required bit.
func (e *Engine) authorize(cmd command.Command, sess session.Session) error {
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}
	if !e.auth.Exists(e.root, sess.Username) {
		return ErrNotAuthenticated
	}
	bit, ok := command.RequiredBit[cmd.Name]
	if !ok {
		return ErrNotAuthenticated
	}
	if !e.auth.CheckPermission(e.root, sess.Username, bit) {
		return ErrNoPermission
	}
	return nil
}

func (e *Engine) authenticate(cmd command.Command, sess session.Session) (string, session.Session, error) {
	newSess, err := e.auth.Login(e.root, cmd.Args[0], cmd.Args[1], sess)
	if err != nil {
		return "", sess, err
	}
	return OK, newSess, nil
}

func (e *Engine) dispatch(cmd command.Command, sess session.Session) (string, error) {
	switch cmd.Name {
	case "SET":
		return e.set(cmd.Args)
	case "GET":
		return e.get(cmd.Args)
	case "DEL":
		return e.del(cmd.Args)
	case "CREATE_STORE":
		return e.createStore(cmd.Args)
	case "LIST_KEYS":
		return e.listKeys(cmd.Args)
	case "GET_USER":
		return e.getUser(cmd.Args)
	case "CREATE_USER":
		return e.createUser(cmd.Args, sess)
	case "DELETE_USER":
		return e.deleteUser(cmd.Args)
	case "GRANT":
		return e.grant(cmd.Args, sess)
	case "REVOKE":
		return e.revoke(cmd.Args, sess)
	default:
		return "", command.ErrUnknownCommand
	}
}

func (e *Engine) set(args []string) (string, error) {
	k, err := key.Parse(args[0])
	if err != nil {
		return "", err
	}
	typ := value.String
	if len(args) >= 3 {
		typ, err = value.ParseType(args[2])
		if err != nil {
			return "", err
		}
	}
	if err := e.root.Set(k, args[1], typ); err != nil {
		return "", err
	}
	return OK, nil
}

func (e *Engine) get(args []string) (string, error) {
	k, err := key.Parse(args[0])
	if err != nil {
		return "", err
	}
	return e.root.Get(k)
}

func (e *Engine) del(args []string) (string, error) {
	k, err := key.Parse(args[0])
	if err != nil {
		return "", err
	}
	if err := e.root.Del(k); err != nil {
		return "", err
	}
	return OK, nil
}

func (e *Engine) createStore(args []string) (string, error) {
	k, err := key.Parse(args[0])
	if err != nil {
		return "", err
	}
	if err := e.root.CreateStore(k); err != nil {
		return "", err
	}
	return OK, nil
}

// listKeys resolves the target store named by args[0] (or the root for
// "."), reporting the source's generic Invalid store error for any
// resolution failure rather than the store package's own not-found
// variants.
func (e *Engine) listKeys(args []string) (string, error) {
	k, err := key.Parse(args[0])
	if err != nil {
		return "", ErrInvalidStore
	}
	target, err := e.root.ResolveStore(k)
	if err != nil {
		return "", ErrInvalidStore
	}
	return target.ListKeys(), nil
}

func (e *Engine) getUser(args []string) (string, error) {
	u, err := e.auth.Get(e.root, args[0])
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// createUser additionally requires that the caller hold every bit being
// granted to the new user.
func (e *Engine) createUser(args []string, sess session.Session) (string, error) {
	mask := command.ParsePermissionTokens(args[2:])
	if !e.callerHolds(sess, mask) {
		return "", ErrNoPermission
	}
	if err := e.auth.Create(e.root, args[0], args[1], mask); err != nil {
		return "", err
	}
	return OK, nil
}

func (e *Engine) deleteUser(args []string) (string, error) {
	if err := e.auth.Delete(e.root, args[0]); err != nil {
		return "", err
	}
	return OK, nil
}

func (e *Engine) grant(args []string, sess session.Session) (string, error) {
	mask := command.ParsePermissionTokens(args[1:])
	if !e.callerHolds(sess, mask) {
		return "", ErrNoPermission
	}
	if err := e.auth.Grant(e.root, args[0], mask); err != nil {
		return "", err
	}
	return OK, nil
}

func (e *Engine) revoke(args []string, sess session.Session) (string, error) {
	mask := command.ParsePermissionTokens(args[1:])
	if !e.callerHolds(sess, mask) {
		return "", ErrNoPermission
	}
	if err := e.auth.Revoke(e.root, args[0], mask); err != nil {
		return "", err
	}
	return OK, nil
}

// callerHolds reports whether sess's user holds every bit set in mask,
// so CREATE_USER/GRANT/REVOKE can never confer a capability the caller
// themselves lacks.
func (e *Engine) callerHolds(sess session.Session, mask uint8) bool {
	for bit := uint8(1); bit != 0; bit <<= 1 {
		if mask&bit != 0 && !e.auth.CheckPermission(e.root, sess.Username, bit) {
			return false
		}
	}
	return true
}

// Response renders any error returned by Execute as its wire text.
func Response(err error) string {
	if err == nil {
		return OK
	}
	return err.Error()
}
