// Package command tokenizes a single wire-protocol command and validates
// its arity and requested permission tokens, independent of how the
// engine executes it. See doc.go for the full package documentation.
package command

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dreamware/kvstore/internal/auth"
)

// ErrInvalidArgCount is returned when a command's argument list does not
// satisfy its arity rule.
var ErrInvalidArgCount = errors.New("Invalid number of arguments")

// ErrUnknownCommand is returned when the command name has no spec.
var ErrUnknownCommand = errors.New("Unknown command")

// Command is a parsed, not-yet-validated wire command: a name and its
// raw argument tokens.
type Command struct {
	Name string
	Args []string
}

// arity describes how many arguments a command accepts.
type arity struct {
	min   int
	exact bool
}

var specs = map[string]arity{
	"SET":          {min: 2},
	"GET":          {min: 1, exact: true},
	"DEL":          {min: 1, exact: true},
	"AUTH":         {min: 2, exact: true},
	"GET_USER":     {min: 1, exact: true},
	"CREATE_USER":  {min: 2},
	"DELETE_USER":  {min: 1, exact: true},
	"GRANT":        {min: 2},
	"REVOKE":       {min: 2},
	"CREATE_STORE": {min: 1, exact: true},
	"LIST_KEYS":    {min: 1, exact: true},
}

// RequiredBit maps every command except AUTH to the permission bit
// needed to run it. AUTH requires no session and has no entry.
var RequiredBit = map[string]uint8{
	"SET":          auth.PermSet,
	"GET":          auth.PermGet,
	"DEL":          auth.PermDel,
	"CREATE_STORE": auth.PermSet,
	"LIST_KEYS":    auth.PermGet,
	"GET_USER":     auth.PermUserAdmin,
	"CREATE_USER":  auth.PermUserAdmin,
	"DELETE_USER":  auth.PermUserAdmin,
	"GRANT":        auth.PermUserAdmin,
	"REVOKE":       auth.PermUserAdmin,
}

// Mutating marks commands that change Store or auth state, and are
// therefore the ones worth appending to a write-ahead log when one is
// configured. AUTH and the read-only commands are absent.
var Mutating = map[string]bool{
	"SET":          true,
	"DEL":          true,
	"CREATE_STORE": true,
	"CREATE_USER":  true,
	"DELETE_USER":  true,
	"GRANT":        true,
	"REVOKE":       true,
}

// Parse splits a raw, already-trimmed command string on whitespace into
// a Command and validates its arity. The first token is the command
// name; it is compared case-sensitively against the fixed command set.
func Parse(raw string) (Command, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return Command{}, ErrUnknownCommand
	}
	name := fields[0]
	spec, ok := specs[name]
	if !ok {
		return Command{}, ErrUnknownCommand
	}
	args := fields[1:]
	if spec.exact {
		if len(args) != spec.min {
			return Command{}, ErrInvalidArgCount
		}
	} else if len(args) < spec.min {
		return Command{}, ErrInvalidArgCount
	}
	return Command{Name: name, Args: args}, nil
}

// ParsePermissionTokens implements the CREATE_USER/GRANT/REVOKE
// permission-token grammar: the first token, if it parses as a uint8,
// is the whole mask; otherwise tokens are matched one at a time against
// the named bits SET/GET/DEL/USER_ADMIN, accumulating until a token
// fails to match, at which point accumulation stops silently and
// whatever was gathered so far is returned. An empty token list yields
// a mask of 0.
func ParsePermissionTokens(tokens []string) uint8 {
	if len(tokens) == 0 {
		return 0
	}
	if n, err := strconv.ParseUint(tokens[0], 10, 8); err == nil {
		return uint8(n)
	}
	var mask uint8
	for _, tok := range tokens {
		bit, ok := auth.ParsePermissionName(tok)
		if !ok {
			break
		}
		mask |= bit
	}
	return mask
}
