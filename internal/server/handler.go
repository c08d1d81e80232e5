// Package server drives the wire protocol over accepted TCP connections:
// Handler frames and dispatches one connection's commands, and Listener
// owns the accept loop, shared state, and lifecycle. See doc.go for the
// full package documentation.
package server

import (
	"io"
	"runtime/debug"
	"strings"

	"github.com/dreamware/kvstore/internal/command"
	"github.com/dreamware/kvstore/internal/engine"
	"github.com/dreamware/kvstore/internal/session"
	"github.com/sirupsen/logrus"
)

// readBufSize is the size of each read from the connection. Commands
// larger than this, or split across reads, are reassembled via the
// session's incomplete tail.
const readBufSize = 1024

// Handler drives the framing protocol against a shared Engine. One
// Handler serves every connection: each Serve call keeps its own
// Session for its connection, and the Handler itself holds only the
// Engine, the lock that guards it, the optional WAL and the logger.
type Handler struct {
	eng  *engine.Engine
	lock Locker
	wal  WALAppender
	log  *logrus.Entry
}

// Locker is the single mutex shared by every connection's Handler,
// guarding the root Store and its embedded auth subtree. It is satisfied
// by *sync.Mutex.
type Locker interface {
	Lock()
	Unlock()
}

// WALAppender is the write-ahead log sink a Handler appends mutating
// commands to. It is satisfied by *wal.Writer. A nil WALAppender (the
// default) disables logging entirely.
type WALAppender interface {
	Append(payload []byte) error
}

// NewHandler returns a Handler that executes commands against eng while
// holding lock. walWriter may be nil, in which case commands are never
// logged.
func NewHandler(eng *engine.Engine, lock Locker, log *logrus.Logger, walWriter WALAppender) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{eng: eng, lock: lock, wal: walWriter, log: log.WithField("component", "handler")}
}

// Serve reads from r and writes framed responses to w until r returns an
// error (typically io.EOF on connection close), driving sess through
// successive batches. remoteAddr is used only for logging.
func (h *Handler) Serve(r io.Reader, w io.Writer, remoteAddr string) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.WithFields(logrus.Fields{
				"remote": remoteAddr,
				"panic":  rec,
			}).Error("recovered panic in connection handler")
			h.log.Debug(string(debug.Stack()))
		}
	}()

	sess := session.New()
	buf := make([]byte, readBufSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			var resp string
			resp, sess = h.handleChunk(string(buf[:n]), sess, remoteAddr)
			if _, werr := io.WriteString(w, resp); werr != nil {
				h.log.WithFields(logrus.Fields{"remote": remoteAddr, "error": werr}).Warn("write failed")
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				h.log.WithFields(logrus.Fields{"remote": remoteAddr, "error": err}).Warn("read failed")
			}
			return
		}
	}
}

// handleChunk implements the framing contract for one read: trim, split
// on ';' keeping the separator, fold in any carried-over incomplete
// tail, peel off a new incomplete tail if the batch doesn't end in ';',
// execute each remaining command, and join the responses.
func (h *Handler) handleChunk(chunk string, sess session.Session, remoteAddr string) (string, session.Session) {
	trimmed := strings.TrimSpace(chunk)
	fragments := splitKeepingSeparator(trimmed, ';')

	if sess.Incomplete != "" {
		if len(fragments) == 0 {
			fragments = []string{sess.Incomplete}
		} else {
			fragments[0] = sess.Incomplete + " " + fragments[0]
		}
		sess.Incomplete = ""
	}

	if len(fragments) > 0 && !strings.HasSuffix(fragments[len(fragments)-1], ";") {
		sess.Incomplete = fragments[len(fragments)-1]
		fragments = fragments[:len(fragments)-1]
	}

	if len(fragments) == 0 {
		return " ", sess
	}

	responses := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		raw := strings.TrimSpace(strings.TrimSuffix(frag, ";"))
		responses = append(responses, h.execute(raw, &sess, remoteAddr))
	}
	return strings.Join(responses, ";") + ";", sess
}

// execute parses and runs a single command under the shared lock,
// recovering from a panic in command execution so one bad command
// cannot take down the connection or the listener.
func (h *Handler) execute(raw string, sess *session.Session, remoteAddr string) (resp string) {
	defer func() {
		if rec := recover(); rec != nil {
			h.log.WithFields(logrus.Fields{
				"remote":  remoteAddr,
				"command": raw,
				"panic":   rec,
			}).Error("recovered panic executing command")
			resp = "Internal error"
		}
	}()

	cmd, err := command.Parse(raw)
	if err != nil {
		return err.Error()
	}

	h.lock.Lock()
	result, newSess, err := h.eng.Execute(cmd, *sess)
	if err == nil && h.wal != nil && command.Mutating[cmd.Name] {
		if walErr := h.wal.Append([]byte(raw)); walErr != nil {
			h.log.WithFields(logrus.Fields{
				"remote":  remoteAddr,
				"command": raw,
				"error":   walErr,
			}).Warn("write-ahead log append failed")
		}
	}
	h.lock.Unlock()

	if err != nil {
		return engine.Response(err)
	}
	*sess = newSess
	return result
}

// splitKeepingSeparator splits s on sep, re-appending sep to every
// fragment except a possible trailing one with no terminating sep (which
// is how an incomplete command is observed).
func splitKeepingSeparator(s string, sep byte) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, string(sep))
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == len(parts)-1 {
			if p != "" {
				out = append(out, p)
			}
			continue
		}
		out = append(out, p+string(sep))
	}
	return out
}
