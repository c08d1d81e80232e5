package server

import (
	"context"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

// Listener owns the TCP accept loop: it spawns a Handler goroutine per
// accepted connection and tracks them so Shutdown can wait for those
// goroutines to return.
type Listener struct {
	addr    string
	handler *Handler
	log     *logrus.Entry

	mu   sync.Mutex
	ln   net.Listener
	wg   sync.WaitGroup
	quit chan struct{}
}

// Addr returns the address the Listener is bound to, or "" if
// ListenAndServe has not yet completed binding.
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return ""
	}
	return l.ln.Addr().String()
}

// NewListener returns a Listener that will bind addr and dispatch every
// accepted connection to handler.
func NewListener(addr string, handler *Handler, log *logrus.Logger) *Listener {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Listener{
		addr:    addr,
		handler: handler,
		log:     log.WithField("component", "listener"),
		quit:    make(chan struct{}),
	}
}

// ListenAndServe binds addr and accepts connections until Shutdown is
// called, at which point it returns nil. A bind error is returned to the
// caller; any other Accept error is logged and accepting continues.
func (l *Listener) ListenAndServe() error {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.ln = ln
	l.mu.Unlock()

	l.log.WithField("addr", l.addr).Info("listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-l.quit:
				return nil
			default:
			}
			l.log.WithError(err).Warn("accept failed")
			continue
		}
		l.wg.Add(1)
		go l.serve(conn)
	}
}

func (l *Listener) serve(conn net.Conn) {
	defer l.wg.Done()
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	l.log.WithField("remote", remote).Debug("connection accepted")
	l.handler.Serve(conn, conn, remote)
	l.log.WithField("remote", remote).Debug("connection closed")
}

// Shutdown stops accepting new connections and waits, up to ctx's
// deadline, for every connection's handler to return. It does not close
// open connections, so a handler returns only once its peer disconnects
// or a read fails.
func (l *Listener) Shutdown(ctx context.Context) error {
	close(l.quit)

	l.mu.Lock()
	ln := l.ln
	l.mu.Unlock()
	if ln != nil {
		ln.Close()
	}

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
