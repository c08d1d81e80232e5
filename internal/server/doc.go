// Package server drives the wire protocol over accepted TCP
// connections.
//
// # Overview
//
// Two types split the job: Listener owns the accept loop and the
// lifetime of every connection it spawns; Handler owns the framing
// contract and command dispatch. One Handler is shared by every
// connection, and each Serve call drives exactly one connection with
// its own Session. Neither
// type holds the shared root Store directly — Handler is constructed
// with an Engine and a Locker, and every command runs under that one
// shared lock, so Store's own lack of internal locking is safe.
//
// # Framing
//
// Commands arrive as a stream, not discrete messages: a single read
// may contain zero, one, or several ';'-terminated commands, and a
// command may itself be split across reads. handleChunk folds the
// previous read's unterminated tail (session.Session.Incomplete) onto
// the front of the new read, peels off a new tail if the latest read
// still doesn't end in ';', executes everything complete in between,
// and joins the responses with ';'. An empty batch (no complete command
// once the carried tail is folded in) writes a single space so the
// peer's blocking read returns instead of stalling.
//
// # Failure isolation
//
// execute recovers from a panic in a single command's execution and
// reports "Internal error" for that command only; Serve recovers from a
// panic anywhere in a connection's loop so one bad connection cannot
// take the listener down. Shutdown waits for in-flight handlers (via a
// sync.WaitGroup) up to the caller's context deadline before returning;
// it does not close open connections.
//
// # Testing
//
// handler_test.go drives handleChunk directly for framing edge cases,
// and Serve over a net.Pipe for the read/write loop; test/integration
// drives whole scenarios over a real net.Conn against a bound Listener.
package server
