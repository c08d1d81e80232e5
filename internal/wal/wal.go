// Package wal defines the on-disk shape of an append-only log and a
// Writer that appends records to it. See doc.go for the full package
// documentation.
package wal

import (
	"encoding/binary"
	"hash/crc32"
	"os"
)

// RecordType marks a record's position within a (possibly chunked)
// payload, not the kind of command it carries — a payload larger than
// maxChunkPayload is split across multiple records, and the reader (were
// one ever written) would need FIRST/MIDDLE/LAST to reassemble it.
type RecordType uint8

const (
	// RecordFull carries a payload that fit in a single record.
	RecordFull RecordType = iota
	// RecordFirst opens a chunked payload.
	RecordFirst
	// RecordMiddle continues a chunked payload.
	RecordMiddle
	// RecordLast closes a chunked payload.
	RecordLast
)

// headerLen is the fixed size of a record header: 1 byte Type, 4 bytes
// Len, 4 bytes CRC32 — 9 bytes.
const headerLen = 9

// maxChunkPayload is the largest payload a single on-disk record may
// carry before Append must split it across multiple records: a 4 KiB
// page minus the 9-byte header.
const maxChunkPayload = 4096 - headerLen

// Record is one entry in the log: a typed, length-prefixed, checksummed
// payload.
type Record struct {
	Type    RecordType
	Len     uint32
	Payload []byte
	CRC32   uint32
}

// NewRecord builds a Record over payload, computing its length and
// checksum.
func NewRecord(typ RecordType, payload []byte) Record {
	return Record{
		Type:    typ,
		Len:     uint32(len(payload)),
		Payload: payload,
		CRC32:   crc32.ChecksumIEEE(payload),
	}
}

// encode renders r as its on-disk byte representation: Type (1 byte),
// Len (4 bytes, big-endian), CRC32 (4 bytes, big-endian), Payload.
func (r Record) encode() []byte {
	buf := make([]byte, headerLen+len(r.Payload))
	buf[0] = byte(r.Type)
	binary.BigEndian.PutUint32(buf[1:5], r.Len)
	binary.BigEndian.PutUint32(buf[5:9], r.CRC32)
	copy(buf[headerLen:], r.Payload)
	return buf
}

// Writer appends records to a log file, chunking any payload larger than
// maxChunkPayload across multiple FIRST/MIDDLE/LAST records.
type Writer struct {
	f *os.File
}

// OpenWriter opens (creating if necessary) the log file at path for
// appending.
func OpenWriter(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f}, nil
}

// Append writes payload to the log as a single FULL record, or as a
// FIRST/MIDDLE.../LAST chain when it exceeds maxChunkPayload. Each
// on-disk record is independently checksummed.
func (w *Writer) Append(payload []byte) error {
	if len(payload) <= maxChunkPayload {
		_, err := w.f.Write(NewRecord(RecordFull, payload).encode())
		return err
	}

	first := payload[:maxChunkPayload]
	rest := payload[maxChunkPayload:]
	if _, err := w.f.Write(NewRecord(RecordFirst, first).encode()); err != nil {
		return err
	}
	for len(rest) > maxChunkPayload {
		chunk := rest[:maxChunkPayload]
		rest = rest[maxChunkPayload:]
		if _, err := w.f.Write(NewRecord(RecordMiddle, chunk).encode()); err != nil {
			return err
		}
	}
	_, err := w.f.Write(NewRecord(RecordLast, rest).encode())
	return err
}

// Close flushes and closes the underlying log file.
func (w *Writer) Close() error {
	return w.f.Close()
}
