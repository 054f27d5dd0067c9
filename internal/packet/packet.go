// Package packet implements the length-prefixed binary frame format spoken
// by the hotel servers. A frame on the wire is a 4-byte big-endian length
// (covering everything after the length field itself), a uint16 header code,
// and the payload fields. Strings are uint16 byte-length prefixed UTF-8;
// booleans are single bytes where nonzero means true.
package packet

import (
	"encoding/binary"
	"math"
)

// lengthPrefixSize is the number of bytes reserved at the front of every
// frame for the length field.
const lengthPrefixSize = 4

// Writer builds an outgoing frame. Every append rewrites the length prefix
// so the buffer is wire-ready at any point.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with the length prefix reserved.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, lengthPrefixSize)}
}

// WriteUint16 appends a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
	w.adjustLength()
}

// WriteUint32 appends a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
	w.adjustLength()
}

// WriteInt32 appends a big-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(v))
	w.adjustLength()
}

// WriteBool appends a single byte, 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	var b byte
	if v {
		b = 1
	}
	w.buf = append(w.buf, b)
	w.adjustLength()
}

// WriteString appends a uint16 byte-length prefix followed by the UTF-8
// bytes of s. The prefix caps the field at 65535 bytes; anything longer is
// truncated so the length can never wrap into a corrupt frame.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxUint16 {
		s = s[:math.MaxUint16]
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
	w.adjustLength()
}

// Bytes returns the encoded frame including the length prefix.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) adjustLength() {
	binary.BigEndian.PutUint32(w.buf[:lengthPrefixSize], uint32(len(w.buf)-lengthPrefixSize))
}

// Reader decodes a fully received frame. The cursor starts past the length
// prefix; the transport has already delivered the frame in full, so partial
// buffering never happens at this layer. Every read reports ok=false when
// fewer bytes remain than requested, which callers treat as a parse failure
// local to the one frame.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps a received frame buffer.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, pos: lengthPrefixSize}
}

// ReadUint16 reads a big-endian uint16.
func (r *Reader) ReadUint16() (uint16, bool) {
	if r.pos+2 > len(r.buf) {
		return 0, false
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, true
}

// ReadUint32 reads a big-endian uint32.
func (r *Reader) ReadUint32() (uint32, bool) {
	if r.pos+4 > len(r.buf) {
		return 0, false
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, true
}

// ReadBool reads a single byte; any nonzero value is true.
func (r *Reader) ReadBool() (bool, bool) {
	if r.pos+1 > len(r.buf) {
		return false, false
	}
	v := r.buf[r.pos]
	r.pos++
	return v != 0, true
}

// ReadString reads a uint16 byte-length prefix followed by that many bytes.
func (r *Reader) ReadString() (string, bool) {
	n, ok := r.ReadUint16()
	if !ok {
		return "", false
	}
	if r.pos+int(n) > len(r.buf) {
		return "", false
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, true
}

// Remaining reports how many unread bytes are left in the frame.
func (r *Reader) Remaining() int {
	if r.pos > len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}
