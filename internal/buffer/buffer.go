package buffer

import (
	"encoding/binary"
	"math"
)

// Buffer is a dual-cursor binary serialization buffer. The write cursor is
// implicit (always the end of the owned slice); the read cursor is explicit
// and advances on every successful typed read. Writes never fail: the
// backing slice grows as needed. Reads fail with an *UnderflowError when
// the read cursor plus the requested size would exceed the written length.
type Buffer struct {
	data   []byte
	cursor int
	order  ByteOrder
}

// New constructs an empty buffer with the given byte order.
func New(order ByteOrder) *Buffer {
	return &Buffer{order: resolve(order)}
}

// Wrap constructs a buffer over an existing slice, ready for reading from
// the start. The slice is taken by reference, not copied.
func Wrap(data []byte, order ByteOrder) *Buffer {
	return &Buffer{data: data, order: resolve(order)}
}

func (b *Buffer) endian() binary.ByteOrder {
	if b.order == Little {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// GetByteOrder returns the buffer's resolved byte order (never Native).
func (b *Buffer) GetByteOrder() ByteOrder { return b.order }

// SetByteOrder changes the order used by subsequent writes/reads.
func (b *Buffer) SetByteOrder(order ByteOrder) { b.order = resolve(order) }

// WrittenBytes returns the number of bytes written to the buffer so far.
func (b *Buffer) WrittenBytes() int { return len(b.data) }

// ReadableBytes returns the number of bytes remaining to be read.
func (b *Buffer) ReadableBytes() int { return len(b.data) - b.cursor }

// GetReadCursor returns the current read cursor position.
func (b *Buffer) GetReadCursor() int { return b.cursor }

// HasRemaining reports whether at least one byte remains to be read.
func (b *Buffer) HasRemaining() bool { return b.cursor < len(b.data) }

// HasRemainingN reports whether at least n bytes remain to be read.
func (b *Buffer) HasRemainingN(n int) bool { return b.cursor+n <= len(b.data) }

func (b *Buffer) ensureReadable(n int) error {
	if b.cursor+n > len(b.data) {
		return newUnderflow(b.cursor, len(b.data), n)
	}
	return nil
}

func (b *Buffer) appendRaw(p []byte) {
	b.data = append(b.data, p...)
}

//=== Typed writes ===

func (b *Buffer) WriteBool(v bool) {
	if v {
		b.appendRaw([]byte{1})
	} else {
		b.appendRaw([]byte{0})
	}
}

func (b *Buffer) WriteU8(v uint8) { b.appendRaw([]byte{v}) }
func (b *Buffer) WriteI8(v int8)  { b.appendRaw([]byte{byte(v)}) }

func (b *Buffer) WriteI16(v int16) { b.WriteU16(uint16(v)) }
func (b *Buffer) WriteU16(v uint16) {
	var tmp [2]byte
	b.endian().PutUint16(tmp[:], v)
	b.appendRaw(tmp[:])
}

func (b *Buffer) WriteI32(v int32) { b.WriteU32(uint32(v)) }
func (b *Buffer) WriteU32(v uint32) {
	var tmp [4]byte
	b.endian().PutUint32(tmp[:], v)
	b.appendRaw(tmp[:])
}

func (b *Buffer) WriteI64(v int64) { b.WriteU64(uint64(v)) }
func (b *Buffer) WriteU64(v uint64) {
	var tmp [8]byte
	b.endian().PutUint64(tmp[:], v)
	b.appendRaw(tmp[:])
}

// WriteF32 writes a float32 by bit-punning through its uint32
// representation and byte-swapping the integer, never reinterpreting the
// float's raw bytes directly.
func (b *Buffer) WriteF32(v float32) { b.WriteU32(math.Float32bits(v)) }

// WriteF64 writes a float64 by bit-punning through its uint64 bits.
func (b *Buffer) WriteF64(v float64) { b.WriteU64(math.Float64bits(v)) }

//=== Typed reads ===

func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.ReadU8()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (b *Buffer) ReadU8() (uint8, error) {
	if err := b.ensureReadable(1); err != nil {
		return 0, err
	}
	v := b.data[b.cursor]
	b.cursor++
	return v, nil
}

func (b *Buffer) ReadI8() (int8, error) {
	v, err := b.ReadU8()
	return int8(v), err
}

func (b *Buffer) ReadU16() (uint16, error) {
	if err := b.ensureReadable(2); err != nil {
		return 0, err
	}
	v := b.endian().Uint16(b.data[b.cursor:])
	b.cursor += 2
	return v, nil
}

func (b *Buffer) ReadI16() (int16, error) {
	v, err := b.ReadU16()
	return int16(v), err
}

func (b *Buffer) ReadU32() (uint32, error) {
	if err := b.ensureReadable(4); err != nil {
		return 0, err
	}
	v := b.endian().Uint32(b.data[b.cursor:])
	b.cursor += 4
	return v, nil
}

func (b *Buffer) ReadI32() (int32, error) {
	v, err := b.ReadU32()
	return int32(v), err
}

func (b *Buffer) ReadU64() (uint64, error) {
	if err := b.ensureReadable(8); err != nil {
		return 0, err
	}
	v := b.endian().Uint64(b.data[b.cursor:])
	b.cursor += 8
	return v, nil
}

func (b *Buffer) ReadI64() (int64, error) {
	v, err := b.ReadU64()
	return int64(v), err
}

func (b *Buffer) ReadF32() (float32, error) {
	v, err := b.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (b *Buffer) ReadF64() (float64, error) {
	v, err := b.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

//=== Strings ===

// WriteString appends a uint32 length prefix followed by the UTF-8 bytes.
func (b *Buffer) WriteString(s string) {
	b.WriteU32(uint32(len(s)))
	b.appendRaw([]byte(s))
}

// WriteShortString appends a uint16 length prefix followed by the UTF-8 bytes.
func (b *Buffer) WriteShortString(s string) {
	b.WriteU16(uint16(len(s)))
	b.appendRaw([]byte(s))
}

// WriteNullTerminatedString appends the UTF-8 bytes followed by a 0x00 terminator.
func (b *Buffer) WriteNullTerminatedString(s string) {
	b.appendRaw([]byte(s))
	b.appendRaw([]byte{0})
}

func (b *Buffer) ReadString() (string, error) {
	n, err := b.ReadU32()
	if err != nil {
		return "", err
	}
	raw, err := b.ReadRawBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (b *Buffer) ReadShortString() (string, error) {
	n, err := b.ReadU16()
	if err != nil {
		return "", err
	}
	raw, err := b.ReadRawBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (b *Buffer) ReadNullTerminatedString() (string, error) {
	start := b.cursor
	for i := b.cursor; i < len(b.data); i++ {
		if b.data[i] == 0 {
			s := string(b.data[start:i])
			b.cursor = i + 1
			return s, nil
		}
	}
	return "", newUnderflow(b.cursor, len(b.data), 1)
}

//=== Raw bytes ===

// WriteRawBytes appends the given bytes verbatim.
func (b *Buffer) WriteRawBytes(p []byte) { b.appendRaw(p) }

// ReadRawBytes consumes and returns count bytes as a fresh copy.
func (b *Buffer) ReadRawBytes(count int) ([]byte, error) {
	if err := b.ensureReadable(count); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	copy(out, b.data[b.cursor:b.cursor+count])
	b.cursor += count
	return out, nil
}

// ReadRawBytesInto copies count bytes into dst (memcpy-equivalent); dst must
// have length >= count.
func (b *Buffer) ReadRawBytesInto(dst []byte, count int) error {
	if err := b.ensureReadable(count); err != nil {
		return err
	}
	copy(dst[:count], b.data[b.cursor:b.cursor+count])
	b.cursor += count
	return nil
}

//=== Cursor ops ===

// Skip advances the read cursor by n bytes without returning them.
func (b *Buffer) Skip(n int) error {
	if err := b.ensureReadable(n); err != nil {
		return err
	}
	b.cursor += n
	return nil
}

// Rewind resets the read cursor to the start of the buffer.
func (b *Buffer) Rewind() { b.cursor = 0 }

// Seek moves the read cursor to an absolute position; seeking past the
// written length is an underflow.
func (b *Buffer) Seek(pos int) error {
	if pos > len(b.data) {
		return newUnderflow(pos, len(b.data), 0)
	}
	b.cursor = pos
	return nil
}

// Clear discards all data and resets both cursors.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
	b.cursor = 0
}

// Compact discards already-consumed bytes, shifting the remaining data to
// the front and resetting the read cursor to zero.
func (b *Buffer) Compact() {
	remaining := b.data[b.cursor:]
	next := make([]byte, len(remaining))
	copy(next, remaining)
	b.data = next
	b.cursor = 0
}

//=== Random access ===

// OverwriteU32At overwrites a uint32 at an absolute byte offset without
// touching the read cursor. Offset+4 must not exceed the written length.
func (b *Buffer) OverwriteU32At(offset int, v uint32) error {
	if offset+4 > len(b.data) {
		return newUnderflow(offset, len(b.data), 4)
	}
	b.endian().PutUint32(b.data[offset:], v)
	return nil
}

// OverwriteU64At overwrites a uint64 at an absolute byte offset.
func (b *Buffer) OverwriteU64At(offset int, v uint64) error {
	if offset+8 > len(b.data) {
		return newUnderflow(offset, len(b.data), 8)
	}
	b.endian().PutUint64(b.data[offset:], v)
	return nil
}

//=== Peek ===

// PeekU32 returns the uint32 at the current read cursor without advancing
// it. The second return is false if fewer than 4 bytes remain.
func (b *Buffer) PeekU32() (uint32, bool) {
	if b.cursor+4 > len(b.data) {
		return 0, false
	}
	return b.endian().Uint32(b.data[b.cursor:]), true
}

// PeekU8 returns the byte at the current read cursor without advancing it.
func (b *Buffer) PeekU8() (uint8, bool) {
	if b.cursor+1 > len(b.data) {
		return 0, false
	}
	return b.data[b.cursor], true
}

//=== Data access ===

// Bytes returns the full written slice (read-only view; do not mutate).
func (b *Buffer) Bytes() []byte { return b.data }

// Release transfers ownership of the backing slice out of the buffer,
// leaving it empty.
func (b *Buffer) Release() []byte {
	out := b.data
	b.data = nil
	b.cursor = 0
	return out
}
