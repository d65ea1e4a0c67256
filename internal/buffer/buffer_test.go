package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	b := New(Little)
	b.WriteBool(true)
	b.WriteU8(0xAB)
	b.WriteI16(-1234)
	b.WriteU32(0xDEADBEEF)
	b.WriteI64(-9001)
	b.WriteF32(3.5)
	b.WriteF64(2.71828)
	b.WriteString("hello")
	b.WriteShortString("hi")
	b.WriteNullTerminatedString("world")

	gotBool, err := b.ReadBool()
	require.NoError(t, err)
	require.True(t, gotBool)

	gotU8, err := b.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), gotU8)

	gotI16, err := b.ReadI16()
	require.NoError(t, err)
	require.Equal(t, int16(-1234), gotI16)

	gotU32, err := b.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), gotU32)

	gotI64, err := b.ReadI64()
	require.NoError(t, err)
	require.Equal(t, int64(-9001), gotI64)

	gotF32, err := b.ReadF32()
	require.NoError(t, err)
	require.Equal(t, float32(3.5), gotF32)

	gotF64, err := b.ReadF64()
	require.NoError(t, err)
	require.Equal(t, 2.71828, gotF64)

	gotStr, err := b.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hello", gotStr)

	gotShort, err := b.ReadShortString()
	require.NoError(t, err)
	require.Equal(t, "hi", gotShort)

	gotNull, err := b.ReadNullTerminatedString()
	require.NoError(t, err)
	require.Equal(t, "world", gotNull)

	require.False(t, b.HasRemaining())
}

func TestReadPastEndUnderflows(t *testing.T) {
	b := New(Big)
	b.WriteU8(1)

	_, err := b.ReadU8()
	require.NoError(t, err)

	_, err = b.ReadU8()
	require.Error(t, err)
	var underflow *UnderflowError
	require.ErrorAs(t, err, &underflow)
	require.Equal(t, 1, underflow.Cursor)
	require.Equal(t, 1, underflow.Size)
	require.GreaterOrEqual(t, underflow.Cursor+underflow.Requested, underflow.Size)
}

func TestEmptyBufferUnderflows(t *testing.T) {
	b := New(Little)
	require.False(t, b.HasRemaining())
	_, err := b.ReadU32()
	require.Error(t, err)
}

func TestSeekPastEndUnderflows(t *testing.T) {
	b := New(Little)
	b.WriteU8(1)
	err := b.Seek(5)
	require.Error(t, err)
}

func TestLittleVsBigEndian(t *testing.T) {
	le := New(Little)
	le.WriteU32(0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le.Bytes())

	be := New(Big)
	be.WriteU32(0x01020304)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be.Bytes())
}

func TestOverwriteAt(t *testing.T) {
	b := New(Little)
	b.WriteU32(0)
	b.WriteU32(1)
	require.NoError(t, b.OverwriteU32At(0, 0xFFFFFFFF))
	v, ok := b.PeekU32()
	require.True(t, ok)
	require.Equal(t, uint32(0xFFFFFFFF), v)
}

func TestCompactDiscardsConsumedBytes(t *testing.T) {
	b := New(Little)
	b.WriteU8(1)
	b.WriteU8(2)
	b.WriteU8(3)
	_, _ = b.ReadU8()
	b.Compact()
	require.Equal(t, 0, b.GetReadCursor())
	require.Equal(t, []byte{2, 3}, b.Bytes())
}

func TestReleaseTransfersOwnership(t *testing.T) {
	b := New(Little)
	b.WriteU8(9)
	out := b.Release()
	require.Equal(t, []byte{9}, out)
	require.Equal(t, 0, b.WrittenBytes())
}
