package buffer

import (
	"testing"
	"time"

	"github.com/mudformat/mud/endian"
	"github.com/mudformat/mud/muderr"
	"github.com/stretchr/testify/require"
)

func TestBuffer_PrimitivesRoundTrip(t *testing.T) {
	for _, eng := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		w := New(eng)
		w.WriteU16(0xBEEF)
		w.WriteI16(-1234)
		w.WriteU32(0xDEADBEEF)
		w.WriteI32(-123456)
		w.WriteF64(3.14159265)
		ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		w.WriteTime(ts)
		require.NoError(t, w.WriteStr("Sample calibration"))
		w.WriteRaw([]byte{1, 2, 3, 4})

		r := NewReader(eng, w.Bytes())

		u16, err := r.ReadU16()
		require.NoError(t, err)
		require.Equal(t, uint16(0xBEEF), u16)

		i16, err := r.ReadI16()
		require.NoError(t, err)
		require.Equal(t, int16(-1234), i16)

		u32, err := r.ReadU32()
		require.NoError(t, err)
		require.Equal(t, uint32(0xDEADBEEF), u32)

		i32, err := r.ReadI32()
		require.NoError(t, err)
		require.Equal(t, int32(-123456), i32)

		f64, err := r.ReadF64()
		require.NoError(t, err)
		require.InDelta(t, 3.14159265, f64, 1e-12)

		gotTime, err := r.ReadTime()
		require.NoError(t, err)
		require.Equal(t, ts.Unix(), gotTime.Unix())

		str, err := r.ReadStr()
		require.NoError(t, err)
		require.Equal(t, "Sample calibration", str)

		raw, err := r.ReadRaw(4)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3, 4}, raw)

		require.Equal(t, 0, r.Remaining())
	}
}

func TestBuffer_EmptyString(t *testing.T) {
	w := New(endian.GetLittleEndianEngine())
	require.NoError(t, w.WriteStr(""))

	r := NewReader(endian.GetLittleEndianEngine(), w.Bytes())
	s, err := r.ReadStr()
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestBuffer_OverreadReturnsCorruptSection(t *testing.T) {
	r := NewReader(endian.GetLittleEndianEngine(), []byte{1, 2})
	_, err := r.ReadU32()
	require.ErrorIs(t, err, muderr.ErrCorruptSection)
}

func TestBuffer_StringLengthExceedsRemainingPayload(t *testing.T) {
	// Declares a 10-byte string but only provides 2 bytes of payload.
	w := New(endian.GetLittleEndianEngine())
	w.WriteU16(10)
	w.WriteRaw([]byte{1, 2})

	r := NewReader(endian.GetLittleEndianEngine(), w.Bytes())
	_, err := r.ReadStr()
	require.ErrorIs(t, err, muderr.ErrCorruptSection)
}

func TestBuffer_SeekAndPos(t *testing.T) {
	w := New(endian.GetLittleEndianEngine())
	w.WriteU32(1)
	w.WriteU32(2)

	r := NewReader(endian.GetLittleEndianEngine(), w.Bytes())
	require.Equal(t, 0, r.Pos())
	_, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, 4, r.Pos())

	r.Seek(0)
	v, err := r.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)
}

func TestBuffer_WriteStrTooLong(t *testing.T) {
	w := New(endian.GetLittleEndianEngine())
	long := make([]byte, MaxStringLength+1)
	err := w.WriteStr(string(long))
	require.ErrorIs(t, err, muderr.ErrInvalidInput)
}
