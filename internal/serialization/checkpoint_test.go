package serialization

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/dense/internal/tensor"
)

func sampleRecord(t *testing.T) *LayerRecord {
	t.Helper()
	w, err := tensor.FromSlice([]float32{1, 0, 1, 0, 1, 1}, tensor.Shape{2, 3})
	require.NoError(t, err)
	b, err := tensor.FromSlice([]float32{0, 1}, tensor.Shape{2})
	require.NoError(t, err)
	return &LayerRecord{
		LayerType: "fully-connected",
		InSize:    3,
		OutSize:   2,
		HasBias:   true,
		Engine:    "avx",
		Tensors: []NamedTensor{
			{Name: "weight", Tensor: w},
			{Name: "bias", Tensor: b},
		},
	}
}

// frame wraps a raw LayerProto message the way Encode does.
func frame(msg []byte) []byte {
	out := append([]byte(MagicBytes), FormatVersion)
	out = append(out, msg...)
	sum := ComputeChecksum(msg)
	return append(out, sum[:]...)
}

func TestRoundTrip(t *testing.T) {
	rec := sampleRecord(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rec))

	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, rec.LayerType, got.LayerType)
	assert.Equal(t, rec.InSize, got.InSize)
	assert.Equal(t, rec.OutSize, got.OutSize)
	assert.Equal(t, rec.HasBias, got.HasBias)
	assert.Equal(t, rec.Engine, got.Engine)
	require.Len(t, got.Tensors, 2)

	w := got.Tensor("weight")
	require.NotNil(t, w)
	assert.True(t, w.Shape().Equal(tensor.Shape{2, 3}))
	assert.Equal(t, []float32{1, 0, 1, 0, 1, 1}, w.Data())

	b := got.Tensor("bias")
	require.NotNil(t, b)
	assert.True(t, b.Shape().Equal(tensor.Shape{2}))
	assert.Equal(t, []float32{0, 1}, b.Data())

	assert.Nil(t, got.Tensor("missing"))
}

func TestDecode_CorruptionDetection(t *testing.T) {
	data, err := Encode(sampleRecord(t))
	require.NoError(t, err)

	corrupted := bytes.Clone(data)
	corrupted[headerSize+3] ^= 0xFF
	_, err = Decode(corrupted)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestDecode_Header(t *testing.T) {
	data, err := Encode(sampleRecord(t))
	require.NoError(t, err)

	badMagic := bytes.Clone(data)
	badMagic[0] = 'X'
	_, err = Decode(badMagic)
	assert.ErrorIs(t, err, ErrInvalidMagic)

	badVersion := bytes.Clone(data)
	badVersion[len(MagicBytes)] = 9
	_, err = Decode(badVersion)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Decode(data[:10])
	assert.ErrorIs(t, err, ErrInvalidCheckpoint)
}

func TestDecode_UnknownFieldsSkipped(t *testing.T) {
	msg, err := encodeLayer(sampleRecord(t))
	require.NoError(t, err)
	msg = protowire.AppendTag(msg, 99, protowire.BytesType)
	msg = protowire.AppendString(msg, "future field")

	got, err := Decode(frame(msg))
	require.NoError(t, err)
	assert.Equal(t, 3, got.InSize)
}

func TestDecode_RawData(t *testing.T) {
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(1.5))
	binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(-2))

	var tp []byte
	tp = protowire.AppendTag(tp, tensorDimsField, protowire.VarintType)
	tp = protowire.AppendVarint(tp, 2)
	tp = protowire.AppendTag(tp, tensorRawDataField, protowire.BytesType)
	tp = protowire.AppendBytes(tp, raw)
	tp = protowire.AppendTag(tp, tensorNameField, protowire.BytesType)
	tp = protowire.AppendString(tp, "bias")

	var msg []byte
	msg = protowire.AppendTag(msg, layerTensorsField, protowire.BytesType)
	msg = protowire.AppendBytes(msg, tp)

	got, err := Decode(frame(msg))
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, -2}, got.Tensor("bias").Data())
}

func TestDecode_UnsupportedDType(t *testing.T) {
	var tp []byte
	tp = protowire.AppendTag(tp, tensorDimsField, protowire.VarintType)
	tp = protowire.AppendVarint(tp, 1)
	tp = protowire.AppendTag(tp, tensorDataTypeField, protowire.VarintType)
	tp = protowire.AppendVarint(tp, 11) // DOUBLE
	tp = protowire.AppendTag(tp, tensorNameField, protowire.BytesType)
	tp = protowire.AppendString(tp, "weight")

	var msg []byte
	msg = protowire.AppendTag(msg, layerTensorsField, protowire.BytesType)
	msg = protowire.AppendBytes(msg, tp)

	_, err := Decode(frame(msg))
	assert.ErrorIs(t, err, ErrUnsupportedDType)
}

func TestDecode_Truncated(t *testing.T) {
	msg, err := encodeLayer(sampleRecord(t))
	require.NoError(t, err)

	_, err = Decode(frame(msg[:len(msg)-5]))
	require.Error(t, err)
	var de *DecodeError
	assert.True(t, errors.As(err, &de), "got %v", err)
}

func TestEncode_NilTensor(t *testing.T) {
	rec := sampleRecord(t)
	rec.Tensors[1].Tensor = nil
	_, err := Encode(rec)
	assert.ErrorIs(t, err, ErrInvalidCheckpoint)
}
