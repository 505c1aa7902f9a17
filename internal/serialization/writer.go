package serialization

import (
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Encode serializes rec into a framed, checksummed checkpoint.
func Encode(rec *LayerRecord) ([]byte, error) {
	msg, err := encodeLayer(rec)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, headerSize+len(msg)+ChecksumSize)
	out = append(out, MagicBytes...)
	out = append(out, FormatVersion)
	out = append(out, msg...)
	sum := ComputeChecksum(msg)
	return append(out, sum[:]...), nil
}

// Write encodes rec to w.
func Write(w io.Writer, rec *LayerRecord) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

func encodeLayer(rec *LayerRecord) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, layerTypeField, protowire.BytesType)
	b = protowire.AppendString(b, rec.LayerType)
	b = protowire.AppendTag(b, layerInSizeField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rec.InSize))
	b = protowire.AppendTag(b, layerOutSizeField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rec.OutSize))
	b = protowire.AppendTag(b, layerHasBiasField, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(rec.HasBias))
	if rec.Engine != "" {
		b = protowire.AppendTag(b, layerEngineField, protowire.BytesType)
		b = protowire.AppendString(b, rec.Engine)
	}
	for _, nt := range rec.Tensors {
		if nt.Tensor == nil {
			return nil, fmt.Errorf("%w: tensor %q is nil", ErrInvalidCheckpoint, nt.Name)
		}
		b = protowire.AppendTag(b, layerTensorsField, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeTensor(nt))
	}
	return b, nil
}

func encodeTensor(nt NamedTensor) []byte {
	var dims []byte
	for _, d := range nt.Tensor.Shape() {
		dims = protowire.AppendVarint(dims, uint64(d))
	}
	data := nt.Tensor.Data()
	floats := make([]byte, 0, 4*len(data))
	for _, v := range data {
		floats = protowire.AppendFixed32(floats, math.Float32bits(v))
	}

	var m []byte
	m = protowire.AppendTag(m, tensorDimsField, protowire.BytesType)
	m = protowire.AppendBytes(m, dims)
	m = protowire.AppendTag(m, tensorDataTypeField, protowire.VarintType)
	m = protowire.AppendVarint(m, onnxFloat)
	m = protowire.AppendTag(m, tensorFloatDataField, protowire.BytesType)
	m = protowire.AppendBytes(m, floats)
	m = protowire.AppendTag(m, tensorNameField, protowire.BytesType)
	m = protowire.AppendString(m, nt.Name)
	return m
}
