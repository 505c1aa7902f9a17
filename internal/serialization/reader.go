package serialization

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/dense/internal/tensor"
)

// Decode parses a checkpoint produced by Encode, verifying the magic,
// version and checksum before decoding the message.
func Decode(data []byte) (*LayerRecord, error) {
	if len(data) < headerSize+ChecksumSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrInvalidCheckpoint, len(data))
	}
	if string(data[:len(MagicBytes)]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	if v := data[len(MagicBytes)]; v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	msg := data[headerSize : len(data)-ChecksumSize]
	var stored [32]byte
	copy(stored[:], data[len(data)-ChecksumSize:])
	if err := ValidateChecksum(ComputeChecksum(msg), stored); err != nil {
		return nil, err
	}
	return decodeLayer(msg)
}

// Read reads a whole checkpoint from r and decodes it.
func Read(r io.Reader) (*LayerRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return Decode(data)
}

// fieldReader walks the fields of one protobuf message.
type fieldReader struct {
	message string
	b       []byte
	num     protowire.Number
	typ     protowire.Type
}

func (f *fieldReader) fail(n int) error {
	return &DecodeError{Message: f.message, Field: int32(f.num), Err: protowire.ParseError(n)}
}

func (f *fieldReader) next() (bool, error) {
	if len(f.b) == 0 {
		return false, nil
	}
	num, typ, n := protowire.ConsumeTag(f.b)
	if n < 0 {
		return false, f.fail(n)
	}
	f.num, f.typ = num, typ
	f.b = f.b[n:]
	return true, nil
}

func (f *fieldReader) varint() (uint64, error) {
	v, n := protowire.ConsumeVarint(f.b)
	if n < 0 {
		return 0, f.fail(n)
	}
	f.b = f.b[n:]
	return v, nil
}

func (f *fieldReader) bytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(f.b)
	if n < 0 {
		return nil, f.fail(n)
	}
	f.b = f.b[n:]
	return v, nil
}

func (f *fieldReader) fixed32() (uint32, error) {
	v, n := protowire.ConsumeFixed32(f.b)
	if n < 0 {
		return 0, f.fail(n)
	}
	f.b = f.b[n:]
	return v, nil
}

func (f *fieldReader) skip() error {
	n := protowire.ConsumeFieldValue(f.num, f.typ, f.b)
	if n < 0 {
		return f.fail(n)
	}
	f.b = f.b[n:]
	return nil
}

func decodeLayer(b []byte) (*LayerRecord, error) {
	rec := &LayerRecord{}
	f := &fieldReader{message: "LayerProto", b: b}
	for {
		ok, err := f.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rec, nil
		}

		switch {
		case f.num == layerTypeField && f.typ == protowire.BytesType:
			v, err := f.bytes()
			if err != nil {
				return nil, err
			}
			rec.LayerType = string(v)
		case f.num == layerInSizeField && f.typ == protowire.VarintType:
			v, err := f.varint()
			if err != nil {
				return nil, err
			}
			rec.InSize = int(v)
		case f.num == layerOutSizeField && f.typ == protowire.VarintType:
			v, err := f.varint()
			if err != nil {
				return nil, err
			}
			rec.OutSize = int(v)
		case f.num == layerHasBiasField && f.typ == protowire.VarintType:
			v, err := f.varint()
			if err != nil {
				return nil, err
			}
			rec.HasBias = protowire.DecodeBool(v)
		case f.num == layerEngineField && f.typ == protowire.BytesType:
			v, err := f.bytes()
			if err != nil {
				return nil, err
			}
			rec.Engine = string(v)
		case f.num == layerTensorsField && f.typ == protowire.BytesType:
			v, err := f.bytes()
			if err != nil {
				return nil, err
			}
			nt, err := decodeTensor(v)
			if err != nil {
				return nil, err
			}
			rec.Tensors = append(rec.Tensors, nt)
		default:
			if err := f.skip(); err != nil {
				return nil, err
			}
		}
	}
}

func decodeTensor(b []byte) (NamedTensor, error) {
	var (
		name     string
		dims     tensor.Shape
		dataType uint64 = onnxFloat
		data     []float32
	)
	f := &fieldReader{message: "TensorProto", b: b}
	for {
		ok, err := f.next()
		if err != nil {
			return NamedTensor{}, err
		}
		if !ok {
			break
		}

		switch {
		case f.num == tensorDimsField && f.typ == protowire.BytesType:
			packed, err := f.bytes()
			if err != nil {
				return NamedTensor{}, err
			}
			pf := &fieldReader{message: "TensorProto.dims", b: packed, num: tensorDimsField}
			for len(pf.b) > 0 {
				v, err := pf.varint()
				if err != nil {
					return NamedTensor{}, err
				}
				dims = append(dims, int(v))
			}
		case f.num == tensorDimsField && f.typ == protowire.VarintType:
			v, err := f.varint()
			if err != nil {
				return NamedTensor{}, err
			}
			dims = append(dims, int(v))
		case f.num == tensorDataTypeField && f.typ == protowire.VarintType:
			if dataType, err = f.varint(); err != nil {
				return NamedTensor{}, err
			}
		case f.num == tensorFloatDataField && f.typ == protowire.BytesType:
			packed, err := f.bytes()
			if err != nil {
				return NamedTensor{}, err
			}
			pf := &fieldReader{message: "TensorProto.float_data", b: packed, num: tensorFloatDataField}
			for len(pf.b) > 0 {
				v, err := pf.fixed32()
				if err != nil {
					return NamedTensor{}, err
				}
				data = append(data, math.Float32frombits(v))
			}
		case f.num == tensorFloatDataField && f.typ == protowire.Fixed32Type:
			v, err := f.fixed32()
			if err != nil {
				return NamedTensor{}, err
			}
			data = append(data, math.Float32frombits(v))
		case f.num == tensorRawDataField && f.typ == protowire.BytesType:
			raw, err := f.bytes()
			if err != nil {
				return NamedTensor{}, err
			}
			if len(raw)%4 != 0 {
				return NamedTensor{}, &DecodeError{Message: "TensorProto", Field: int32(tensorRawDataField),
					Err: fmt.Errorf("%w: raw_data length %d", ErrInvalidCheckpoint, len(raw))}
			}
			for i := 0; i < len(raw); i += 4 {
				data = append(data, math.Float32frombits(binary.LittleEndian.Uint32(raw[i:])))
			}
		case f.num == tensorNameField && f.typ == protowire.BytesType:
			v, err := f.bytes()
			if err != nil {
				return NamedTensor{}, err
			}
			name = string(v)
		default:
			if err := f.skip(); err != nil {
				return NamedTensor{}, err
			}
		}
	}

	if dataType != onnxFloat {
		return NamedTensor{}, fmt.Errorf("%w: tensor %q has type %d", ErrUnsupportedDType, name, dataType)
	}
	t, err := tensor.FromSlice(data, dims)
	if err != nil {
		return NamedTensor{}, fmt.Errorf("%w: tensor %q: %w", ErrInvalidCheckpoint, name, err)
	}
	return NamedTensor{Name: name, Tensor: t}, nil
}
