package serialization

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/dense/internal/tensor"
)

// Format constants.
const (
	MagicBytes    = "BDFC"
	FormatVersion = 1
	ChecksumSize  = 32 // SHA-256 checksum size (32 bytes)
	headerSize    = len(MagicBytes) + 1
)

// LayerProto field numbers.
const (
	layerTypeField    protowire.Number = 1
	layerInSizeField  protowire.Number = 2
	layerOutSizeField protowire.Number = 3
	layerHasBiasField protowire.Number = 4
	layerEngineField  protowire.Number = 5
	layerTensorsField protowire.Number = 6
)

// TensorProto field numbers, as in onnx.proto.
const (
	tensorDimsField      protowire.Number = 1
	tensorDataTypeField  protowire.Number = 2
	tensorFloatDataField protowire.Number = 4
	tensorNameField      protowire.Number = 8
	tensorRawDataField   protowire.Number = 9
)

// onnxFloat is TensorProto.DataType.FLOAT.
const onnxFloat = 1

// NamedTensor is one parameter tensor in a checkpoint.
type NamedTensor struct {
	Name   string
	Tensor *tensor.Tensor
}

// LayerRecord is the decoded form of a layer checkpoint.
type LayerRecord struct {
	LayerType string
	InSize    int
	OutSize   int
	HasBias   bool
	Engine    string
	Tensors   []NamedTensor
}

// Tensor returns the tensor called name, or nil.
func (r *LayerRecord) Tensor(name string) *tensor.Tensor {
	for _, nt := range r.Tensors {
		if nt.Name == name {
			return nt.Tensor
		}
	}
	return nil
}
