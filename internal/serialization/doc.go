// Package serialization saves and loads layer checkpoints.
//
// A checkpoint is a protobuf message framed by a magic header and a
// SHA-256 trailer:
//
//	[4 bytes: Magic "BDFC"]
//	[1 byte:  Version]
//	[LayerProto message]
//	[32 bytes: SHA-256 of the message]
//
// LayerProto fields:
//
//	1 layer_type  string
//	2 in_size     uint64
//	3 out_size    uint64
//	4 has_bias    bool
//	5 engine      string
//	6 tensors     repeated TensorProto
//
// TensorProto uses ONNX field numbers (dims=1, data_type=2, float_data=4,
// name=8) so initializers can be lifted into ONNX graphs unchanged.
//
// Example usage:
//
//	rec := &serialization.LayerRecord{LayerType: "fully-connected", InSize: 3, OutSize: 2}
//	if err := serialization.Write(f, rec); err != nil {
//	    log.Fatal(err)
//	}
//	rec, err := serialization.Read(f)
package serialization
