package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrInvalidCheckpoint  = errors.New("invalid checkpoint")
	ErrUnsupportedDType   = errors.New("unsupported tensor data type")
)

// DecodeError reports where in a message decoding failed.
type DecodeError struct {
	Message string // Message being decoded (e.g., "LayerProto")
	Field   int32  // Field number, 0 if not known
	Err     error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field != 0 {
		return fmt.Sprintf("decode %s field %d: %v", e.Message, e.Field, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
