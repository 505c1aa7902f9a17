package nn

import (
	"fmt"

	"github.com/born-ml/dense/internal/core"
)

// ParameterStore owns a layer's shape metadata and its learnable tensors.
//
// Slots are positional: the weight is always index 0 and the bias, when
// present, index 1. Optimizers and checkpoints rely on that order.
type ParameterStore struct {
	params core.FullyParams
	slots  []*Parameter
	sealed bool
}

// NewParameterStore validates p and declares its weight and bias slots.
func NewParameterStore(p core.FullyParams) (*ParameterStore, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &ParameterStore{params: p}
	if _, err := s.Declare(core.Weight, p.OutSize, p.InSize, true); err != nil {
		return nil, err
	}
	if p.HasBias {
		if _, err := s.Declare(core.Bias, 1, p.OutSize, true); err != nil {
			return nil, err
		}
	}
	s.sealed = true
	return s, nil
}

// Declare registers a new slot. It panics once the store is sealed:
// parameters are never added or resized after construction.
func (s *ParameterStore) Declare(kind core.ParameterKind, rows, cols int, trainable bool) (*Parameter, error) {
	if s.sealed {
		panic(fmt.Sprintf("nn: declare %s after construction", kind))
	}
	if kind == core.Weight && len(s.slots) != 0 {
		panic("nn: weight must be the first declared parameter")
	}
	if kind == core.Bias && len(s.slots) != 1 {
		panic("nn: bias must follow the weight")
	}
	p, err := NewParameter(kind.String(), ParameterSpec{Kind: kind, Rows: rows, Cols: cols, Trainable: trainable})
	if err != nil {
		return nil, err
	}
	s.slots = append(s.slots, p)
	return p, nil
}

// Params returns the layer params. Kernels keep this pointer; it is valid
// as long as the store is.
func (s *ParameterStore) Params() *core.FullyParams {
	return &s.params
}

// Parameters returns the slots in declaration order.
func (s *ParameterStore) Parameters() []*Parameter {
	out := make([]*Parameter, len(s.slots))
	copy(out, s.slots)
	return out
}

// Len returns the number of declared slots.
func (s *ParameterStore) Len() int {
	return len(s.slots)
}

// Weight returns slot 0.
func (s *ParameterStore) Weight() *Parameter {
	return s.slots[0]
}

// Bias returns slot 1, or nil for a bias-free layer.
func (s *ParameterStore) Bias() *Parameter {
	if !s.params.HasBias {
		return nil
	}
	return s.slots[1]
}

// refs returns the slots as kernel-facing references.
func (s *ParameterStore) refs() []core.ParameterRef {
	out := make([]core.ParameterRef, len(s.slots))
	for i, p := range s.slots {
		out[i] = p
	}
	return out
}

// relocate moves the slots into a new store and empties s.
func (s *ParameterStore) relocate() *ParameterStore {
	moved := &ParameterStore{params: s.params, slots: s.slots, sealed: true}
	s.slots = nil
	return moved
}
