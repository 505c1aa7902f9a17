package nn

import (
	"fmt"
	"io"

	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/core"
	"github.com/born-ml/dense/internal/serialization"
	"github.com/born-ml/dense/internal/tensor"
)

// StateDict returns a map of parameter names to their tensors, or nil on a
// moved-from layer.
//
// The tensors are the live parameter storage, not copies.
func (l *FullyConnected) StateDict() map[string]*tensor.Tensor {
	slots := l.slots()
	if slots == nil {
		return nil
	}
	stateDict := make(map[string]*tensor.Tensor, len(slots))
	for _, p := range slots {
		stateDict[p.Name()] = p.Tensor()
	}
	return stateDict
}

// LoadStateDict copies parameters from a state dictionary.
//
// Every declared parameter must be present with its exact shape. Nothing
// is copied unless all of them validate.
func (l *FullyConnected) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	slots := l.slots()
	if slots == nil {
		return ErrMovedFrom
	}
	for _, p := range slots {
		src, ok := stateDict[p.Name()]
		if !ok || src == nil {
			return fmt.Errorf("missing %s in state dict", p.Name())
		}
		if !src.Shape().Equal(p.Tensor().Shape()) {
			return fmt.Errorf("%s shape mismatch: expected %v, got %v: %w",
				p.Name(), p.Tensor().Shape(), src.Shape(), tensor.ErrShape)
		}
	}
	for _, p := range slots {
		if err := p.Tensor().CopyFrom(stateDict[p.Name()]); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the layer's configuration and parameters as a checkpoint.
func (l *FullyConnected) Save(w io.Writer) error {
	slots := l.slots()
	if slots == nil {
		return ErrMovedFrom
	}
	rec := &serialization.LayerRecord{
		LayerType: l.LayerType(),
		InSize:    l.FanInSize(),
		OutSize:   l.FanOutSize(),
		HasBias:   l.HasBias(),
		Engine:    l.Engine().String(),
	}
	for _, p := range slots {
		rec.Tensors = append(rec.Tensors, serialization.NamedTensor{Name: p.Name(), Tensor: p.Tensor()})
	}
	return serialization.Write(w, rec)
}

// Load reads a checkpoint written by Save and rebuilds the layer.
//
// The stored engine is used unless opts select another one; bias presence
// always comes from the checkpoint.
func Load(r io.Reader, opts ...Option) (*FullyConnected, error) {
	rec, err := serialization.Read(r)
	if err != nil {
		return nil, err
	}
	if rec.LayerType != LayerTypeFullyConnected {
		return nil, fmt.Errorf("%w: layer type %q, want %q",
			serialization.ErrInvalidCheckpoint, rec.LayerType, LayerTypeFullyConnected)
	}

	if err := checkRecordShapes(rec); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if rec.Engine != "" {
		engine, err := backend.ParseEngine(rec.Engine)
		if err != nil {
			return nil, err
		}
		cfg.Engine = engine
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Bias = rec.HasBias
	cfg.WeightInit = Zeros
	cfg.BiasInit = Zeros

	l, err := NewFullyConnectedWithConfig(rec.InSize, rec.OutSize, cfg)
	if err != nil {
		return nil, err
	}
	stateDict := make(map[string]*tensor.Tensor, len(rec.Tensors))
	for _, nt := range rec.Tensors {
		stateDict[nt.Name] = nt.Tensor
	}
	if err := l.LoadStateDict(stateDict); err != nil {
		return nil, fmt.Errorf("%w: %w", serialization.ErrInvalidCheckpoint, err)
	}
	return l, nil
}

// checkRecordShapes verifies the record's sizes and that every tensor the
// layer declares is present with the matching shape, before any parameter
// storage is allocated.
func checkRecordShapes(rec *serialization.LayerRecord) error {
	params := core.FullyParams{InSize: rec.InSize, OutSize: rec.OutSize, HasBias: rec.HasBias}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", serialization.ErrInvalidCheckpoint, err)
	}
	want := map[string]tensor.Shape{core.Weight.String(): params.WeightShape()}
	if params.HasBias {
		want[core.Bias.String()] = params.BiasShape()
	}
	for name, shape := range want {
		t := rec.Tensor(name)
		if t == nil {
			return fmt.Errorf("%w: missing %s tensor", serialization.ErrInvalidCheckpoint, name)
		}
		if !t.Shape().Equal(shape) || t.NumElements() != shape.NumElements() {
			return fmt.Errorf("%w: %s shape %v, want %v: %w",
				serialization.ErrInvalidCheckpoint, name, t.Shape(), shape, tensor.ErrShape)
		}
	}
	return nil
}
