package nn

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/core"
	"github.com/born-ml/dense/internal/tensor"
)

// LayerTypeFullyConnected is the type tag of FullyConnected.
const LayerTypeFullyConnected = "fully-connected"

// FullyConnected implements a dense layer.
//
// Performs, for every batch row: out = W · in + b
// where:
//   - in is a row of the input tensor, shape [batch, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the optional bias vector with shape [out_features]
//   - out is a row of the output tensor, shape [batch, out_features]
//
// The arithmetic runs in kernels picked once from the configured engine.
// Each call builds its own kernel context, so concurrent Forward calls on
// one layer are safe. Backward calls are serialized on the layer because
// they accumulate into shared gradient tensors. SetEngine, SetParallelize
// and Move may run alongside them; a call in flight keeps the binding it
// started with.
//
// Example:
//
//	layer, err := nn.NewFullyConnected(784, 128, nn.WithEngine(backend.AVX))
//	if err != nil {
//	    return err
//	}
//	out := tensor.Zeros(tensor.Shape{32, 128})
//	err = layer.Forward(x, out) // x: [32, 784]
type FullyConnected struct {
	store       *ParameterStore
	device      *backend.Device
	kernels     core.KernelPair
	parallelize bool
	logger      *slog.Logger

	// mu guards device, kernels, parallelize and moved.
	mu     sync.RWMutex
	gradMu sync.Mutex
	moved  bool
}

// binding is the state one Forward or Backward call runs against.
type binding struct {
	kernels     core.KernelPair
	device      *backend.Device
	parallelize bool
	params      []core.ParameterRef
}

func (l *FullyConnected) bind() (binding, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.moved {
		return binding{}, ErrMovedFrom
	}
	return binding{
		kernels:     l.kernels,
		device:      l.device,
		parallelize: l.parallelize,
		params:      l.store.refs(),
	}, nil
}

var _ Layer = (*FullyConnected)(nil)

// NewFullyConnected creates a layer with DefaultConfig adjusted by opts.
func NewFullyConnected(inFeatures, outFeatures int, opts ...Option) (*FullyConnected, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewFullyConnectedWithConfig(inFeatures, outFeatures, cfg)
}

// NewFullyConnectedWithConfig creates a layer from an explicit config.
//
// Returns core.ErrInvalidConfig for non-positive sizes and
// backend.ErrUnsupportedEngine when the engine has no kernels. On error no
// layer is returned.
func NewFullyConnectedWithConfig(inFeatures, outFeatures int, cfg Config) (*FullyConnected, error) {
	store, err := NewParameterStore(core.FullyParams{
		InSize:  inFeatures,
		OutSize: outFeatures,
		HasBias: cfg.Bias,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LayerTypeFullyConnected, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	l := &FullyConnected{
		store:       store,
		parallelize: cfg.Parallelize,
		logger:      logger,
	}
	if err := l.initBackend(cfg.Engine); err != nil {
		return nil, err
	}

	weightInit := cfg.WeightInit
	if weightInit == nil {
		weightInit = Xavier
	}
	weightInit(inFeatures, outFeatures, store.Weight().Tensor().Data())
	if b := store.Bias(); b != nil {
		biasInit := cfg.BiasInit
		if biasInit == nil {
			biasInit = Zeros
		}
		biasInit(inFeatures, outFeatures, b.Tensor().Data())
	}
	return l, nil
}

// initBackend selects kernels for engine bound to the current store. The
// layer is left untouched if selection fails. Callers hold l.mu or own l
// exclusively.
func (l *FullyConnected) initBackend(engine backend.Engine) error {
	device := backend.NewDevice(engine)
	kernels, err := core.SelectFullyConnected(engine, core.OpKernelConstruction{
		Device: device,
		Params: l.store.Params(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", LayerTypeFullyConnected, err)
	}
	l.device = device
	l.kernels = kernels
	l.logger.Debug("fully-connected kernels selected",
		"engine", engine.String(),
		"family", core.FamilyName(engine),
		"in", l.store.params.InSize,
		"out", l.store.params.OutSize,
		"bias", l.store.params.HasBias)
	return nil
}

// Forward computes out = W·in + b for every row of in.
//
// in must be [batch, in_features] and out [batch, out_features]; out is
// overwritten. Shape mismatches are reported before anything is written.
func (l *FullyConnected) Forward(in, out *tensor.Tensor) error {
	b, err := l.bind()
	if err != nil {
		return err
	}
	ctx := core.NewOpKernelContext()
	ctx.SetInOut([]*tensor.Tensor{in}, []*tensor.Tensor{out})
	ctx.SetParallelize(b.parallelize)
	ctx.SetDevice(b.device)
	ctx.SetParameters(b.params)

	if err := b.kernels.Forward.Compute(ctx); err != nil {
		return fmt.Errorf("%s forward: %w", LayerTypeFullyConnected, err)
	}
	return nil
}

// Apply is Forward with a freshly allocated output tensor.
func (l *FullyConnected) Apply(in *tensor.Tensor) (*tensor.Tensor, error) {
	if in == nil {
		return nil, fmt.Errorf("%s forward: %w: missing input tensor", LayerTypeFullyConnected, tensor.ErrShape)
	}
	out, err := tensor.New(tensor.Shape{in.Rows(), l.FanOutSize()})
	if err != nil {
		return nil, err
	}
	if err := l.Forward(in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Backward overwrites inGrad with Wᵀ·outGrad and accumulates dL/dW and
// dL/db into the parameters' gradient tensors.
//
// out is accepted for interface symmetry and may be nil; its values are
// never read. Gradients keep accumulating across calls until ZeroGrad.
func (l *FullyConnected) Backward(in, out, outGrad, inGrad *tensor.Tensor) error {
	l.gradMu.Lock()
	defer l.gradMu.Unlock()

	b, err := l.bind()
	if err != nil {
		return err
	}
	ctx := core.NewOpKernelContext()
	ctx.SetInOutGrad(
		[]*tensor.Tensor{in},
		[]*tensor.Tensor{out},
		[]*tensor.Tensor{outGrad},
		[]*tensor.Tensor{inGrad},
	)
	ctx.SetParallelize(b.parallelize)
	ctx.SetDevice(b.device)
	ctx.SetParameters(b.params)

	if err := b.kernels.Backward.Compute(ctx); err != nil {
		return fmt.Errorf("%s backward: %w", LayerTypeFullyConnected, err)
	}
	return nil
}

// ZeroGrad clears every parameter gradient. It is a no-op on a moved-from
// layer.
func (l *FullyConnected) ZeroGrad() {
	l.gradMu.Lock()
	defer l.gradMu.Unlock()
	for _, p := range l.slots() {
		p.ZeroGrad()
	}
}

// slots returns the parameter slots, or nil once the layer was moved.
func (l *FullyConnected) slots() []*Parameter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.moved {
		return nil
	}
	return l.store.Parameters()
}

// SetEngine reselects kernels for engine. On error the layer keeps its
// current engine and kernels.
func (l *FullyConnected) SetEngine(engine backend.Engine) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.moved {
		return ErrMovedFrom
	}
	return l.initBackend(engine)
}

// SetParallelize sets the parallelism hint passed to kernels. It is a
// no-op on a moved-from layer.
func (l *FullyConnected) SetParallelize(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.moved {
		return
	}
	l.parallelize = enabled
}

// Move relocates the layer: the returned layer owns the parameters and
// gets kernels rebound to its own store. The receiver becomes unusable:
// calls that can fail return ErrMovedFrom and accessors return nil.
//
// A Backward already running on the receiver finishes against the
// parameters, which the returned layer now owns.
func (l *FullyConnected) Move() (*FullyConnected, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.moved {
		return nil, ErrMovedFrom
	}
	moved := &FullyConnected{
		store:       l.store.relocate(),
		parallelize: l.parallelize,
		logger:      l.logger,
	}
	if err := moved.initBackend(l.device.Engine()); err != nil {
		return nil, err
	}

	l.moved = true
	l.kernels = core.KernelPair{}
	l.logger.Debug("fully-connected layer moved", "engine", moved.device.Engine().String())
	return moved, nil
}

// Moved reports whether the layer's state was relocated.
func (l *FullyConnected) Moved() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.moved
}

// LayerType returns "fully-connected".
func (l *FullyConnected) LayerType() string {
	return LayerTypeFullyConnected
}

// FanInSize returns the number of input features.
func (l *FullyConnected) FanInSize() int {
	return l.store.params.InSize
}

// FanOutSize returns the number of output features.
func (l *FullyConnected) FanOutSize() int {
	return l.store.params.OutSize
}

// InShape returns [(in_features, 1, 1)].
func (l *FullyConnected) InShape() []tensor.Shape3D {
	return []tensor.Shape3D{tensor.NewShape3D(l.store.params.InSize, 1, 1)}
}

// OutShape returns [(out_features, 1, 1)].
func (l *FullyConnected) OutShape() []tensor.Shape3D {
	return []tensor.Shape3D{tensor.NewShape3D(l.store.params.OutSize, 1, 1)}
}

// HasBias reports whether the layer has a bias vector.
func (l *FullyConnected) HasBias() bool {
	return l.store.params.HasBias
}

// Engine returns the engine the kernels were selected for. A moved-from
// layer reports the engine it had when it was moved.
func (l *FullyConnected) Engine() backend.Engine {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.device.Engine()
}

// Device returns the device handle passed to kernels.
func (l *FullyConnected) Device() *backend.Device {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.device
}

// Parallelize reports the parallelism hint.
func (l *FullyConnected) Parallelize() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.parallelize
}

// Parameters returns [weight, bias] if bias is present, otherwise [weight].
// A moved-from layer returns nil.
func (l *FullyConnected) Parameters() []*Parameter {
	return l.slots()
}

// Weight returns the weight parameter, or nil on a moved-from layer.
func (l *FullyConnected) Weight() *Parameter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.moved {
		return nil
	}
	return l.store.Weight()
}

// Bias returns the bias parameter, or nil when disabled or moved.
func (l *FullyConnected) Bias() *Parameter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.moved {
		return nil
	}
	return l.store.Bias()
}

