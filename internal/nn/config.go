package nn

import (
	"log/slog"

	"github.com/born-ml/dense/internal/backend"
)

// Config controls how a FullyConnected layer is built.
type Config struct {
	Bias        bool           // Whether to add a bias vector.
	Parallelize bool           // Allow kernels to split batch rows across goroutines.
	Engine      backend.Engine // Numeric engine; unsupported engines fail construction.
	WeightInit  Initializer    // Weight initializer (Xavier by default).
	BiasInit    Initializer    // Bias initializer (zeros by default).
	Logger      *slog.Logger   // Nil means slog.Default().
}

// DefaultConfig returns bias enabled, parallelism enabled and the default
// engine.
func DefaultConfig() Config {
	return Config{
		Bias:        true,
		Parallelize: true,
		Engine:      backend.DefaultEngine(),
		WeightInit:  Xavier,
		BiasInit:    Zeros,
	}
}

// Option mutates a Config.
type Option func(*Config)

// WithBias enables or disables the bias vector.
func WithBias(enabled bool) Option {
	return func(c *Config) { c.Bias = enabled }
}

// WithEngine selects the numeric engine.
func WithEngine(e backend.Engine) Option {
	return func(c *Config) { c.Engine = e }
}

// WithParallelize sets the parallelism hint.
func WithParallelize(enabled bool) Option {
	return func(c *Config) { c.Parallelize = enabled }
}

// WithWeightInit sets the weight initializer.
func WithWeightInit(init Initializer) Option {
	return func(c *Config) { c.WeightInit = init }
}

// WithBiasInit sets the bias initializer.
func WithBiasInit(init Initializer) Option {
	return func(c *Config) { c.BiasInit = init }
}

// WithLogger sets the logger used for engine selection events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
