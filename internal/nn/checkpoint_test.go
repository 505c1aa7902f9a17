package nn_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/dense/internal/backend"
	"github.com/born-ml/dense/internal/nn"
	"github.com/born-ml/dense/internal/serialization"
	"github.com/born-ml/dense/internal/tensor"
)

func TestFullyConnected_SaveLoad(t *testing.T) {
	l := scenarioLayer(t, backend.AVX)

	var buf bytes.Buffer
	require.NoError(t, l.Save(&buf))

	loaded, err := nn.Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, backend.AVX, loaded.Engine())
	assert.Equal(t, 3, loaded.FanInSize())
	assert.Equal(t, 2, loaded.FanOutSize())
	assert.True(t, loaded.HasBias())
	assert.Equal(t, l.Weight().Tensor().Data(), loaded.Weight().Tensor().Data())
	assert.Equal(t, l.Bias().Tensor().Data(), loaded.Bias().Tensor().Data())

	out, err := loaded.Apply(mustTensor(t, []float32{1, 2, 3}, tensor.Shape{1, 3}))
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 6}, out.Data())
}

func TestFullyConnected_LoadEngineOverride(t *testing.T) {
	l, err := nn.NewFullyConnected(4, 2, nn.WithBias(false))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, l.Save(&buf))

	// Bias presence comes from the checkpoint even if options disagree.
	loaded, err := nn.Load(&buf, nn.WithEngine(backend.NNPACK), nn.WithBias(true))
	require.NoError(t, err)
	assert.Equal(t, backend.NNPACK, loaded.Engine())
	assert.False(t, loaded.HasBias())
	assert.Len(t, loaded.Parameters(), 1)
	assert.Equal(t, l.Weight().Tensor().Data(), loaded.Weight().Tensor().Data())
}

func TestFullyConnected_LoadRejectsBadCheckpoints(t *testing.T) {
	_, err := nn.Load(bytes.NewReader([]byte("not a checkpoint at all, definitely not")))
	assert.ErrorIs(t, err, serialization.ErrInvalidMagic)

	var buf bytes.Buffer
	require.NoError(t, serialization.Write(&buf, &serialization.LayerRecord{LayerType: "conv", InSize: 1, OutSize: 1}))
	_, err = nn.Load(&buf)
	assert.ErrorIs(t, err, serialization.ErrInvalidCheckpoint)

	buf.Reset()
	require.NoError(t, serialization.Write(&buf, &serialization.LayerRecord{
		LayerType: nn.LayerTypeFullyConnected, InSize: 2, OutSize: 2,
	}))
	_, err = nn.Load(&buf)
	assert.ErrorIs(t, err, serialization.ErrInvalidCheckpoint)

	buf.Reset()
	require.NoError(t, serialization.Write(&buf, &serialization.LayerRecord{
		LayerType: nn.LayerTypeFullyConnected, InSize: 2, OutSize: 2, Engine: "opencl",
		Tensors: []serialization.NamedTensor{{Name: "weight", Tensor: tensor.Zeros(tensor.Shape{2, 2})}},
	}))
	_, err = nn.Load(&buf)
	assert.ErrorIs(t, err, backend.ErrUnsupportedEngine)
}

func TestFullyConnected_LoadRejectsOversizedRecords(t *testing.T) {
	tests := []struct {
		name    string
		rec     serialization.LayerRecord
		wantErr error
	}{
		{
			name: "element count overflow",
			rec: serialization.LayerRecord{
				LayerType: nn.LayerTypeFullyConnected, InSize: 1 << 32, OutSize: 1 << 32,
			},
			wantErr: tensor.ErrShape,
		},
		{
			// 1<<20 x 1<<20 weights would need 4 TiB; the record only
			// carries a 2x2 tensor and must fail before allocating.
			name: "declared sizes larger than stored weight",
			rec: serialization.LayerRecord{
				LayerType: nn.LayerTypeFullyConnected, InSize: 1 << 20, OutSize: 1 << 20,
				Tensors: []serialization.NamedTensor{{Name: "weight", Tensor: tensor.Zeros(tensor.Shape{2, 2})}},
			},
			wantErr: tensor.ErrShape,
		},
		{
			name: "missing bias tensor",
			rec: serialization.LayerRecord{
				LayerType: nn.LayerTypeFullyConnected, InSize: 2, OutSize: 2, HasBias: true,
				Tensors: []serialization.NamedTensor{{Name: "weight", Tensor: tensor.Zeros(tensor.Shape{2, 2})}},
			},
			wantErr: serialization.ErrInvalidCheckpoint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, serialization.Write(&buf, &tt.rec))

			l, err := nn.Load(&buf)
			require.ErrorIs(t, err, serialization.ErrInvalidCheckpoint)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, l)
		})
	}
}

func TestFullyConnected_StateDict(t *testing.T) {
	l := scenarioLayer(t, backend.Internal)

	sd := l.StateDict()
	require.Len(t, sd, 2)
	assert.Same(t, l.Weight().Tensor(), sd["weight"])
	assert.Same(t, l.Bias().Tensor(), sd["bias"])

	other, err := nn.NewFullyConnected(3, 2)
	require.NoError(t, err)
	require.NoError(t, other.LoadStateDict(sd))
	assert.Equal(t, []float32{1, 0, 1, 0, 1, 1}, other.Weight().Tensor().Data())
	assert.NotSame(t, sd["weight"], other.Weight().Tensor())

	before := other.Weight().Tensor().Clone()
	err = other.LoadStateDict(map[string]*tensor.Tensor{
		"weight": tensor.Zeros(tensor.Shape{2, 3}),
		"bias":   tensor.Zeros(tensor.Shape{3}),
	})
	require.ErrorIs(t, err, tensor.ErrShape)
	assert.Equal(t, before.Data(), other.Weight().Tensor().Data(), "nothing copied on error")

	err = other.LoadStateDict(map[string]*tensor.Tensor{"weight": tensor.Zeros(tensor.Shape{2, 3})})
	assert.Error(t, err)
}

func TestMSELoss(t *testing.T) {
	p := mustTensor(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	y := mustTensor(t, []float32{1, 0, 3, 2}, tensor.Shape{2, 2})

	loss, grad, err := nn.MSELoss(p, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, loss, 1e-6)
	assert.Equal(t, []float32{0, 1, 0, 1}, grad.Data())

	_, _, err = nn.MSELoss(p, tensor.Zeros(tensor.Shape{4}))
	assert.ErrorIs(t, err, tensor.ErrShape)
}
